package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewGormDBRejectsEmptyDSN(t *testing.T) {
	db, err := NewGormDBFromDSN("")
	assert.ErrorIs(t, err, ErrMissingDSN)
	assert.Nil(t, db)
}
