package entity

import (
	"time"

	"github.com/google/uuid"
)

// Preference is one persisted key/value slot of a profile (e.g. "selectedProducts").
type Preference struct {
	ProfileId uuid.UUID
	Key       string
	Value     []byte
	UpdatedAt *time.Time
}
