package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByProfile struct {
	ProfileID uuid.UUID
}

func (s ByProfile) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("profile_id = ?", s.ProfileID)
}

type ByKey struct {
	Key string
}

func (s ByKey) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("key = ?", s.Key)
}
