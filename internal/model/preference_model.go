package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Preference struct {
	ProfileId uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Key       string         `gorm:"type:varchar(64);primaryKey"`
	Value     datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

func (Preference) TableName() string {
	return "profile_preferences"
}
