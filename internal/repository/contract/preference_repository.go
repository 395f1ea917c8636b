package contract

import (
	"context"

	"routine-advisor-be/internal/entity"

	"github.com/google/uuid"
)

// PreferenceRepository stores per-profile key/value slots.
// FindOne returns (nil, nil) when the slot was never written.
type PreferenceRepository interface {
	FindOne(ctx context.Context, profileId uuid.UUID, key string) (*entity.Preference, error)
	Upsert(ctx context.Context, preference *entity.Preference) error
	DeleteAllByProfileId(ctx context.Context, profileId uuid.UUID) error
}
