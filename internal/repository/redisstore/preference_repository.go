package redisstore

import (
	"context"
	"errors"
	"time"

	"routine-advisor-be/internal/entity"
	"routine-advisor-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// PreferenceRepository keeps each profile's preferences in one redis hash.
type PreferenceRepository struct {
	rdb *redis.Client
}

var _ contract.PreferenceRepository = &PreferenceRepository{}

func NewPreferenceRepository(rdb *redis.Client) *PreferenceRepository {
	return &PreferenceRepository{rdb: rdb}
}

func profileHash(profileId uuid.UUID) string {
	return "advisor:profile:" + profileId.String()
}

func (r *PreferenceRepository) FindOne(ctx context.Context, profileId uuid.UUID, key string) (*entity.Preference, error) {
	value, err := r.rdb.HGet(ctx, profileHash(profileId), key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return &entity.Preference{ProfileId: profileId, Key: key, Value: value}, nil
}

func (r *PreferenceRepository) Upsert(ctx context.Context, preference *entity.Preference) error {
	if err := r.rdb.HSet(ctx, profileHash(preference.ProfileId), preference.Key, preference.Value).Err(); err != nil {
		return err
	}
	now := time.Now()
	preference.UpdatedAt = &now
	return nil
}

func (r *PreferenceRepository) DeleteAllByProfileId(ctx context.Context, profileId uuid.UUID) error {
	return r.rdb.Del(ctx, profileHash(profileId)).Err()
}
