package memory

import (
	"context"
	"strings"
	"time"

	"routine-advisor-be/internal/entity"
	"routine-advisor-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// PreferenceRepository keeps preferences in process memory. Used by STORE_BACKEND=memory
// and by tests.
type PreferenceRepository struct {
	cache *cache.Cache
}

var _ contract.PreferenceRepository = &PreferenceRepository{}

func NewPreferenceRepository() *PreferenceRepository {
	return &PreferenceRepository{cache: cache.New(cache.NoExpiration, 0)}
}

func preferenceKey(profileId uuid.UUID, key string) string {
	return profileId.String() + ":" + key
}

func (r *PreferenceRepository) FindOne(ctx context.Context, profileId uuid.UUID, key string) (*entity.Preference, error) {
	x, found := r.cache.Get(preferenceKey(profileId, key))
	if !found {
		return nil, nil
	}
	stored := x.(entity.Preference)
	stored.Value = append([]byte(nil), stored.Value...)
	return &stored, nil
}

func (r *PreferenceRepository) Upsert(ctx context.Context, preference *entity.Preference) error {
	now := time.Now()
	preference.UpdatedAt = &now

	stored := *preference
	stored.Value = append([]byte(nil), preference.Value...)
	r.cache.Set(preferenceKey(preference.ProfileId, preference.Key), stored, cache.NoExpiration)
	return nil
}

func (r *PreferenceRepository) DeleteAllByProfileId(ctx context.Context, profileId uuid.UUID) error {
	prefix := profileId.String() + ":"
	for k := range r.cache.Items() {
		if strings.HasPrefix(k, prefix) {
			r.cache.Delete(k)
		}
	}
	return nil
}
