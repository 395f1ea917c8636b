package selection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"routine-advisor-be/internal/constant"
	"routine-advisor-be/internal/entity"
	"routine-advisor-be/internal/pkg/logger"
	"routine-advisor-be/internal/repository/contract"

	"github.com/google/uuid"
)

// ErrStoreUnavailable means the slot could not be read at all. Callers must not write over a
// slot they failed to read.
var ErrStoreUnavailable = errors.New("preference store unavailable")

// Store is the durable slot behind a selection. Missing or malformed data reads as an empty
// selection (or ltr); only an unreachable repository is an error.
type Store interface {
	Load(ctx context.Context) ([]entity.Product, error)
	Save(ctx context.Context, products []entity.Product) error
	LoadDirection(ctx context.Context) (Direction, error)
	SaveDirection(ctx context.Context, direction Direction) error
}

// PreferenceStore binds a Store to one profile's preferences.
type PreferenceStore struct {
	repo      contract.PreferenceRepository
	profileId uuid.UUID
	logger    logger.ILogger
}

func NewPreferenceStore(repo contract.PreferenceRepository, profileId uuid.UUID, log logger.ILogger) *PreferenceStore {
	return &PreferenceStore{repo: repo, profileId: profileId, logger: log}
}

func (s *PreferenceStore) Load(ctx context.Context) ([]entity.Product, error) {
	products := []entity.Product{}
	ok, err := s.read(ctx, constant.PreferenceKeySelectedProducts, &products)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []entity.Product{}, nil
	}
	return dedupe(products), nil
}

func (s *PreferenceStore) Save(ctx context.Context, products []entity.Product) error {
	if products == nil {
		products = []entity.Product{}
	}
	return s.write(ctx, constant.PreferenceKeySelectedProducts, products)
}

func (s *PreferenceStore) LoadDirection(ctx context.Context) (Direction, error) {
	var raw string
	ok, err := s.read(ctx, constant.PreferenceKeyTextDirection, &raw)
	if err != nil {
		return DirectionLTR, err
	}
	if !ok {
		return DirectionLTR, nil
	}
	direction, ok := ParseDirection(raw)
	if !ok {
		s.logger.Warn("SelectionStore", "Ignoring unknown text direction", map[string]interface{}{
			"profile_id": s.profileId,
			"value":      raw,
		})
	}
	return direction, nil
}

func (s *PreferenceStore) SaveDirection(ctx context.Context, direction Direction) error {
	return s.write(ctx, constant.PreferenceKeyTextDirection, string(direction))
}

// read reports false when the slot is absent or malformed, and an error when the repository
// could not be reached.
func (s *PreferenceStore) read(ctx context.Context, key string, out interface{}) (bool, error) {
	pref, err := s.repo.FindOne(ctx, s.profileId, key)
	if err != nil {
		s.logger.Error("SelectionStore", "Failed to read preference", map[string]interface{}{
			"profile_id": s.profileId,
			"key":        key,
			"error":      err,
		})
		return false, fmt.Errorf("%w: read %s: %v", ErrStoreUnavailable, key, err)
	}
	if pref == nil {
		return false, nil
	}
	if err := json.Unmarshal(pref.Value, out); err != nil {
		s.logger.Warn("SelectionStore", "Discarding malformed preference", map[string]interface{}{
			"profile_id": s.profileId,
			"key":        key,
			"error":      err.Error(),
		})
		return false, nil
	}
	return true, nil
}

func (s *PreferenceStore) write(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return s.repo.Upsert(ctx, &entity.Preference{
		ProfileId: s.profileId,
		Key:       key,
		Value:     data,
	})
}

// dedupe keeps the first occurrence of each id, so a hand-edited slot cannot break uniqueness.
func dedupe(products []entity.Product) []entity.Product {
	seen := make(map[int]bool, len(products))
	out := make([]entity.Product, 0, len(products))
	for _, p := range products {
		if seen[p.Id] {
			continue
		}
		seen[p.Id] = true
		out = append(out, p)
	}
	return out
}
