package implementation

import (
	"context"
	"errors"

	"routine-advisor-be/internal/entity"
	"routine-advisor-be/internal/mapper"
	"routine-advisor-be/internal/model"
	"routine-advisor-be/internal/repository/contract"
	"routine-advisor-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PreferenceRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PreferenceMapper
}

func NewPreferenceRepository(db *gorm.DB) contract.PreferenceRepository {
	return &PreferenceRepositoryImpl{
		db:     db,
		mapper: mapper.NewPreferenceMapper(),
	}
}

func (r *PreferenceRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PreferenceRepositoryImpl) FindOne(ctx context.Context, profileId uuid.UUID, key string) (*entity.Preference, error) {
	var m model.Preference
	query := r.applySpecifications(r.db.WithContext(ctx),
		specification.ByProfile{ProfileID: profileId},
		specification.ByKey{Key: key},
	)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *PreferenceRepositoryImpl) Upsert(ctx context.Context, preference *entity.Preference) error {
	m := r.mapper.ToModel(preference)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "profile_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(m).Error
	if err != nil {
		return err
	}
	*preference = *r.mapper.ToEntity(m)
	return nil
}

func (r *PreferenceRepositoryImpl) DeleteAllByProfileId(ctx context.Context, profileId uuid.UUID) error {
	query := r.applySpecifications(r.db.WithContext(ctx), specification.ByProfile{ProfileID: profileId})
	return query.Delete(&model.Preference{}).Error
}
