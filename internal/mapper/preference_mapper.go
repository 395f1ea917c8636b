package mapper

import (
	"time"

	"routine-advisor-be/internal/entity"
	"routine-advisor-be/internal/model"

	"gorm.io/datatypes"
)

type PreferenceMapper struct{}

func NewPreferenceMapper() *PreferenceMapper {
	return &PreferenceMapper{}
}

func (m *PreferenceMapper) ToEntity(p *model.Preference) *entity.Preference {
	if p == nil {
		return nil
	}

	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		updatedAt = &t
	}

	value := make([]byte, len(p.Value))
	copy(value, p.Value)

	return &entity.Preference{
		ProfileId: p.ProfileId,
		Key:       p.Key,
		Value:     value,
		UpdatedAt: updatedAt,
	}
}

func (m *PreferenceMapper) ToModel(p *entity.Preference) *model.Preference {
	if p == nil {
		return nil
	}

	var updatedAt time.Time
	if p.UpdatedAt != nil {
		updatedAt = *p.UpdatedAt
	}

	return &model.Preference{
		ProfileId: p.ProfileId,
		Key:       p.Key,
		Value:     datatypes.JSON(p.Value),
		UpdatedAt: updatedAt,
	}
}
