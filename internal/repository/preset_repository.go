package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fadilmartias/evaltrack/internal/model"
)

type PresetRepository struct {
	db *gorm.DB
}

func NewPresetRepository(db *gorm.DB) *PresetRepository {
	return &PresetRepository{db}
}

func (r *PresetRepository) Create(preset *model.ReportFilterPreset) error {
	return r.db.Create(preset).Error
}

// ListVisible returns the caller's own presets plus shared ones for a view.
func (r *PresetRepository) ListVisible(scope string, userID uuid.UUID) ([]model.ReportFilterPreset, error) {
	var presets []model.ReportFilterPreset
	err := r.db.Where("scope = ?", scope).
		Where("created_by_id = ? OR is_shared = ?", userID, true).
		Order("name").
		Find(&presets).Error
	return presets, err
}

func (r *PresetRepository) FindByID(id uuid.UUID) (*model.ReportFilterPreset, error) {
	var preset model.ReportFilterPreset
	err := r.db.First(&preset, "id = ?", id).Error
	return &preset, err
}
