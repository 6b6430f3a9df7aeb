package repository

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fadilmartias/evaltrack/internal/model"
)

type TemplateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) *TemplateRepository {
	return &TemplateRepository{db}
}

// ResolveActive returns the highest active version for a position code,
// falling back to the highest version of any when none is active. Returns
// gorm.ErrRecordNotFound when the code has no templates at all.
func (r *TemplateRepository) ResolveActive(baseCode string) (*model.EvaluationTemplate, error) {
	baseCode = strings.ToUpper(strings.TrimSpace(baseCode))
	if baseCode == "" {
		return nil, gorm.ErrRecordNotFound
	}

	preload := func(db *gorm.DB) *gorm.DB {
		return db.Preload("Sections", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order, id")
		}).Preload("Sections.Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order, id")
		})
	}

	var tmpl model.EvaluationTemplate
	err := preload(r.db).
		Where("base_code = ? AND is_active = ?", baseCode, true).
		Order("version desc").
		First(&tmpl).Error
	if err == nil {
		return &tmpl, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	err = preload(r.db).
		Where("base_code = ?", baseCode).
		Order("version desc").
		First(&tmpl).Error
	if err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// BlocksForTemplate loads the legacy weighted blocks with their items, used
// only by the weighted statistics path.
func (r *TemplateRepository) BlocksForTemplate(templateID uuid.UUID) ([]model.TemplateBlock, error) {
	var blocks []model.TemplateBlock
	err := r.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("display_order, id")
	}).Where("template_id = ?", templateID).Order("display_order").Find(&blocks).Error
	return blocks, err
}

// ScoresForEvaluation loads the legacy per-item scores for the weighted path.
func (r *TemplateRepository) ScoresForEvaluation(evaluationID uuid.UUID) ([]model.EvaluationScore, error) {
	var scores []model.EvaluationScore
	err := r.db.Where("evaluation_id = ?", evaluationID).Find(&scores).Error
	return scores, err
}
