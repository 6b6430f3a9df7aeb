package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fadilmartias/evaltrack/internal/model"
)

type PeriodRepository struct {
	db *gorm.DB
}

func NewPeriodRepository(db *gorm.DB) *PeriodRepository {
	return &PeriodRepository{db}
}

func (r *PeriodRepository) FindByID(id uuid.UUID) (*model.EvaluationPeriod, error) {
	var period model.EvaluationPeriod
	err := r.db.First(&period, "id = ?", id).Error
	return &period, err
}

func (r *PeriodRepository) List() ([]model.EvaluationPeriod, error) {
	var periods []model.EvaluationPeriod
	err := r.db.Order("start_date desc").Find(&periods).Error
	return periods, err
}

func (r *PeriodRepository) Create(period *model.EvaluationPeriod) error {
	return r.db.Create(period).Error
}

// Close locks the period. Updates both columns together so the
// IsClosed/ClosedAt invariant holds in storage.
func (r *PeriodRepository) Close(period *model.EvaluationPeriod, now time.Time) error {
	period.Close(now)
	return r.db.Model(period).Select("is_closed", "closed_at").Updates(map[string]any{
		"is_closed": true,
		"closed_at": now,
	}).Error
}

func (r *PeriodRepository) Open(period *model.EvaluationPeriod) error {
	period.Open()
	return r.db.Model(period).Select("is_closed", "closed_at").Updates(map[string]any{
		"is_closed": false,
		"closed_at": nil,
	}).Error
}
