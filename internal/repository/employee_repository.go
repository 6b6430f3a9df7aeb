package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fadilmartias/evaltrack/internal/auth"
	"github.com/fadilmartias/evaltrack/internal/model"
)

type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db}
}

func (r *EmployeeRepository) FindByID(id uuid.UUID) (*model.Employee, error) {
	var emp model.Employee
	err := r.db.Preload("EvaluationPosition").First(&emp, "id = ?", id).Error
	return &emp, err
}

// visibleQuery scopes employees to what the actor may see: managers see
// their own active reports, management capability sees everyone.
func (r *EmployeeRepository) visibleQuery(actor *auth.Actor) *gorm.DB {
	q := r.db.Model(&model.Employee{})
	if actor.CanManageEmployees {
		return q
	}
	return q.Where("manager_id = ? AND is_active = ?", actor.UserID, true)
}

// Visible lists the actor's visible employees ordered by name, for the
// my-team view.
func (r *EmployeeRepository) Visible(actor *auth.Actor) ([]model.Employee, error) {
	var employees []model.Employee
	err := r.visibleQuery(actor).
		Preload("EvaluationPosition").
		Order("full_name").
		Find(&employees).Error
	return employees, err
}

// VisibleIDs returns just the ID set, the scope input for report queries.
func (r *EmployeeRepository) VisibleIDs(actor *auth.Actor) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.visibleQuery(actor).Pluck("id", &ids).Error
	return ids, err
}

// IsVisible reports whether one employee falls inside the actor's scope.
func (r *EmployeeRepository) IsVisible(actor *auth.Actor, employeeID uuid.UUID) (bool, error) {
	var count int64
	err := r.visibleQuery(actor).Where("id = ?", employeeID).Count(&count).Error
	return count > 0, err
}
