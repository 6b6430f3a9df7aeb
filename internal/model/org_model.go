package model

import (
	"time"

	"github.com/google/uuid"
)

// Department, Position and Employee are managed by the HR admin surface;
// this service only reads them and must never cascade into them.

type Department struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(120);uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Position struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Code              string    `gorm:"type:varchar(8);uniqueIndex" json:"code"` // P00..P35
	Name              string    `gorm:"type:varchar(160)" json:"name"`
	DepartmentID      uuid.UUID `gorm:"type:uuid" json:"department_id"`
	Department        *Department `gorm:"constraint:OnDelete:RESTRICT" json:"department,omitempty"`
	ProfessionalGroup string    `gorm:"type:varchar(32)" json:"professional_group"` // GP1..GP6
	IsActive          bool      `gorm:"default:true" json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type Employee struct {
	ID                   uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	DNI                  string     `gorm:"type:varchar(16);uniqueIndex" json:"dni"`
	FullName             string     `gorm:"type:varchar(200);index" json:"full_name"`
	HireDate             *time.Time `json:"hire_date"`
	TerminationDate      *time.Time `json:"termination_date"`
	IsActive             bool       `gorm:"default:true;index" json:"is_active"`
	EvaluationPositionID *uuid.UUID `gorm:"type:uuid" json:"evaluation_position_id"`
	EvaluationPosition   *Position  `gorm:"constraint:OnDelete:RESTRICT" json:"evaluation_position,omitempty"`
	ManagerID            *uuid.UUID `gorm:"type:uuid;index" json:"manager_id"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}
