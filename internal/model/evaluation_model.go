package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EvaluationStatus string

const (
	StatusDraft     EvaluationStatus = "DRAFT"
	StatusSubmitted EvaluationStatus = "SUBMITTED"
	StatusFinal     EvaluationStatus = "FINAL"
)

func (s EvaluationStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusFinal:
		return true
	}
	return false
}

// Evaluation is one evaluator's snapshot for an employee within a period.
// The (employee, period) pair is unique; concurrent creations race to a
// single surviving row via that constraint.
type Evaluation struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	EmployeeID  uuid.UUID  `gorm:"type:uuid;uniqueIndex:uniq_eval_employee_period" json:"employee_id"`
	Employee    *Employee  `gorm:"constraint:OnDelete:RESTRICT" json:"employee,omitempty"`
	EvaluatorID uuid.UUID  `gorm:"type:uuid;index" json:"evaluator_id"`
	PeriodID    uuid.UUID  `gorm:"type:uuid;uniqueIndex:uniq_eval_employee_period" json:"period_id"`
	Period      *EvaluationPeriod `gorm:"foreignKey:PeriodID;constraint:OnDelete:RESTRICT" json:"period,omitempty"`
	TemplateID  *uuid.UUID `gorm:"type:uuid" json:"template_id"`

	Status EvaluationStatus `gorm:"type:varchar(12);default:DRAFT;index" json:"status"`

	// Captured from the employee's position at creation, immutable afterward.
	FrozenPositionCode string `gorm:"type:varchar(8)" json:"frozen_position_code"`
	FrozenPositionName string `gorm:"type:varchar(160)" json:"frozen_position_name"`

	EvaluatorComment string           `gorm:"type:text" json:"evaluator_comment"`
	OverallComment   string           `gorm:"type:text" json:"overall_comment"`
	FinalScore       *decimal.Decimal `gorm:"type:decimal(7,3)" json:"final_score"`

	SubmittedAt     *time.Time `json:"submitted_at"`
	FinalizedAt     *time.Time `json:"finalized_at"`
	ReopenedAt      *time.Time `json:"reopened_at"`
	StatusChangedAt *time.Time `json:"status_changed_at"`
	ReopenReason    *string    `gorm:"type:text" json:"reopen_reason"`

	Items         []EvaluationItem         `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`
	BlockComments []EvaluationBlockComment `gorm:"constraint:OnDelete:CASCADE" json:"block_comments,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EvaluationBlockComment holds free text per block letter, one per
// (evaluation, block_code).
type EvaluationBlockComment struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EvaluationID uuid.UUID `gorm:"type:uuid;uniqueIndex:uniq_eval_block_comment" json:"evaluation_id"`
	BlockCode    string    `gorm:"type:varchar(10);uniqueIndex:uniq_eval_block_comment" json:"block_code"`
	Comment      string    `gorm:"type:text" json:"comment"`
}
