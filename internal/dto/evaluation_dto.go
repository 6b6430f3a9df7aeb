package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fadilmartias/evaltrack/internal/model"
)

type EvaluationItemDTO struct {
	ID           uuid.UUID          `json:"id"`
	SectionTitle string             `json:"section_title"`
	QuestionText string             `json:"question_text"`
	QuestionType model.QuestionType `json:"question_type"`
	IsRequired   bool               `json:"is_required"`
	DisplayOrder uint               `json:"display_order"`
	Answer       model.Answer       `json:"answer"`
	Display      string             `json:"display"`
	Complete     bool               `json:"complete"`
}

type EvaluationDTO struct {
	ID                 uuid.UUID              `json:"id"`
	EmployeeID         uuid.UUID              `json:"employee_id"`
	EmployeeName       string                 `json:"employee_name"`
	EmployeeDNI        string                 `json:"employee_dni"`
	PeriodID           uuid.UUID              `json:"period_id"`
	PeriodName         string                 `json:"period_name"`
	Status             model.EvaluationStatus `json:"status"`
	FrozenPositionCode string                 `json:"frozen_position_code"`
	FrozenPositionName string                 `json:"frozen_position_name"`
	EvaluatorComment   string                 `json:"evaluator_comment"`
	OverallComment     string                 `json:"overall_comment"`
	FinalScore         *decimal.Decimal       `json:"final_score"`
	SubmittedAt        *time.Time             `json:"submitted_at"`
	FinalizedAt        *time.Time             `json:"finalized_at"`
	ReopenedAt         *time.Time             `json:"reopened_at"`
	StatusChangedAt    *time.Time             `json:"status_changed_at"`
	ReopenReason       *string                `json:"reopen_reason"`
	BlockComments      map[string]string      `json:"block_comments"`
	Items              []EvaluationItemDTO    `json:"items"`
	CanEdit            bool                   `json:"can_edit"`
	CanFinalize        bool                   `json:"can_finalize"`
	CanReopen          bool                   `json:"can_reopen"`
}

func NewEvaluationDTO(ev *model.Evaluation, canEdit, canFinalize, canReopen bool) EvaluationDTO {
	d := EvaluationDTO{
		ID:                 ev.ID,
		EmployeeID:         ev.EmployeeID,
		PeriodID:           ev.PeriodID,
		Status:             ev.Status,
		FrozenPositionCode: ev.FrozenPositionCode,
		FrozenPositionName: ev.FrozenPositionName,
		EvaluatorComment:   ev.EvaluatorComment,
		OverallComment:     ev.OverallComment,
		FinalScore:         ev.FinalScore,
		SubmittedAt:        ev.SubmittedAt,
		FinalizedAt:        ev.FinalizedAt,
		ReopenedAt:         ev.ReopenedAt,
		StatusChangedAt:    ev.StatusChangedAt,
		ReopenReason:       ev.ReopenReason,
		BlockComments:      make(map[string]string, len(ev.BlockComments)),
		CanEdit:            canEdit,
		CanFinalize:        canFinalize,
		CanReopen:          canReopen,
	}
	if ev.Employee != nil {
		d.EmployeeName = ev.Employee.FullName
		d.EmployeeDNI = ev.Employee.DNI
	}
	if ev.Period != nil {
		d.PeriodName = ev.Period.Name
	}
	for i := range ev.BlockComments {
		d.BlockComments[ev.BlockComments[i].BlockCode] = ev.BlockComments[i].Comment
	}
	d.Items = make([]EvaluationItemDTO, 0, len(ev.Items))
	for i := range ev.Items {
		it := &ev.Items[i]
		d.Items = append(d.Items, EvaluationItemDTO{
			ID:           it.ID,
			SectionTitle: it.SectionTitle,
			QuestionText: it.QuestionText,
			QuestionType: it.QuestionType,
			IsRequired:   it.IsRequired,
			DisplayOrder: it.DisplayOrder,
			Answer:       it.Answer(),
			Display:      it.AnswerDisplay(),
			Complete:     it.IsComplete(),
		})
	}
	return d
}

// TeamMemberDTO is one row of the my-team listing. EvaluationStatus is
// empty until an evaluation exists for the requested period.
type TeamMemberDTO struct {
	EmployeeID       uuid.UUID              `json:"employee_id"`
	DNI              string                 `json:"dni"`
	FullName         string                 `json:"full_name"`
	PositionCode     string                 `json:"position_code"`
	PositionName     string                 `json:"position_name"`
	EvaluationStatus model.EvaluationStatus `json:"evaluation_status"`
}

func NewTeamMemberDTO(emp *model.Employee, status model.EvaluationStatus) TeamMemberDTO {
	d := TeamMemberDTO{
		EmployeeID:       emp.ID,
		DNI:              emp.DNI,
		FullName:         emp.FullName,
		EvaluationStatus: status,
	}
	if emp.EvaluationPosition != nil {
		d.PositionCode = emp.EvaluationPosition.Code
		d.PositionName = emp.EvaluationPosition.Name
	}
	return d
}

// ReportRowDTO is one line of the paginated report view.
type ReportRowDTO struct {
	EvaluationID uuid.UUID              `json:"evaluation_id"`
	EmployeeName string                 `json:"employee_name"`
	EmployeeDNI  string                 `json:"employee_dni"`
	PositionCode string                 `json:"position_code"`
	Status       model.EvaluationStatus `json:"status"`
	FinalScore   *decimal.Decimal       `json:"final_score"`
	SubmittedAt  *time.Time             `json:"submitted_at"`
	FinalizedAt  *time.Time             `json:"finalized_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

func NewReportRowDTO(ev *model.Evaluation) ReportRowDTO {
	row := ReportRowDTO{
		EvaluationID: ev.ID,
		PositionCode: ev.FrozenPositionCode,
		Status:       ev.Status,
		FinalScore:   ev.FinalScore,
		SubmittedAt:  ev.SubmittedAt,
		FinalizedAt:  ev.FinalizedAt,
		UpdatedAt:    ev.UpdatedAt,
	}
	if ev.Employee != nil {
		row.EmployeeName = ev.Employee.FullName
		row.EmployeeDNI = ev.Employee.DNI
	}
	return row
}
