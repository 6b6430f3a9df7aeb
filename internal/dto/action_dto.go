package dto

import (
	"github.com/google/uuid"

	"github.com/fadilmartias/evaltrack/internal/model"
)

// AnswerInput carries one item answer in a save request. Kind selects the
// variant; the matching value field applies and the rest are ignored.
type AnswerInput struct {
	ItemID uuid.UUID        `json:"item_id"`
	Kind   model.AnswerKind `json:"kind"`
	Scale  int16            `json:"scale"`
	YesNo  bool             `json:"yes_no"`
	Text   string           `json:"text"`
}

func (a AnswerInput) Answer() model.Answer {
	return model.Answer{Kind: a.Kind, Scale: a.Scale, YesNo: a.YesNo, Text: a.Text}
}

// EvaluationActionRequest is the body of POST /evaluations/:id/action.
type EvaluationActionRequest struct {
	Action           string            `json:"action"` // save | submit | finalize | reopen
	Answers          []AnswerInput     `json:"answers"`
	EvaluatorComment *string           `json:"evaluator_comment"`
	OverallComment   *string           `json:"overall_comment"`
	BlockComments    map[string]string `json:"block_comments"`
	ReopenReason     string            `json:"reopen_reason"`
	Override         bool              `json:"override"`
}

// PresetCreateRequest is the body of POST /reports/presets.
type PresetCreateRequest struct {
	Name     string `json:"name"`
	Scope    string `json:"scope"`
	IsShared bool   `json:"is_shared"`
}
