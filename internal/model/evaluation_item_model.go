package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type QuestionType string

const (
	QuestionScale QuestionType = "SCALE_1_5"
	QuestionYesNo QuestionType = "YES_NO"
	QuestionText  QuestionType = "TEXT"
)

type AnswerKind string

const (
	AnswerEmpty AnswerKind = "EMPTY"
	AnswerScale AnswerKind = "SCALE"
	AnswerYesNo AnswerKind = "YES_NO"
	AnswerText  AnswerKind = "TEXT"
)

// Answer is the tagged union for one item's value. Only the field matching
// Kind is meaningful.
type Answer struct {
	Kind  AnswerKind `json:"kind"`
	Scale int16      `json:"scale,omitempty"`
	YesNo bool       `json:"yes_no,omitempty"`
	Text  string     `json:"text,omitempty"`
}

func EmptyAnswer() Answer            { return Answer{Kind: AnswerEmpty} }
func ScaleAnswer(v int16) Answer     { return Answer{Kind: AnswerScale, Scale: v} }
func YesNoAnswer(v bool) Answer      { return Answer{Kind: AnswerYesNo, YesNo: v} }
func TextAnswer(s string) Answer     { return Answer{Kind: AnswerText, Text: s} }

// EvaluationItem is an immutable snapshot of a template question taken when
// the evaluation was created. Only the value columns mutate, and only while
// the evaluation is in DRAFT.
type EvaluationItem struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EvaluationID uuid.UUID `gorm:"type:uuid;index" json:"evaluation_id"`

	SectionTitle string       `gorm:"type:varchar(255)" json:"section_title"`
	QuestionText string       `gorm:"type:text" json:"question_text"`
	QuestionType QuestionType `gorm:"type:varchar(20)" json:"question_type"`
	IsRequired   bool         `gorm:"default:false" json:"is_required"`
	DisplayOrder uint         `json:"display_order"`

	// Storage for the tagged Answer. At most one is non-nil; mutate only
	// through SetAnswer so the variants never contradict each other.
	ValueScale *int16  `json:"value_scale"`
	ValueYesNo *bool   `json:"value_yes_no"`
	ValueText  *string `json:"value_text"`
}

// SetAnswer applies one variant and clears the others in the same step.
func (it *EvaluationItem) SetAnswer(a Answer) error {
	switch a.Kind {
	case AnswerEmpty:
		it.ValueScale, it.ValueYesNo, it.ValueText = nil, nil, nil
	case AnswerScale:
		if a.Scale < 1 || a.Scale > 5 {
			return fmt.Errorf("scale answer out of range: %d", a.Scale)
		}
		v := a.Scale
		it.ValueScale, it.ValueYesNo, it.ValueText = &v, nil, nil
	case AnswerYesNo:
		v := a.YesNo
		it.ValueScale, it.ValueYesNo, it.ValueText = nil, &v, nil
	case AnswerText:
		v := a.Text
		it.ValueScale, it.ValueYesNo, it.ValueText = nil, nil, &v
	default:
		return fmt.Errorf("unknown answer kind %q", a.Kind)
	}
	return nil
}

// Answer reconstructs the union from storage, preferring the variant that
// matches the question type when a legacy row carries stray values.
func (it *EvaluationItem) Answer() Answer {
	switch {
	case it.ValueScale != nil:
		return ScaleAnswer(*it.ValueScale)
	case it.ValueYesNo != nil:
		return YesNoAnswer(*it.ValueYesNo)
	case it.ValueText != nil:
		return TextAnswer(*it.ValueText)
	}
	return EmptyAnswer()
}

// IsComplete reports whether the item counts as answered for its question
// type. Unknown types never complete.
func (it *EvaluationItem) IsComplete() bool {
	switch it.QuestionType {
	case QuestionScale:
		return it.ValueScale != nil
	case QuestionYesNo:
		return it.ValueYesNo != nil
	case QuestionText:
		return it.ValueText != nil && strings.TrimSpace(*it.ValueText) != ""
	}
	return false
}

// AnswerDisplay renders the stored value for CSV/XLSX cells.
func (it *EvaluationItem) AnswerDisplay() string {
	switch {
	case it.ValueScale != nil:
		return fmt.Sprintf("%d", *it.ValueScale)
	case it.ValueYesNo != nil:
		if *it.ValueYesNo {
			return "YES"
		}
		return "NO"
	case it.ValueText != nil:
		return *it.ValueText
	}
	return ""
}
