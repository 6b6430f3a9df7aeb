package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EvaluationTemplate is the versioned question catalogue for a position code.
// Authoring and import happen elsewhere; this service only resolves the
// template to snapshot when an evaluation is first created.
type EvaluationTemplate struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BaseCode  string    `gorm:"type:varchar(8);index:idx_template_base_version" json:"base_code"`
	Version   uint      `gorm:"default:1;index:idx_template_base_version" json:"version"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	Sections  []TemplateSection `gorm:"constraint:OnDelete:CASCADE" json:"sections,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TemplateSection struct {
	ID                   uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	EvaluationTemplateID uuid.UUID          `gorm:"type:uuid;index" json:"template_id"`
	Title                string             `gorm:"type:varchar(255)" json:"title"`
	Order                uint               `gorm:"column:display_order;default:1" json:"order"`
	Questions            []TemplateQuestion `gorm:"constraint:OnDelete:CASCADE" json:"questions,omitempty"`
}

type TemplateQuestion struct {
	ID                uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	TemplateSectionID uuid.UUID    `gorm:"type:uuid;index" json:"section_id"`
	Text              string       `gorm:"type:text" json:"text"`
	QuestionType      QuestionType `gorm:"type:varchar(20)" json:"question_type"`
	IsRequired        bool         `gorm:"default:false" json:"is_required"`
	Order             uint         `gorm:"column:display_order;default:1" json:"order"`
}

// Legacy weighted scoring model. Still feeds the weighted statistics path but
// no longer sets Evaluation.FinalScore.

type TemplateBlock struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	TemplateID    uuid.UUID       `gorm:"type:uuid;uniqueIndex:uniq_block_template_key" json:"template_id"`
	Key           string          `gorm:"type:varchar(4);uniqueIndex:uniq_block_template_key" json:"key"` // A, B, C...
	Name          string          `gorm:"type:varchar(200)" json:"name"`
	WeightPercent decimal.Decimal `gorm:"type:decimal(6,2)" json:"weight_percent"`
	Order         uint            `gorm:"column:display_order;default:1" json:"order"`
	Items         []TemplateItem  `gorm:"foreignKey:BlockID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

type TemplateItem struct {
	ID           uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	BlockID      uuid.UUID        `gorm:"type:uuid;index" json:"block_id"`
	Subcriterion string           `gorm:"type:varchar(200)" json:"subcriterion"`
	Description  string           `gorm:"type:text" json:"description"`
	Order        uint             `gorm:"column:display_order;default:1" json:"order"`
	ItemWeight   *decimal.Decimal `gorm:"type:decimal(6,2)" json:"item_weight"`
}

type EvaluationScore struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EvaluationID   uuid.UUID `gorm:"type:uuid;uniqueIndex:uniq_score_eval_item" json:"evaluation_id"`
	TemplateItemID uuid.UUID `gorm:"type:uuid;uniqueIndex:uniq_score_eval_item" json:"template_item_id"`
	Score          uint8     `json:"score"`
	Comment        string    `gorm:"type:text" json:"comment"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
