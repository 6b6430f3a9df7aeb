package model

import (
	"time"

	"github.com/google/uuid"
)

// ReportFilterPreset is a named, reusable querystring for a report view.
// QueryParams holds the canonical serialization produced by the report
// params so saved links round-trip exactly.
type ReportFilterPreset struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(120)" json:"name"`
	Scope       string    `gorm:"type:varchar(80);index:idx_preset_scope_creator" json:"scope"`
	QueryParams string    `gorm:"type:text" json:"query_params"`
	CreatedByID uuid.UUID `gorm:"type:uuid;index:idx_preset_scope_creator" json:"created_by_id"`
	IsShared    bool      `gorm:"default:false" json:"is_shared"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
