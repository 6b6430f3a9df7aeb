package model

import (
	"time"

	"github.com/google/uuid"
)

type EvaluationPeriod struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string     `gorm:"type:varchar(80);uniqueIndex" json:"name"`
	StartDate time.Time  `json:"start_date"`
	EndDate   time.Time  `json:"end_date"`
	IsClosed  bool       `gorm:"default:false;index" json:"is_closed"`
	ClosedAt  *time.Time `json:"closed_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Close marks the period locked. Keeps IsClosed and ClosedAt in sync so one
// is never observed without the other.
func (p *EvaluationPeriod) Close(now time.Time) {
	p.IsClosed = true
	p.ClosedAt = &now
}

func (p *EvaluationPeriod) Open() {
	p.IsClosed = false
	p.ClosedAt = nil
}
