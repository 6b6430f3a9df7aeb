package service

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/fadilmartias/evaltrack/internal/config"
)

// ExportEvent is the structured record emitted once per export call,
// whatever its outcome. It feeds the operational audit stream and is never
// shown to the end user.
type ExportEvent struct {
	Type        string            `json:"type"` // summary_csv | items_csv | xlsx
	PeriodID    uuid.UUID         `json:"period_id"`
	Scope       string            `json:"scope"`
	Outcome     string            `json:"outcome"` // rendered | blocked | confirmation_required
	RowCount    int               `json:"row_count"`
	ItemCount   int               `json:"item_count"`
	Duration    time.Duration     `json:"duration_ms"`
	UserID      uuid.UUID         `json:"user_id"`
	Username    string            `json:"username"`
	RoleLabel   string            `json:"role_label"`
	Filters     map[string]string `json:"filters"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// ExportEventSink receives export events. The pipeline depends on this
// interface, not on a concrete logger, so tests can capture emissions.
type ExportEventSink interface {
	EmitExportEvent(ctx context.Context, event ExportEvent)
}

// AuditService logs export events through zap and optionally forwards them
// to an external collector webhook. Delivery failures are logged and
// swallowed; the audit stream must never fail an export.
type AuditService struct {
	logger *zap.Logger
	client *resty.Client
	url    string
}

func NewAuditService(logger *zap.Logger) *AuditService {
	cfg := config.LoadAuditConfig()
	return &AuditService{
		logger: logger,
		client: resty.New().SetTimeout(cfg.WebhookTimeout),
		url:    cfg.WebhookURL,
	}
}

func (s *AuditService) EmitExportEvent(ctx context.Context, event ExportEvent) {
	s.logger.Info("export_event",
		zap.String("type", event.Type),
		zap.String("period_id", event.PeriodID.String()),
		zap.String("scope", event.Scope),
		zap.String("outcome", event.Outcome),
		zap.Int("row_count", event.RowCount),
		zap.Int("item_count", event.ItemCount),
		zap.Duration("duration", event.Duration),
		zap.String("user_id", event.UserID.String()),
		zap.String("username", event.Username),
		zap.String("role_label", event.RoleLabel),
		zap.Any("filters", event.Filters),
	)

	if s.url == "" {
		return
	}
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(event).
		Post(s.url)
	if err != nil {
		s.logger.Warn("export_event delivery failed", zap.Error(err))
		return
	}
	if resp.IsError() || !gjson.Get(resp.String(), "accepted").Bool() {
		s.logger.Warn("export_event not accepted by collector",
			zap.Int("status", resp.StatusCode()),
			zap.String("body", resp.String()),
		)
	}
}
