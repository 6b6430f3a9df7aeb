package config

import (
	"os"
	"sync"
	"time"
)

type AuditConfig struct {
	WebhookURL     string
	WebhookTimeout time.Duration
}

var (
	auditConfig *AuditConfig
	auditOnce   sync.Once
)

// LoadAuditConfig reads the export-event webhook settings. An empty
// AUDIT_WEBHOOK_URL disables delivery; events are still logged locally.
func LoadAuditConfig() *AuditConfig {
	auditOnce.Do(func() {
		timeout := 5 * time.Second
		if raw := os.Getenv("AUDIT_WEBHOOK_TIMEOUT"); raw != "" {
			if d, err := time.ParseDuration(raw); err == nil {
				timeout = d
			}
		}
		auditConfig = &AuditConfig{
			WebhookURL:     os.Getenv("AUDIT_WEBHOOK_URL"),
			WebhookTimeout: timeout,
		}
	})
	return auditConfig
}
