package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mim3/sales-dashboard/internal/core/domain"
)

const (
	auditKey = "audit:recent"
	// auditKeep bounds the recent-event list; older entries are trimmed away.
	auditKeep = 1000
)

// AuditSink keeps a capped list of recent auth events in Redis for the admin
// health page.
type AuditSink struct {
	client *redis.Client
}

func NewAuditSink(client *redis.Client) *AuditSink {
	return &AuditSink{client: client}
}

func (s *AuditSink) Record(ctx context.Context, event domain.AuditEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, auditKey, payload)
	pipe.LTrim(ctx, auditKey, 0, auditKeep-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("push audit event: %w", err)
	}
	return nil
}

// Recent returns up to n most recent audit events, newest first.
func (s *AuditSink) Recent(ctx context.Context, n int64) ([]domain.AuditEvent, error) {
	raw, err := s.client.LRange(ctx, auditKey, 0, n-1).Result()
	if err != nil {
		return nil, fmt.Errorf("read audit events: %w", err)
	}

	events := make([]domain.AuditEvent, 0, len(raw))
	for _, item := range raw {
		var event domain.AuditEvent
		if err := json.Unmarshal([]byte(item), &event); err != nil {
			continue
		}
		events = append(events, event)
	}
	return events, nil
}
