package ports

import (
	"context"

	"github.com/mim3/sales-dashboard/internal/core/domain"
)

// AuditSink receives authentication lifecycle events. Record must not block
// the caller for long; failures are logged and dropped, never surfaced to the
// user path.
type AuditSink interface {
	Record(ctx context.Context, event domain.AuditEvent) error
}

// AuditLog reads back recent events from a sink that retains them, newest
// first. Implemented only by retaining sinks; the log-only sink has no
// read path.
type AuditLog interface {
	Recent(ctx context.Context, n int64) ([]domain.AuditEvent, error)
}
