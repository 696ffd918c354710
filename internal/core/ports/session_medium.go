package ports

import (
	"context"

	"github.com/mim3/sales-dashboard/internal/core/domain"
)

// SessionMedium is the durable storage for the single per-process session
// record. Writes must be atomic: a concurrent reader never observes a partial
// record. Read returns (nil, nil) when no record exists; a corrupt or
// unverifiable record is reported the same way, never as an error that could
// block login.
type SessionMedium interface {
	Read(ctx context.Context) (*domain.SessionRecord, error)
	Write(ctx context.Context, record *domain.SessionRecord) error
	Delete(ctx context.Context) error
}
