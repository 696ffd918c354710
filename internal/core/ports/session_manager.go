package ports

import (
	"context"

	"github.com/mim3/sales-dashboard/internal/core/domain"
)

// SessionManager owns the life cycle of the process session: restoration at
// startup, login/logout transitions, and expiry detection.
type SessionManager interface {
	// Init runs once per process; subsequent calls are no-ops.
	Init(ctx context.Context)
	// Restore revalidates the durable record and reports whether a session
	// became active.
	Restore(ctx context.Context) bool
	// Login activates a session for the identity and persists it.
	Login(ctx context.Context, identity *domain.Identity) error
	// Logout clears the active session and deletes the durable record.
	Logout(ctx context.Context)
	// CurrentIdentity returns the cached identity, or nil when anonymous.
	// Never performs I/O.
	CurrentIdentity() *domain.Identity
	// CheckTimeout logs out and reports true when the active session has
	// passed its absolute expiry.
	CheckTimeout(ctx context.Context) bool
}
