package ports

import (
	"context"

	"github.com/mim3/sales-dashboard/internal/core/domain"
)

// AccessGuard is the single enforcement point for resource access. Every
// protected entry point calls Enforce before doing anything else; navigation
// filtering uses CanAccess and is a UX convenience, not a security control.
type AccessGuard interface {
	// Enforce returns the authorized identity, or the denial reason's
	// sentinel error. The identity may be nil only for public resources.
	Enforce(ctx context.Context, resourceID string) (*domain.Identity, error)
	// CanAccess is the non-halting variant used for menu filtering.
	CanAccess(identity *domain.Identity, resourceID string) bool
}
