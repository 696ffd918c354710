package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/mim3/sales-dashboard/internal/core/domain"
	"github.com/mim3/sales-dashboard/internal/core/ports"
)

// Guard is the single enforcement point composing session state and access
// policy. It is stateless: every decision is computed from the session store
// and the registry at call time.
type Guard struct {
	sessions ports.SessionManager
	registry *PolicyRegistry
	audit    ports.AuditSink
	log      zerolog.Logger
}

func NewGuard(sessions ports.SessionManager, registry *PolicyRegistry, audit ports.AuditSink, log zerolog.Logger) *Guard {
	return &Guard{sessions: sessions, registry: registry, audit: audit, log: log}
}

// Enforce authorizes access to a resource. It returns the authorized identity
// (nil only for public resources) or the denial reason's sentinel error.
// Expiry is checked first so a timed-out session surfaces as SessionExpired
// rather than a generic NotAuthenticated.
func (g *Guard) Enforce(ctx context.Context, resourceID string) (*domain.Identity, error) {
	if g.sessions.CheckTimeout(ctx) {
		g.recordDenial(ctx, "", resourceID, domain.DenySessionExpired)
		return nil, domain.ErrSessionExpired
	}

	identity := g.sessions.CurrentIdentity()
	decision := g.registry.Check(identity, resourceID)
	if !decision.Allowed {
		username := ""
		if identity != nil {
			username = identity.Username
		}
		g.recordDenial(ctx, username, resourceID, decision.Reason)
		return nil, decision.Reason.Err()
	}

	return decision.Identity, nil
}

// CanAccess is the non-halting check used to filter navigation menus. Hiding
// a link is not a security control; Enforce remains the source of truth.
func (g *Guard) CanAccess(identity *domain.Identity, resourceID string) bool {
	return g.registry.Check(identity, resourceID).Allowed
}

func (g *Guard) recordDenial(ctx context.Context, username, resourceID string, reason domain.DenialReason) {
	g.log.Warn().
		Str("username", username).
		Str("resource", resourceID).
		Str("reason", reason.String()).
		Msg("access denied")

	if g.audit == nil {
		return
	}
	event := domain.AuditEvent{
		Kind:     domain.AuditDenied,
		Username: username,
		Resource: resourceID,
		Reason:   reason.String(),
	}
	if err := g.audit.Record(ctx, event); err != nil {
		g.log.Debug().Err(err).Msg("audit record failed")
	}
}
