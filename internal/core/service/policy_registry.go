package service

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/mim3/sales-dashboard/internal/core/domain"
)

// PolicyEntry maps one resource to its required access level.
type PolicyEntry struct {
	ResourceID  string
	Level       domain.AccessLevel
	Description string
}

// PolicyRegistry is the declarative table of resource → required level. All
// resource-to-role mappings live here: a new protected page is one Register
// call, not a hand-written check at the call site. Unknown resources deny.
type PolicyRegistry struct {
	mu      sync.RWMutex
	entries map[string]PolicyEntry
	log     zerolog.Logger
}

func NewPolicyRegistry(log zerolog.Logger) *PolicyRegistry {
	return &PolicyRegistry{entries: make(map[string]PolicyEntry), log: log}
}

// Register adds or replaces the policy entry for a resource.
func (r *PolicyRegistry) Register(resourceID string, level domain.AccessLevel, description string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[resourceID] = PolicyEntry{ResourceID: resourceID, Level: level, Description: description}
}

// Check evaluates an identity (nil = anonymous) against a resource. The
// evaluation order is fixed, each step a distinct denial reason:
//
//  1. unknown resource            → DenyUnknownResource (fail closed)
//  2. level requires identity     → DenyNotAuthenticated
//  3. attached identity inactive  → DenyAccountInactive (even on public resources)
//  4. admin level, non-admin user → DenyInsufficientRole
func (r *PolicyRegistry) Check(identity *domain.Identity, resourceID string) domain.Decision {
	r.mu.RLock()
	entry, ok := r.entries[resourceID]
	r.mu.RUnlock()

	if !ok {
		r.log.Warn().Str("resource", resourceID).Msg("access check for unregistered resource")
		return domain.Deny(domain.DenyUnknownResource)
	}

	if identity == nil {
		if entry.Level == domain.LevelPublic {
			return domain.Allow(nil)
		}
		return domain.Deny(domain.DenyNotAuthenticated)
	}

	if !identity.IsActive {
		return domain.Deny(domain.DenyAccountInactive)
	}

	switch entry.Level {
	case domain.LevelPublic, domain.LevelAuthenticated:
		return domain.Allow(identity)
	case domain.LevelAdmin:
		if !identity.IsAdmin {
			return domain.Deny(domain.DenyInsufficientRole)
		}
		return domain.Allow(identity)
	default:
		return domain.Deny(domain.DenyUnknownResource)
	}
}

// Entries returns a snapshot of the registered policies, for menu building
// and the admin settings page.
func (r *PolicyRegistry) Entries() []PolicyEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]PolicyEntry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	return out
}
