package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mim3/sales-dashboard/internal/core/domain"
	"github.com/mim3/sales-dashboard/internal/core/ports"
)

// Default admin credentials seeded on first run. Intended to be changed
// immediately in any real deployment; EnsureAdminExists logs a warning every
// time it has to create this account.
const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin123"
	DefaultAdminEmail    = "admin@dashboard.com"
	DefaultAdminName     = "Administrator"
)

// Bootstrap guarantees the system has at least one active admin identity.
type Bootstrap struct {
	store  ports.UserStore
	hasher ports.Hasher
	log    zerolog.Logger

	once   sync.Once
	cached *domain.Identity
	err    error
}

func NewBootstrap(store ports.UserStore, hasher ports.Hasher, log zerolog.Logger) *Bootstrap {
	return &Bootstrap{store: store, hasher: hasher, log: log}
}

// EnsureAdminExists returns an active admin identity, creating the default
// one when none exists. It is idempotent, runs its work once per process, and
// tolerates a concurrent first run: losing the creation race re-queries and
// returns the winner's row. Failure here is fatal to the caller: the system
// must not start without a guaranteed admin.
func (b *Bootstrap) EnsureAdminExists(ctx context.Context) (*domain.Identity, error) {
	b.once.Do(func() {
		b.cached, b.err = b.ensure(ctx)
	})
	return b.cached, b.err
}

func (b *Bootstrap) ensure(ctx context.Context) (*domain.Identity, error) {
	existing, err := b.store.FindByUsername(ctx, DefaultAdminUsername)
	if err == nil && existing.IsAdmin && existing.IsActive {
		b.log.Debug().Str("username", existing.Username).Msg("default admin present")
		return existing, nil
	}
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("bootstrap: admin lookup: %w", err)
	}

	admins, err := b.store.ListAdmins(ctx)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: list admins: %w", err)
	}
	if len(admins) > 0 {
		b.log.Info().Int("count", len(admins)).Msg("admin identities already exist")
		return &admins[0], nil
	}

	return b.createDefaultAdmin(ctx)
}

func (b *Bootstrap) createDefaultAdmin(ctx context.Context) (*domain.Identity, error) {
	b.log.Warn().
		Str("username", DefaultAdminUsername).
		Msg("no admin identities found, creating default admin with well-known credentials; change the password immediately")

	digest, err := b.hasher.Hash(DefaultAdminPassword)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: hash default password: %w", err)
	}

	now := time.Now().UTC()
	created, err := b.store.Create(ctx, &domain.Identity{
		DisplayName:    DefaultAdminName,
		Email:          DefaultAdminEmail,
		Username:       DefaultAdminUsername,
		PasswordDigest: digest,
		IsAdmin:        true,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err == nil {
		b.log.Info().Int64("id", created.ID).Msg("default admin created")
		return created, nil
	}

	// Another process won the creation race; its row is the admin.
	if errors.Is(err, domain.ErrUserExists) {
		b.log.Info().Msg("default admin created concurrently, re-querying")
		existing, ferr := b.store.FindByUsername(ctx, DefaultAdminUsername)
		if ferr != nil {
			return nil, fmt.Errorf("bootstrap: re-query after race: %w", ferr)
		}
		return existing, nil
	}

	return nil, fmt.Errorf("bootstrap: create default admin: %w", err)
}
