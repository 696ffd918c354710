package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mim3/sales-dashboard/internal/core/domain"
	"github.com/mim3/sales-dashboard/internal/core/ports"
)

// UserService implements the administrative and self-service identity
// operations. Authorization is not decided here: callers reach these methods
// only through guarded routes.
type UserService struct {
	store  ports.UserStore
	hasher ports.Hasher
	log    zerolog.Logger
}

func NewUserService(store ports.UserStore, hasher ports.Hasher, log zerolog.Logger) *UserService {
	return &UserService{store: store, hasher: hasher, log: log}
}

// CreateUser provisions a new identity from admin input.
func (s *UserService) CreateUser(ctx context.Context, input ports.NewUserInput) (*domain.Identity, error) {
	if !domain.ValidateUsername(input.Username) {
		return nil, domain.ErrInvalidCredentials
	}
	if len(input.Password) < domain.PasswordMinLen {
		return nil, domain.ErrInvalidCredentials
	}

	digest, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	created, err := s.store.Create(ctx, &domain.Identity{
		DisplayName:    input.DisplayName,
		Email:          input.Email,
		Username:       input.Username,
		PasswordDigest: digest,
		IsAdmin:        input.IsAdmin,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("username", created.Username).Bool("is_admin", created.IsAdmin).Msg("user created")
	return created, nil
}

// UpdateProfile changes the display name and email of an identity.
func (s *UserService) UpdateProfile(ctx context.Context, id int64, displayName, email string) (*domain.Identity, error) {
	identity, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	identity.DisplayName = displayName
	identity.Email = email
	identity.UpdatedAt = time.Now().UTC()
	return s.store.Update(ctx, identity)
}

// ChangePassword verifies the current password before storing a new digest.
func (s *UserService) ChangePassword(ctx context.Context, id int64, oldPassword, newPassword string) error {
	identity, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !s.hasher.Verify(oldPassword, identity.PasswordDigest) {
		return domain.ErrInvalidCredentials
	}
	return s.setPassword(ctx, identity, newPassword)
}

// ResetPassword overwrites a user's password without knowing the old one.
// Admin-only at the route level.
func (s *UserService) ResetPassword(ctx context.Context, id int64, newPassword string) error {
	identity, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	return s.setPassword(ctx, identity, newPassword)
}

func (s *UserService) setPassword(ctx context.Context, identity *domain.Identity, password string) error {
	if len(password) < domain.PasswordMinLen {
		return domain.ErrInvalidCredentials
	}
	digest, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	identity.PasswordDigest = digest
	identity.UpdatedAt = time.Now().UTC()
	if _, err := s.store.Update(ctx, identity); err != nil {
		return err
	}
	s.log.Info().Str("username", identity.Username).Msg("password updated")
	return nil
}

// SetActive toggles an account. Deactivation is the only removal path: rows
// are never deleted.
func (s *UserService) SetActive(ctx context.Context, id int64, active bool) error {
	if !active {
		if err := s.store.Deactivate(ctx, id); err != nil {
			return err
		}
		s.log.Info().Int64("id", id).Msg("user deactivated")
		return nil
	}

	identity, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	identity.IsActive = true
	identity.UpdatedAt = time.Now().UTC()
	if _, err := s.store.Update(ctx, identity); err != nil {
		return err
	}
	s.log.Info().Str("username", identity.Username).Msg("user activated")
	return nil
}

// ListUsers returns all active identities for the management page.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.Identity, error) {
	return s.store.ListActive(ctx)
}
