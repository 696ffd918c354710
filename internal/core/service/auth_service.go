package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/mim3/sales-dashboard/internal/core/domain"
	"github.com/mim3/sales-dashboard/internal/core/ports"
)

// AuthService implements credential verification against the user store.
type AuthService struct {
	store  ports.UserStore
	hasher ports.Hasher
	log    zerolog.Logger
}

func NewAuthService(store ports.UserStore, hasher ports.Hasher, log zerolog.Logger) *AuthService {
	return &AuthService{store: store, hasher: hasher, log: log}
}

// Authenticate looks up the identity by username and verifies the password.
// A missing user, an inactive user, and a wrong password all fail with
// domain.ErrInvalidCredentials so the response never reveals whether a
// username exists.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*domain.Identity, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	identity, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			s.log.Error().Err(err).Str("username", username).Msg("user lookup failed")
		}
		return nil, domain.ErrInvalidCredentials
	}

	if !identity.IsActive {
		s.log.Warn().Str("username", username).Msg("login attempt for inactive account")
		return nil, domain.ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, identity.PasswordDigest) {
		s.log.Warn().Str("username", username).Msg("authentication failed")
		return nil, domain.ErrInvalidCredentials
	}

	s.log.Info().Str("username", username).Msg("authentication successful")
	return identity, nil
}
