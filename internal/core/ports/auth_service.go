package ports

import (
	"context"

	"github.com/mim3/sales-dashboard/internal/core/domain"
)

// Authenticator verifies credentials and resolves the identity behind them.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*domain.Identity, error)
}
