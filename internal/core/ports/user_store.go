package ports

import (
	"context"

	"github.com/mim3/sales-dashboard/internal/core/domain"
)

// UserStore defines the persistence interface for identities. Implementations
// return domain.ErrUserNotFound for missing rows and domain.ErrUserExists on
// username/email uniqueness violations.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (*domain.Identity, error)
	FindByID(ctx context.Context, id int64) (*domain.Identity, error)
	FindByEmail(ctx context.Context, email string) (*domain.Identity, error)
	Create(ctx context.Context, identity *domain.Identity) (*domain.Identity, error)
	Update(ctx context.Context, identity *domain.Identity) (*domain.Identity, error)
	Deactivate(ctx context.Context, id int64) error
	ListActive(ctx context.Context) ([]domain.Identity, error)
	ListAdmins(ctx context.Context) ([]domain.Identity, error)
}
