package ports

import (
	"context"

	"github.com/mim3/sales-dashboard/internal/core/domain"
)

// NewUserInput carries the fields an administrator supplies when creating an
// identity. The password arrives in the clear and is hashed by the service.
type NewUserInput struct {
	DisplayName string
	Email       string
	Username    string
	Password    string
	IsAdmin     bool
}

// UserService exposes the administrative identity operations behind the
// admin-only pages, plus the self-service profile operations.
type UserService interface {
	CreateUser(ctx context.Context, input NewUserInput) (*domain.Identity, error)
	UpdateProfile(ctx context.Context, id int64, displayName, email string) (*domain.Identity, error)
	ChangePassword(ctx context.Context, id int64, oldPassword, newPassword string) error
	ResetPassword(ctx context.Context, id int64, newPassword string) error
	SetActive(ctx context.Context, id int64, active bool) error
	ListUsers(ctx context.Context) ([]domain.Identity, error)
}
