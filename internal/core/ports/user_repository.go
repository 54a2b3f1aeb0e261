package ports

import (
	"context"

	"github.com/reimburse/expense-system/internal/core/domain"
)

// UserRepository defines the interface for the identity store.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Exists reports whether a user with the given email is registered.
	Exists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
