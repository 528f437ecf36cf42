package ports

import (
	"context"

	"github.com/userauth/auth-service/internal/core/domain"
)

// UserRepository defines the persistence interface for user accounts.
// Email uniqueness is enforced by the store, not by callers.
type UserRepository interface {
	// FindByEmail returns the user with PasswordHash populated, or
	// domain.ErrUserNotFound.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByID returns the user without its password hash.
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// Create persists a new user. Returns domain.ErrEmailTaken when the
	// email is already registered.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// UpdateProfile replaces the mutable profile fields.
	UpdateProfile(ctx context.Context, id, fullName, organization string) error
	// PasswordHash returns the stored credential hash for the user.
	PasswordHash(ctx context.Context, id string) (string, error)
	// ReplacePasswordHash swaps the credential hash as a whole.
	ReplacePasswordHash(ctx context.Context, id, hash string) error
}
