package ports

import (
	"context"

	"github.com/userauth/auth-service/internal/core/domain"
)

// RequestMeta carries the login provenance supplied by the transport layer.
type RequestMeta struct {
	UserAgent string
	IPAddress string
}

type AuthService interface {
	Register(ctx context.Context, fullName, email, password, organization string) (*domain.User, error)
	// Login runs the transactional login sequence and returns the
	// authenticated user (hash stripped). Token issuance is the caller's job.
	Login(ctx context.Context, email, password string, meta RequestMeta) (*domain.User, error)
	User(ctx context.Context, id string) (*domain.User, error)
	LoginHistory(ctx context.Context, userID string) ([]domain.LoginRecord, error)
	UpdateProfile(ctx context.Context, id, fullName, organization string) (*domain.User, error)
	ChangePassword(ctx context.Context, id, current, newPassword, confirm string) error
}
