package ports

import (
	"context"

	"github.com/userauth/auth-service/internal/core/domain"
)

// LoginHistoryRepository persists the append-only login trail.
type LoginHistoryRepository interface {
	Insert(ctx context.Context, rec *domain.LoginRecord) error
	// FindByUserID returns the user's records, most recent first.
	FindByUserID(ctx context.Context, userID string) ([]domain.LoginRecord, error)
}

// AuditRepository persists best-effort security audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
}
