package domain

import "time"

// DefaultRole is assigned to accounts created through self-registration.
// Role values are opaque to this service; mapping them to permissions is
// the consumers' concern.
const DefaultRole = 2

// User models a registered account. PasswordHash is populated only on the
// credential-verification path and is never serialized.
type User struct {
	ID           string    `json:"id"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Role         int       `json:"role"`
	Organization string    `json:"organization,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// LoginRecord is one append-only entry in a user's login history.
type LoginRecord struct {
	ID        string
	UserID    string
	LoginAt   time.Time
	UserAgent string
	IPAddress string
}

// AuditAction classifies a security-relevant event.
type AuditAction string

const (
	AuditLoginSuccess   AuditAction = "login_success"
	AuditLoginFailure   AuditAction = "login_failure"
	AuditPasswordChange AuditAction = "password_change"
	AuditProfileUpdate  AuditAction = "profile_update"
)

// AuditEvent is a best-effort security trail entry, recorded outside the
// login transaction.
type AuditEvent struct {
	UserID    string
	Action    AuditAction
	UserAgent string
	IPAddress string
	At        time.Time
}
