package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/userauth/auth-service/internal/core/domain"
	"github.com/userauth/auth-service/internal/core/ports"
	"github.com/userauth/auth-service/internal/core/security"
)

const (
	defaultUserAgent = "Unknown"
	defaultIPAddress = "127.0.0.1"
)

var emailPattern = regexp.MustCompile(`^[\w\-.]+@([\w\-]+\.)+[\w\-]{2,4}$`)

// AuditSink receives security events without blocking the caller.
type AuditSink interface {
	Record(event domain.AuditEvent)
}

// ProfileCache caches user snapshots keyed by ID. A (nil, nil) Get is a miss.
type ProfileCache interface {
	Get(ctx context.Context, id string) (*domain.User, error)
	Set(ctx context.Context, user *domain.User) error
	Invalidate(ctx context.Context, id string) error
}

// AuthService implements registration, the transactional login sequence,
// and the account self-service operations.
type AuthService struct {
	users   ports.UserRepository
	history ports.LoginHistoryRepository
	tx      ports.TxManager
	hasher  *security.Hasher
	cache   ProfileCache
	audit   AuditSink
	log     zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	history ports.LoginHistoryRepository,
	tx ports.TxManager,
	hasher *security.Hasher,
	cache ProfileCache,
	audit AuditSink,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:   users,
		history: history,
		tx:      tx,
		hasher:  hasher,
		cache:   cache,
		audit:   audit,
		log:     log,
	}
}

// Register validates the profile, hashes the password, and creates the
// account. Validation runs before any store access.
func (s *AuthService) Register(ctx context.Context, fullName, email, password, organization string) (*domain.User, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.TrimSpace(email)
	password = strings.TrimSpace(password)

	if fullName == "" || email == "" || password == "" {
		return nil, &domain.ValidationError{Reason: "All fields (name, email, password) are required."}
	}
	if !emailPattern.MatchString(email) {
		return nil, &domain.ValidationError{Reason: "Invalid email format."}
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		FullName:     fullName,
		Email:        email,
		Role:         domain.DefaultRole,
		Organization: strings.TrimSpace(organization),
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	created.PasswordHash = ""
	return created, nil
}

// Login runs the login sequence as one atomic unit: find the account by
// email, verify the password, and append a login record. Any failure aborts
// the transaction and collapses into the single undistinguished
// ErrInvalidCredentials, so responses cannot be used to enumerate accounts.
// A login whose history write fails is never reported as successful.
func (s *AuthService) Login(ctx context.Context, email, password string, meta ports.RequestMeta) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if meta.UserAgent == "" {
		meta.UserAgent = defaultUserAgent
	}
	if meta.IPAddress == "" {
		meta.IPAddress = defaultIPAddress
	}

	var user *domain.User
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		found, err := s.users.FindByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return domain.ErrInvalidCredentials
			}
			return err
		}

		ok, err := s.hasher.Verify(password, found.PasswordHash)
		if err != nil {
			return fmt.Errorf("verify credential: %w", err)
		}
		if !ok {
			return domain.ErrInvalidCredentials
		}

		rec := &domain.LoginRecord{
			UserID:    found.ID,
			LoginAt:   time.Now().UTC(),
			UserAgent: meta.UserAgent,
			IPAddress: meta.IPAddress,
		}
		if err := s.history.Insert(ctx, rec); err != nil {
			return fmt.Errorf("record login: %w", err)
		}

		found.PasswordHash = ""
		user = found
		return nil
	})
	if err != nil {
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			// Store-side failure: log the real cause, report the same
			// failure the caller would see for bad credentials.
			s.log.Error().Err(err).Msg("login transaction aborted")
		}
		s.recordAudit(domain.AuditLoginFailure, "", meta)
		return nil, domain.ErrInvalidCredentials
	}

	s.recordAudit(domain.AuditLoginSuccess, user.ID, meta)
	return user, nil
}

// User returns the profile for an already-authenticated subject, consulting
// the cache first.
func (s *AuthService) User(ctx context.Context, id string) (*domain.User, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		if err != nil {
			s.log.Warn().Err(err).Str("user_id", id).Msg("profile cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""

	if s.cache != nil {
		if err := s.cache.Set(ctx, user); err != nil {
			s.log.Warn().Err(err).Str("user_id", id).Msg("profile cache write failed")
		}
	}
	return user, nil
}

func (s *AuthService) LoginHistory(ctx context.Context, userID string) ([]domain.LoginRecord, error) {
	return s.history.FindByUserID(ctx, userID)
}

// UpdateProfile replaces the mutable profile fields and returns the
// refreshed user.
func (s *AuthService) UpdateProfile(ctx context.Context, id, fullName, organization string) (*domain.User, error) {
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.users.UpdateProfile(ctx, id, fullName, organization); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	s.recordAudit(domain.AuditProfileUpdate, id, ports.RequestMeta{})

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// ChangePassword verifies the current password, requires the confirmation
// to match, and replaces the stored hash. The checks are sequential
// short-circuits: the first failing check determines the reported error.
func (s *AuthService) ChangePassword(ctx context.Context, id, current, newPassword, confirm string) error {
	hash, err := s.users.PasswordHash(ctx, id)
	if err != nil {
		return err
	}

	ok, err := s.hasher.Verify(current, hash)
	if err != nil {
		return fmt.Errorf("verify credential: %w", err)
	}
	if !ok {
		return domain.ErrIncorrectPassword
	}

	if newPassword != confirm {
		return domain.ErrPasswordMismatch
	}

	newHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.ReplacePasswordHash(ctx, id, newHash); err != nil {
		return err
	}

	s.invalidate(ctx, id)
	s.recordAudit(domain.AuditPasswordChange, id, ports.RequestMeta{})
	return nil
}

func (s *AuthService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("user_id", id).Msg("profile cache invalidation failed")
	}
}

func (s *AuthService) recordAudit(action domain.AuditAction, userID string, meta ports.RequestMeta) {
	if s.audit == nil {
		return
	}
	s.audit.Record(domain.AuditEvent{
		UserID:    userID,
		Action:    action,
		UserAgent: meta.UserAgent,
		IPAddress: meta.IPAddress,
		At:        time.Now().UTC(),
	})
}
