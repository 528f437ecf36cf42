// Package security implements the credential primitives: bcrypt password
// hashing and symmetric-key JWT issuance and verification.
package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/userauth/auth-service/internal/core/domain"
)

// Hasher performs one-way password hashing with a fixed work factor.
// A fresh salt is generated per call and embedded in the encoded output.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher with the given bcrypt cost. Costs outside the
// supported range fall back to bcrypt's default.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

func (h *Hasher) Hash(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// Verify reports whether plaintext matches the stored hash. The comparison
// is constant time. A hash bcrypt cannot interpret yields
// domain.ErrInvalidHashFormat rather than a false result: corrupt stored
// credentials must not look like a wrong password.
func (h *Hasher) Verify(plaintext, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", domain.ErrInvalidHashFormat, err)
	}
}
