package security

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const bearerPrefix = "Bearer "

// Claims is the signed payload carried by every token.
type Claims struct {
	Role int `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies bearer tokens signed with a shared
// secret. Configuration is fixed at construction; the manager is safe for
// concurrent use.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	method jwt.SigningMethod
}

// NewTokenManager builds a TokenManager for the named HMAC algorithm
// (HS256, HS384 or HS512).
func NewTokenManager(secret, issuer, algorithm string, ttl time.Duration) (*TokenManager, error) {
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("token: unknown signing algorithm %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("token: algorithm %q is not symmetric", algorithm)
	}
	if secret == "" {
		return nil, fmt.Errorf("token: signing secret is required")
	}
	return &TokenManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		method: method,
	}, nil
}

// Issue signs a token for the subject with subject, issuer, issued-at,
// expiry and role claims.
func (m *TokenManager) Issue(subjectID string, role int) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(m.method, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, failing closed on any parse error,
// signature mismatch or expiry. The signature is checked before any claim
// is trusted, expiry included, so a forged expiry cannot pass.
func (m *TokenManager) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != m.method.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return m.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	if !parsed.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return claims, nil
}

// ExtractBearer returns the token portion of an Authorization header value.
// Only the exact "Bearer " scheme is recognized, case-sensitive with a
// single space; a missing prefix or empty remainder yields ok=false.
func ExtractBearer(header string) (string, bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	if token == "" {
		return "", false
	}
	return token, true
}
