package security

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func newTestManager(t *testing.T) *TokenManager {
	t.Helper()
	m, err := NewTokenManager("test-secret", "auth-service", "HS256", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	return m
}

func TestTokenManager_IssueAndVerify(t *testing.T) {
	m := newTestManager(t)

	token, err := m.Issue("user-42", 2)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if claims.Subject != "user-42" {
		t.Fatalf("expected subject user-42, got %q", claims.Subject)
	}
	if claims.Role != 2 {
		t.Fatalf("expected role 2, got %d", claims.Role)
	}
	if claims.Issuer != "auth-service" {
		t.Fatalf("expected issuer auth-service, got %q", claims.Issuer)
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(time.Now()) {
		t.Fatalf("expected future expiry, got %v", claims.ExpiresAt)
	}
}

func TestTokenManager_ExpiredToken(t *testing.T) {
	m := newTestManager(t)

	// Sign a structurally valid token whose expiry already passed.
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: 2,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-42",
			Issuer:    "auth-service",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	signed, err := expired.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := m.Verify(signed); err == nil {
		t.Fatalf("expected expired token to fail verification")
	}
}

func TestTokenManager_TamperedSignature(t *testing.T) {
	m := newTestManager(t)

	token, err := m.Issue("user-42", 2)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	// Flip the last signature byte.
	last := token[len(token)-1]
	flipped := byte('A')
	if last == flipped {
		flipped = 'B'
	}
	tampered := token[:len(token)-1] + string(flipped)

	if _, err := m.Verify(tampered); err == nil {
		t.Fatalf("expected tampered token to fail verification")
	}
}

func TestTokenManager_WrongSecret(t *testing.T) {
	m := newTestManager(t)
	other, err := NewTokenManager("other-secret", "auth-service", "HS256", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}

	token, err := other.Issue("user-42", 2)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if _, err := m.Verify(token); err == nil {
		t.Fatalf("expected token signed with another secret to fail")
	}
}

func TestTokenManager_AlgorithmMismatch(t *testing.T) {
	m := newTestManager(t)
	hs512, err := NewTokenManager("test-secret", "auth-service", "HS512", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}

	token, err := hs512.Issue("user-42", 2)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if _, err := m.Verify(token); err == nil {
		t.Fatalf("expected HS512 token to be rejected by HS256 verifier")
	}
}

func TestNewTokenManager_Validation(t *testing.T) {
	if _, err := NewTokenManager("s", "iss", "ES999", time.Hour); err == nil {
		t.Fatalf("expected error for unknown algorithm")
	}
	if _, err := NewTokenManager("s", "iss", "RS256", time.Hour); err == nil {
		t.Fatalf("expected error for asymmetric algorithm")
	}
	if _, err := NewTokenManager("", "iss", "HS256", time.Hour); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}

func TestExtractBearer(t *testing.T) {
	cases := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", true},
		{"Bearer  spaced", "spaced", true},
		{"", "", false},
		{"Bearer ", "", false},
		{"Bearer", "", false},
		{"bearer abc", "", false},
		{"Token abc", "", false},
		{"BearerX abc", "", false},
	}

	for _, tc := range cases {
		token, ok := ExtractBearer(tc.header)
		if ok != tc.ok || token != tc.token {
			t.Fatalf("ExtractBearer(%q) = (%q, %v), expected (%q, %v)",
				tc.header, token, ok, tc.token, tc.ok)
		}
	}

	if strings.HasPrefix("bearer x", bearerPrefix) {
		t.Fatalf("prefix match must be case-sensitive")
	}
}
