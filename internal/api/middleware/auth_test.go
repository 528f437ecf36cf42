package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/userauth/auth-service/internal/core/security"
)

func testTokens(t *testing.T) *security.TokenManager {
	t.Helper()
	tokens, err := security.NewTokenManager("secret", "auth-service", "HS256", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	return tokens
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	tokens := testTokens(t)

	signed, err := tokens.Issue("user-1", 2)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	mw := Auth(tokens)
	handler := mw(func(c echo.Context) error {
		called = true
		if c.Get("user_id") != "user-1" {
			t.Fatalf("user_id not set")
		}
		if c.Get("role") != 2 {
			t.Fatalf("role not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func rejectBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json body: %v", err)
	}
	return body
}

func runGate(t *testing.T, tokens *security.TokenManager, header string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := Auth(tokens)
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	rec := runGate(t, testTokens(t), "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if body := rejectBody(t, rec); body["message"] != "Missing or invalid Authorization header" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestAuthMiddleware_EmptyBearerToken(t *testing.T) {
	rec := runGate(t, testTokens(t), "Bearer ")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if body := rejectBody(t, rec); body["message"] != "Missing or invalid Authorization header" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestAuthMiddleware_WrongScheme(t *testing.T) {
	rec := runGate(t, testTokens(t), "Token abc")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_LowercaseScheme(t *testing.T) {
	tokens := testTokens(t)
	signed, err := tokens.Issue("user-1", 2)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	rec := runGate(t, tokens, "bearer "+signed)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("scheme match must be case-sensitive, got %d", rec.Code)
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	rec := runGate(t, testTokens(t), "Bearer not-a-token")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if body := rejectBody(t, rec); body["message"] != "Unauthorized: Invalid or expired token" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, security.Claims{
		Role: 2,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Issuer:    "auth-service",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	signed, err := expired.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	rec := runGate(t, testTokens(t), "Bearer "+signed)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if body := rejectBody(t, rec); body["message"] != "Unauthorized: Invalid or expired token" {
		t.Fatalf("unexpected body: %+v", body)
	}
}
