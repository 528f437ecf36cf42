package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/userauth/auth-service/internal/core/security"
)

type gateError struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Auth gates protected routes: it extracts the bearer token, verifies it,
// and injects the subject ID and role into the request context. It either
// admits the request or answers 401 itself; it never mutates state. The two
// rejection bodies are distinct and fixed.
func Auth(tokens *security.TokenManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := security.ExtractBearer(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return c.JSON(http.StatusUnauthorized, gateError{
					Status:  "error",
					Message: "Missing or invalid Authorization header",
				})
			}

			claims, err := tokens.Verify(raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, gateError{
					Status:  "error",
					Message: "Unauthorized: Invalid or expired token",
				})
			}

			c.Set("user_id", claims.Subject)
			c.Set("role", claims.Role)

			return next(c)
		}
	}
}
