package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxSubject extracts the authenticated subject ID injected by the Auth
// middleware. Its presence proves the gate ran; a handler reached without it
// is a wiring bug, answered with 401 rather than a panic.
func ctxSubject(c echo.Context) (string, error) {
	id, _ := c.Get("user_id").(string)
	if id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}
