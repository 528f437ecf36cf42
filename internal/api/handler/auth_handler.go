package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/userauth/auth-service/internal/api/metrics"
	"github.com/userauth/auth-service/internal/core/domain"
	"github.com/userauth/auth-service/internal/core/ports"
	"github.com/userauth/auth-service/internal/core/security"
)

type AuthHandler struct {
	authService ports.AuthService
	tokens      *security.TokenManager
}

func NewAuthHandler(authService ports.AuthService, tokens *security.TokenManager) *AuthHandler {
	return &AuthHandler{authService: authService, tokens: tokens}
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      200   {object}  statusResponse
// @Failure      400   {object}  statusResponse
// @Failure      409   {object}  statusResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, statusResponse{Status: "error", Message: "Invalid request payload."})
	}

	_, err := h.authService.Register(c.Request().Context(), req.Name, req.Email, req.Password, req.Organization)
	if err != nil {
		var ve *domain.ValidationError
		switch {
		case errors.As(err, &ve):
			metrics.RegistrationsTotal.WithLabelValues("validation_error").Inc()
			return c.JSON(http.StatusBadRequest, statusResponse{Status: "error", Message: ve.Reason})
		case errors.Is(err, domain.ErrEmailTaken):
			metrics.RegistrationsTotal.WithLabelValues("email_taken").Inc()
			return c.JSON(http.StatusConflict, statusResponse{Status: "error", Message: "Email already registered."})
		default:
			metrics.RegistrationsTotal.WithLabelValues("error").Inc()
			return err
		}
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, statusResponse{Status: "success", Message: "Registration success."})
}

// Login authenticates a user and returns a signed bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  statusResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	start := time.Now()

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, statusResponse{Status: "error", Message: "Invalid request payload."})
	}

	meta := requestMeta(c)
	user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password, meta)
	if err != nil {
		// Every login failure collapses into the same response.
		metrics.LoginsTotal.WithLabelValues("denied").Inc()
		return c.JSON(http.StatusUnauthorized, statusResponse{Status: "error", Message: "Invalid email or password"})
	}

	token, err := h.tokens.Issue(user.ID, user.Role)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("denied").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	metrics.LoginDuration.Observe(time.Since(start).Seconds())

	return c.JSON(http.StatusOK, loginResponse{
		Status:   "success",
		Token:    token,
		UserInfo: toUserInfo(user),
	})
}

// Me returns the authenticated user's profile.
//
// @Summary      Get own profile
// @Tags         auth
// @Produce      json
// @Success      200  {object}  userInfoResponse
// @Failure      401  {object}  statusResponse
// @Failure      404  {object}  statusResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	id, err := ctxSubject(c)
	if err != nil {
		return err
	}

	user, err := h.authService.User(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, statusResponse{Status: "error", Message: "User not found"})
		}
		return err
	}

	return c.JSON(http.StatusOK, userInfoResponse{Status: "success", UserInfo: toUserInfo(user)})
}

// LoginHistory returns the authenticated user's login trail, most recent first.
//
// @Summary      Get own login history
// @Tags         auth
// @Produce      json
// @Success      200  {object}  historyResponse
// @Failure      401  {object}  statusResponse
// @Router       /auth/login-history [get]
func (h *AuthHandler) LoginHistory(c echo.Context) error {
	id, err := ctxSubject(c)
	if err != nil {
		return err
	}

	records, err := h.authService.LoginHistory(c.Request().Context(), id)
	if err != nil {
		return err
	}

	history := make([]historyEntry, 0, len(records))
	for _, rec := range records {
		history = append(history, historyEntry{
			IPAddress: rec.IPAddress,
			UserAgent: rec.UserAgent,
			LoginAt:   rec.LoginAt.Unix(),
		})
	}

	return c.JSON(http.StatusOK, historyResponse{Status: "success", History: history})
}

// CheckToken reports whether the presented bearer token verifies. The route
// is deliberately not behind the auth gate so an invalid token reaches this
// handler and yields {valid:false} rather than the gate's generic body; a
// missing header keeps its own distinct message.
//
// @Summary      Check token validity
// @Tags         auth
// @Produce      json
// @Success      200  {object}  tokenCheckResponse
// @Failure      401  {object}  tokenCheckResponse
// @Router       /auth/check-token [get]
func (h *AuthHandler) CheckToken(c echo.Context) error {
	raw, ok := security.ExtractBearer(c.Request().Header.Get(echo.HeaderAuthorization))
	if !ok {
		metrics.TokenChecksTotal.WithLabelValues("missing").Inc()
		return c.JSON(http.StatusUnauthorized, statusResponse{Status: "error", Message: "Missing or invalid Authorization header"})
	}

	if _, err := h.tokens.Verify(raw); err != nil {
		metrics.TokenChecksTotal.WithLabelValues("invalid").Inc()
		return c.JSON(http.StatusUnauthorized, tokenCheckResponse{Status: "error", Valid: false})
	}

	metrics.TokenChecksTotal.WithLabelValues("valid").Inc()
	return c.JSON(http.StatusOK, tokenCheckResponse{Status: "success", Valid: true})
}

// UpdateProfile replaces the authenticated user's name and organization.
//
// @Summary      Update own profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      updateProfileRequest  true  "New profile fields"
// @Success      200   {object}  userInfoResponse
// @Failure      400   {object}  statusResponse
// @Failure      404   {object}  statusResponse
// @Router       /auth/update [put]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	id, err := ctxSubject(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, statusResponse{Status: "error", Message: "Invalid request payload."})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, statusResponse{Status: "error", Message: err.Error()})
	}

	user, err := h.authService.UpdateProfile(c.Request().Context(), id, req.Name, req.Company)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, statusResponse{Status: "error", Message: "User not found"})
		}
		return c.JSON(http.StatusInternalServerError, statusResponse{Status: "error", Message: "Failed to update profile"})
	}

	return c.JSON(http.StatusOK, userInfoResponse{Status: "success", UserInfo: toUserInfo(user)})
}

// UpdatePassword changes the authenticated user's password.
//
// @Summary      Change own password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      updatePasswordRequest  true  "Password change fields"
// @Success      200   {object}  statusResponse
// @Failure      400   {object}  statusResponse
// @Failure      401   {object}  statusResponse
// @Router       /auth/update-password [put]
func (h *AuthHandler) UpdatePassword(c echo.Context) error {
	id, err := ctxSubject(c)
	if err != nil {
		return err
	}

	var req updatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, statusResponse{Status: "error", Message: "Invalid request payload."})
	}

	current := strings.TrimSpace(req.CurrentPassword)
	newPassword := strings.TrimSpace(req.NewPassword)
	confirm := strings.TrimSpace(req.ConfirmPassword)
	if current == "" || newPassword == "" || confirm == "" {
		return c.JSON(http.StatusBadRequest, statusResponse{Status: "error", Message: "All fields are required"})
	}

	err = h.authService.ChangePassword(c.Request().Context(), id, current, newPassword, confirm)
	switch {
	case err == nil:
		metrics.PasswordChangesTotal.WithLabelValues("success").Inc()
		return c.JSON(http.StatusOK, statusResponse{Status: "success", Message: "Password updated successfully"})
	case errors.Is(err, domain.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, statusResponse{Status: "error", Message: "User not found"})
	case errors.Is(err, domain.ErrIncorrectPassword):
		metrics.PasswordChangesTotal.WithLabelValues("incorrect_password").Inc()
		return c.JSON(http.StatusUnauthorized, statusResponse{Status: "error", Message: "Current password is incorrect"})
	case errors.Is(err, domain.ErrPasswordMismatch):
		metrics.PasswordChangesTotal.WithLabelValues("mismatch").Inc()
		return c.JSON(http.StatusBadRequest, statusResponse{Status: "error", Message: "New passwords do not match"})
	default:
		metrics.PasswordChangesTotal.WithLabelValues("error").Inc()
		return c.JSON(http.StatusInternalServerError, statusResponse{Status: "error", Message: "Failed to update password"})
	}
}

func toUserInfo(user *domain.User) userInfo {
	return userInfo{
		Email:        user.Email,
		FullName:     user.FullName,
		Organization: user.Organization,
		Role:         user.Role,
	}
}

// requestMeta captures login provenance from transport headers. The
// X-Forwarded-For value wins over the peer address so the original client
// survives proxies, matching the recorded-history contract.
func requestMeta(c echo.Context) ports.RequestMeta {
	ip := c.Request().Header.Get("X-Forwarded-For")
	if ip == "" {
		ip = "127.0.0.1"
	}
	agent := c.Request().UserAgent()
	if agent == "" {
		agent = "Unknown"
	}
	return ports.RequestMeta{UserAgent: agent, IPAddress: ip}
}
