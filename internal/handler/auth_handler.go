package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tourneyhub/internal/errors"
	"tourneyhub/internal/middleware"
	"tourneyhub/internal/model"
	"tourneyhub/internal/service"
	"tourneyhub/internal/session"
)

// AuthHandler handles user authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
	sessions    session.Store
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, sessions session.Store) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions}
}

// SignupRequest represents a user signup request.
type SignupRequest struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	DiscordID string `json:"discordId" validate:"required"`
	Password  string `json:"password" validate:"required,min=6"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is the sanitized user shape returned to clients.
type UserResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	DiscordID string `json:"discordId"`
}

func toUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		DiscordID: user.DiscordID,
	}
}

// Signup godoc
// @Summary Create an account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignupRequest true "Signup data"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	user, err := h.authService.SignupUser(c.Request().Context(), req.Name, req.Email, req.DiscordID, req.Password)
	if err != nil {
		if err == service.ErrEmailTaken {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{Message: err.Error()})
		}
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	// Signup logs the user in immediately.
	if err := h.establishSession(c, session.Data{UserID: user.ID}); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"user": toUserResponse(user),
	})
}

// Login godoc
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	user, err := h.authService.LoginUser(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if err == service.ErrInvalidCredentials {
			return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{Message: err.Error()})
		}
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	if err := h.establishSession(c, session.Data{UserID: user.ID}); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"user": toUserResponse(user),
	})
}

// Logout godoc
// @Summary Log out
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if token := middleware.SessionToken(c); token != "" {
		// Deleting an already-gone session is fine; logout is idempotent.
		if err := h.sessions.Delete(c.Request().Context(), token); err != nil {
			httpErr := errors.MapErrorToHTTP(err)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		}
	}
	clearSessionCookie(c)

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Logged out successfully",
	})
}

// Me godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/user [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user := middleware.CurrentUser(c)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"user": toUserResponse(user),
	})
}

// establishSession issues a fresh token bound to exactly one principal,
// discarding any session the request arrived with.
func (h *AuthHandler) establishSession(c echo.Context, data session.Data) error {
	ctx := c.Request().Context()
	if old := middleware.SessionToken(c); old != "" {
		_ = h.sessions.Delete(ctx, old)
	}

	token, err := h.sessions.Create(ctx, data)
	if err != nil {
		return err
	}
	setSessionCookie(c, token)
	return nil
}

func setSessionCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(session.TTL.Seconds()),
		HttpOnly: true,
		Secure:   c.Scheme() == "https",
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
