package middleware

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "tourneyhub/internal/errors"
	"tourneyhub/internal/model"
	"tourneyhub/internal/service"
	"tourneyhub/internal/session"
)

// Context keys set by the session middleware.
const (
	ContextKeyToken   = "session_token"
	ContextKeySession = "session_data"
	ContextKeyUser    = "current_user"
	ContextKeyAdmin   = "current_admin"
)

// SessionResolver resolves the session cookie into an authenticated
// principal (user or admin) or leaves the request anonymous.
type SessionResolver struct {
	sessions session.Store
	auth     service.AuthService
}

// NewSessionResolver creates the middleware set around a session store.
func NewSessionResolver(sessions session.Store, auth service.AuthService) *SessionResolver {
	return &SessionResolver{sessions: sessions, auth: auth}
}

// Resolve loads the session for the request cookie, if any. Unknown or
// expired tokens resolve to anonymous; store failures are server errors.
func (m *SessionResolver) Resolve() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(session.CookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			data, err := m.sessions.Get(c.Request().Context(), cookie.Value)
			if err != nil {
				log.Printf("session lookup: %v", err)
				return echo.NewHTTPError(http.StatusInternalServerError, apperrors.ErrorResponse{Message: "Internal server error"})
			}
			if data == nil {
				return next(c)
			}

			c.Set(ContextKeyToken, cookie.Value)
			c.Set(ContextKeySession, data)
			return next(c)
		}
	}
}

// RequireUser gates a route on an authenticated user and loads the full
// record into context.
func (m *SessionResolver) RequireUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			data := SessionData(c)
			if data == nil || data.UserID == 0 {
				return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{Message: apperrors.ErrAuthRequired.Error()})
			}

			user, err := m.auth.GetUser(c.Request().Context(), data.UserID)
			if err != nil {
				httpErr := apperrors.MapErrorToHTTP(err)
				return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
			}

			c.Set(ContextKeyUser, user)
			return next(c)
		}
	}
}

// RequireAdmin gates a route on an authenticated admin.
func (m *SessionResolver) RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			data := SessionData(c)
			if data == nil || data.AdminID == 0 {
				return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{Message: "Admin authentication required"})
			}

			admin, err := m.auth.GetAdmin(c.Request().Context(), data.AdminID)
			if err != nil {
				httpErr := apperrors.MapErrorToHTTP(err)
				return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
			}

			c.Set(ContextKeyAdmin, admin)
			return next(c)
		}
	}
}

// SessionData returns the resolved session binding, or nil when anonymous.
func SessionData(c echo.Context) *session.Data {
	data, _ := c.Get(ContextKeySession).(*session.Data)
	return data
}

// SessionToken returns the resolved session token, or empty when anonymous.
func SessionToken(c echo.Context) string {
	token, _ := c.Get(ContextKeyToken).(string)
	return token
}

// CurrentUser returns the authenticated user loaded by RequireUser.
func CurrentUser(c echo.Context) *model.User {
	user, _ := c.Get(ContextKeyUser).(*model.User)
	return user
}

// CurrentAdmin returns the authenticated admin loaded by RequireAdmin.
func CurrentAdmin(c echo.Context) *model.Admin {
	admin, _ := c.Get(ContextKeyAdmin).(*model.Admin)
	return admin
}
