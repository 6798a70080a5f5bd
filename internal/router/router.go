package router

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	apperrors "tourneyhub/internal/errors"
	"tourneyhub/internal/handler"
	appmw "tourneyhub/internal/middleware"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	resolver *appmw.SessionResolver,
	authHandler *handler.AuthHandler,
	teamHandler *handler.TeamHandler,
	adminHandler *handler.AdminHandler,
	settingsHandler *handler.SettingsHandler,
	uploadHandler *handler.UploadHandler,
) {
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Every route below resolves the session cookie first.
	e.Use(resolver.Resolve())

	// Proof downloads sit outside /api, matching the original URL shape.
	e.GET("/uploads/:filename", uploadHandler.Download)

	api := e.Group("/api")

	// Signup carries the same per-IP limit the original enforced.
	signupLimiter := echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(5.0 / (15 * 60)),
			Burst:     5,
			ExpiresIn: 15 * time.Minute,
		}),
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, apperrors.ErrorResponse{
				Message: "Too many registration attempts, please try again later",
			})
		},
	})

	// Public routes
	api.POST("/auth/signup", authHandler.Signup, signupLimiter)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)
	api.GET("/settings/registration-open", settingsHandler.RegistrationOpen)
	api.GET("/settings/entry-fee", settingsHandler.EntryFee)
	api.POST("/admin/login", adminHandler.Login)
	api.POST("/admin/logout", adminHandler.Logout)

	// User routes
	userRoutes := api.Group("", resolver.RequireUser())
	userRoutes.GET("/auth/user", authHandler.Me)
	userRoutes.POST("/teams/register", teamHandler.Register)
	userRoutes.GET("/teams/my-team", teamHandler.MyTeam)

	// Admin routes
	adminRoutes := api.Group("/admin", resolver.RequireAdmin())
	adminRoutes.GET("/check", adminHandler.Check)
	adminRoutes.GET("/teams", adminHandler.ListTeams)
	adminRoutes.POST("/teams/:id/approve", adminHandler.ApproveTeam)
	adminRoutes.POST("/teams/:id/reject", adminHandler.RejectTeam)
	adminRoutes.DELETE("/teams/:id", adminHandler.DeleteTeam)
	adminRoutes.POST("/settings/registration-toggle", adminHandler.ToggleRegistration)
	adminRoutes.POST("/settings/entry-fee", adminHandler.SetEntryFee)
}

// CustomValidator wraps validator for Echo and reports the first failing
// field as a ValidationError with a caller-facing message.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	err := cv.validator.Struct(i)
	if err == nil {
		return nil
	}

	if fieldErrors, ok := err.(validator.ValidationErrors); ok && len(fieldErrors) > 0 {
		return apperrors.NewValidation(fieldMessage(fieldErrors[0]))
	}
	return apperrors.NewValidation("Invalid request body")
}

func fieldMessage(fe validator.FieldError) string {
	field := fieldLabel(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return "Invalid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	default:
		return field + " is invalid"
	}
}

func fieldLabel(field string) string {
	switch field {
	case "DiscordID":
		return "Discord ID"
	default:
		return field
	}
}
