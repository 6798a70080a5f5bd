package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"tourneyhub/internal/errors"
	"tourneyhub/internal/middleware"
	"tourneyhub/internal/service"
	"tourneyhub/internal/session"
)

// AdminHandler handles the admin review surface: login, team review, and
// settings toggles. Every route except Login sits behind the admin gate.
type AdminHandler struct {
	authService     service.AuthService
	teamService     service.TeamService
	settingsService service.SettingsService
	sessions        session.Store
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(
	authService service.AuthService,
	teamService service.TeamService,
	settingsService service.SettingsService,
	sessions session.Store,
) *AdminHandler {
	return &AdminHandler{
		authService:     authService,
		teamService:     teamService,
		settingsService: settingsService,
		sessions:        sessions,
	}
}

// AdminLoginRequest carries admin credentials; username is the admin email.
type AdminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RejectRequest carries the optional rejection reason.
type RejectRequest struct {
	Reason string `json:"reason"`
}

// RegistrationToggleRequest flips the registration flag.
type RegistrationToggleRequest struct {
	RegistrationOpen bool `json:"registrationOpen"`
}

// EntryFeeRequest sets the displayed entry fee.
type EntryFeeRequest struct {
	EntryFee string `json:"entryFee" validate:"required"`
}

// Login godoc
// @Summary Admin login
// @Tags admin
// @Accept json
// @Produce json
// @Param request body AdminLoginRequest true "Admin credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /admin/login [post]
func (h *AdminHandler) Login(c echo.Context) error {
	var req AdminLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{Message: "Username and password are required"})
	}

	admin, err := h.authService.LoginAdmin(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if err == service.ErrInvalidAdminCredentials {
			return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{Message: err.Error()})
		}
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	ctx := c.Request().Context()
	if old := middleware.SessionToken(c); old != "" {
		_ = h.sessions.Delete(ctx, old)
	}
	token, err := h.sessions.Create(ctx, session.Data{AdminID: admin.ID})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	setSessionCookie(c, token)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Admin logged in successfully",
		"admin": map[string]interface{}{
			"id":    admin.ID,
			"email": admin.Email,
		},
	})
}

// Logout godoc
// @Summary Admin logout
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]string
// @Router /admin/logout [post]
func (h *AdminHandler) Logout(c echo.Context) error {
	if token := middleware.SessionToken(c); token != "" {
		if err := h.sessions.Delete(c.Request().Context(), token); err != nil {
			httpErr := errors.MapErrorToHTTP(err)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		}
	}
	clearSessionCookie(c)

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Admin logged out successfully",
	})
}

// Check godoc
// @Summary Verify admin session
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]bool
// @Failure 401 {object} errors.ErrorResponse
// @Router /admin/check [get]
func (h *AdminHandler) Check(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]bool{"isAdmin": true})
}

// ListTeams godoc
// @Summary List all teams
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Router /admin/teams [get]
func (h *AdminHandler) ListTeams(c echo.Context) error {
	teams, err := h.teamService.ListAll(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"teams": teams,
	})
}

// ApproveTeam godoc
// @Summary Approve a team
// @Tags admin
// @Produce json
// @Param id path int true "Team ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/teams/{id}/approve [post]
func (h *AdminHandler) ApproveTeam(c echo.Context) error {
	teamID, err := parseTeamID(c)
	if err != nil {
		return err
	}

	if err := h.teamService.Approve(c.Request().Context(), teamID); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Team approved successfully",
	})
}

// RejectTeam godoc
// @Summary Reject a team
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Team ID"
// @Param request body RejectRequest false "Rejection reason"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/teams/{id}/reject [post]
func (h *AdminHandler) RejectTeam(c echo.Context) error {
	teamID, err := parseTeamID(c)
	if err != nil {
		return err
	}

	var req RejectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{Message: "Invalid request body"})
	}

	if err := h.teamService.Reject(c.Request().Context(), teamID, req.Reason); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Team rejected successfully",
	})
}

// DeleteTeam godoc
// @Summary Delete a team
// @Tags admin
// @Produce json
// @Param id path int true "Team ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/teams/{id} [delete]
func (h *AdminHandler) DeleteTeam(c echo.Context) error {
	teamID, err := parseTeamID(c)
	if err != nil {
		return err
	}

	if err := h.teamService.Delete(c.Request().Context(), teamID); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Team deleted successfully",
	})
}

// ToggleRegistration godoc
// @Summary Open or close registration
// @Tags admin
// @Accept json
// @Produce json
// @Param request body RegistrationToggleRequest true "New flag value"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Router /admin/settings/registration-toggle [post]
func (h *AdminHandler) ToggleRegistration(c echo.Context) error {
	var req RegistrationToggleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{Message: "Invalid request body"})
	}

	if err := h.settingsService.SetRegistrationOpen(c.Request().Context(), req.RegistrationOpen); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":          "Registration status updated",
		"registrationOpen": req.RegistrationOpen,
	})
}

// SetEntryFee godoc
// @Summary Set the entry fee
// @Tags admin
// @Accept json
// @Produce json
// @Param request body EntryFeeRequest true "Entry fee amount"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Router /admin/settings/entry-fee [post]
func (h *AdminHandler) SetEntryFee(c echo.Context) error {
	var req EntryFeeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	if err := h.settingsService.SetEntryFee(c.Request().Context(), req.EntryFee); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Entry fee updated",
	})
}

func parseTeamID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{Message: "Invalid team ID"})
	}
	return uint(id), nil
}
