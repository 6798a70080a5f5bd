package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tourneyhub/internal/errors"
	"tourneyhub/internal/service"
)

// SettingsHandler serves the public settings reads.
type SettingsHandler struct {
	settingsService service.SettingsService
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(settingsService service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// RegistrationOpen godoc
// @Summary Registration availability
// @Tags settings
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /settings/registration-open [get]
func (h *SettingsHandler) RegistrationOpen(c echo.Context) error {
	open, err := h.settingsService.RegistrationOpenCached(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]bool{
		"registrationOpen": open,
	})
}

// EntryFee godoc
// @Summary Entry fee
// @Tags settings
// @Produce json
// @Success 200 {object} map[string]string
// @Router /settings/entry-fee [get]
func (h *SettingsHandler) EntryFee(c echo.Context) error {
	fee, err := h.settingsService.EntryFee(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"entryFee": fee,
	})
}
