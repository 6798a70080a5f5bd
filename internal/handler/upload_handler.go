package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"tourneyhub/internal/errors"
	"tourneyhub/internal/middleware"
	"tourneyhub/internal/service"
)

// UploadHandler serves payment proof files behind the ownership check:
// admins may read any proof, a user only the one attached to their own
// live team.
type UploadHandler struct {
	teamService service.TeamService
	uploadDir   string
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(teamService service.TeamService, uploadDir string) *UploadHandler {
	return &UploadHandler{teamService: teamService, uploadDir: uploadDir}
}

// Download godoc
// @Summary Download a payment proof
// @Tags uploads
// @Produce octet-stream
// @Param filename path string true "Stored proof filename"
// @Success 200 {file} file
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /uploads/{filename} [get]
func (h *UploadHandler) Download(c echo.Context) error {
	data := middleware.SessionData(c)
	if data == nil || (data.UserID == 0 && data.AdminID == 0) {
		return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{Message: errors.ErrAuthRequired.Error()})
	}

	filename := c.Param("filename")
	if filename == "" || filename != filepath.Base(filename) || strings.Contains(filename, "..") {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{Message: "Invalid filename"})
	}

	allowed, err := h.teamService.CanAccessProof(c.Request().Context(), data.UserID, data.AdminID != 0, filename)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	if !allowed {
		return echo.NewHTTPError(http.StatusForbidden, errors.ErrorResponse{Message: errors.ErrProofAccessDenied.Error()})
	}

	path := filepath.Join(h.uploadDir, filename)
	if _, err := os.Stat(path); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, errors.ErrorResponse{Message: "File not found"})
	}

	return c.File(path)
}
