package handler

import (
	"encoding/json"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"tourneyhub/internal/errors"
	"tourneyhub/internal/middleware"
	"tourneyhub/internal/model"
	"tourneyhub/internal/service"
)

// TeamHandler handles team registration endpoints.
type TeamHandler struct {
	teamService service.TeamService
	uploadDir   string
}

// NewTeamHandler creates a new team handler.
func NewTeamHandler(teamService service.TeamService, uploadDir string) *TeamHandler {
	return &TeamHandler{teamService: teamService, uploadDir: uploadDir}
}

// Register godoc
// @Summary Register a team
// @Tags teams
// @Accept mpfd
// @Produce json
// @Param teamName formData string true "Team name"
// @Param members formData string true "Members as a JSON array of {ign, discord?}"
// @Param paymentProof formData file false "Payment proof"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /teams/register [post]
func (h *TeamHandler) Register(c echo.Context) error {
	user := middleware.CurrentUser(c)

	teamName := c.FormValue("teamName")

	var members []model.Member
	if raw := c.FormValue("members"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &members); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{Message: "Invalid member data format"})
		}
	}

	proofPath := ""
	if file, err := c.FormFile("paymentProof"); err == nil && file != nil {
		stored, err := h.saveProof(file)
		if err != nil {
			log.Printf("save payment proof: %v", err)
			return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{Message: "Internal server error"})
		}
		proofPath = stored
	}

	view, resubmitted, err := h.teamService.Register(c.Request().Context(), user.ID, teamName, members, proofPath)
	if err != nil {
		if proofPath != "" {
			// The upload belongs to no row now; drop it.
			_ = os.Remove(filepath.Join(h.uploadDir, proofPath))
		}
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	message := "Team registered successfully! Awaiting payment approval."
	if resubmitted {
		message = "Team resubmitted successfully! Awaiting payment approval."
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"team":    view,
		"message": message,
	})
}

// MyTeam godoc
// @Summary Current user's team
// @Tags teams
// @Produce json
// @Success 200 {object} service.TeamView
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /teams/my-team [get]
func (h *TeamHandler) MyTeam(c echo.Context) error {
	user := middleware.CurrentUser(c)

	view, err := h.teamService.GetMyTeam(c.Request().Context(), user.ID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, view)
}

// saveProof stores the upload under a generated name so client-supplied
// filenames never touch the filesystem.
func (h *TeamHandler) saveProof(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	ext := filepath.Ext(filepath.Base(file.Filename))
	if len(ext) > 10 {
		ext = ""
	}
	name := uuid.New().String() + ext

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return "", err
	}

	dst, err := os.Create(filepath.Join(h.uploadDir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return name, nil
}
