package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrRegistrationClosed is returned when the registration flag is absent or false.
	ErrRegistrationClosed = errors.New("Registration is currently closed")
	// ErrDuplicateTeam is returned when a leader already has a live team.
	ErrDuplicateTeam = errors.New("You have already registered a team")
	// ErrTeamNotFound is returned when no team matches the lookup.
	ErrTeamNotFound = errors.New("No team found")
	// ErrUserNotFound is returned when a session points at a missing user.
	ErrUserNotFound = errors.New("User not found")
	// ErrAdminNotFound is returned when a session points at a missing admin.
	ErrAdminNotFound = errors.New("Admin not found")
	// ErrAuthRequired is returned when no authenticated principal is present.
	ErrAuthRequired = errors.New("Authentication required")
	// ErrProofAccessDenied is returned when a principal requests a proof file it does not own.
	ErrProofAccessDenied = errors.New("Access denied")
)

// ValidationError carries the first failing field's message for malformed input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidation creates a ValidationError.
func NewValidation(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Message string `json:"message"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{StatusCode: statusCode, Message: message}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{Message: e.Message}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Unrecognized errors
// collapse to an opaque 500 so store detail never reaches callers.
func MapErrorToHTTP(err error) *HTTPError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return NewHTTPError(http.StatusBadRequest, ve.Message)
	}

	switch {
	case errors.Is(err, ErrRegistrationClosed), errors.Is(err, ErrDuplicateTeam):
		return NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrAuthRequired), errors.Is(err, ErrUserNotFound), errors.Is(err, ErrAdminNotFound):
		return NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrProofAccessDenied):
		return NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrTeamNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error())
	default:
		return NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
}
