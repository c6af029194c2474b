package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailTaken is returned when signing up with an email that already exists.
	ErrEmailTaken = errors.New("email already in use")
	// ErrNotFound is returned when no record exists at the scoped identifier.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidID is returned when an identifier does not parse as an ObjectID.
	ErrInvalidID = errors.New("invalid object id")
	// ErrFieldNotAllowed is returned when an update names a field outside the allow-list.
	ErrFieldNotAllowed = errors.New("update field not allowed")
	// ErrInvalidToken is returned when a session token is missing, malformed or revoked.
	ErrInvalidToken = errors.New("please authenticate")
	// ErrValidation is returned when a field value violates its constraints.
	ErrValidation = errors.New("invalid field value")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Store errors fall
// through to the generic 500 and are never exposed to clients.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusConflict, err.Error(), "EMAIL_TAKEN")
	case errors.Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "NOT_FOUND")
	case errors.Is(err, ErrInvalidID):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_ID")
	case errors.Is(err, ErrFieldNotAllowed):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "FIELD_NOT_ALLOWED")
	case errors.Is(err, ErrInvalidToken):
		return NewHTTPError(http.StatusForbidden, err.Error(), "UNAUTHENTICATED")
	case errors.Is(err, ErrValidation):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_FAILED")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
