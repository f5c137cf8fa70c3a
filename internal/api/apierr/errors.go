// Package apierr maps engine errors onto JSON API error responses.
package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avelkov/godfather/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest        = "INVALID_REQUEST"
	CodeUnauthorized          = "UNAUTHORIZED"
	CodeNotHost               = "NOT_HOST"
	CodeSessionAlreadyActive  = "SESSION_ALREADY_ACTIVE"
	CodeNoActiveSession       = "NO_ACTIVE_SESSION"
	CodeNotEnoughPlayers      = "NOT_ENOUGH_PLAYERS"
	CodeInsufficientPlayers   = "INSUFFICIENT_PLAYERS"
	CodeDuplicateRegistration = "DUPLICATE_REGISTRATION"
	CodeRegistrationClosed    = "REGISTRATION_CLOSED"
	CodeUnknownPlayer         = "UNKNOWN_PLAYER"
	CodeAlreadyAssigned       = "ALREADY_ASSIGNED"
	CodePhaseClosed           = "PHASE_CLOSED"
	CodeIllegalAction         = "ILLEGAL_ACTION_FOR_ROLE"
	CodeNoSkipsRemaining      = "NO_SKIPS_REMAINING"
	CodeSettingsOutOfRange    = "SETTINGS_OUT_OF_RANGE"
	CodeUnknownSetting        = "UNKNOWN_SETTING"
	CodeSettingsLocked        = "SETTINGS_LOCKED"
	CodeUsernameTaken         = "USERNAME_TAKEN"
	CodeInvalidCredentials    = "INVALID_CREDENTIALS"
	CodeInternalError         = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements the error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// NewBadRequestError builds a 400 with the given message
func NewBadRequestError(message string) error {
	return &httpError{
		status:   http.StatusBadRequest,
		apiError: APIError{Code: CodeInvalidRequest, Message: message},
	}
}

// NewUnauthorizedError builds a 401
func NewUnauthorizedError() error {
	return &httpError{
		status:   http.StatusUnauthorized,
		apiError: APIError{Code: CodeUnauthorized, Message: "authentication required"},
	}
}

// NewInternalError builds a 500
func NewInternalError() error {
	return &httpError{
		status:   http.StatusInternalServerError,
		apiError: APIError{Code: CodeInternalError, Message: "internal server error"},
	}
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// mapping pairs an engine error with its API presentation
type mapping struct {
	err    error
	status int
	code   string
}

var mappings = []mapping{
	{model.ErrSessionAlreadyActive, http.StatusConflict, CodeSessionAlreadyActive},
	{model.ErrNoActiveSession, http.StatusNotFound, CodeNoActiveSession},
	{model.ErrNotEnoughPlayers, http.StatusConflict, CodeNotEnoughPlayers},
	{model.ErrNotHost, http.StatusForbidden, CodeNotHost},
	{model.ErrDuplicateRegistration, http.StatusConflict, CodeDuplicateRegistration},
	{model.ErrRegistrationClosed, http.StatusConflict, CodeRegistrationClosed},
	{model.ErrUnknownPlayer, http.StatusNotFound, CodeUnknownPlayer},
	{model.ErrInsufficientPlayers, http.StatusConflict, CodeInsufficientPlayers},
	{model.ErrAlreadyAssigned, http.StatusConflict, CodeAlreadyAssigned},
	{model.ErrPhaseClosed, http.StatusConflict, CodePhaseClosed},
	{model.ErrIllegalActionForRole, http.StatusForbidden, CodeIllegalAction},
	{model.ErrNoSkipsRemaining, http.StatusConflict, CodeNoSkipsRemaining},
	{model.ErrSettingsOutOfRange, http.StatusBadRequest, CodeSettingsOutOfRange},
	{model.ErrUnknownSetting, http.StatusBadRequest, CodeUnknownSetting},
	{model.ErrSettingsLockedOnceStarted, http.StatusConflict, CodeSettingsLocked},
	{model.ErrAccountNotFound, http.StatusNotFound, CodeUnknownPlayer},
	{model.ErrUsernameTaken, http.StatusConflict, CodeUsernameTaken},
	{model.ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials},
	{model.ErrInvalidToken, http.StatusUnauthorized, CodeUnauthorized},
}

func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}
	for _, m := range mappings {
		if errors.Is(err, m.err) {
			return &httpError{
				status:   m.status,
				apiError: APIError{Code: m.code, Message: err.Error()},
			}
		}
	}
	return &httpError{
		status:   http.StatusInternalServerError,
		apiError: APIError{Code: CodeInternalError, Message: "internal server error"},
	}
}
