package authsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/reelgate/pkg/httpx"
)

// Error codes written in the "error" field of failure responses.
const (
	ErrorCodeInvalidRequest      = "invalid_request"
	ErrorCodeValidationFailed    = "validation_failed"
	ErrorCodeEmailExists         = "email_exists"
	ErrorCodeInvalidCredentials  = "invalid_credentials"
	ErrorCodeRateLimited         = "rate_limited"
	ErrorCodeInvalidToken        = "invalid_token"
	ErrorCodeTokenExpired        = "token_expired"
	ErrorCodeTokenInvalidated    = "token_invalidated"
	ErrorCodeInvalidRefreshToken = "invalid_refresh_token"
	ErrorCodeRefreshTokenExpired = "refresh_token_expired"
	ErrorCodeNotFound            = "not_found"
	ErrorCodeUnauthorized        = "unauthorized"
	ErrorCodeServerError         = "server_error"
	ErrorCodeServiceUnavailable  = "service_unavailable"

	// ErrorCodeTooManyRequests comes from the per-IP edge limiter rather
	// than the login attempt ledger.
	ErrorCodeTooManyRequests = "rate_limit_exceeded"
)

// APIError is a failure response. The server writes it with WriteError and
// the client returns it from every call that gets a non-2xx status.
type APIError struct {
	StatusCode  int               `json:"-"`
	Code        string            `json:"error"`
	Description string            `json:"error_description,omitempty"`
	Fields      map[string]string `json:"errors,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Description == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// Is matches another *APIError with the same status and code, so predefined
// errors work with errors.Is regardless of description or fields.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.StatusCode == t.StatusCode && e.Code == t.Code
}

// WriteError writes the error as a JSON response.
func (e *APIError) WriteError(w http.ResponseWriter) {
	body := map[string]any{
		"success": false,
		"error":   e.Code,
	}
	if e.Description != "" {
		body["error_description"] = e.Description
	}
	if len(e.Fields) > 0 {
		body["errors"] = e.Fields
	}
	httpx.WriteJSON(w, e.StatusCode, body)
}

// WithFields returns a copy of e carrying per-field messages.
func (e *APIError) WithFields(fields map[string]string) *APIError {
	cp := *e
	cp.Fields = fields
	return &cp
}

var (
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request body is malformed",
	}

	ErrValidationFailed = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeValidationFailed,
		Description: "validation failed",
	}

	// ErrEmailExists keeps the 400 status clients of the mobile app expect.
	ErrEmailExists = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeEmailExists,
		Description: "email already exists",
	}

	ErrInvalidCredentials = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidCredentials,
		Description: "invalid email or password",
	}

	ErrRateLimited = &APIError{
		StatusCode:  http.StatusTooManyRequests,
		Code:        ErrorCodeRateLimited,
		Description: "too many login attempts, please try again later",
	}

	ErrInvalidToken = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidToken,
		Description: "invalid token",
	}

	ErrTokenExpired = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeTokenExpired,
		Description: "token has expired",
	}

	ErrTokenInvalidated = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeTokenInvalidated,
		Description: "token has been invalidated",
	}

	ErrInvalidRefreshToken = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidRefreshToken,
		Description: "invalid refresh token",
	}

	ErrRefreshTokenExpired = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeRefreshTokenExpired,
		Description: "refresh token has expired",
	}

	ErrNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeNotFound,
		Description: "user not found",
	}

	// ErrUnauthorized is the single answer to every playback denial.
	ErrUnauthorized = &APIError{
		StatusCode: http.StatusUnauthorized,
		Code:       ErrorCodeUnauthorized,
	}

	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}

	ErrServiceUnavailable = &APIError{
		StatusCode:  http.StatusServiceUnavailable,
		Code:        ErrorCodeServiceUnavailable,
		Description: "service unavailable",
	}
)

// NewAPIError creates an APIError with a custom description.
func NewAPIError(statusCode int, code, description string) *APIError {
	return &APIError{
		StatusCode:  statusCode,
		Code:        code,
		Description: description,
	}
}

// parseErrorResponse turns a failure response into an *APIError. Bodies
// that are not JSON produce a generic error for the status code.
func parseErrorResponse(resp *http.Response, body []byte) error {
	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Code != "" {
		apiErr.StatusCode = resp.StatusCode
		return &apiErr
	}

	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
