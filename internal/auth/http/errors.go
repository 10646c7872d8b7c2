package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/reelgate/internal/auth/service"
	"github.com/aussiebroadwan/reelgate/pkg/authsdk"
	"github.com/aussiebroadwan/reelgate/pkg/slogx"
)

// errorMap is checked in order. ErrValidationFailed is handled separately
// because it carries field messages.
var errorMap = []struct {
	err error
	api *authsdk.APIError
}{
	{service.ErrConflict, authsdk.ErrEmailExists},
	{service.ErrInvalidCredentials, authsdk.ErrInvalidCredentials},
	{service.ErrRateLimited, authsdk.ErrRateLimited},
	{service.ErrInvalidToken, authsdk.ErrInvalidToken},
	{service.ErrTokenExpired, authsdk.ErrTokenExpired},
	{service.ErrTokenInvalidated, authsdk.ErrTokenInvalidated},
	{service.ErrInvalidRefreshToken, authsdk.ErrInvalidRefreshToken},
	{service.ErrRefreshTokenExpired, authsdk.ErrRefreshTokenExpired},
	{service.ErrNotFound, authsdk.ErrNotFound},
	{service.ErrUnauthorized, authsdk.ErrUnauthorized},
}

// writeError maps a service error to its fixed response. Anything
// unrecognised, persistence failures included, is logged and becomes a 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		authsdk.ErrValidationFailed.WithFields(verr.Fields).WriteError(w)
		return
	}

	for _, m := range errorMap {
		if errors.Is(err, m.err) {
			m.api.WriteError(w)
			return
		}
	}

	slogx.FromContext(r.Context()).Error("request failed", "err", err)
	authsdk.ErrServerError.WriteError(w)
}
