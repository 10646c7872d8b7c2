package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/reelgate/internal/auth/domain"
	"github.com/aussiebroadwan/reelgate/internal/auth/service"
	"github.com/aussiebroadwan/reelgate/pkg/authsdk"
	"github.com/aussiebroadwan/reelgate/pkg/httpx"
	"github.com/aussiebroadwan/reelgate/pkg/slogx"
)

type AuthHandler struct {
	AuthService *service.AuthService
}

// decode writes the 400 itself and reports whether the handler may go on.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httpx.DecodeJSON(w, r, dst); err != nil {
		slogx.FromContext(r.Context()).Info("bad request body", "err", err)
		authsdk.ErrInvalidRequest.WriteError(w)
		return false
	}
	return true
}

// withIP adds the client address to the request logger. The address comes
// from ClientIPMiddleware, which only trusts forwarding headers set by a
// configured proxy.
func withIP(r *http.Request) (*http.Request, string) {
	ip := httpx.IPKeyExtractor(r)
	return r.WithContext(slogx.With(r.Context(), slog.String("ip", ip))), ip
}

func tokenResponse(p *domain.TokenPair) authsdk.TokenResponse {
	return authsdk.TokenResponse{
		Success:      true,
		Token:        p.AccessToken,
		RefreshToken: p.RefreshToken,
		TokenType:    p.TokenType,
		ExpiresIn:    int(p.ExpiresIn.Seconds()),
	}
}

// HandleSignup handles POST /auth/signup.
//
//	@Summary		Create an account
//	@Description	Registers a user. Field problems are reported per field under "errors".
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.SignupRequest	true	"Account details"
//	@Success		201		{object}	authsdk.MessageResponse
//	@Failure		400		{object}	authsdk.APIError	"invalid_request, validation_failed or email_exists"
//	@Failure		429		{object}	authsdk.APIError	"rate_limit_exceeded"
//	@Failure		500		{object}	authsdk.APIError
//	@Router			/auth/signup [post]
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	r, _ = withIP(r)

	var req authsdk.SignupRequest
	if !decode(w, r, &req) {
		return
	}

	_, err := h.AuthService.Signup(r.Context(), service.SignupRequest{
		FullName:        req.FullName,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, authsdk.MessageResponse{
		Success: true,
		Message: "user created successfully",
	})
}

// HandleLogin handles POST /auth/login.
//
//	@Summary		Log in
//	@Description	Exchanges credentials for an access and refresh token pair. Every
//	@Description	failure, malformed bodies included, counts towards the per email
//	@Description	and per IP attempt limit.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	authsdk.TokenResponse
//	@Failure		400		{object}	authsdk.APIError	"invalid_request or validation_failed"
//	@Failure		401		{object}	authsdk.APIError	"invalid_credentials"
//	@Failure		429		{object}	authsdk.APIError	"rate_limited or rate_limit_exceeded"
//	@Failure		500		{object}	authsdk.APIError
//	@Router			/auth/login [post]
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	r, ip := withIP(r)

	var req authsdk.LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		slogx.FromContext(r.Context()).Info("bad request body", "err", err)

		// Record it as an empty login so malformed bodies are throttled too.
		_, err := h.AuthService.Login(r.Context(), "", "", ip)
		if errors.Is(err, service.ErrRateLimited) || errors.Is(err, service.ErrPersistenceFailure) {
			writeError(w, r, err)
			return
		}
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	pair, err := h.AuthService.Login(r.Context(), req.Email, req.Password, ip)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, tokenResponse(pair))
}

// HandleLogout handles POST /auth/logout.
//
//	@Summary		Log out
//	@Description	Revokes the access token until it would have expired. Logging out
//	@Description	twice with the same token succeeds.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.MessageResponse
//	@Failure		401	{object}	authsdk.APIError	"invalid_token or token_expired"
//	@Failure		500	{object}	authsdk.APIError
//	@Router			/auth/logout [post]
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	r, _ = withIP(r)

	// A missing header is an empty token; the service rejects it.
	token, _ := httpx.BearerToken(r)
	if err := h.AuthService.Logout(r.Context(), token); err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{
		Success: true,
		Message: "successfully logged out",
	})
}

// HandleMe handles GET /auth/me.
//
//	@Summary		Get the current profile
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.ProfileResponse
//	@Failure		401	{object}	authsdk.APIError	"invalid_token, token_expired or token_invalidated"
//	@Failure		404	{object}	authsdk.APIError	"not_found"
//	@Failure		500	{object}	authsdk.APIError
//	@Router			/auth/me [get]
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	token, _ := httpx.BearerToken(r)

	profile, err := h.AuthService.Profile(r.Context(), token)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.ProfileResponse{
		Success: true,
		User: authsdk.UserProfile{
			FullName: profile.FullName,
			Email:    profile.Email,
		},
	})
}

// HandleRefresh handles POST /auth/refresh.
//
//	@Summary		Refresh the access token
//	@Description	Mints a new access token. The refresh token in the response is the
//	@Description	one that was sent.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RefreshRequest	true	"Refresh token"
//	@Success		200		{object}	authsdk.TokenResponse
//	@Failure		400		{object}	authsdk.APIError	"invalid_request"
//	@Failure		401		{object}	authsdk.APIError	"invalid_refresh_token or refresh_token_expired"
//	@Failure		500		{object}	authsdk.APIError
//	@Router			/auth/refresh [post]
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	r, _ = withIP(r)

	var req authsdk.RefreshRequest
	if !decode(w, r, &req) {
		return
	}

	pair, err := h.AuthService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		if !errors.Is(err, service.ErrPersistenceFailure) {
			slogx.FromContext(r.Context()).Info("refresh rejected", "reason", err.Error())
		}
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, tokenResponse(pair))
}
