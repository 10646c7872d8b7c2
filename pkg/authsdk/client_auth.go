package authsdk

import (
	"context"
	"net/http"
)

// Signup registers a new account. It does not log the user in.
func (c *SDKClient) Signup(ctx context.Context, req SignupRequest) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/signup", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// LoginTokens exchanges credentials for a token pair without wrapping it in
// a Session.
func (c *SDKClient) LoginTokens(ctx context.Context, email, password string) (*TokenResponse, error) {
	var out TokenResponse
	req := LoginRequest{Email: email, Password: password}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for an authenticated Session.
func (c *SDKClient) Login(ctx context.Context, email, password string) (*Session, error) {
	tokens, err := c.LoginTokens(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return c.NewSessionFromTokens(tokens.Token, tokens.RefreshToken, tokens.ExpiresIn), nil
}

// Refresh trades a refresh token for a new access token.
func (c *SDKClient) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	var out TokenResponse
	req := RefreshRequest{RefreshToken: refreshToken}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/refresh", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
