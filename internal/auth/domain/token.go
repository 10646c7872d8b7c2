package domain

import "time"

// TokenPair is what login and refresh hand back to the client.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	TokenType    string        // always "Bearer"
	ExpiresIn    time.Duration // lifetime of the access token
}

// RefreshToken models the stored refresh token record. The token itself is
// never persisted, only its fingerprint.
type RefreshToken struct {
	TokenHash string // deterministic fingerprint (base64url SHA-256)
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Revocation marks a session token as logged out until it would have
// expired anyway.
type Revocation struct {
	TokenHash     string
	InvalidatedAt time.Time
	ExpiresAt     time.Time
}
