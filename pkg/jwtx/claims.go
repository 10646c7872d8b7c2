package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token lifetimes. The session and playback values are part of the
// mobile client contract, so change them with care.
const (
	DefaultAccessTokenTTL   = 24 * time.Hour
	DefaultRefreshTokenTTL  = 7 * 24 * time.Hour
	DefaultPlaybackTokenTTL = 5 * time.Minute
)

// Scope tags what a token may be used for. It travels in the "typ" claim so a
// token minted for one purpose can never be replayed against another.
type Scope string

const (
	ScopeSession  Scope = "session"
	ScopeRefresh  Scope = "refresh"
	ScopePlayback Scope = "playback"
)

func (s Scope) valid() bool {
	switch s {
	case ScopeSession, ScopeRefresh, ScopePlayback:
		return true
	}
	return false
}

// Claims is the payload carried by every token the service signs.
//
// Session and refresh tokens carry a user_id and never a video_id. Playback
// tokens always carry a video_id and are not bound to a user.
type Claims struct {
	jwt.RegisteredClaims

	UserID  string `json:"user_id,omitempty"`
	Scope   Scope  `json:"typ"`
	VideoID string `json:"video_id,omitempty"`
}

// NewSessionClaims builds claims for a user's access token.
func NewSessionClaims(userID string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: registered(ttl, now),
		UserID:           userID,
		Scope:            ScopeSession,
	}
}

// NewRefreshClaims builds claims for a long-lived refresh token.
func NewRefreshClaims(userID string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: registered(ttl, now),
		UserID:           userID,
		Scope:            ScopeRefresh,
	}
}

// NewPlaybackClaims builds claims binding a token to a single video.
func NewPlaybackClaims(videoID string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: registered(ttl, now),
		Scope:            ScopePlayback,
		VideoID:          videoID,
	}
}

func registered(ttl time.Duration, now time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        NewJTI(),
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim. Two
// tokens minted for the same user in the same second therefore still differ,
// which matters because revocation is keyed on the token itself.
func NewJTI() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// Expiry returns the exp claim as a time, or the zero time if absent.
func (c Claims) Expiry() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// Validate enforces the structural invariants of Claims. The jwt parser calls
// it after the registered-claim checks, and Codec.Issue calls it before
// signing.
func (c Claims) Validate() error {
	if c.ExpiresAt == nil {
		return fmt.Errorf("%w: missing exp", ErrInvalidClaim)
	}
	if !c.Scope.valid() {
		return fmt.Errorf("%w: unknown typ %q", ErrInvalidClaim, c.Scope)
	}

	switch c.Scope {
	case ScopePlayback:
		if c.VideoID == "" {
			return fmt.Errorf("%w: playback token without video_id", ErrInvalidClaim)
		}
	default:
		if c.UserID == "" {
			return fmt.Errorf("%w: %s token without user_id", ErrInvalidClaim, c.Scope)
		}
		if c.VideoID != "" {
			return fmt.Errorf("%w: %s token with video_id", ErrInvalidClaim, c.Scope)
		}
	}

	return nil
}
