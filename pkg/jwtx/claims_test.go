package jwtx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/reelgate/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestClaimsValidate(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	t.Run("session claims are valid", func(t *testing.T) {
		c := jwtx.NewSessionClaims("user-1", time.Hour, now)
		require.NoError(t, c.Validate())
		require.Equal(t, jwtx.ScopeSession, c.Scope)
		require.Equal(t, now.Add(time.Hour), c.Expiry())
	})

	t.Run("playback claims carry the video", func(t *testing.T) {
		c := jwtx.NewPlaybackClaims("video-1", time.Minute, now)
		require.NoError(t, c.Validate())
		require.Empty(t, c.UserID)
	})

	t.Run("missing exp", func(t *testing.T) {
		c := jwtx.Claims{UserID: "u", Scope: jwtx.ScopeSession}
		require.ErrorIs(t, c.Validate(), jwtx.ErrInvalidClaim)
	})

	t.Run("unknown scope", func(t *testing.T) {
		c := jwtx.NewSessionClaims("u", time.Hour, now)
		c.Scope = "admin"
		require.ErrorIs(t, c.Validate(), jwtx.ErrInvalidClaim)
	})

	t.Run("playback without video", func(t *testing.T) {
		c := jwtx.NewPlaybackClaims("", time.Minute, now)
		require.ErrorIs(t, c.Validate(), jwtx.ErrInvalidClaim)
	})

	t.Run("session with video", func(t *testing.T) {
		c := jwtx.NewSessionClaims("u", time.Hour, now)
		c.VideoID = "v"
		require.ErrorIs(t, c.Validate(), jwtx.ErrInvalidClaim)
	})

	t.Run("refresh without user", func(t *testing.T) {
		c := jwtx.NewRefreshClaims("", time.Hour, now)
		require.ErrorIs(t, c.Validate(), jwtx.ErrInvalidClaim)
	})
}

func TestNewJTIUnique(t *testing.T) {
	seen := make(map[string]struct{}, 100)
	for range 100 {
		id := jwtx.NewJTI()
		_, dup := seen[id]
		require.False(t, dup)
		seen[id] = struct{}{}
	}
}

func TestExpiryZeroWhenUnset(t *testing.T) {
	c := jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{}}
	require.True(t, c.Expiry().IsZero())
}
