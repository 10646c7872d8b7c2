package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/reelgate/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret-do-not-use-in-prod")

// clock is a manually advanced time source.
type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newCodec(t *testing.T) (*jwtx.Codec, *clock) {
	t.Helper()
	clk := &clock{t: time.Unix(1_700_000_000, 0)}
	c, err := jwtx.NewCodec(testSecret, "HS256", jwtx.WithClock(clk.now))
	require.NoError(t, err)
	return c, clk
}

func TestNewCodec(t *testing.T) {
	t.Run("rejects empty secret", func(t *testing.T) {
		_, err := jwtx.NewCodec(nil, "HS256")
		require.ErrorIs(t, err, jwtx.ErrEmptySecret)
	})

	t.Run("rejects asymmetric algorithms", func(t *testing.T) {
		for _, alg := range []string{"RS256", "ES256", "EdDSA", "none", ""} {
			_, err := jwtx.NewCodec(testSecret, alg)
			require.ErrorIs(t, err, jwtx.ErrUnsupportedAlg, alg)
		}
	})

	t.Run("accepts the HMAC family", func(t *testing.T) {
		for _, alg := range []string{"HS256", "HS384", "HS512"} {
			c, err := jwtx.NewCodec(testSecret, alg)
			require.NoError(t, err)
			require.Equal(t, alg, c.Alg())
		}
	})
}

func TestIssueAndParse(t *testing.T) {
	c, clk := newCodec(t)

	tok, err := c.Issue(jwtx.NewSessionClaims("user-1", time.Hour, clk.now()))
	require.NoError(t, err)
	require.Equal(t, 2, strings.Count(tok, "."))

	claims, err := c.Parse(tok)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.UserID)
	require.Equal(t, jwtx.ScopeSession, claims.Scope)
	require.NotEmpty(t, claims.ID)
}

func TestIssueRejectsBrokenClaims(t *testing.T) {
	c, clk := newCodec(t)

	_, err := c.Issue(jwtx.NewPlaybackClaims("", time.Minute, clk.now()))
	require.ErrorIs(t, err, jwtx.ErrInvalidClaim)
}

func TestParseExpiryIsMonotonic(t *testing.T) {
	c, clk := newCodec(t)

	tok, err := c.Issue(jwtx.NewSessionClaims("user-1", time.Hour, clk.now()))
	require.NoError(t, err)

	clk.advance(59 * time.Minute)
	_, err = c.Parse(tok)
	require.NoError(t, err)

	for range 3 {
		clk.advance(time.Hour)
		_, err = c.Parse(tok)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	}
}

func TestParseMalformed(t *testing.T) {
	c, clk := newCodec(t)
	now := clk.now()

	other, err := jwtx.NewCodec([]byte("another-secret"), "HS256", jwtx.WithClock(clk.now))
	require.NoError(t, err)
	foreign, err := other.Issue(jwtx.NewSessionClaims("user-1", time.Hour, now))
	require.NoError(t, err)

	hs384, err := jwtx.NewCodec(testSecret, "HS384", jwtx.WithClock(clk.now))
	require.NoError(t, err)
	wrongAlg, err := hs384.Issue(jwtx.NewSessionClaims("user-1", time.Hour, now))
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwtx.NewSessionClaims("user-1", time.Hour, now)).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": "u", "typ": "session"}).
		SignedString(testSecret)
	require.NoError(t, err)

	noVideo, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"typ": "playback",
		"exp": now.Add(time.Minute).Unix(),
	}).SignedString(testSecret)
	require.NoError(t, err)

	cases := map[string]string{
		"empty":         "",
		"garbage":       "not.a.token",
		"wrong secret":  foreign,
		"wrong alg":     wrongAlg,
		"alg none":      unsigned,
		"missing exp":   noExp,
		"missing video": noVideo,
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := c.Parse(tok)
			require.ErrorIs(t, err, jwtx.ErrMalformed)
			require.NotErrorIs(t, err, jwtx.ErrExpired)
		})
	}
}

func TestParseScoped(t *testing.T) {
	c, clk := newCodec(t)

	tok, err := c.Issue(jwtx.NewPlaybackClaims("video-1", time.Minute, clk.now()))
	require.NoError(t, err)

	claims, err := c.ParseScoped(tok, jwtx.ScopePlayback)
	require.NoError(t, err)
	require.Equal(t, "video-1", claims.VideoID)

	_, err = c.ParseScoped(tok, jwtx.ScopeSession)
	require.ErrorIs(t, err, jwtx.ErrScope)
}
