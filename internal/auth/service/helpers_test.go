package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/reelgate/internal/auth/domain"
	"github.com/aussiebroadwan/reelgate/internal/auth/service"
	"github.com/aussiebroadwan/reelgate/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/reelgate/pkg/cryptox"
	"github.com/aussiebroadwan/reelgate/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const strongPassword = "Str0ng!pass"

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *clock {
	return &clock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fixture struct {
	store    *sqlite.Store
	clock    *clock
	codec    *jwtx.Codec
	auth     *service.AuthService
	playback *service.PlaybackService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())

	clk := newClock()
	codec, err := jwtx.NewCodec([]byte("test-secret"), "HS256", jwtx.WithClock(clk.Now))
	require.NoError(t, err)

	return &fixture{
		store: s,
		clock: clk,
		codec: codec,
		auth: &service.AuthService{
			Users:         s.Users(),
			RefreshTokens: s.RefreshTokens(),
			Revocations:   s.Revocations(),
			LoginAttempts: s.LoginAttempts(),
			Hasher:        cryptox.NewPasswordHasher("pepper"),
			Codec:         codec,
			Now:           clk.Now,
		},
		playback: &service.PlaybackService{
			Videos:       s.Videos(),
			WatchHistory: s.WatchHistory(),
			Codec:        codec,
			Now:          clk.Now,
		},
	}
}

func (f *fixture) signup(t *testing.T, email string) domain.User {
	t.Helper()

	u, err := f.auth.Signup(context.Background(), service.SignupRequest{
		FullName:        "Test User",
		Email:           email,
		Password:        strongPassword,
		ConfirmPassword: strongPassword,
	})
	require.NoError(t, err)
	return u
}

func (f *fixture) addVideo(t *testing.T, id, externalID string, active bool) domain.Video {
	t.Helper()

	v := domain.Video{
		ID:           id,
		Title:        "Video " + id,
		Description:  "about " + id,
		ThumbnailURL: "https://img.example.com/" + id + ".jpg",
		ExternalID:   externalID,
		IsActive:     active,
		CreatedAt:    f.clock.Now(),
	}
	require.NoError(t, f.store.Videos().CreateVideo(context.Background(), v))
	return v
}
