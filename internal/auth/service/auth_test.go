package service_test

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/reelgate/internal/auth/domain"
	"github.com/aussiebroadwan/reelgate/internal/auth/service"
	"github.com/aussiebroadwan/reelgate/internal/auth/store"
	"github.com/aussiebroadwan/reelgate/pkg/cryptox"
	"github.com/aussiebroadwan/reelgate/pkg/jwtx"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSignupLoginProfileLogout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	u := f.signup(t, "  Alice@Example.com ")
	require.Equal(t, "alice@example.com", u.Email)

	pair, err := f.auth.Login(ctx, "alice@example.com", strongPassword, "10.0.0.1")
	require.NoError(t, err)
	require.Equal(t, "Bearer", pair.TokenType)
	require.Equal(t, jwtx.DefaultAccessTokenTTL, pair.ExpiresIn)
	require.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	profile, err := f.auth.Profile(ctx, pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "Test User", profile.FullName)
	require.Equal(t, "alice@example.com", profile.Email)

	require.NoError(t, f.auth.Logout(ctx, pair.AccessToken))

	_, err = f.auth.Profile(ctx, pair.AccessToken)
	require.ErrorIs(t, err, service.ErrTokenInvalidated)

	// Logging out again is fine.
	require.NoError(t, f.auth.Logout(ctx, pair.AccessToken))
}

func TestSignupValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.auth.Signup(ctx, service.SignupRequest{
		FullName:        " ",
		Email:           "bad@",
		Password:        "weak",
		ConfirmPassword: "other",
	})
	require.ErrorIs(t, err, service.ErrValidationFailed)

	var verr *service.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, map[string]string{
		"full_name":        "full_name is required",
		"email":            "email is invalid",
		"password":         "password is too weak",
		"confirm_password": "passwords do not match",
	}, verr.Fields)

	_, err = f.auth.Signup(ctx, service.SignupRequest{FullName: "x"})
	require.True(t, errors.As(err, &verr))
	require.Equal(t, "email is required", verr.Fields["email"])
	require.Equal(t, "password is required", verr.Fields["password"])
	require.NotContains(t, verr.Fields, "confirm_password")
}

func TestSignupDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.signup(t, "bob@example.com")

	_, err := f.auth.Signup(ctx, service.SignupRequest{
		FullName:        "Bob Again",
		Email:           "BOB@example.com",
		Password:        strongPassword,
		ConfirmPassword: strongPassword,
	})
	require.ErrorIs(t, err, service.ErrConflict)
}

func TestLoginFailures(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.signup(t, "carol@example.com")

	tests := []struct {
		name     string
		email    string
		password string
		want     error
	}{
		{"wrong password", "carol@example.com", "Wr0ng!pass", service.ErrInvalidCredentials},
		{"unknown email", "nobody@example.com", strongPassword, service.ErrInvalidCredentials},
		{"missing email", "", strongPassword, service.ErrValidationFailed},
		{"bad email", "bad@", strongPassword, service.ErrValidationFailed},
		{"missing password", "carol@example.com", "", service.ErrValidationFailed},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Distinct ips keep the cases clear of the rate limit.
			ip := "192.0.2." + strconv.Itoa(i+1)
			_, err := f.auth.Login(ctx, tt.email, tt.password, ip)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoginRateLimit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.signup(t, "dave@example.com")

	for range service.DefaultMaxLoginAttempts {
		_, err := f.auth.Login(ctx, "dave@example.com", "Wr0ng!pass", "10.0.0.2")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	}

	// Correct credentials are still refused while the window is full.
	_, err := f.auth.Login(ctx, "dave@example.com", strongPassword, "10.0.0.2")
	require.ErrorIs(t, err, service.ErrRateLimited)

	// The email is limited from any ip.
	_, err = f.auth.Login(ctx, "dave@example.com", strongPassword, "10.0.0.3")
	require.ErrorIs(t, err, service.ErrRateLimited)

	// Rejected attempts are not recorded, so the window drains on schedule.
	f.clock.Advance(service.DefaultLoginWindow + time.Second)

	_, err = f.auth.Login(ctx, "dave@example.com", strongPassword, "10.0.0.2")
	require.NoError(t, err)
}

func TestLoginValidationFailuresCountTowardLimit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.signup(t, "erin@example.com")

	for range service.DefaultMaxLoginAttempts {
		_, err := f.auth.Login(ctx, "bad@", "x", "10.0.0.4")
		require.ErrorIs(t, err, service.ErrValidationFailed)
	}

	_, err := f.auth.Login(ctx, "erin@example.com", strongPassword, "10.0.0.4")
	require.ErrorIs(t, err, service.ErrRateLimited)
}

func TestLoginUpgradesLegacyHash(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	legacy, err := bcrypt.GenerateFromPassword([]byte(strongPassword), bcrypt.MinCost)
	require.NoError(t, err)

	u := domain.User{
		ID:           uuid.NewString(),
		FullName:     "Frank",
		Email:        "frank@example.com",
		PasswordHash: string(legacy),
		CreatedAt:    f.clock.Now(),
	}
	require.NoError(t, f.store.Users().CreateUser(ctx, u))

	_, err = f.auth.Login(ctx, "frank@example.com", strongPassword, "10.0.0.5")
	require.NoError(t, err)

	got, err := f.store.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(got.PasswordHash, "$argon2id$"))

	// The upgraded hash still verifies.
	_, err = f.auth.Login(ctx, "frank@example.com", strongPassword, "10.0.0.5")
	require.NoError(t, err)
}

func TestSessionTokenErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.signup(t, "gina@example.com")

	pair, err := f.auth.Login(ctx, "gina@example.com", strongPassword, "10.0.0.6")
	require.NoError(t, err)

	_, err = f.auth.Profile(ctx, "")
	require.ErrorIs(t, err, service.ErrInvalidToken)

	_, err = f.auth.Profile(ctx, "not-a-jwt")
	require.ErrorIs(t, err, service.ErrInvalidToken)

	// A refresh token is not a session token.
	_, err = f.auth.Profile(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, service.ErrInvalidToken)
	require.ErrorIs(t, f.auth.Logout(ctx, pair.RefreshToken), service.ErrInvalidToken)

	require.ErrorIs(t, f.auth.Logout(ctx, ""), service.ErrInvalidToken)

	f.clock.Advance(jwtx.DefaultAccessTokenTTL + time.Second)

	_, err = f.auth.Profile(ctx, pair.AccessToken)
	require.ErrorIs(t, err, service.ErrTokenExpired)
	require.ErrorIs(t, f.auth.Logout(ctx, pair.AccessToken), service.ErrTokenExpired)
}

func TestProfileForDeletedUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	token, err := f.codec.Issue(jwtx.NewSessionClaims("ghost", time.Hour, f.clock.Now()))
	require.NoError(t, err)

	_, err = f.auth.Profile(ctx, token)
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.signup(t, "hana@example.com")

	pair, err := f.auth.Login(ctx, "hana@example.com", strongPassword, "10.0.0.7")
	require.NoError(t, err)

	f.clock.Advance(time.Minute)

	next, err := f.auth.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, pair.RefreshToken, next.RefreshToken)
	require.NotEqual(t, pair.AccessToken, next.AccessToken)

	claims, err := f.codec.ParseScoped(next.AccessToken, jwtx.ScopeSession)
	require.NoError(t, err)
	require.Equal(t, u.ID, claims.UserID)

	// The refresh token is not rotated.
	_, err = f.auth.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
}

func TestRefreshFailures(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.signup(t, "ivan@example.com")

	pair, err := f.auth.Login(ctx, "ivan@example.com", strongPassword, "10.0.0.8")
	require.NoError(t, err)

	_, err = f.auth.Refresh(ctx, "")
	require.ErrorIs(t, err, service.ErrInvalidRefreshToken)

	// Validly signed but never stored.
	unknown, err := f.codec.Issue(jwtx.NewRefreshClaims(u.ID, time.Hour, f.clock.Now()))
	require.NoError(t, err)
	_, err = f.auth.Refresh(ctx, unknown)
	require.ErrorIs(t, err, service.ErrInvalidRefreshToken)

	// A session token has no refresh record either.
	_, err = f.auth.Refresh(ctx, pair.AccessToken)
	require.ErrorIs(t, err, service.ErrInvalidRefreshToken)

	f.clock.Advance(jwtx.DefaultRefreshTokenTTL + time.Second)

	_, err = f.auth.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, service.ErrRefreshTokenExpired)

	// The expired record was removed on the way out.
	_, err = f.auth.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, service.ErrInvalidRefreshToken)

	_, err = f.store.RefreshTokens().GetRefreshTokenByHash(ctx, cryptox.FingerprintToken(pair.RefreshToken))
	require.Error(t, err)
}

func TestRefreshTokenLapsesBeforeRecord(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.signup(t, "jo@example.com")

	// The record keeps the milliseconds; the JWT exp drops them.
	f.clock.Advance(600 * time.Millisecond)
	pair, err := f.auth.Login(ctx, "jo@example.com", strongPassword, "10.0.0.9")
	require.NoError(t, err)

	f.clock.Advance(jwtx.DefaultRefreshTokenTTL - 300*time.Millisecond)

	hash := cryptox.FingerprintToken(pair.RefreshToken)
	record, err := f.store.RefreshTokens().GetRefreshTokenByHash(ctx, hash)
	require.NoError(t, err)
	require.True(t, f.clock.Now().Before(record.ExpiresAt))

	_, err = f.auth.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, service.ErrRefreshTokenExpired)

	_, err = f.store.RefreshTokens().GetRefreshTokenByHash(ctx, hash)
	require.ErrorIs(t, err, store.ErrNotFound)
}

// failingAttempts rejects successful attempts so the login fails after the
// credentials check.
type failingAttempts struct {
	store.LoginAttempts
}

func (f failingAttempts) RecordAttempt(ctx context.Context, a domain.LoginAttempt) error {
	if a.Succeeded {
		return errors.New("disk full")
	}
	return f.LoginAttempts.RecordAttempt(ctx, a)
}

type countingRefreshTokens struct {
	store.RefreshTokens
	created int
}

func (c *countingRefreshTokens) CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error {
	c.created++
	return c.RefreshTokens.CreateRefreshToken(ctx, t)
}

func TestLoginAttemptFailureLeavesNoRefreshRecord(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.signup(t, "kim@example.com")

	refresh := &countingRefreshTokens{RefreshTokens: f.store.RefreshTokens()}
	f.auth.RefreshTokens = refresh
	f.auth.LoginAttempts = failingAttempts{LoginAttempts: f.store.LoginAttempts()}

	_, err := f.auth.Login(ctx, "kim@example.com", strongPassword, "10.0.0.10")
	require.ErrorIs(t, err, service.ErrPersistenceFailure)
	require.Zero(t, refresh.created)
}
