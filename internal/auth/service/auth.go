package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/reelgate/internal/auth/domain"
	"github.com/aussiebroadwan/reelgate/internal/auth/metrics"
	"github.com/aussiebroadwan/reelgate/internal/auth/store"
	"github.com/aussiebroadwan/reelgate/pkg/cryptox"
	"github.com/aussiebroadwan/reelgate/pkg/idx"
	"github.com/aussiebroadwan/reelgate/pkg/jwtx"
	"github.com/aussiebroadwan/reelgate/pkg/slogx"
	"github.com/google/uuid"
)

// Login rate limit defaults: five attempts per ip or email in five minutes.
const (
	DefaultLoginWindow      = 5 * time.Minute
	DefaultMaxLoginAttempts = 5
)

// PasswordHasher is satisfied by *cryptox.PasswordHasher.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(encoded, password string) error
	NeedsRehash(encoded string) bool
}

// AuthService implements signup, login, logout, profile lookup and token
// refresh. Zero durations and limits fall back to the defaults.
type AuthService struct {
	Users         store.Users
	RefreshTokens store.RefreshTokens
	Revocations   store.Revocations
	LoginAttempts store.LoginAttempts
	Hasher        PasswordHasher
	Codec         *jwtx.Codec
	Metrics       metrics.Recorder

	AccessTTL        time.Duration
	RefreshTTL       time.Duration
	LoginWindow      time.Duration
	MaxLoginAttempts int

	// Now is the clock. It should match the clock of Codec.
	Now func() time.Time
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *AuthService) metrics() metrics.Recorder {
	if s.Metrics == nil {
		return metrics.NewNoopMetrics()
	}
	return s.Metrics
}

func (s *AuthService) accessTTL() time.Duration {
	return orDefault(s.AccessTTL, jwtx.DefaultAccessTokenTTL)
}

func (s *AuthService) refreshTTL() time.Duration {
	return orDefault(s.RefreshTTL, jwtx.DefaultRefreshTokenTTL)
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

// Signup registers a new account. It never issues a token.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (domain.User, error) {
	l := slogx.FromContext(ctx)

	if verr := req.validate(); verr != nil {
		l.Info("signup validation failed", slog.Int("fields", len(verr.Fields)))
		return domain.User{}, verr
	}

	_, err := s.Users.GetUserByEmail(ctx, req.Email)
	switch {
	case err == nil:
		l.Info("signup failed: email already exists")
		return domain.User{}, ErrConflict
	case !errors.Is(err, store.ErrNotFound):
		return domain.User{}, persistence("lookup user", err)
	}

	hash, err := s.Hasher.Hash(req.Password)
	if err != nil {
		return domain.User{}, persistence("hash password", err)
	}

	user := domain.User{
		ID:           uuid.NewString(),
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.Users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			// Lost a race with a concurrent signup for the same email.
			return domain.User{}, ErrConflict
		}
		return domain.User{}, persistence("create user", err)
	}

	l.Info("signup succeeded", slog.String("user_id", user.ID))
	return user, nil
}

// Login checks the attempt ledger, then the input, then the credentials.
// Every outcome except a rate limit rejection is recorded in the ledger.
func (s *AuthService) Login(ctx context.Context, email, password, ip string) (*domain.TokenPair, error) {
	l := slogx.FromContext(ctx)
	now := s.now()
	email = normalizeEmail(email)

	window := orDefault(s.LoginWindow, DefaultLoginWindow)
	limit := s.MaxLoginAttempts
	if limit <= 0 {
		limit = DefaultMaxLoginAttempts
	}

	count, err := s.LoginAttempts.CountRecentAttempts(ctx, email, ip, now.Add(-window))
	if err != nil {
		s.metrics().RecordLogin(metrics.LoginStorageError)
		return nil, persistence("count login attempts", err)
	}
	if count >= limit {
		l.Warn("login rate limited", slog.String("ip", ip), slog.Int("attempts", count))
		s.metrics().RecordLogin(metrics.LoginRateLimited)
		return nil, ErrRateLimited
	}

	// reject records a failed attempt and returns cause.
	reject := func(result string, cause error) error {
		if err := s.recordAttempt(ctx, email, ip, now, false); err != nil {
			s.metrics().RecordLogin(metrics.LoginStorageError)
			return err
		}
		s.metrics().RecordLogin(result)
		return cause
	}

	switch {
	case email == "":
		return nil, reject(metrics.LoginValidation, fieldError("email", msgEmailRequired))
	case !isValidEmail(email):
		return nil, reject(metrics.LoginValidation, fieldError("email", msgEmailInvalid))
	case password == "":
		return nil, reject(metrics.LoginValidation, fieldError("password", msgPasswordRequired))
	}

	user, err := s.Users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Info("login failed: unknown email")
			return nil, reject(metrics.LoginInvalid, ErrInvalidCredentials)
		}
		return nil, persistence("lookup user", err)
	}

	if err := s.Hasher.Verify(user.PasswordHash, password); err != nil {
		if !errors.Is(err, cryptox.ErrMismatch) {
			l.Error("stored password hash is unusable", slog.String("user_id", user.ID), slog.Any("error", err))
		}
		l.Info("login failed: bad password", slog.String("user_id", user.ID))
		return nil, reject(metrics.LoginInvalid, ErrInvalidCredentials)
	}

	// Record first so a failed write can't leave a refresh record behind.
	if err := s.recordAttempt(ctx, email, ip, now, true); err != nil {
		s.metrics().RecordLogin(metrics.LoginStorageError)
		return nil, err
	}

	pair, err := s.issuePair(ctx, user.ID, now)
	if err != nil {
		return nil, err
	}
	s.metrics().RecordLogin(metrics.LoginSuccess)

	s.upgradeHash(ctx, user, password)

	l.Info("login succeeded", slog.String("user_id", user.ID))
	return pair, nil
}

func (s *AuthService) recordAttempt(ctx context.Context, email, ip string, at time.Time, ok bool) error {
	err := s.LoginAttempts.RecordAttempt(ctx, domain.LoginAttempt{
		ID:        idx.NewAt(at).String(),
		Email:     email,
		IP:        ip,
		At:        at,
		Succeeded: ok,
	})
	if err != nil {
		return persistence("record login attempt", err)
	}
	return nil
}

// upgradeHash replaces legacy or outdated hashes after a successful login.
// Failure only costs another attempt at the next login.
func (s *AuthService) upgradeHash(ctx context.Context, user domain.User, password string) {
	if !s.Hasher.NeedsRehash(user.PasswordHash) {
		return
	}

	l := slogx.FromContext(ctx)
	hash, err := s.Hasher.Hash(password)
	if err == nil {
		err = s.Users.UpdatePasswordHash(ctx, user.ID, hash)
	}
	if err != nil {
		l.Warn("password rehash failed", slog.String("user_id", user.ID), slog.Any("error", err))
		return
	}
	l.Info("password hash upgraded", slog.String("user_id", user.ID))
}

// issuePair mints a session token and a refresh token, persisting the
// refresh record.
func (s *AuthService) issuePair(ctx context.Context, userID string, now time.Time) (*domain.TokenPair, error) {
	access, err := s.issueAccess(userID, now)
	if err != nil {
		return nil, err
	}

	refreshTTL := s.refreshTTL()
	refresh, err := s.Codec.Issue(jwtx.NewRefreshClaims(userID, refreshTTL, now))
	if err != nil {
		return nil, persistence("sign refresh token", err)
	}

	err = s.RefreshTokens.CreateRefreshToken(ctx, domain.RefreshToken{
		TokenHash: cryptox.FingerprintToken(refresh),
		UserID:    userID,
		ExpiresAt: now.Add(refreshTTL),
		CreatedAt: now,
	})
	if err != nil {
		return nil, persistence("store refresh token", err)
	}
	s.metrics().RecordTokenIssued(string(jwtx.ScopeRefresh))

	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    s.accessTTL(),
	}, nil
}

func (s *AuthService) issueAccess(userID string, now time.Time) (string, error) {
	token, err := s.Codec.Issue(jwtx.NewSessionClaims(userID, s.accessTTL(), now))
	if err != nil {
		return "", persistence("sign access token", err)
	}
	s.metrics().RecordTokenIssued(string(jwtx.ScopeSession))
	return token, nil
}

// parseSession maps codec failures onto the session token errors.
func (s *AuthService) parseSession(token string) (jwtx.Claims, error) {
	if token == "" {
		return jwtx.Claims{}, ErrInvalidToken
	}
	claims, err := s.Codec.ParseScoped(token, jwtx.ScopeSession)
	switch {
	case err == nil:
		return claims, nil
	case errors.Is(err, jwtx.ErrExpired):
		return jwtx.Claims{}, ErrTokenExpired
	default:
		return jwtx.Claims{}, ErrInvalidToken
	}
}

// Logout revokes a session token until it would have expired anyway.
// Logging out an already revoked token succeeds.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	l := slogx.FromContext(ctx)
	now := s.now()

	if token == "" {
		return ErrInvalidToken
	}
	hash := cryptox.FingerprintToken(token)

	revoked, err := s.Revocations.IsRevoked(ctx, hash, now)
	if err != nil {
		return persistence("check revocation", err)
	}
	if revoked {
		return nil
	}

	claims, err := s.parseSession(token)
	if err != nil {
		l.Info("logout rejected", slog.String("reason", err.Error()))
		return err
	}

	err = s.Revocations.Revoke(ctx, domain.Revocation{
		TokenHash:     hash,
		InvalidatedAt: now,
		ExpiresAt:     claims.Expiry(),
	})
	if err != nil {
		return persistence("revoke token", err)
	}
	s.metrics().RecordTokenRevoked()

	l.Info("logout succeeded", slog.String("user_id", claims.UserID))
	return nil
}

// Profile returns the owner of a valid, unrevoked session token.
func (s *AuthService) Profile(ctx context.Context, token string) (domain.Profile, error) {
	claims, err := s.parseSession(token)
	if err != nil {
		return domain.Profile{}, err
	}

	revoked, err := s.Revocations.IsRevoked(ctx, cryptox.FingerprintToken(token), s.now())
	if err != nil {
		return domain.Profile{}, persistence("check revocation", err)
	}
	if revoked {
		return domain.Profile{}, ErrTokenInvalidated
	}

	user, err := s.Users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Profile{}, ErrNotFound
		}
		return domain.Profile{}, persistence("lookup user", err)
	}

	return user.Profile(), nil
}

// Refresh mints a new access token for the owner of a refresh token. The
// token must be both on record and valid on its own. It is not rotated:
// the same refresh token is handed back and stays usable until it expires.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (pair *domain.TokenPair, err error) {
	l := slogx.FromContext(ctx)
	now := s.now()

	defer func() { s.metrics().RecordRefresh(err == nil) }()

	if refreshToken == "" {
		return nil, ErrInvalidRefreshToken
	}
	hash := cryptox.FingerprintToken(refreshToken)

	record, err := s.RefreshTokens.GetRefreshTokenByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, persistence("lookup refresh token", err)
	}

	// expire drops the record; the token can never be used again.
	expire := func() error {
		if err := s.RefreshTokens.DeleteRefreshToken(ctx, hash); err != nil {
			return persistence("delete refresh token", err)
		}
		l.Info("refresh token expired", slog.String("user_id", record.UserID))
		return ErrRefreshTokenExpired
	}

	if !now.Before(record.ExpiresAt) {
		return nil, expire()
	}

	// The JWT exp is whole seconds, so it can lapse just before the record.
	claims, err := s.Codec.ParseScoped(refreshToken, jwtx.ScopeRefresh)
	switch {
	case errors.Is(err, jwtx.ErrExpired):
		return nil, expire()
	case err != nil:
		l.Warn("stored refresh token failed validation", slog.String("user_id", record.UserID))
		return nil, ErrInvalidRefreshToken
	case claims.UserID != record.UserID:
		l.Warn("refresh token subject mismatch", slog.String("user_id", record.UserID))
		return nil, ErrInvalidRefreshToken
	}

	access, err := s.issueAccess(claims.UserID, now)
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    s.accessTTL(),
	}, nil
}
