package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/reelgate/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface implemented by the sqlite driver.
// It exposes sub-repositories so callers can hand a service only the repos
// it needs, and so a Tx-scoped Store cannot open a nested transaction.
//
// Revocations and LoginAttempts are also implemented by the redis driver;
// the app picks one implementation of each at startup.
type Store interface {
	Users() Users
	RefreshTokens() RefreshTokens
	Revocations() Revocations
	LoginAttempts() LoginAttempts
	Videos() Videos
	WatchHistory() WatchHistory

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, committing when fn returns
	// nil and rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail expects an already normalised (lower-cased) email.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser returns ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdatePasswordHash replaces the stored hash, used to upgrade legacy
	// hashes after a successful login.
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error
}

type RefreshTokens interface {
	CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error

	// GetRefreshTokenByHash returns the record for a token fingerprint.
	GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error)

	// DeleteRefreshToken is a no-op for unknown hashes.
	DeleteRefreshToken(ctx context.Context, hash string) error

	// DeleteExpiredRefreshTokens is housekeeping.
	DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error)
}

type Revocations interface {
	// Revoke inserts the revocation unless one for the same hash exists.
	Revoke(ctx context.Context, r domain.Revocation) error

	// IsRevoked reports whether hash has a revocation that is still in
	// force at now. Entries with expires_at <= now are ignored.
	IsRevoked(ctx context.Context, hash string, now time.Time) (bool, error)

	// DeleteExpiredRevocations is housekeeping. Drivers with native
	// expiry may return 0 without doing anything.
	DeleteExpiredRevocations(ctx context.Context, now time.Time) (int64, error)
}

type LoginAttempts interface {
	RecordAttempt(ctx context.Context, a domain.LoginAttempt) error

	// CountRecentAttempts counts attempts since the cutoff whose ip matches,
	// or whose email matches when email is not empty. Each attempt is
	// counted once even when both match.
	CountRecentAttempts(ctx context.Context, email, ip string, since time.Time) (int, error)

	// DeleteAttemptsBefore is housekeeping.
	DeleteAttemptsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type Videos interface {
	GetVideoByID(ctx context.Context, id string) (domain.Video, error)

	// SampleActiveVideos returns up to n active videos in random order.
	SampleActiveVideos(ctx context.Context, n int) ([]domain.Video, error)

	// CreateVideo is used by the seeder.
	CreateVideo(ctx context.Context, v domain.Video) error
}

type WatchHistory interface {
	RecordWatch(ctx context.Context, e domain.WatchEvent) error

	// ListWatchesByUser returns the newest events first.
	ListWatchesByUser(ctx context.Context, userID string, limit int) ([]domain.WatchEvent, error)
}
