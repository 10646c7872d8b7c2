package redisstore

import (
	"context"
	"strconv"
	"time"

	"github.com/aussiebroadwan/reelgate/internal/auth/domain"
	"github.com/redis/go-redis/v9"
)

// Revoke stores the revocation with SET NX, expiring the key at the
// token's own expiry. The value is the expiry in unix milliseconds so that
// IsRevoked can honour an explicit clock.
func (s *Store) Revoke(ctx context.Context, r domain.Revocation) error {
	if !r.ExpiresAt.After(r.InvalidatedAt) {
		return nil
	}

	err := s.client.SetArgs(ctx, s.key("revoked", r.TokenHash), r.ExpiresAt.UnixMilli(), redis.SetArgs{
		Mode:     "NX",
		ExpireAt: r.ExpiresAt,
	}).Err()
	if isNil(err) {
		return nil // already revoked
	}
	return err
}

func (s *Store) IsRevoked(ctx context.Context, hash string, now time.Time) (bool, error) {
	val, err := s.client.Get(ctx, s.key("revoked", hash)).Result()
	if isNil(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	expiresAt, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return false, err
	}
	return expiresAt > now.UnixMilli(), nil
}

// DeleteExpiredRevocations does nothing; redis expires the keys itself.
func (s *Store) DeleteExpiredRevocations(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}
