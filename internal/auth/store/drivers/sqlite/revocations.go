package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/reelgate/internal/auth/domain"
	"github.com/aussiebroadwan/reelgate/internal/auth/store/drivers/sqlite/gen"
)

type revocationsRepo struct {
	q *gen.Queries
}

func (r *revocationsRepo) Revoke(ctx context.Context, rev domain.Revocation) error {
	return r.q.CreateRevocation(ctx, gen.CreateRevocationParams{
		TokenHash:     rev.TokenHash,
		InvalidatedAt: toMillis(rev.InvalidatedAt),
		ExpiresAt:     toMillis(rev.ExpiresAt),
	})
}

func (r *revocationsRepo) IsRevoked(ctx context.Context, hash string, now time.Time) (bool, error) {
	n, err := r.q.CountActiveRevocations(ctx, gen.CountActiveRevocationsParams{
		TokenHash: hash,
		ExpiresAt: toMillis(now),
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *revocationsRepo) DeleteExpiredRevocations(ctx context.Context, now time.Time) (int64, error) {
	return r.q.DeleteExpiredRevocations(ctx, toMillis(now))
}
