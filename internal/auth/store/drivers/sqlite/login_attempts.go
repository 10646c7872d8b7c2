package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/reelgate/internal/auth/domain"
	"github.com/aussiebroadwan/reelgate/internal/auth/store/drivers/sqlite/gen"
)

type loginAttemptsRepo struct {
	q *gen.Queries
}

func (r *loginAttemptsRepo) RecordAttempt(ctx context.Context, a domain.LoginAttempt) error {
	return r.q.CreateLoginAttempt(ctx, gen.CreateLoginAttemptParams{
		ID:          a.ID,
		Email:       mapStringNull(a.Email),
		Ip:          a.IP,
		AttemptedAt: toMillis(a.At),
		Succeeded:   a.Succeeded,
	})
}

func (r *loginAttemptsRepo) CountRecentAttempts(
	ctx context.Context,
	email, ip string,
	since time.Time,
) (int, error) {
	n, err := r.q.CountRecentLoginAttempts(ctx, gen.CountRecentLoginAttemptsParams{
		Since: toMillis(since),
		Ip:    ip,
		Email: email,
	})
	return int(n), err
}

func (r *loginAttemptsRepo) DeleteAttemptsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.q.DeleteLoginAttemptsBefore(ctx, toMillis(cutoff))
}
