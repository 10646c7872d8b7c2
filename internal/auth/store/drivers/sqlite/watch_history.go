package sqlite

import (
	"context"

	"github.com/aussiebroadwan/reelgate/internal/auth/domain"
	"github.com/aussiebroadwan/reelgate/internal/auth/store/drivers/sqlite/gen"
)

type watchHistoryRepo struct {
	q *gen.Queries
}

func (r *watchHistoryRepo) RecordWatch(ctx context.Context, e domain.WatchEvent) error {
	return r.q.CreateWatchEvent(ctx, gen.CreateWatchEventParams{
		ID:        e.ID,
		UserID:    e.UserID,
		VideoID:   e.VideoID,
		WatchedAt: toMillis(e.WatchedAt),
	})
}

func (r *watchHistoryRepo) ListWatchesByUser(
	ctx context.Context,
	userID string,
	limit int,
) ([]domain.WatchEvent, error) {
	rows, err := r.q.ListWatchesByUser(ctx, gen.ListWatchesByUserParams{
		UserID: userID,
		Limit:  int64(limit),
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.WatchEvent, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapWatchEvent(row))
	}
	return out, nil
}
