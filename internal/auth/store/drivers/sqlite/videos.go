package sqlite

import (
	"context"

	"github.com/aussiebroadwan/reelgate/internal/auth/domain"
	"github.com/aussiebroadwan/reelgate/internal/auth/store/drivers/sqlite/gen"
)

type videosRepo struct {
	q *gen.Queries
}

func (r *videosRepo) GetVideoByID(ctx context.Context, id string) (domain.Video, error) {
	row, err := r.q.GetVideoByID(ctx, id)
	if err != nil {
		return domain.Video{}, mapNotFound(err)
	}
	return mapVideo(row), nil
}

func (r *videosRepo) SampleActiveVideos(ctx context.Context, n int) ([]domain.Video, error) {
	if n <= 0 {
		return []domain.Video{}, nil
	}

	rows, err := r.q.SampleActiveVideos(ctx, int64(n))
	if err != nil {
		return nil, err
	}

	out := make([]domain.Video, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapVideo(row))
	}
	return out, nil
}

func (r *videosRepo) CreateVideo(ctx context.Context, v domain.Video) error {
	err := r.q.CreateVideo(ctx, gen.CreateVideoParams{
		ID:           v.ID,
		Title:        v.Title,
		Description:  v.Description,
		ThumbnailUrl: v.ThumbnailURL,
		ExternalID:   mapStringNull(v.ExternalID),
		IsActive:     v.IsActive,
		CreatedAt:    toMillis(v.CreatedAt),
	})
	return mapConstraint(err)
}
