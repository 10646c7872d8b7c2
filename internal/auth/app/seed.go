package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/reelgate/internal/auth/domain"
	"github.com/aussiebroadwan/reelgate/internal/auth/service"
	"github.com/aussiebroadwan/reelgate/internal/auth/store"
	"github.com/aussiebroadwan/reelgate/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/reelgate/pkg/cryptox"
	"github.com/google/uuid"
)

// seedNamespace derives stable ids for demo videos, so reseeding finds
// the rows it wrote last time.
var seedNamespace = uuid.MustParse("0b6c4f4e-6d1e-4c52-9d7a-6f1ef3a1c0de")

type seedUser struct {
	FullName, Email, Password string
}

var (
	demoUsers = []seedUser{
		{"Test User", "test@example.com", "TestPassword123!"},
		{"Demo User", "demo@example.com", "DemoPassword123!"},
	}

	demoVideos = []domain.Video{
		{
			Title:        "Introduction to Python",
			Description:  "Learn the basics of Python programming",
			ExternalID:   "kqtD5dpn3C0",
			ThumbnailURL: "https://i.ytimg.com/vi/kqtD5dpn3C0/maxresdefault.jpg",
			IsActive:     true,
		},
		{
			Title:        "React Native Tutorial",
			Description:  "Build mobile apps with React Native",
			ExternalID:   "ur6I5GQvWQA",
			ThumbnailURL: "https://i.ytimg.com/vi/ur6I5GQvWQA/maxresdefault.jpg",
			IsActive:     true,
		},
	}
)

// Seed opens the configured database and loads the demo users and videos.
func Seed(ctx context.Context, cfg Config, logger *slog.Logger) error {
	db, err := sqlite.NewStore(sqliteDSN(cfg.DatabaseFile))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if err := db.ApplyMigrations(); err != nil {
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	pepper, err := cryptox.LoadOrCreatePepper(cfg.PepperFile)
	if err != nil {
		return fmt.Errorf("failed to load pepper: %w", err)
	}

	return SeedDemoData(ctx, db, cryptox.NewPasswordHasher(pepper), logger)
}

// SeedDemoData inserts the demo rows that are missing. Existing rows are
// left alone, so it is safe to run repeatedly. All rows are written in one
// transaction: a failure leaves the database as it was.
func SeedDemoData(ctx context.Context, st store.Store, hasher service.PasswordHasher, logger *slog.Logger) error {
	now := time.Now().UTC()

	return st.WithTx(ctx, func(tx store.Tx) error {
		for _, u := range demoUsers {
			if _, err := tx.Users().GetUserByEmail(ctx, u.Email); err == nil {
				logger.Info("seed user exists", "email", u.Email)
				continue
			} else if !errors.Is(err, store.ErrNotFound) {
				return err
			}

			hash, err := hasher.Hash(u.Password)
			if err != nil {
				return fmt.Errorf("hash password for %s: %w", u.Email, err)
			}
			err = tx.Users().CreateUser(ctx, domain.User{
				ID:           uuid.NewString(),
				FullName:     u.FullName,
				Email:        u.Email,
				PasswordHash: hash,
				CreatedAt:    now,
			})
			if err != nil {
				return fmt.Errorf("seed user %s: %w", u.Email, err)
			}
			logger.Info("seeded user", "email", u.Email)
		}

		for _, v := range demoVideos {
			v.ID = uuid.NewSHA1(seedNamespace, []byte(v.ExternalID)).String()
			v.CreatedAt = now

			// A constraint failure only aborts the statement, not the tx.
			err := tx.Videos().CreateVideo(ctx, v)
			switch {
			case errors.Is(err, store.ErrAlreadyExists):
				logger.Info("seed video exists", "title", v.Title)
			case err != nil:
				return fmt.Errorf("seed video %s: %w", v.Title, err)
			default:
				logger.Info("seeded video", "title", v.Title, "video_id", v.ID)
			}
		}

		return nil
	})
}
