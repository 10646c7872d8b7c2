package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/reelgate/internal/auth/store"
)

// DefaultAttemptRetention bounds how long login attempts are kept. Only the
// rate limit window is ever queried, so anything older is dead weight.
const DefaultAttemptRetention = 24 * time.Hour

// HousekeepingService periodically deletes expired refresh tokens,
// revocations and stale login attempts.
type HousekeepingService struct {
	RefreshTokens store.RefreshTokens
	Revocations   store.Revocations
	LoginAttempts store.LoginAttempts
	Logger        *slog.Logger
	Interval      time.Duration

	AttemptRetention time.Duration
	Now              func() time.Time

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping service over the stores of s.
// If interval is 0 or negative, defaults to 1 hour. Callers that keep
// revocations or attempts elsewhere replace those fields before Start.
func NewHousekeepingService(s store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		RefreshTokens:    s.RefreshTokens(),
		Revocations:      s.Revocations(),
		LoginAttempts:    s.LoginAttempts(),
		Logger:           logger,
		Interval:         interval,
		AttemptRetention: DefaultAttemptRetention,
		Now:              time.Now,
		stopCh:           make(chan struct{}),
		doneCh:           make(chan struct{}),
	}
}

// Start begins the background worker that periodically runs cleanup.
// Call Stop to shut it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop shuts down the background worker.
// Blocks until the worker has finished any in-progress cleanup.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
	s.Cleanup(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Cleanup(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Cleanup performs one pass. Each deletion is independent; a failure in
// one doesn't stop the others. It returns the number of rows removed.
func (s *HousekeepingService) Cleanup(ctx context.Context) int64 {
	now := s.Now()
	s.Logger.Debug("starting housekeeping cleanup")

	var total int64
	step := func(what string, fn func() (int64, error)) {
		n, err := fn()
		if err != nil {
			s.Logger.Error("housekeeping step failed", "step", what, "error", err)
			return
		}
		total += n
		s.Logger.Debug("housekeeping step done", "step", what, "deleted", n)
	}

	if s.RefreshTokens != nil {
		step("refresh_tokens", func() (int64, error) {
			return s.RefreshTokens.DeleteExpiredRefreshTokens(ctx, now)
		})
	}
	if s.Revocations != nil {
		step("revocations", func() (int64, error) {
			return s.Revocations.DeleteExpiredRevocations(ctx, now)
		})
	}
	if s.LoginAttempts != nil {
		retention := orDefault(s.AttemptRetention, DefaultAttemptRetention)
		step("login_attempts", func() (int64, error) {
			return s.LoginAttempts.DeleteAttemptsBefore(ctx, now.Add(-retention))
		})
	}

	s.Logger.Info("housekeeping cleanup completed", "deleted", total)
	return total
}
