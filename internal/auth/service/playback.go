package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/aussiebroadwan/reelgate/internal/auth/domain"
	"github.com/aussiebroadwan/reelgate/internal/auth/metrics"
	"github.com/aussiebroadwan/reelgate/internal/auth/store"
	"github.com/aussiebroadwan/reelgate/pkg/idx"
	"github.com/aussiebroadwan/reelgate/pkg/jwtx"
	"github.com/aussiebroadwan/reelgate/pkg/slogx"
)

const (
	DefaultEmbedHost     = "www.youtube-nocookie.com"
	DefaultDashboardSize = 2
)

// Reasons a stream or watch request was refused. They are logged and
// counted but never returned to the caller.
const (
	denyMissingToken   = "missing_playback_token"
	denyExpiredToken   = "expired_playback_token"
	denyInvalidToken   = "invalid_playback_token"
	denyVideoMismatch  = "video_id_mismatch"
	denyVideoNotFound  = "video_not_found_or_inactive"
	denyMissingEmbedID = "missing_external_id"

	denyEmptyAccess   = "empty_token"
	denyExpiredAccess = "expired_access_token"
	denyInvalidAccess = "invalid_access_token"
)

// PlaybackService hands out playback tokens and exchanges them for embed
// URLs. Playback tokens are not single use; they can be replayed until
// they expire.
type PlaybackService struct {
	Videos       store.Videos
	WatchHistory store.WatchHistory
	Codec        *jwtx.Codec
	Metrics      metrics.Recorder

	PlaybackTTL time.Duration
	EmbedHost   string

	Now func() time.Time
}

func (s *PlaybackService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *PlaybackService) metrics() metrics.Recorder {
	if s.Metrics == nil {
		return metrics.NewNoopMetrics()
	}
	return s.Metrics
}

// Dashboard samples up to n active videos and mints a playback token for
// each. n <= 0 uses DefaultDashboardSize.
func (s *PlaybackService) Dashboard(ctx context.Context, n int) ([]domain.PlaybackGrant, error) {
	if n <= 0 {
		n = DefaultDashboardSize
	}

	videos, err := s.Videos.SampleActiveVideos(ctx, n)
	if err != nil {
		return nil, persistence("sample videos", err)
	}

	now := s.now()
	ttl := orDefault(s.PlaybackTTL, jwtx.DefaultPlaybackTokenTTL)

	grants := make([]domain.PlaybackGrant, 0, len(videos))
	for _, v := range videos {
		token, err := s.Codec.Issue(jwtx.NewPlaybackClaims(v.ID, ttl, now))
		if err != nil {
			return nil, persistence("sign playback token", err)
		}
		s.metrics().RecordTokenIssued(string(jwtx.ScopePlayback))
		grants = append(grants, domain.PlaybackGrant{Video: v, PlaybackToken: token})
	}
	return grants, nil
}

// AuthorizeStream returns the embed URL for videoID when token is a valid
// playback token bound to exactly that video. Every refusal is
// ErrUnauthorized.
func (s *PlaybackService) AuthorizeStream(ctx context.Context, videoID, token string) (string, error) {
	deny := func(event, reason string, attrs ...any) (string, error) {
		attrs = append([]any{slog.String("error", reason), slog.String("video_id", videoID)}, attrs...)
		slogx.FromContext(ctx).Warn(event, attrs...)
		s.metrics().RecordPlaybackDenied(reason)
		return "", ErrUnauthorized
	}

	if token == "" {
		return deny("video_token_error", denyMissingToken)
	}

	claims, err := s.Codec.ParseScoped(token, jwtx.ScopePlayback)
	switch {
	case errors.Is(err, jwtx.ErrExpired):
		return deny("video_token_error", denyExpiredToken)
	case err != nil:
		return deny("video_token_error", denyInvalidToken)
	case claims.VideoID != videoID:
		return deny("video_access_error", denyVideoMismatch, slog.String("token_video_id", claims.VideoID))
	}

	video, err := s.Videos.GetVideoByID(ctx, videoID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return deny("video_access_error", denyVideoNotFound)
	case err != nil:
		// Storage trouble is still a refusal here; the caller learns nothing.
		slogx.FromContext(ctx).Error("video lookup failed", slog.String("video_id", videoID), slog.Any("error", err))
		return deny("video_access_error", denyVideoNotFound)
	case !video.IsActive:
		return deny("video_access_error", denyVideoNotFound)
	case video.ExternalID == "":
		return deny("video_access_error", denyMissingEmbedID)
	}

	return s.embedURL(video.ExternalID), nil
}

func (s *PlaybackService) embedURL(externalID string) string {
	host := s.EmbedHost
	if host == "" {
		host = DefaultEmbedHost
	}
	return (&url.URL{Scheme: "https", Host: host, Path: "/embed/" + externalID}).String()
}

// RecordWatch appends a watch event for the owner of accessToken.
// The token is checked structurally only; revocation is not consulted.
func (s *PlaybackService) RecordWatch(ctx context.Context, accessToken, videoID string, at time.Time) error {
	l := slogx.FromContext(ctx)
	deny := func(reason string) error {
		l.Warn("video_watch_error", slog.String("error", reason), slog.String("video_id", videoID))
		return ErrUnauthorized
	}

	if accessToken == "" {
		return deny(denyEmptyAccess)
	}

	claims, err := s.Codec.ParseScoped(accessToken, jwtx.ScopeSession)
	switch {
	case errors.Is(err, jwtx.ErrExpired):
		return deny(denyExpiredAccess)
	case err != nil:
		return deny(denyInvalidAccess)
	}

	err = s.WatchHistory.RecordWatch(ctx, domain.WatchEvent{
		ID:        idx.NewAt(at).String(),
		UserID:    claims.UserID,
		VideoID:   videoID,
		WatchedAt: at,
	})
	if err != nil {
		l.Error("video_watch_error",
			slog.String("error", "persistence_failure"),
			slog.String("video_id", videoID),
			slog.String("user_id", claims.UserID),
			slog.Any("cause", err),
		)
		s.metrics().RecordWatch(false)
		return persistence("record watch", fmt.Errorf("video %s: %w", videoID, err))
	}

	s.metrics().RecordWatch(true)
	return nil
}
