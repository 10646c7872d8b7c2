package domain

import "time"

type Video struct {
	ID           string
	Title        string
	Description  string
	ThumbnailURL string
	ExternalID   string // youtube video id, empty when the upload is not published
	IsActive     bool
	CreatedAt    time.Time
}

// PlaybackGrant is a dashboard entry: a video and the short-lived token
// that lets the holder stream it.
type PlaybackGrant struct {
	Video         Video
	PlaybackToken string
}

type WatchEvent struct {
	ID        string
	UserID    string
	VideoID   string
	WatchedAt time.Time
}
