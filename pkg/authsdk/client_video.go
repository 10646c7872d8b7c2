package authsdk

import (
	"context"
	"net/http"
	"net/url"
)

// Dashboard returns a random selection of videos, each with its own
// playback token.
func (c *SDKClient) Dashboard(ctx context.Context) (*DashboardResponse, error) {
	var out DashboardResponse
	if err := c.doJSON(ctx, http.MethodGet, "/dashboard", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Stream exchanges a playback token for the video's embed URL.
func (c *SDKClient) Stream(ctx context.Context, videoID, playbackToken string) (*StreamResponse, error) {
	path := "/video/" + url.PathEscape(videoID) + "/stream"
	if playbackToken != "" {
		path += "?" + url.Values{"token": {playbackToken}}.Encode()
	}

	var out StreamResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
