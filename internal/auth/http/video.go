package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/aussiebroadwan/reelgate/internal/auth/service"
	"github.com/aussiebroadwan/reelgate/pkg/authsdk"
	"github.com/aussiebroadwan/reelgate/pkg/httpx"
)

type VideoHandler struct {
	PlaybackService *service.PlaybackService

	// DashboardSize is the number of videos per dashboard; 0 uses the
	// service default.
	DashboardSize int
}

// HandleDashboard handles GET /dashboard. It needs no session: the
// playback tokens it hands out are the only access control on streams.
//
//	@Summary		List dashboard videos
//	@Description	Returns a random selection of videos, each with a fresh playback token.
//	@Tags			Video
//	@Produce		json
//	@Success		200	{object}	authsdk.DashboardResponse
//	@Failure		500	{object}	authsdk.APIError
//	@Router			/dashboard [get]
func (h *VideoHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	grants, err := h.PlaybackService.Dashboard(r.Context(), h.DashboardSize)
	if err != nil {
		writeError(w, r, err)
		return
	}

	videos := make([]authsdk.VideoGrant, 0, len(grants))
	for _, g := range grants {
		videos = append(videos, authsdk.VideoGrant{
			VideoID:       g.Video.ID,
			Title:         g.Video.Title,
			Description:   g.Video.Description,
			ThumbnailURL:  g.Video.ThumbnailURL,
			PlaybackToken: g.PlaybackToken,
		})
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.DashboardResponse{Success: true, Videos: videos})
}

// HandleStream handles GET /video/{video_id}/stream?token=.
//
//	@Summary		Authorize a stream
//	@Description	Trades a playback token for the embed URL of the video it was minted for.
//	@Tags			Video
//	@Produce		json
//	@Param			video_id	path		string	true	"Video ID"
//	@Param			token		query		string	true	"Playback token"
//	@Success		200			{object}	authsdk.StreamResponse
//	@Failure		401			{object}	authsdk.APIError	"unauthorized"
//	@Failure		500			{object}	authsdk.APIError
//	@Router			/video/{video_id}/stream [get]
func (h *VideoHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	r, _ = withIP(r)

	token := strings.TrimSpace(r.URL.Query().Get("token"))
	embed, err := h.PlaybackService.AuthorizeStream(r.Context(), r.PathValue("video_id"), token)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.StreamResponse{EmbedURL: embed})
}

// HandleWatch handles POST /video/{video_id}/watch.
//
//	@Summary		Record a watch
//	@Tags			Video
//	@Security		BearerAuth
//	@Produce		json
//	@Param			video_id	path		string	true	"Video ID"
//	@Success		200			{object}	authsdk.MessageResponse
//	@Failure		401			{object}	authsdk.APIError	"invalid_token, token_expired or token_invalidated"
//	@Failure		404			{object}	authsdk.APIError	"not_found"
//	@Failure		500			{object}	authsdk.APIError
//	@Router			/video/{video_id}/watch [post]
func (h *VideoHandler) HandleWatch(w http.ResponseWriter, r *http.Request) {
	r, _ = withIP(r)

	token, _ := httpx.BearerToken(r)
	err := h.PlaybackService.RecordWatch(r.Context(), token, r.PathValue("video_id"), time.Now().UTC())
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{
		Success: true,
		Message: "watch recorded",
	})
}
