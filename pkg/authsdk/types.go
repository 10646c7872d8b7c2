package authsdk

// SignupRequest is the body of POST /auth/signup.
type SignupRequest struct {
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest is the body of POST /auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// MessageResponse is the body of the plain success responses.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// TokenResponse is returned by login and refresh.
type TokenResponse struct {
	Success bool `json:"success"`

	// Token is the session access token.
	Token string `json:"token"`

	// RefreshToken is unchanged by a refresh.
	RefreshToken string `json:"refresh_token"`

	// TokenType is always "Bearer".
	TokenType string `json:"token_type"`

	// ExpiresIn is the access token lifetime in seconds.
	ExpiresIn int `json:"expires_in"`
}

// UserProfile is the public view of an account.
type UserProfile struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// ProfileResponse is the body of GET /auth/me.
type ProfileResponse struct {
	Success bool        `json:"success"`
	User    UserProfile `json:"user"`
}

// VideoGrant is one dashboard entry with its playback token.
type VideoGrant struct {
	VideoID       string `json:"video_id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	ThumbnailURL  string `json:"thumbnail_url"`
	PlaybackToken string `json:"playback_token"`
}

// DashboardResponse is the body of GET /dashboard.
type DashboardResponse struct {
	Success bool         `json:"success"`
	Videos  []VideoGrant `json:"videos"`
}

// StreamResponse is the body of GET /video/{video_id}/stream.
type StreamResponse struct {
	EmbedURL string `json:"embed_url"`
}

// HealthResponse is returned by the health endpoints.
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version,omitempty"`
	Uptime   string `json:"uptime,omitempty"`
	Database string `json:"database,omitempty"`
}
