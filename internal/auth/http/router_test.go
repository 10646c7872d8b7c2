package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	authhttp "github.com/aussiebroadwan/reelgate/internal/auth/http"
	"github.com/aussiebroadwan/reelgate/internal/auth/domain"
	"github.com/aussiebroadwan/reelgate/internal/auth/metrics"
	"github.com/aussiebroadwan/reelgate/internal/auth/service"
	"github.com/aussiebroadwan/reelgate/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/reelgate/pkg/authsdk"
	"github.com/aussiebroadwan/reelgate/pkg/cryptox"
	"github.com/aussiebroadwan/reelgate/pkg/httpx"
	"github.com/aussiebroadwan/reelgate/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const password = "Str0ng!pass"

type harness struct {
	router *authhttp.Router
	store  *sqlite.Store
}

func newHarness(t *testing.T, trustedProxies ...string) *harness {
	t.Helper()

	trusted, err := httpx.ParseTrustedProxies(trustedProxies)
	require.NoError(t, err)

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	codec, err := jwtx.NewCodec([]byte("http-test-secret"), "HS256")
	require.NoError(t, err)

	rec := metrics.NewMetrics()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := authhttp.NewRouter("test", st, logger, rec, []string{"https://app.example.com"}, trusted)
	r.AuthService = &service.AuthService{
		Users:         st.Users(),
		RefreshTokens: st.RefreshTokens(),
		Revocations:   st.Revocations(),
		LoginAttempts: st.LoginAttempts(),
		Hasher:        cryptox.NewPasswordHasher(""),
		Codec:         codec,
		Metrics:       rec,
	}
	r.PlaybackService = &service.PlaybackService{
		Videos:       st.Videos(),
		WatchHistory: st.WatchHistory(),
		Codec:        codec,
		Metrics:      rec,
	}
	// Generous edge limits keep these tests on the ledger's limit.
	r.Limits = authhttp.RouteLimits{
		Auth:     httpx.LenientLimit,
		Playback: httpx.LenientLimit,
		System:   httpx.LenientLimit,
	}
	r.ApplyRoutes()

	return &harness{router: r, store: st}
}

func (h *harness) do(t *testing.T, method, path string, body any, bearer string) *httptest.ResponseRecorder {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, rdr)
	req.RemoteAddr = "203.0.113.7:5555"
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

// login posts body as-is from remoteAddr, with X-Forwarded-For when xff is set.
func (h *harness) login(t *testing.T, remoteAddr, xff, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.RemoteAddr = remoteAddr
	req.Header.Set("Content-Type", "application/json")
	if xff != "" {
		req.Header.Set("X-Forwarded-For", xff)
	}

	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func (h *harness) signupAndLogin(t *testing.T, email string) authsdk.TokenResponse {
	t.Helper()

	rec := h.do(t, http.MethodPost, "/auth/signup", authsdk.SignupRequest{
		FullName:        "Http User",
		Email:           email,
		Password:        password,
		ConfirmPassword: password,
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = h.do(t, http.MethodPost, "/auth/login", authsdk.LoginRequest{Email: email, Password: password}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decodeBody[authsdk.TokenResponse](t, rec)
}

func TestAuthFlow(t *testing.T) {
	h := newHarness(t)

	tokens := h.signupAndLogin(t, "flow@example.com")
	require.True(t, tokens.Success)
	require.Equal(t, "Bearer", tokens.TokenType)
	require.Equal(t, int(jwtx.DefaultAccessTokenTTL.Seconds()), tokens.ExpiresIn)

	rec := h.do(t, http.MethodGet, "/auth/me", nil, tokens.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	profile := decodeBody[authsdk.ProfileResponse](t, rec)
	require.Equal(t, "flow@example.com", profile.User.Email)

	rec = h.do(t, http.MethodPost, "/auth/refresh", authsdk.RefreshRequest{RefreshToken: tokens.RefreshToken}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	refreshed := decodeBody[authsdk.TokenResponse](t, rec)
	require.Equal(t, tokens.RefreshToken, refreshed.RefreshToken)

	rec = h.do(t, http.MethodPost, "/auth/logout", nil, tokens.Token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(t, http.MethodGet, "/auth/me", nil, tokens.Token)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, authsdk.ErrorCodeTokenInvalidated, decodeBody[authsdk.APIError](t, rec).Code)
}

func TestErrorResponses(t *testing.T) {
	h := newHarness(t)
	h.signupAndLogin(t, "taken@example.com")

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		bearer string
		status int
		code   string
	}{
		{
			name: "duplicate signup", method: http.MethodPost, path: "/auth/signup",
			body:   authsdk.SignupRequest{FullName: "x", Email: "taken@example.com", Password: password, ConfirmPassword: password},
			status: http.StatusBadRequest, code: authsdk.ErrorCodeEmailExists,
		},
		{
			name: "wrong password", method: http.MethodPost, path: "/auth/login",
			body:   authsdk.LoginRequest{Email: "taken@example.com", Password: "nope"},
			status: http.StatusUnauthorized, code: authsdk.ErrorCodeInvalidCredentials,
		},
		{
			name: "me without token", method: http.MethodGet, path: "/auth/me",
			status: http.StatusUnauthorized, code: authsdk.ErrorCodeInvalidToken,
		},
		{
			name: "logout with garbage", method: http.MethodPost, path: "/auth/logout", bearer: "garbage",
			status: http.StatusUnauthorized, code: authsdk.ErrorCodeInvalidToken,
		},
		{
			name: "refresh unknown", method: http.MethodPost, path: "/auth/refresh",
			body:   authsdk.RefreshRequest{RefreshToken: "unknown"},
			status: http.StatusUnauthorized, code: authsdk.ErrorCodeInvalidRefreshToken,
		},
		{
			name: "stream without token", method: http.MethodGet, path: "/video/abc/stream",
			status: http.StatusUnauthorized, code: authsdk.ErrorCodeUnauthorized,
		},
		{
			name: "watch without token", method: http.MethodPost, path: "/video/abc/watch",
			status: http.StatusUnauthorized, code: authsdk.ErrorCodeUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := h.do(t, tt.method, tt.path, tt.body, tt.bearer)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())

			body := decodeBody[map[string]any](t, rec)
			require.Equal(t, false, body["success"])
			require.Equal(t, tt.code, body["error"])
		})
	}
}

func TestSignupValidationFields(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPost, "/auth/signup", authsdk.SignupRequest{Email: "bad@"}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	apiErr := decodeBody[authsdk.APIError](t, rec)
	require.Equal(t, authsdk.ErrorCodeValidationFailed, apiErr.Code)
	require.Equal(t, "email is invalid", apiErr.Fields["email"])
	require.Equal(t, "full_name is required", apiErr.Fields["full_name"])
}

func TestMalformedBody(t *testing.T) {
	h := newHarness(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, authsdk.ErrorCodeInvalidRequest, decodeBody[authsdk.APIError](t, rec).Code)
}

func TestMalformedLoginBodiesCountTowardLimit(t *testing.T) {
	h := newHarness(t)

	for range service.DefaultMaxLoginAttempts {
		rec := h.login(t, "203.0.113.8:5555", "", "{not json")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, authsdk.ErrorCodeInvalidRequest, decodeBody[authsdk.APIError](t, rec).Code)
	}

	rec := h.login(t, "203.0.113.8:5555", "", "{not json")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, authsdk.ErrorCodeRateLimited, decodeBody[authsdk.APIError](t, rec).Code)

	// A well formed login from the same address is throttled as well.
	rec = h.login(t, "203.0.113.8:5555", "", `{"email":"x@example.com","password":"nope"}`)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestLoginIgnoresSpoofedForwardedFor(t *testing.T) {
	h := newHarness(t)

	codes := make([]int, 0, 8)
	for i := range 8 {
		n := strconv.Itoa(i + 1)
		body := `{"email":"user` + n + `@example.com","password":"wrong"}`
		codes = append(codes, h.login(t, "203.0.113.9:5555", "198.51.100."+n, body).Code)
	}

	require.Equal(t, []int{401, 401, 401, 401, 401, 429, 429, 429}, codes)
}

func TestLoginHonoursTrustedProxy(t *testing.T) {
	h := newHarness(t, "10.0.0.0/8")

	// Distinct clients behind the proxy each get their own budget.
	for i := range 8 {
		n := strconv.Itoa(i + 1)
		body := `{"email":"user` + n + `@example.com","password":"wrong"}`
		rec := h.login(t, "10.0.0.1:443", "198.51.100."+n, body)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	// One client behind the proxy is still limited by its own address.
	codes := make([]int, 0, 6)
	for i := range 6 {
		body := `{"email":"other` + strconv.Itoa(i) + `@example.com","password":"wrong"}`
		codes = append(codes, h.login(t, "10.0.0.1:443", "192.0.2.50", body).Code)
	}
	require.Equal(t, []int{401, 401, 401, 401, 401, 429}, codes)
}

func TestLoginLedgerLimit(t *testing.T) {
	h := newHarness(t)
	h.signupAndLogin(t, "limit@example.com")

	// One attempt already used by the successful login.
	for range service.DefaultMaxLoginAttempts - 1 {
		rec := h.do(t, http.MethodPost, "/auth/login", authsdk.LoginRequest{Email: "limit@example.com", Password: "nope"}, "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	rec := h.do(t, http.MethodPost, "/auth/login", authsdk.LoginRequest{Email: "limit@example.com", Password: password}, "")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, authsdk.ErrorCodeRateLimited, decodeBody[authsdk.APIError](t, rec).Code)
}

func TestPlaybackFlow(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	for _, v := range []domain.Video{
		{ID: "vid-a", Title: "A", ExternalID: "kqtD5dpn3C0", IsActive: true, CreatedAt: time.Now()},
		{ID: "vid-b", Title: "B", ExternalID: "ur6I5GQvWQA", IsActive: true, CreatedAt: time.Now()},
	} {
		require.NoError(t, h.store.Videos().CreateVideo(ctx, v))
	}

	rec := h.do(t, http.MethodGet, "/dashboard", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	dash := decodeBody[authsdk.DashboardResponse](t, rec)
	require.Len(t, dash.Videos, 2)

	tokens := map[string]string{}
	for _, v := range dash.Videos {
		tokens[v.VideoID] = v.PlaybackToken
	}

	rec = h.do(t, http.MethodGet, "/video/vid-a/stream?token="+tokens["vid-a"], nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "https://www.youtube-nocookie.com/embed/kqtD5dpn3C0", decodeBody[authsdk.StreamResponse](t, rec).EmbedURL)

	// B's token does not open A.
	rec = h.do(t, http.MethodGet, "/video/vid-a/stream?token="+tokens["vid-b"], nil, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	session := h.signupAndLogin(t, "viewer@example.com")
	rec = h.do(t, http.MethodPost, "/video/vid-a/watch", nil, session.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "watch recorded", decodeBody[authsdk.MessageResponse](t, rec).Message)
}

func TestSystemEndpoints(t *testing.T) {
	h := newHarness(t)

	for _, path := range []string{"/livez", "/readyz", "/health"} {
		rec := h.do(t, http.MethodGet, path, nil, "")
		require.Equal(t, http.StatusOK, rec.Code, path)
		require.Equal(t, "ok", decodeBody[authsdk.HealthResponse](t, rec).Status)
	}

	rec := h.do(t, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `http_requests_total{method="GET",path="GET /livez",status="200"}`)
}

func TestSwaggerDocs(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodGet, "/swagger/doc.json", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var doc struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	require.Equal(t, "Reelgate API", doc.Info.Title)
	for _, path := range []string{"/auth/login", "/auth/me", "/dashboard", "/video/{video_id}/stream", "/livez"} {
		require.Contains(t, doc.Paths, path)
	}

	rec = h.do(t, http.MethodGet, "/swagger/index.html", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "swagger-ui")
}

func TestReadyzDegradedWhenDatabaseClosed(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.store.Close())

	rec := h.do(t, http.MethodGet, "/readyz", nil, "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Equal(t, "degraded", decodeBody[authsdk.HealthResponse](t, rec).Status)
}

func TestCORSPreflight(t *testing.T) {
	h := newHarness(t)

	req := httptest.NewRequest(http.MethodOptions, "/auth/login", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)

	require.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}
