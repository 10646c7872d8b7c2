package http

import (
	"log/slog"
	"net/http"
	"net/netip"
	"time"

	_ "github.com/aussiebroadwan/reelgate/api/auth" // Swagger docs
	"github.com/aussiebroadwan/reelgate/internal/auth/metrics"
	"github.com/aussiebroadwan/reelgate/internal/auth/service"
	"github.com/aussiebroadwan/reelgate/internal/auth/store"
	"github.com/aussiebroadwan/reelgate/pkg/httpx"
	"github.com/aussiebroadwan/reelgate/pkg/slogx"
	httpSwagger "github.com/swaggo/http-swagger"
)

// RouteLimits are the per-IP edge limits. The login attempt ledger is a
// separate, stricter check inside AuthService.
type RouteLimits struct {
	Auth     httpx.RateLimitConfig
	Playback httpx.RateLimitConfig
	System   httpx.RateLimitConfig
}

// DefaultRouteLimits puts credential endpoints on the strict tier.
var DefaultRouteLimits = RouteLimits{
	Auth:     httpx.StrictLimit,
	Playback: httpx.ModerateLimit,
	System:   httpx.LenientLimit,
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store
	metrics      metrics.Recorder

	AuthService     *service.AuthService
	PlaybackService *service.PlaybackService
	Limits          RouteLimits
	DashboardSize   int
}

// NewRouter builds a router with the global middleware chain: request
// logging, client address resolution, CORS when origins are configured,
// then HTTP metrics. Forwarding headers are honoured only from peers in
// trustedProxies.
func NewRouter(
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
	rec metrics.Recorder,
	corsOrigins []string,
	trustedProxies []netip.Prefix,
) *Router {
	if rec == nil {
		rec = metrics.NewNoopMetrics()
	}

	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		store:        st,
		metrics:      rec,
		Limits:       DefaultRouteLimits,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.ClientIPMiddleware(trustedProxies),
	}
	if len(corsOrigins) > 0 {
		r.middlewares = append(r.middlewares, httpx.CORS(corsOrigins))
	}
	// Innermost, so r.Pattern is set by the mux before it is read.
	r.middlewares = append(r.middlewares, metrics.HTTPMiddleware(rec))

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerVideo()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Reelgate API
//	@version		0.1.0
//	@description	Account sessions with HMAC-signed JWT access tokens, and short-lived
//	@description	playback tokens that gate video streams.
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/reelgate
//
//	@BasePath		/
//
//	@schemes		http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AuthService: r.AuthService}

	// Credential endpoints share one strict per-IP bucket each.
	strict := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn, httpx.RateLimitByIP(r.Limits.Auth))
	}

	r.Mux.Handle("POST /auth/signup", strict(h.HandleSignup))
	r.Mux.Handle("POST /auth/login", strict(h.HandleLogin))
	r.Mux.Handle("POST /auth/refresh", strict(h.HandleRefresh))

	// Bearer endpoints are cheap to verify - moderate limit
	r.Mux.Handle("POST /auth/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout), httpx.RateLimitByIP(r.Limits.Playback)),
	)
	r.Mux.Handle("GET /auth/me",
		httpx.Chain(http.HandlerFunc(h.HandleMe), httpx.RateLimitByIP(r.Limits.Playback)),
	)
}

func (r *Router) registerVideo() {
	h := &VideoHandler{PlaybackService: r.PlaybackService, DashboardSize: r.DashboardSize}
	limit := httpx.RateLimitByIP(r.Limits.Playback)

	r.Mux.Handle("GET /dashboard", httpx.Chain(http.HandlerFunc(h.HandleDashboard), limit))

	// Stream is limited per ip and video so guessing tokens for one video
	// doesn't starve the others.
	r.Mux.Handle("GET /video/{video_id}/stream",
		httpx.Chain(http.HandlerFunc(h.HandleStream),
			httpx.RateLimitMiddleware(r.Limits.Playback,
				httpx.CompositeKeyExtractor(":", httpx.IPKeyExtractor, httpx.PathValueKeyExtractor("video_id")),
			),
		),
	)
	r.Mux.Handle("POST /video/{video_id}/watch", httpx.Chain(http.HandlerFunc(h.HandleWatch), limit))
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	limit := httpx.RateLimitByIP(r.Limits.System)

	r.Mux.Handle("GET /livez", httpx.Chain(LivezHandler(r.startTime, r.buildVersion), limit))
	r.Mux.Handle("GET /readyz", httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store), limit))
	r.Mux.Handle("GET /health", httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store), limit))

	if m, ok := r.metrics.(*metrics.Metrics); ok {
		r.Mux.Handle("GET /metrics", m.Handler())
	}
}
