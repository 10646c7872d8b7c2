package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/reelgate/internal/auth/http"
	"github.com/aussiebroadwan/reelgate/internal/auth/metrics"
	"github.com/aussiebroadwan/reelgate/internal/auth/service"
	"github.com/aussiebroadwan/reelgate/internal/auth/store"
	"github.com/aussiebroadwan/reelgate/internal/auth/store/drivers/redisstore"
	"github.com/aussiebroadwan/reelgate/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/reelgate/pkg/cryptox"
	"github.com/aussiebroadwan/reelgate/pkg/httpx"
	"github.com/aussiebroadwan/reelgate/pkg/jwtx"
	"github.com/aussiebroadwan/reelgate/pkg/slogx"
	"github.com/redis/go-redis/v9"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db      store.Store
	redis   *redis.Client
	codec   *jwtx.Codec
	hasher  *cryptox.PasswordHasher
	metrics metrics.Recorder

	// Repos for the ephemeral records. Either the sqlite ones or redis.
	revocations   store.Revocations
	loginAttempts store.LoginAttempts

	// Services
	authService         *service.AuthService
	playbackService     *service.PlaybackService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "reelgate",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
			File:    cfg.LogFile,
		}),
		metrics: metrics.New(cfg.MetricsEnabled),
	}

	if err := app.initDatabase(); err != nil {
		_ = app.closeStores()
		return nil, err
	}
	if err := app.initEphemeralStore(); err != nil {
		_ = app.closeStores()
		return nil, err
	}
	if err := app.initCrypto(); err != nil {
		_ = app.closeStores()
		return nil, err
	}
	if cfg.SeedDemo {
		if err := SeedDemoData(context.Background(), app.db, app.hasher, app.logger); err != nil {
			_ = app.closeStores()
			return nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	app.initServices()
	if err := app.initHTTP(); err != nil {
		_ = app.closeStores()
		return nil, err
	}

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("reelgate starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.housekeepingService.Stop()
			_ = app.closeStores()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down reelgate...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.closeStores(); err != nil {
		return err
	}

	app.logger.Info("reelgate stopped")
	return nil
}

// Handler exposes the router, mainly for tests.
func (app *Application) Handler() http.Handler { return app.router }

func (app *Application) closeStores() error {
	var errs []error
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis", "error", err)
			errs = append(errs, err)
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database", "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Every ":memory:" path is used verbatim so tests get a private database.
func sqliteDSN(file string) string {
	if file == ":memory:" {
		return file
	}
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", file)
}

func (app *Application) initDatabase() error {
	db, err := sqlite.NewStore(sqliteDSN(app.cfg.DatabaseFile))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initEphemeralStore picks where revocations and login attempts live.
// Redis lets several replicas share one ledger and one revocation list.
func (app *Application) initEphemeralStore() error {
	if app.cfg.EphemeralStore != EphemeralRedis {
		app.revocations = app.db.Revocations()
		app.loginAttempts = app.db.LoginAttempts()
		return nil
	}

	rc := app.cfg.Redis
	client, err := redisstore.Connect(context.Background(), rc.Addr, rc.Password, rc.DB, rc.DialTimeout)
	if err != nil {
		return err
	}
	app.redis = client

	rs := redisstore.New(client, redisstore.Options{AttemptRetention: service.DefaultAttemptRetention})
	app.revocations = rs
	app.loginAttempts = rs

	app.logger.Info("using redis for revocations and login attempts", "addr", rc.Addr)
	return nil
}

func (app *Application) initCrypto() error {
	pepper, err := cryptox.LoadOrCreatePepper(app.cfg.PepperFile)
	if err != nil {
		return fmt.Errorf("failed to load pepper: %w", err)
	}
	app.hasher = cryptox.NewPasswordHasher(pepper)

	secret := app.cfg.JWT.SecretKey
	if secret == "" {
		// Validate only lets this through in dev.
		secret, err = cryptox.GenerateToken(cryptox.TokenSize256)
		if err != nil {
			return err
		}
		app.logger.Warn("JWT_SECRET_KEY not set, using a random key; tokens will not survive a restart")
	}

	codec, err := jwtx.NewCodec([]byte(secret), app.cfg.JWT.Algorithm)
	if err != nil {
		return fmt.Errorf("failed to initialize token codec: %w", err)
	}
	app.codec = codec
	return nil
}

func (app *Application) initServices() {
	app.authService = &service.AuthService{
		Users:            app.db.Users(),
		RefreshTokens:    app.db.RefreshTokens(),
		Revocations:      app.revocations,
		LoginAttempts:    app.loginAttempts,
		Hasher:           app.hasher,
		Codec:            app.codec,
		Metrics:          app.metrics,
		AccessTTL:        app.cfg.JWT.AccessTTL,
		RefreshTTL:       app.cfg.JWT.RefreshTTL,
		LoginWindow:      app.cfg.Login.Window,
		MaxLoginAttempts: app.cfg.Login.MaxAttempts,
	}

	app.playbackService = &service.PlaybackService{
		Videos:       app.db.Videos(),
		WatchHistory: app.db.WatchHistory(),
		Codec:        app.codec,
		Metrics:      app.metrics,
		PlaybackTTL:  app.cfg.Playback.TTL,
		EmbedHost:    app.cfg.Playback.EmbedHost,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
	app.housekeepingService.Revocations = app.revocations
	app.housekeepingService.LoginAttempts = app.loginAttempts
}

func perMinute(n int, fallback httpx.RateLimitConfig) httpx.RateLimitConfig {
	if n <= 0 {
		return fallback
	}
	return httpx.RateLimitConfig{RequestsPerWindow: n, Window: time.Minute, Burst: n}
}

func (app *Application) initHTTP() error {
	trusted, err := httpx.ParseTrustedProxies(app.cfg.TrustedProxies)
	if err != nil {
		return fmt.Errorf("failed to parse trusted proxies: %w", err)
	}

	router := httpapi.NewRouter(
		BuildVersion,
		app.db,
		app.logger,
		app.metrics,
		app.cfg.CORSAllowedOrigins,
		trusted,
	)

	router.AuthService = app.authService
	router.PlaybackService = app.playbackService
	router.DashboardSize = app.cfg.Playback.DashboardSize
	router.Limits = httpapi.RouteLimits{
		Auth:     perMinute(app.cfg.Limits.Auth, httpx.StrictLimit),
		Playback: perMinute(app.cfg.Limits.Playback, httpx.ModerateLimit),
		System:   perMinute(app.cfg.Limits.System, httpx.LenientLimit),
	}
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return nil
}
