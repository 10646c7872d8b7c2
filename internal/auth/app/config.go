package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/reelgate/pkg/httpx"
	"github.com/ilyakaznacheev/cleanenv"
)

// Store backends for revocations and login attempts.
const (
	EphemeralSQLite = "sqlite"
	EphemeralRedis  = "redis"
)

type Config struct {
	// Env must be set to "dev" explicitly to run without JWT_SECRET_KEY.
	Env                  string        `yaml:"env" env:"ENV" env-default:"prod"`
	LogLevel             string        `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat            string        `yaml:"log_format" env:"LOG_FORMAT" env-default:"json"`
	LogFile              string        `yaml:"log_file" env:"LOG_FILE"`
	Port                 int           `yaml:"port" env:"PORT" env-default:"8080"`
	ShutdownGracePeriod  time.Duration `yaml:"shutdown_grace_period" env:"SHUTDOWN_GRACE_PERIOD" env-default:"10s"`
	HousekeepingInterval time.Duration `yaml:"housekeeping_interval" env:"HOUSEKEEPING_INTERVAL" env-default:"1h"`

	DatabaseFile string `yaml:"database_file" env:"AUTH_DATABASE_FILE" env-default:"auth.db"`
	PepperFile   string `yaml:"pepper_file" env:"AUTH_PEPPER_FILE" env-default:"pepper"`

	JWT      JWTConfig      `yaml:"jwt"`
	Login    LoginConfig    `yaml:"login"`
	Playback PlaybackConfig `yaml:"playback"`
	Redis    RedisConfig    `yaml:"redis"`
	Limits   LimitsConfig   `yaml:"rate_limits"`

	// EphemeralStore picks the backend for revocations and login attempts.
	EphemeralStore string `yaml:"ephemeral_store" env:"AUTH_EPHEMERAL_STORE" env-default:"sqlite"`

	CORSAllowedOrigins []string `yaml:"cors_allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-separator:","`
	MetricsEnabled     bool     `yaml:"metrics_enabled" env:"METRICS_ENABLED" env-default:"true"`

	// TrustedProxies lists the addresses or CIDR ranges whose
	// X-Forwarded-For and X-Real-IP headers are believed. Empty means the
	// peer address is always the client address.
	TrustedProxies []string `yaml:"trusted_proxies" env:"TRUSTED_PROXIES" env-separator:","`

	// SeedDemo loads the demo users and videos at startup, like cmd/seed.
	SeedDemo bool `yaml:"seed_demo" env:"AUTH_SEED_DEMO"`
}

type JWTConfig struct {
	// SecretKey is required outside dev. In dev an empty key is replaced
	// by a random one, which invalidates tokens on every restart.
	SecretKey  string        `yaml:"secret_key" env:"JWT_SECRET_KEY"`
	Algorithm  string        `yaml:"algorithm" env:"JWT_ALGORITHM" env-default:"HS256"`
	AccessTTL  time.Duration `yaml:"access_ttl" env:"AUTH_ACCESS_TTL" env-default:"24h"`
	RefreshTTL time.Duration `yaml:"refresh_ttl" env:"AUTH_REFRESH_TTL" env-default:"168h"`
}

type LoginConfig struct {
	Window      time.Duration `yaml:"window" env:"AUTH_LOGIN_WINDOW" env-default:"5m"`
	MaxAttempts int           `yaml:"max_attempts" env:"AUTH_LOGIN_MAX_ATTEMPTS" env-default:"5"`
}

type PlaybackConfig struct {
	TTL           time.Duration `yaml:"ttl" env:"AUTH_PLAYBACK_TTL" env-default:"5m"`
	EmbedHost     string        `yaml:"embed_host" env:"AUTH_EMBED_HOST" env-default:"www.youtube-nocookie.com"`
	DashboardSize int           `yaml:"dashboard_size" env:"AUTH_DASHBOARD_SIZE" env-default:"2"`
}

type RedisConfig struct {
	Addr        string        `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password    string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB          int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	DialTimeout time.Duration `yaml:"dial_timeout" env:"REDIS_DIAL_TIMEOUT" env-default:"5s"`
}

// LimitsConfig holds per-IP edge limits in requests per minute.
type LimitsConfig struct {
	Auth     int `yaml:"auth" env:"RATE_LIMIT_AUTH" env-default:"10"`
	Playback int `yaml:"playback" env:"RATE_LIMIT_PLAYBACK" env-default:"60"`
	System   int `yaml:"system" env:"RATE_LIMIT_SYSTEM" env-default:"300"`
}

// LoadConfig reads the YAML file at path when given, then the environment,
// which takes precedence.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the application cannot start with.
func (c Config) Validate() error {
	var errs []error

	if c.JWT.SecretKey == "" && !c.IsDev() {
		errs = append(errs, errors.New("JWT_SECRET_KEY is required outside dev"))
	}
	switch c.EphemeralStore {
	case EphemeralSQLite, EphemeralRedis:
	default:
		errs = append(errs, fmt.Errorf("AUTH_EPHEMERAL_STORE must be %q or %q, got %q",
			EphemeralSQLite, EphemeralRedis, c.EphemeralStore))
	}
	if c.Login.MaxAttempts <= 0 {
		errs = append(errs, errors.New("AUTH_LOGIN_MAX_ATTEMPTS must be positive"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT out of range: %d", c.Port))
	}
	if _, err := httpx.ParseTrustedProxies(c.TrustedProxies); err != nil {
		errs = append(errs, fmt.Errorf("TRUSTED_PROXIES: %w", err))
	}

	return errors.Join(errs...)
}

func (c Config) IsDev() bool {
	return strings.EqualFold(c.Env, "dev")
}
