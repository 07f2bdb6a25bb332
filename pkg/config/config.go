package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "velora"

	AppEnvDev  = "dev"
	AppEnvProd = "production"

	EnvAppEnv         = "VELORA_APP_ENV"
	EnvPort           = "VELORA_APP_PORT"
	EnvCatalogBaseURL = "VELORA_CATALOG_BASE_URL"
	EnvFeedbackURL    = "VELORA_FEEDBACK_SINK_URL"
	EnvRedisURL       = "VELORA_REDIS_URL"
)

type Config struct {
	App          AppConfig
	Catalog      CatalogConfig
	Feedback     FeedbackConfig
	Redis        RedisConfig
	Cart         CartConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.CatalogCache && cfg.Redis.URL == "" && cfg.Redis.Address == "" {
		return nil, fmt.Errorf("catalog cache enabled: either %s or VELORA_REDIS_ADDR is required", EnvRedisURL)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"VELORA_APP_ENV" required:"true"`
	Port         string `envconfig:"VELORA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"VELORA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VELORA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type CatalogConfig struct {
	BaseURL      string        `envconfig:"VELORA_CATALOG_BASE_URL" required:"true"`
	FetchTimeout time.Duration `envconfig:"VELORA_CATALOG_FETCH_TIMEOUT" default:"10s"`
	CacheTTL     time.Duration `envconfig:"VELORA_CATALOG_CACHE_TTL" default:"5m"`
}

type FeedbackConfig struct {
	SinkURL        string        `envconfig:"VELORA_FEEDBACK_SINK_URL"`
	SubmitTimeout  time.Duration `envconfig:"VELORA_FEEDBACK_SUBMIT_TIMEOUT" default:"10s"`
	MaxCommentSize int           `envconfig:"VELORA_FEEDBACK_MAX_COMMENT_SIZE" default:"4096"`
}

type RedisConfig struct {
	URL          string        `envconfig:"VELORA_REDIS_URL"`
	Address      string        `envconfig:"VELORA_REDIS_ADDR"`
	Password     string        `envconfig:"VELORA_REDIS_PASSWORD"`
	DB           int           `envconfig:"VELORA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VELORA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VELORA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VELORA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VELORA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VELORA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type CartConfig struct {
	SessionCookie string        `envconfig:"VELORA_CART_SESSION_COOKIE" default:"velora_session"`
	SessionTTL    time.Duration `envconfig:"VELORA_CART_SESSION_TTL" default:"24h"`
	SweepInterval time.Duration `envconfig:"VELORA_CART_SWEEP_INTERVAL" default:"10m"`
}

type RateLimitConfig struct {
	Window   time.Duration `envconfig:"VELORA_RATE_LIMIT_WINDOW" default:"1m"`
	IPLimit  int           `envconfig:"VELORA_RATE_LIMIT_IP_LIMIT" default:"300"`
	Disabled bool          `envconfig:"VELORA_RATE_LIMIT_DISABLED" default:"false"`
}

type FeatureFlagsConfig struct {
	CatalogCache bool `envconfig:"VELORA_FEATURE_CATALOG_CACHE" default:"false"`
}
