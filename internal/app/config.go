package app

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	BackendURL string `envconfig:"FINCOACH_API_URL" default:"http://localhost:5000"`

	RedisAddr string `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`

	SessionCookie string        `envconfig:"SESSION_COOKIE" default:"fincoach_session"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"168h"`

	CSRFSecret string `envconfig:"CSRF_SECRET" required:"true"`

	DashboardCacheTTL   time.Duration `envconfig:"DASHBOARD_CACHE_TTL" default:"10m"`
	CreditScoreCacheTTL time.Duration `envconfig:"CREDIT_SCORE_CACHE_TTL" default:"24h"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.CSRFSecret == "" {
		return nil, errors.New("csrf secret must be provided")
	}
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
