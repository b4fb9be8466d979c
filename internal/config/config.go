package config

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	DatabaseURL    string   `env:"DATABASE_URL,required"`
	ExternalAPIURL string   `env:"EXTERNAL_API_URL,required"`
	Port           int      `env:"PORT,default=8080"`
	LogLevel       string   `env:"LOG_LEVEL,default=info"`
	CORSOrigins    []string `env:"CORS_ORIGINS"`

	// Upstream call budget
	ExternalAPITimeout time.Duration `env:"EXTERNAL_API_TIMEOUT,default=10s"`

	// Token lifecycle
	TokenTTL           time.Duration `env:"TOKEN_TTL,default=24h"`
	TokenSweepInterval time.Duration `env:"TOKEN_SWEEP_INTERVAL,default=1h"`

	// Abuse protection
	RateLimitMax      int           `env:"RATE_LIMIT_MAX,default=100"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW,default=15m"`
	AuthMaxFailures   int           `env:"AUTH_MAX_FAILURES,default=5"`
	AuthBlockDuration time.Duration `env:"AUTH_BLOCK_DURATION,default=15m"`

	// HTTP server timeouts
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT,default=15s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT,default=30s"`
	IdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT,default=60s"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	u, err := url.Parse(c.ExternalAPIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("EXTERNAL_API_URL must be an absolute URL, got %q", c.ExternalAPIURL)
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}

	if c.ExternalAPITimeout <= 0 {
		return fmt.Errorf("EXTERNAL_API_TIMEOUT must be positive, got %s", c.ExternalAPITimeout)
	}

	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	if c.TokenSweepInterval <= 0 {
		return fmt.Errorf("TOKEN_SWEEP_INTERVAL must be positive, got %s", c.TokenSweepInterval)
	}

	if c.RateLimitMax < 1 {
		return fmt.Errorf("RATE_LIMIT_MAX must be at least 1, got %d", c.RateLimitMax)
	}
	if c.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", c.RateLimitWindow)
	}

	return nil
}
