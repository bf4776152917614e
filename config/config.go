package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all runtime configuration, loaded from the environment.
// A .env file in the working directory is applied first when present.
type Config struct {
	Port           int      `env:"PORT" envDefault:"5000"`
	DatabasePath   string   `env:"DATABASE_PATH" envDefault:"data/gamelog.db"`
	LogFile        string   `env:"LOG_FILE"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`

	// External catalog (IGDB via Twitch client-credentials).
	IGDBClientID     string `env:"IGDB_CLIENT_ID"`
	IGDBClientSecret string `env:"IGDB_CLIENT_SECRET"`

	// Shared secret for verifying bearer tokens issued by the identity provider.
	AuthJWTSecret string `env:"AUTH_JWT_SECRET"`

	// Cache tiers. Each tier has its own TTL; they are invalidated independently.
	MetadataTTLHours int           `env:"METADATA_TTL_HOURS" envDefault:"24"`
	ContentCacheTTL  time.Duration `env:"CONTENT_CACHE_TTL" envDefault:"60s"`
}

// Load reads configuration from .env (if present) and the process environment.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var missing []string
	if strings.TrimSpace(c.IGDBClientID) == "" {
		missing = append(missing, "IGDB_CLIENT_ID")
	}
	if strings.TrimSpace(c.IGDBClientSecret) == "" {
		missing = append(missing, "IGDB_CLIENT_SECRET")
	}
	if strings.TrimSpace(c.AuthJWTSecret) == "" {
		missing = append(missing, "AUTH_JWT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if c.MetadataTTLHours <= 0 {
		c.MetadataTTLHours = 24
	}
	if c.ContentCacheTTL <= 0 {
		c.ContentCacheTTL = time.Minute
	}
	return nil
}
