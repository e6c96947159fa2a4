// Package config loads the service configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// Config holds the accounts service configuration.
type Config struct {
	// HTTPAddr is the listen address of the HTTP server.
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	// AppBaseURL is the scheme://host prefix used to build reset links.
	AppBaseURL string `env:"APP_BASE_URL"`

	Mongo      MongoConfig
	ResetToken ResetTokenConfig
}

// MongoConfig holds the MongoDB connection settings.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"      envDefault:"mongodb://localhost:27017"`
	Database string `env:"MONGO_DATABASE" envDefault:"accounts"`
}

// ResetTokenConfig holds the password-reset token protocol settings.
type ResetTokenConfig struct {
	// Secret keys the reset-token HMAC. Rotating it invalidates every
	// outstanding reset link.
	Secret string `env:"RESET_TOKEN_SECRET"`

	// BucketWidth is the width of the validity time bucket.
	BucketWidth time.Duration `env:"RESET_TOKEN_BUCKET_WIDTH" envDefault:"24h"`

	// WindowBuckets is how many preceding buckets remain valid.
	WindowBuckets int `env:"RESET_TOKEN_WINDOW_BUCKETS" envDefault:"1"`
}

// New creates a Config instance from environment variables.
func New(logger *zerolog.Logger) *Config {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse environment variables")
	}

	if err := cfg.validate(); err != nil {
		logger.Fatal().Err(err).Msg("failed to validate configuration")
	}

	return &cfg
}

// validate checks if the configuration is valid.
func (c *Config) validate() error {
	if c.AppBaseURL == "" {
		return fmt.Errorf("missing APP_BASE_URL environment variable")
	}
	if c.ResetToken.Secret == "" {
		return fmt.Errorf("missing RESET_TOKEN_SECRET environment variable")
	}
	if c.ResetToken.BucketWidth < time.Second {
		return fmt.Errorf("RESET_TOKEN_BUCKET_WIDTH must be at least one second")
	}
	if c.ResetToken.WindowBuckets < 0 {
		return fmt.Errorf("RESET_TOKEN_WINDOW_BUCKETS must not be negative")
	}

	return nil
}
