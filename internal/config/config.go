package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name     string `envconfig:"APP_NAME" default:"UPI Statement Analyzer"`
		Port     int    `envconfig:"PORT" default:"8080"`
		LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	}

	Upload struct {
		BodyLimitMB int `envconfig:"BODY_LIMIT_MB" default:"32"`
	}

	Classifier struct {
		// RulesFile replaces the built-in category table when set.
		RulesFile string `envconfig:"CATEGORY_RULES_FILE"`
	}

	OCR struct {
		Enabled bool `envconfig:"OCR_ENABLED" default:"true"`
		DPI     int  `envconfig:"OCR_DPI" default:"300"`
	}
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

// BodyLimit is the maximum accepted request body in bytes.
func (c *Config) BodyLimit() int {
	return c.Upload.BodyLimitMB << 20
}

// Load reads configuration from the environment, after loading a .env file
// from the working directory if one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.Upload.BodyLimitMB <= 0 {
		return nil, fmt.Errorf("BODY_LIMIT_MB must be positive, got %d", cfg.Upload.BodyLimitMB)
	}

	return &cfg, nil
}
