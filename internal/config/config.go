// Package config provides configuration management for the Intara search proxy service.
package config

import (
	"fmt"
	"slices"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config is the full proxy configuration, populated from the environment.
type Config struct {
	Server  ServerConfig  `envPrefix:"SERVER_"`
	Intara  IntaraConfig  `envPrefix:"INTARA_"`
	Search  SearchConfig  `envPrefix:"SEARCH_"`
	Logging LoggingConfig `envPrefix:"LOG_"`
}

// ServerConfig describes the proxy's own HTTP listener.
type ServerConfig struct {
	Host            string        `env:"HOST" envDefault:"0.0.0.0"`
	Port            int           `env:"PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// IntaraConfig contains Intara API endpoints and credentials.
type IntaraConfig struct {
	BaseURL      string        `env:"BASE_URL" envDefault:"https://intara-api.janes.com/graph"`
	TokenURL     string        `env:"TOKEN_URL" envDefault:"https://intara-api.janes.com/oauth/token"`
	APIKey       string        `env:"API_KEY"`
	ClientID     string        `env:"CLIENT_ID"`
	ClientSecret string        `env:"CLIENT_SECRET"`
	Timeout      time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

// SearchConfig contains search behavior configuration.
type SearchConfig struct {
	ComponentsDir    string `env:"COMPONENTS_DIR" envDefault:"./components"`
	DefaultComponent string `env:"DEFAULT_COMPONENT" envDefault:"military-groups"`
	MaxPageSize      int    `env:"MAX_PAGE_SIZE" envDefault:"200"`
}

// LoggingConfig controls log level and output format.
type LoggingConfig struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"json"`
}

// Load parses configuration from environment variables.
// It returns an error if required fields are missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}

	timeouts := []struct {
		name string
		d    time.Duration
	}{
		{"read", c.Server.ReadTimeout},
		{"write", c.Server.WriteTimeout},
		{"shutdown", c.Server.ShutdownTimeout},
	}
	for _, t := range timeouts {
		if t.d <= 0 {
			return fmt.Errorf("server %s timeout must be positive, got %s", t.name, t.d)
		}
	}

	if c.Intara.BaseURL == "" {
		return fmt.Errorf("intara base URL is required")
	}
	if c.Intara.TokenURL == "" {
		return fmt.Errorf("intara token URL is required")
	}
	if c.Intara.APIKey == "" {
		return fmt.Errorf("intara API key is required")
	}
	if c.Intara.ClientID == "" || c.Intara.ClientSecret == "" {
		return fmt.Errorf("intara client credentials are required")
	}
	if c.Intara.Timeout <= 0 {
		return fmt.Errorf("intara timeout must be positive, got %s", c.Intara.Timeout)
	}

	if c.Search.DefaultComponent == "" {
		return fmt.Errorf("default component is required")
	}
	if c.Search.MaxPageSize < 1 {
		return fmt.Errorf("max page size must be at least 1, got %d", c.Search.MaxPageSize)
	}

	if !slices.Contains([]string{"debug", "info", "warn", "error"}, c.Logging.Level) {
		return fmt.Errorf("invalid log level %q, must be one of: debug, info, warn, error", c.Logging.Level)
	}
	if !slices.Contains([]string{"json", "text"}, c.Logging.Format) {
		return fmt.Errorf("invalid log format %q, must be one of: json, text", c.Logging.Format)
	}

	return nil
}

// Address returns the server listen address in the format "host:port".
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
