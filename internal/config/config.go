package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Env          string       `yaml:"env"`
	DatabasePath string       `yaml:"database_path"`
	LogLevel     string       `yaml:"log_level"`
	API          APIConfig    `yaml:"api"`
	Server       ServerConfig `yaml:"server"`
}

// ServerConfig drives the reference backend used for local development.
type ServerConfig struct {
	Addr          string        `yaml:"addr"`
	DatabasePath  string        `yaml:"database_path"`
	JWTSecret     string        `yaml:"jwt_secret"`
	Timeout       time.Duration `yaml:"timeout"`
	TokenDuration time.Duration `yaml:"token_duration"`
}

type APIConfig struct {
	// BaseURL is the badge service endpoint, e.g. http://localhost:5000
	BaseURL string `yaml:"base_url"`
	// Timeout is the per-request timeout
	Timeout time.Duration `yaml:"timeout"`
	// DedupeInFlight collapses identical concurrent requests into one round-trip
	DedupeInFlight *bool `yaml:"dedupe_in_flight"`
}

// Dedupe reports whether in-flight deduplication is enabled. It defaults to on.
func (c APIConfig) Dedupe() bool {
	return c.DedupeInFlight == nil || *c.DedupeInFlight
}

// DefaultAPIConfig returns the settings used when nothing is configured.
func DefaultAPIConfig() APIConfig {
	return APIConfig{
		BaseURL: "http://localhost:5000",
		Timeout: 15 * time.Second,
	}
}

func LoadConfig(path string) (*Config, error) {
	api := DefaultAPIConfig()
	api.BaseURL = getEnv("BADGE_API_URL", api.BaseURL)

	cfg := &Config{
		Env:          getEnv("BADGE_ENV", "development"),
		DatabasePath: getEnv("BADGE_DATABASE_PATH", "badge_session.db"),
		LogLevel:     getEnv("BADGE_LOG_LEVEL", "info"),
		API:          api,
		Server: ServerConfig{
			Addr:          getEnv("BADGE_SERVER_ADDR", ":5000"),
			DatabasePath:  getEnv("BADGE_SERVER_DATABASE_PATH", "badge_backend.db"),
			JWTSecret:     getEnv("BADGE_JWT_SECRET", "supersecretkey"),
			Timeout:       15 * time.Second,
			TokenDuration: 1 * time.Hour,
		},
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate fills API defaults and rejects settings the client cannot use.
func (c *Config) Validate() error {
	def := DefaultAPIConfig()
	if c.API.BaseURL == "" {
		c.API.BaseURL = def.BaseURL
	}
	if c.API.Timeout <= 0 {
		c.API.Timeout = def.Timeout
	}

	u, err := url.ParseRequestURI(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid api.base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid api.base_url scheme %q", u.Scheme)
	}

	if c.DatabasePath == "" {
		return fmt.Errorf("database_path is required")
	}

	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
