package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// ErrInvalidValue is wrapped by every validation failure
var ErrInvalidValue = errors.New("invalid config value")

// Config holds the service settings. Values come from the defaults below, then
// an optional YAML file, then CATALOG_* environment variables.
type Config struct {
	ListenAddr      string        `yaml:"listen_addr"       env:"CATALOG_LISTEN_ADDR"`
	StoreURLs       []string      `yaml:"store_urls"        env:"CATALOG_STORE_URLS"        envSeparator:","`
	StoreUsername   string        `yaml:"store_username"    env:"CATALOG_STORE_USERNAME"`
	StorePassword   string        `yaml:"store_password"    env:"CATALOG_STORE_PASSWORD"`
	MaxPageSize     int           `yaml:"max_page_size"     env:"CATALOG_MAX_PAGE_SIZE"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes"  env:"CATALOG_MAX_UPLOAD_BYTES"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"  env:"CATALOG_SHUTDOWN_TIMEOUT"`
	CORSAllowOrigin []string      `yaml:"cors_allow_origin" env:"CATALOG_CORS_ALLOW_ORIGIN" envSeparator:","`
	MetricsEnabled  bool          `yaml:"metrics_enabled"   env:"CATALOG_METRICS_ENABLED"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		ListenAddr:      ":1234",
		StoreURLs:       []string{"http://127.0.0.1:9200"},
		MaxPageSize:     0,
		MaxUploadBytes:  32 << 20,
		ShutdownTimeout: 30 * time.Second,
		CORSAllowOrigin: []string{"*"},
		MetricsEnabled:  true,
	}
}

// Load layers the YAML file at path (skipped when path is empty or missing)
// and the environment over the defaults, then validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("malformed config file %s: %w", path, err)
			}
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that all configured values are usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ListenAddr) == "" {
		return fmt.Errorf("%w: listen_addr is required", ErrInvalidValue)
	}
	if len(c.StoreURLs) == 0 {
		return fmt.Errorf("%w: at least one store url is required", ErrInvalidValue)
	}
	for _, u := range c.StoreURLs {
		if strings.TrimSpace(u) == "" {
			return fmt.Errorf("%w: store url cannot be empty", ErrInvalidValue)
		}
	}
	if c.MaxPageSize < 0 {
		return fmt.Errorf("%w: max_page_size cannot be negative, got %d", ErrInvalidValue, c.MaxPageSize)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("%w: max_upload_bytes must be positive, got %d", ErrInvalidValue, c.MaxUploadBytes)
	}
	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: shutdown_timeout cannot be negative, got %s", ErrInvalidValue, c.ShutdownTimeout)
	}
	return nil
}
