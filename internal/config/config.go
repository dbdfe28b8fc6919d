// Package config loads the server configuration from YAML with environment
// overrides. Defaults are usable out of the box: in-memory sessions, the
// embedded catalog, listening on :8080.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Duration is a time.Duration that unmarshals from strings like "90s" or
// "1h30m".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std converts back to the standard library type.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// RedisConfig selects the Redis backend for sessions and locking.
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr" validate:"required_if=Enabled true"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db" validate:"gte=0"`
}

// Config is the full server configuration.
type Config struct {
	// Listen is the HTTP bind address.
	Listen string `yaml:"listen" validate:"required"`
	// MCPPort is the port for the MCP SSE transport.
	MCPPort int `yaml:"mcp_port" validate:"gt=0,lte=65535"`

	// CatalogPath overrides the embedded template catalog when set.
	CatalogPath string `yaml:"catalog_path,omitempty"`

	// SessionTTL bounds how long idle sessions are kept. Zero keeps them
	// forever.
	SessionTTL Duration `yaml:"session_ttl"`

	// DefaultSuggestion overrides the fallback template id for discovery.
	DefaultSuggestion string `yaml:"default_suggestion,omitempty"`
	// DateLayout overrides the accepted date format for answers.
	DateLayout string `yaml:"date_layout,omitempty"`

	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`

	Redis RedisConfig `yaml:"redis"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Listen:   ":8080",
		MCPPort:  8081,
		LogLevel: "info",
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
	}
}

// Load reads the YAML file at path over the defaults, applies environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	applyEnv(cfg)

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applyEnv lets deployment environments override the file without editing
// it. FORMPILOT_* variables win over both defaults and the YAML.
func applyEnv(cfg *Config) {
	if v := os.Getenv("FORMPILOT_LISTEN"); v != "" {
		cfg.Listen = v
	}
	if v := os.Getenv("FORMPILOT_MCP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.MCPPort = port
		}
	}
	if v := os.Getenv("FORMPILOT_CATALOG_PATH"); v != "" {
		cfg.CatalogPath = v
	}
	if v := os.Getenv("FORMPILOT_SESSION_TTL"); v != "" {
		if ttl, err := time.ParseDuration(v); err == nil {
			cfg.SessionTTL = Duration(ttl)
		}
	}
	if v := os.Getenv("FORMPILOT_DEFAULT_SUGGESTION"); v != "" {
		cfg.DefaultSuggestion = v
	}
	if v := os.Getenv("FORMPILOT_DATE_LAYOUT"); v != "" {
		cfg.DateLayout = v
	}
	if v := os.Getenv("FORMPILOT_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("FORMPILOT_REDIS_ADDR"); v != "" {
		cfg.Redis.Enabled = true
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("FORMPILOT_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("FORMPILOT_REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.Redis.DB = db
		}
	}
}
