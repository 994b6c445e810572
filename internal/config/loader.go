package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"scoringd/internal/validation"
)

// Config holds runtime parameters for the service.
// Fields absent from a file keep the value they had before Load.
type Config struct {
	Addr           string `json:"addr" yaml:"addr" toml:"addr" validate:"required,hostname_port"`
	ModelDir       string `json:"model_dir" yaml:"model_dir" toml:"model_dir" validate:"required"`
	ArtifactPolicy string `json:"artifact_policy" yaml:"artifact_policy" toml:"artifact_policy" validate:"oneof=strict first"`
	CacheEnabled   bool   `json:"cache_enabled" yaml:"cache_enabled" toml:"cache_enabled"`

	RequestTimeoutMS int   `json:"request_timeout_ms" yaml:"request_timeout_ms" toml:"request_timeout_ms" validate:"gte=0"`
	MaxInflight      int   `json:"max_inflight" yaml:"max_inflight" toml:"max_inflight" validate:"gte=0"`
	MaxQueueDepth    int   `json:"max_queue_depth" yaml:"max_queue_depth" toml:"max_queue_depth" validate:"gte=0"`
	MaxWaitMS        int   `json:"max_wait_ms" yaml:"max_wait_ms" toml:"max_wait_ms" validate:"gte=0"`
	ScoreWorkers     int   `json:"score_workers" yaml:"score_workers" toml:"score_workers" validate:"gte=0,lte=1024"`
	MaxBodyBytes     int64 `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes" validate:"gte=0"`
	// Delimiter is the CSV field separator; empty means ','.
	Delimiter string `json:"delimiter" yaml:"delimiter" toml:"delimiter" validate:"omitempty,len=1,excludesall=\"\r\n\uFFFD"`

	LogLevel  string `json:"log_level" yaml:"log_level" toml:"log_level" validate:"oneof=trace debug info warn error disabled"`
	LogFormat string `json:"log_format" yaml:"log_format" toml:"log_format" validate:"oneof=json console"`

	CORSEnabled        bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSAllowedOrigins []string `json:"cors_allowed_origins" yaml:"cors_allowed_origins" toml:"cors_allowed_origins"`
	// RateLimitPerMinute enables per-IP rate limiting when > 0.
	RateLimitPerMinute int `json:"rate_limit_per_minute" yaml:"rate_limit_per_minute" toml:"rate_limit_per_minute" validate:"gte=0"`
}

// Default returns the configuration used when nothing else is specified.
func Default() Config {
	return Config{
		Addr:           ":8080",
		ModelDir:       "model",
		ArtifactPolicy: "strict",
		MaxWaitMS:      30000,
		MaxBodyBytes:   32 << 20,
		LogLevel:       "info",
		LogFormat:      "json",
	}
}

// Load reads a configuration file based on its extension, starting from
// Default(). Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	cfg := Default()
	if err := LoadInto(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadInto decodes the file at path over cfg.
func LoadInto(path string, cfg *Config) error {
	if path == "" {
		return fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(b, cfg); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, cfg); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config extension: %s", ext)
	}
	return nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// RequestTimeout converts RequestTimeoutMS. Zero disables the timeout.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// MaxWait converts MaxWaitMS.
func (c Config) MaxWait() time.Duration {
	return time.Duration(c.MaxWaitMS) * time.Millisecond
}

// DelimiterRune returns the CSV separator, or 0 for the default comma.
func (c Config) DelimiterRune() rune {
	if c.Delimiter == "" {
		return 0
	}
	return []rune(c.Delimiter)[0]
}
