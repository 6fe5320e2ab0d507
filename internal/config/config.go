// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. CVMAKER_SERVER_PORT.
const EnvPrefix = "CVMAKER"

// Config is the full application configuration. Values come from defaults,
// an optional JSON/YAML file, then CVMAKER_* environment variables.
type Config struct {
	Server      ServerConfig      `mapstructure:"server" json:"server"`
	Storage     StorageConfig     `mapstructure:"storage" json:"storage"`
	Print       PrintConfig       `mapstructure:"print" json:"print"`
	Export      ExportConfig      `mapstructure:"export" json:"export"`
	Log         LogConfig         `mapstructure:"log" json:"log"`
	Suggestions SuggestionsConfig `mapstructure:"suggestions" json:"suggestions"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host          string          `mapstructure:"host" json:"host"`
	Port          int             `mapstructure:"port" json:"port" validate:"gt=0,lte=65535"`
	AllowedOrigin string          `mapstructure:"allowed_origin" json:"allowed_origin"`
	RateLimit     RateLimitConfig `mapstructure:"rate_limit" json:"rate_limit"`
}

// RateLimitConfig sets per-client request budgets.
type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled" json:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute" json:"requests_per_minute" validate:"gte=0"`
	Burst             int  `mapstructure:"burst" json:"burst" validate:"gte=0"`
	ExportPerMinute   int  `mapstructure:"export_per_minute" json:"export_per_minute" validate:"gte=0"`
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	Backend       string        `mapstructure:"backend" json:"backend" validate:"oneof=memory file redis postgres"`
	DataDir       string        `mapstructure:"data_dir" json:"data_dir"`
	RedisAddr     string        `mapstructure:"redis_addr" json:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password" json:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db" json:"redis_db" validate:"gte=0"`
	KeyPrefix     string        `mapstructure:"key_prefix" json:"key_prefix"`
	DatabaseURL   string        `mapstructure:"database_url" json:"database_url"`
	Timeout       time.Duration `mapstructure:"timeout" json:"timeout" validate:"gt=0"`
}

// PrintConfig controls the headless browser used for PDF output.
type PrintConfig struct {
	ChromePath  string        `mapstructure:"chrome_path" json:"chrome_path"`
	SettleDelay time.Duration `mapstructure:"settle_delay" json:"settle_delay" validate:"gte=0"`
	Timeout     time.Duration `mapstructure:"timeout" json:"timeout" validate:"gt=0"`
}

// ExportConfig selects where exported artifacts are written.
type ExportConfig struct {
	Sink  string      `mapstructure:"sink" json:"sink" validate:"oneof=dir minio"`
	Dir   string      `mapstructure:"dir" json:"dir"`
	MinIO MinIOConfig `mapstructure:"minio" json:"minio"`
}

// MinIOConfig contains connection options for MinIO/S3-compatible storage.
type MinIOConfig struct {
	Endpoint        string `mapstructure:"endpoint" json:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id" json:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key" json:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl" json:"use_ssl"`
	Bucket          string `mapstructure:"bucket" json:"bucket"`
}

// LogConfig controls logger output.
type LogConfig struct {
	Level  string `mapstructure:"level" json:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" json:"format" validate:"oneof=console json"`
}

// SuggestionsConfig controls the suggestion store.
type SuggestionsConfig struct {
	SeedDemo bool `mapstructure:"seed_demo" json:"seed_demo"`
}

// Defaults returns the configuration used when nothing is overridden.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             20,
				ExportPerMinute:   6,
			},
		},
		Storage: StorageConfig{
			Backend:   "file",
			DataDir:   "data",
			RedisAddr: "localhost:6379",
			Timeout:   5 * time.Second,
		},
		Print: PrintConfig{
			SettleDelay: 100 * time.Millisecond,
			Timeout:     60 * time.Second,
		},
		Export: ExportConfig{
			Sink: "dir",
			Dir:  "exports",
			MinIO: MinIOConfig{
				Endpoint: "localhost:9000",
				Bucket:   "cv-exports",
			},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.allowed_origin", d.Server.AllowedOrigin)
	v.SetDefault("server.rate_limit.enabled", d.Server.RateLimit.Enabled)
	v.SetDefault("server.rate_limit.requests_per_minute", d.Server.RateLimit.RequestsPerMinute)
	v.SetDefault("server.rate_limit.burst", d.Server.RateLimit.Burst)
	v.SetDefault("server.rate_limit.export_per_minute", d.Server.RateLimit.ExportPerMinute)
	v.SetDefault("storage.backend", d.Storage.Backend)
	v.SetDefault("storage.data_dir", d.Storage.DataDir)
	v.SetDefault("storage.redis_addr", d.Storage.RedisAddr)
	v.SetDefault("storage.redis_password", "")
	v.SetDefault("storage.redis_db", 0)
	v.SetDefault("storage.key_prefix", "")
	v.SetDefault("storage.database_url", "")
	v.SetDefault("storage.timeout", d.Storage.Timeout)
	v.SetDefault("print.chrome_path", "")
	v.SetDefault("print.settle_delay", d.Print.SettleDelay)
	v.SetDefault("print.timeout", d.Print.Timeout)
	v.SetDefault("export.sink", d.Export.Sink)
	v.SetDefault("export.dir", d.Export.Dir)
	v.SetDefault("export.minio.endpoint", d.Export.MinIO.Endpoint)
	v.SetDefault("export.minio.access_key_id", "")
	v.SetDefault("export.minio.secret_access_key", "")
	v.SetDefault("export.minio.use_ssl", false)
	v.SetDefault("export.minio.bucket", d.Export.MinIO.Bucket)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("suggestions.seed_demo", false)
}

// Load builds the configuration from defaults, the file at path (skipped
// when path is empty) and the environment, then validates it.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		// Resolve path relative to current directory if not absolute
		if !filepath.IsAbs(path) {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get current directory: %w", err)
			}
			path = filepath.Join(cwd, path)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field ranges and the settings each selected backend needs.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	switch c.Storage.Backend {
	case "file":
		if c.Storage.DataDir == "" {
			return fmt.Errorf("config error: 'storage.data_dir' is required for the file backend")
		}
	case "redis":
		if c.Storage.RedisAddr == "" {
			return fmt.Errorf("config error: 'storage.redis_addr' is required for the redis backend")
		}
	case "postgres":
		if c.Storage.DatabaseURL == "" {
			return fmt.Errorf("config error: 'storage.database_url' is required for the postgres backend")
		}
	}

	switch c.Export.Sink {
	case "dir":
		if c.Export.Dir == "" {
			return fmt.Errorf("config error: 'export.dir' is required for the dir sink")
		}
	case "minio":
		if c.Export.MinIO.Endpoint == "" || c.Export.MinIO.Bucket == "" {
			return fmt.Errorf("config error: 'export.minio.endpoint' and 'export.minio.bucket' are required for the minio sink")
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from
// defaults. Used for configurations built in code rather than loaded.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Server.Host == "" {
		result.Server.Host = defaults.Server.Host
	}
	if result.Server.Port == 0 {
		result.Server.Port = defaults.Server.Port
	}
	if result.Server.RateLimit.RequestsPerMinute == 0 {
		result.Server.RateLimit.RequestsPerMinute = defaults.Server.RateLimit.RequestsPerMinute
	}
	if result.Server.RateLimit.Burst == 0 {
		result.Server.RateLimit.Burst = defaults.Server.RateLimit.Burst
	}
	if result.Server.RateLimit.ExportPerMinute == 0 {
		result.Server.RateLimit.ExportPerMinute = defaults.Server.RateLimit.ExportPerMinute
	}
	if result.Storage.Backend == "" {
		result.Storage.Backend = defaults.Storage.Backend
	}
	if result.Storage.DataDir == "" {
		result.Storage.DataDir = defaults.Storage.DataDir
	}
	if result.Storage.RedisAddr == "" {
		result.Storage.RedisAddr = defaults.Storage.RedisAddr
	}
	if result.Storage.Timeout == 0 {
		result.Storage.Timeout = defaults.Storage.Timeout
	}
	if result.Print.SettleDelay == 0 {
		result.Print.SettleDelay = defaults.Print.SettleDelay
	}
	if result.Print.Timeout == 0 {
		result.Print.Timeout = defaults.Print.Timeout
	}
	if result.Export.Sink == "" {
		result.Export.Sink = defaults.Export.Sink
	}
	if result.Export.Dir == "" {
		result.Export.Dir = defaults.Export.Dir
	}
	if result.Export.MinIO.Endpoint == "" {
		result.Export.MinIO.Endpoint = defaults.Export.MinIO.Endpoint
	}
	if result.Export.MinIO.Bucket == "" {
		result.Export.MinIO.Bucket = defaults.Export.MinIO.Bucket
	}
	if result.Log.Level == "" {
		result.Log.Level = defaults.Log.Level
	}
	if result.Log.Format == "" {
		result.Log.Format = defaults.Log.Format
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge

	return result
}

// Addr returns the host:port the server listens on.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
