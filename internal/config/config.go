package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the complete application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Tracking TrackingConfig `mapstructure:"tracking"`
}

// ServerConfig defines API and metrics listeners
type ServerConfig struct {
	BindAddress string `mapstructure:"bind_address"`
	APIPort     int    `mapstructure:"api_port"`
	MetricsPort int    `mapstructure:"metrics_port"`
}

// StorageConfig defines storage backend settings
type StorageConfig struct {
	Type  string      `mapstructure:"type"` // "file", "bolt" or "redis"
	Path  string      `mapstructure:"path"` // snapshot file or bolt database
	Redis RedisConfig `mapstructure:"redis"`
}

// RedisConfig defines Redis connection settings
type RedisConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	PoolSize     int    `mapstructure:"pool_size"`
	MinIdleConns int    `mapstructure:"min_idle_conns"`
	DialTimeout  string `mapstructure:"dial_timeout"`
	ReadTimeout  string `mapstructure:"read_timeout"`
	WriteTimeout string `mapstructure:"write_timeout"`
	KeyPrefix    string `mapstructure:"key_prefix"`
}

// LoggingConfig defines logging behavior
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"` // optional; rotated with lumberjack
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// TrackingConfig defines sampling behavior
type TrackingConfig struct {
	SampleInterval string      `mapstructure:"sample_interval"`
	Probe          ProbeConfig `mapstructure:"probe"`
}

// ProbeConfig selects how the focused application is discovered
type ProbeConfig struct {
	Kind      string   `mapstructure:"kind"`    // "auto", "command" or "none"
	Command   []string `mapstructure:"command"` // argv for kind=command
	Timeout   string   `mapstructure:"timeout"`
	CacheSize int      `mapstructure:"cache_size"`
	CacheTTL  string   `mapstructure:"cache_ttl"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Configure viper
	v.SetConfigFile(configPath)
	v.SetEnvPrefix("APPTIME")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults and environment variables
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// SetDefaults exposes the default values, e.g. for dumping configuration
func SetDefaults(v *viper.Viper) {
	setDefaults(v)
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.bind_address", "127.0.0.1")
	v.SetDefault("server.api_port", 7420)
	v.SetDefault("server.metrics_port", 9420)

	// Storage defaults
	v.SetDefault("storage.type", "file")
	v.SetDefault("storage.path", defaultDataPath())
	v.SetDefault("storage.redis.host", "localhost")
	v.SetDefault("storage.redis.port", 6379)
	v.SetDefault("storage.redis.password", "")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.redis.pool_size", 4)
	v.SetDefault("storage.redis.min_idle_conns", 1)
	v.SetDefault("storage.redis.dial_timeout", "5s")
	v.SetDefault("storage.redis.read_timeout", "3s")
	v.SetDefault("storage.redis.write_timeout", "3s")
	v.SetDefault("storage.redis.key_prefix", "apptime")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size_mb", 10)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age_days", 7)

	// Tracking defaults
	v.SetDefault("tracking.sample_interval", "60s")
	v.SetDefault("tracking.probe.kind", "auto")
	v.SetDefault("tracking.probe.command", []string{})
	v.SetDefault("tracking.probe.timeout", "2s")
	v.SetDefault("tracking.probe.cache_size", 256)
	v.SetDefault("tracking.probe.cache_ttl", "5m")
}

func defaultDataPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "apptime", "activity_data.json")
}

// validate validates the configuration
func validate(cfg *Config) error {
	if cfg.Server.APIPort < 0 || cfg.Server.APIPort > 65535 {
		return fmt.Errorf("invalid API port: %d", cfg.Server.APIPort)
	}
	if cfg.Server.MetricsPort < 0 || cfg.Server.MetricsPort > 65535 {
		return fmt.Errorf("invalid metrics port: %d", cfg.Server.MetricsPort)
	}

	if cfg.Storage.Type == "" {
		cfg.Storage.Type = "file"
	}
	switch cfg.Storage.Type {
	case "file", "bolt":
		if cfg.Storage.Path == "" {
			return fmt.Errorf("storage path is required for %s storage", cfg.Storage.Type)
		}
	case "redis":
		if cfg.Storage.Redis.Host == "" {
			return fmt.Errorf("storage.redis.host is required for redis storage")
		}
	default:
		return fmt.Errorf("unsupported storage type: %s (must be file, bolt or redis)", cfg.Storage.Type)
	}

	interval, err := time.ParseDuration(cfg.Tracking.SampleInterval)
	if err != nil {
		return fmt.Errorf("invalid tracking.sample_interval: %w", err)
	}
	if interval <= 0 {
		return fmt.Errorf("tracking.sample_interval must be positive")
	}

	switch cfg.Tracking.Probe.Kind {
	case "auto", "none":
	case "command":
		if len(cfg.Tracking.Probe.Command) == 0 {
			return fmt.Errorf("tracking.probe.command is required when kind is command")
		}
	default:
		return fmt.Errorf("unsupported probe kind: %s (must be auto, command or none)", cfg.Tracking.Probe.Kind)
	}

	return nil
}
