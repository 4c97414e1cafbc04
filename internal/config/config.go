// Package config loads the Agmente configuration via viper, merging the
// config file, environment variables, and built-in defaults.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/agmente/agmente/internal/codexlog"
)

// Config represents the complete Agmente configuration
type Config struct {
	Endpoint EndpointConfig `mapstructure:"endpoint"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// EndpointConfig describes the remote agent endpoint
type EndpointConfig struct {
	// URL is the websocket endpoint of the Codex agent
	URL string `mapstructure:"url"`
	// ConnectTimeoutSeconds bounds the initial connection attempt
	ConnectTimeoutSeconds int `mapstructure:"connect_timeout_seconds"`
}

// LoggingConfig controls the session log writer and process diagnostics
type LoggingConfig struct {
	// MaxFiles is the retention limit for session log files.
	// Zero or negative disables pruning.
	MaxFiles int `mapstructure:"max_files"`
	// Level is the session log verbosity ("standard" or "verbose").
	// Verbose additionally records chat snapshots and render decisions.
	Level string `mapstructure:"level"`
	// DebugLevel is the process debug log level (debug/info/warn/error)
	DebugLevel string `mapstructure:"debug_level"`
}

// Default returns the configuration used when no file or environment
// overrides are present
func Default() *Config {
	return &Config{
		Endpoint: EndpointConfig{
			URL:                   "",
			ConnectTimeoutSeconds: 30,
		},
		Logging: LoggingConfig{
			MaxFiles:   codexlog.DefaultMaxLogFiles,
			Level:      codexlog.LevelStandard,
			DebugLevel: "info",
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("endpoint.url", defaults.Endpoint.URL)
	viper.SetDefault("endpoint.connect_timeout_seconds", defaults.Endpoint.ConnectTimeoutSeconds)

	viper.SetDefault("logging.max_files", defaults.Logging.MaxFiles)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.debug_level", defaults.Logging.DebugLevel)
}

// Load reads the configuration from viper into a Config struct and
// validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration, falling back to defaults if
// unmarshaling fails
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "agmente")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".agmente"
	}
	return filepath.Join(home, ".config", "agmente")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
