package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// LogLevel represents the logging level
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// Scaler names the resampling quality used when fitting images to the screen
type Scaler string

const (
	ScalerQuality Scaler = "quality"
	ScalerFast    Scaler = "fast"
)

// Config holds the application configuration
type Config struct {
	// Logging
	LogLevel LogLevel `mapstructure:"SETWALLPAPER_LOG_LEVEL"`
	LogMode  string   `mapstructure:"SETWALLPAPER_LOG_MODE"`
	LogDir   string   `mapstructure:"SETWALLPAPER_LOG_DIR"`

	// Config sync
	ConfigFile     string `mapstructure:"SETWALLPAPER_CONFIG_FILE"`
	PcmanfmProfile string `mapstructure:"SETWALLPAPER_PCMANFM_PROFILE"`

	// Dispatch timing
	RapidThreshold time.Duration `mapstructure:"SETWALLPAPER_RAPID_THRESHOLD"`
	SettleInterval time.Duration `mapstructure:"SETWALLPAPER_SETTLE_INTERVAL"`
	SyncDelay      time.Duration `mapstructure:"SETWALLPAPER_SYNC_DELAY"`
	CommandTimeout time.Duration `mapstructure:"SETWALLPAPER_COMMAND_TIMEOUT"`

	// Back ends
	DesktopShell string   `mapstructure:"SETWALLPAPER_DESKTOP_SHELL"`
	Scaler       Scaler   `mapstructure:"SETWALLPAPER_SCALER"`
	WaylandTools []string `mapstructure:"SETWALLPAPER_WAYLAND_TOOLS"`
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	v := viper.New()

	// Set config file
	v.SetConfigFile(".env")
	v.SetConfigType("env")

	// Set defaults
	setDefaults(v)

	// Read from .env file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !isNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// .env file not found, continue with environment variables only
	}

	// Environment variables override .env file
	v.AutomaticEnv()

	// Parse configuration
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Parse comma-separated lists
	cfg.parseCommaSeparatedFields(v)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg := &Config{}
	_ = v.Unmarshal(cfg)
	cfg.parseCommaSeparatedFields(v)
	return cfg
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("SETWALLPAPER_LOG_LEVEL", "info")
	v.SetDefault("SETWALLPAPER_LOG_MODE", "cli")
	v.SetDefault("SETWALLPAPER_LOG_DIR", "log")
	v.SetDefault("SETWALLPAPER_CONFIG_FILE", "")
	v.SetDefault("SETWALLPAPER_PCMANFM_PROFILE", "lxqt")
	v.SetDefault("SETWALLPAPER_RAPID_THRESHOLD", "100ms")
	v.SetDefault("SETWALLPAPER_SETTLE_INTERVAL", "1s")
	v.SetDefault("SETWALLPAPER_SYNC_DELAY", "150ms")
	v.SetDefault("SETWALLPAPER_COMMAND_TIMEOUT", "5s")
	v.SetDefault("SETWALLPAPER_DESKTOP_SHELL", "pcmanfm-qt")
	v.SetDefault("SETWALLPAPER_SCALER", "quality")
	v.SetDefault("SETWALLPAPER_WAYLAND_TOOLS", "")
}

// parseCommaSeparatedFields parses comma-separated string fields into slices
func (c *Config) parseCommaSeparatedFields(v *viper.Viper) {
	c.WaylandTools = nil
	if tools := v.GetString("SETWALLPAPER_WAYLAND_TOOLS"); tools != "" {
		c.WaylandTools = splitAndTrim(tools)
	}
}

// isNotExist reports whether viper failed because the .env file is simply absent
func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// splitAndTrim splits a comma-separated string and trims whitespace
func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate log level
	switch c.LogLevel {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		// Valid
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	switch c.LogMode {
	case "cli", "file", "journal":
		// Valid
	default:
		return fmt.Errorf("invalid log mode: %s (must be cli, file, or journal)", c.LogMode)
	}

	switch c.Scaler {
	case ScalerQuality, ScalerFast:
		// Valid
	default:
		return fmt.Errorf("invalid scaler: %s (must be quality or fast)", c.Scaler)
	}

	if c.PcmanfmProfile == "" && c.ConfigFile == "" {
		return fmt.Errorf("either SETWALLPAPER_PCMANFM_PROFILE or SETWALLPAPER_CONFIG_FILE must be set")
	}

	if c.RapidThreshold < 0 || c.SettleInterval < 0 || c.SyncDelay < 0 {
		return fmt.Errorf("timing values must not be negative")
	}

	if c.CommandTimeout <= 0 {
		return fmt.Errorf("invalid command timeout: %s (must be positive)", c.CommandTimeout)
	}

	if c.DesktopShell == "" {
		return fmt.Errorf("desktop shell name must not be empty")
	}

	return nil
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{LogLevel=%s, LogMode=%s, Profile=%s, RapidThreshold=%s, Scaler=%s}",
		c.LogLevel, c.LogMode, c.PcmanfmProfile, c.RapidThreshold, c.Scaler)
}
