// File: internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Reader() ReaderConfig
	Input() InputConfig

	// Reader Setters
	SetReaderDisplayCursor(bool)
	SetReaderAnnouncePoliteness(bool)

	// Input Setters
	SetInputTypingRate(float64)
	SetInputSettleTimeout(d time.Duration)
}

// Config holds the entire application configuration.
// It uses private fields to enforce access through the Interface's getter methods.
type Config struct {
	logger LoggerConfig `mapstructure:"logger" yaml:"logger"`
	reader ReaderConfig `mapstructure:"reader" yaml:"reader"`
	input  InputConfig  `mapstructure:"input" yaml:"input"`
}

// --- Interface Method Implementations (Getters) ---

func (c *Config) Logger() LoggerConfig { return c.logger }
func (c *Config) Reader() ReaderConfig { return c.reader }
func (c *Config) Input() InputConfig   { return c.input }

// --- Interface Method Implementations (Setters) ---

func (c *Config) SetReaderDisplayCursor(b bool)      { c.reader.DisplayCursor = b }
func (c *Config) SetReaderAnnouncePoliteness(b bool) { c.reader.AnnouncePoliteness = b }

func (c *Config) SetInputTypingRate(r float64)           { c.input.TypingRate = r }
func (c *Config) SetInputSettleTimeout(d time.Duration)  { c.input.SettleTimeout = d }

// LoggerConfig holds the settings for the observability logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// ReaderConfig configures the virtual screen reader engine.
type ReaderConfig struct {
	// DisplayCursor requests the cosmetic cursor-highlight overlay where the
	// host environment supports one. The in-process host ignores it.
	DisplayCursor bool `mapstructure:"display_cursor" yaml:"display_cursor"`
	// AnnouncePoliteness prefixes live-region announcements with their
	// politeness level ("polite: ..." / "assertive: ...").
	AnnouncePoliteness bool `mapstructure:"announce_politeness" yaml:"announce_politeness"`
}

// InputConfig configures the simulated input collaborator.
type InputConfig struct {
	// TypingRate is the simulated typing cadence in characters per second.
	// Zero or negative means unlimited.
	TypingRate float64 `mapstructure:"typing_rate" yaml:"typing_rate"`
	// SettleTimeout bounds how long an interaction waits for the host
	// document to settle before returning.
	SettleTimeout time.Duration `mapstructure:"settle_timeout" yaml:"settle_timeout"`
}

// SetDefaults registers the default values for all configuration keys with viper.
func SetDefaults(v *viper.Viper) {
	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.service_name", "earshot")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 28)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.dpanic", "red")
	v.SetDefault("logger.colors.panic", "red")
	v.SetDefault("logger.colors.fatal", "red")

	// Reader defaults
	v.SetDefault("reader.display_cursor", false)
	v.SetDefault("reader.announce_politeness", true)

	// Input defaults
	v.SetDefault("input.typing_rate", 0.0)
	v.SetDefault("input.settle_timeout", 5*time.Second)
}

// Load reads configuration from the given file (optional), environment
// variables prefixed with EARSHOT_, and built-in defaults, and unmarshals the
// result into a Config.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("EARSHOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; proceed with defaults/env vars.
	}

	cfg := &Config{}
	if err := unmarshal(v, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// unmarshal decodes viper state into the private Config fields.
// Config's fields are unexported, so viper cannot decode into it directly; we
// decode into an exported mirror and copy across.
func unmarshal(v *viper.Viper, cfg *Config) error {
	var raw struct {
		Logger LoggerConfig `mapstructure:"logger"`
		Reader ReaderConfig `mapstructure:"reader"`
		Input  InputConfig  `mapstructure:"input"`
	}
	if err := v.Unmarshal(&raw); err != nil {
		return err
	}
	cfg.logger = raw.Logger
	cfg.reader = raw.Reader
	cfg.input = raw.Input
	return nil
}

// Default returns a Config populated with the built-in defaults only.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg := &Config{}
	// Defaults always decode cleanly.
	_ = unmarshal(v, cfg)
	return cfg
}
