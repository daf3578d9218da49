// Package config provides configuration management for the journal bot.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/viper"

	errs "github.com/Arabx-yung/trade-bot/internal/errors"
)

// Config holds all application configuration.
type Config struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
	Journal  JournalConfig  `mapstructure:"journal"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Calendar CalendarConfig `mapstructure:"calendar"`
	Log      LogConfig      `mapstructure:"log"`
}

// TelegramConfig holds Bot API settings.
type TelegramConfig struct {
	BotToken    string `mapstructure:"bot_token"`
	PollTimeout int    `mapstructure:"poll_timeout"` // seconds, long-poll window
}

// JournalConfig holds the journal channel destination and time handling.
type JournalConfig struct {
	ChatID   int64  `mapstructure:"chat_id"`
	Timezone string `mapstructure:"timezone"`
}

// StorageConfig holds persistence settings.
type StorageConfig struct {
	DBPath string `mapstructure:"db_path"`
}

// CalendarConfig holds the optional economic-calendar feed settings.
// An empty APIKey disables the feed; the bot degrades to a static
// message, never an error.
type CalendarConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	File       bool   `mapstructure:"file"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"` // megabytes
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/tradebot"
	}
	return filepath.Join(home, ".config", "tradebot")
}

// Load loads configuration from the specified directory. If configDir is
// empty, the default config directory is used. A missing config file is
// not an error: defaults plus environment overrides still apply.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	setDefaults(v, configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config.toml: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("telegram.poll_timeout", 30)
	v.SetDefault("journal.timezone", "Africa/Lagos")
	v.SetDefault("storage.db_path", filepath.Join(configDir, "trades.db"))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.console", true)
	v.SetDefault("log.file", true)
	v.SetDefault("log.file_path", filepath.Join(configDir, "logs", "tradebot.log"))
	v.SetDefault("log.max_size", 50)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age", 30)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("JOURNAL_CHAT_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Journal.ChatID = id
		}
	}
	if v := os.Getenv("TRADEBOT_TIMEZONE"); v != "" {
		cfg.Journal.Timezone = v
	}
	if v := os.Getenv("TRADEBOT_DB"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("CALENDAR_API_KEY"); v != "" {
		cfg.Calendar.APIKey = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Telegram.PollTimeout < 0 || c.Telegram.PollTimeout > 120 {
		return fmt.Errorf("%w: telegram.poll_timeout must be between 0 and 120 seconds", errs.ErrConfigInvalid)
	}
	if c.Journal.Timezone != "" {
		if _, err := time.LoadLocation(c.Journal.Timezone); err != nil {
			return fmt.Errorf("%w: journal.timezone %q: %v", errs.ErrConfigInvalid, c.Journal.Timezone, err)
		}
	}
	if c.Storage.DBPath == "" {
		return fmt.Errorf("%w: storage.db_path must not be empty", errs.ErrConfigInvalid)
	}
	return nil
}

// Location resolves the configured time zone. All user-entered
// timestamps are interpreted in this zone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Journal.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
