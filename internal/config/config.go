package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	YouTube  YouTubeConfig  `mapstructure:"youtube"`
	Tracker  TrackerConfig  `mapstructure:"tracker"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// YouTubeConfig holds YouTube Data API configuration.
// APIKey is normally supplied via the TUBELENS_YOUTUBE_API_KEY
// environment variable rather than the config file.
type YouTubeConfig struct {
	APIBaseURL string        `mapstructure:"api_base_url"`
	APIKey     string        `mapstructure:"api_key"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// TrackerConfig holds the snapshot tracker configuration. The tracker is
// optional; when disabled, trend tools fall back to synthetic series.
type TrackerConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	PollInterval      time.Duration `mapstructure:"poll_interval"`
	Window            time.Duration `mapstructure:"window"`
	VideoIDs          []string      `mapstructure:"video_ids"`
	ViralViewsPerHour float64       `mapstructure:"viral_views_per_hour"`
	AlertCooldown     time.Duration `mapstructure:"alert_cooldown"`
}

// TelegramConfig holds Telegram alert configuration
type TelegramConfig struct {
	BotToken       string        `mapstructure:"bot_token"`
	ChatID         string        `mapstructure:"chat_id"`
	Enabled        bool          `mapstructure:"enabled"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryDelayBase time.Duration `mapstructure:"retry_delay_base"`
}

// StorageConfig holds snapshot store configuration
type StorageConfig struct {
	DBPath                string `mapstructure:"db_path"`
	MaxEntities           int    `mapstructure:"max_entities"`
	MaxSnapshotsPerEntity int    `mapstructure:"max_snapshots_per_entity"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)

	setDefaults(v)

	v.SetEnvPrefix("TUBELENS")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Viper's AutomaticEnv does not reach nested keys during Unmarshal,
	// so bind the API key explicitly.
	if key := v.GetString("youtube_api_key"); key != "" && cfg.YouTube.APIKey == "" {
		cfg.YouTube.APIKey = key
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// YouTube defaults
	v.SetDefault("youtube.api_base_url", "https://www.googleapis.com/youtube/v3")
	v.SetDefault("youtube.timeout", "30s")

	// Tracker defaults. The viral threshold matches the fixed policy
	// constant used by the detect_viral_moments tool.
	v.SetDefault("tracker.enabled", false)
	v.SetDefault("tracker.poll_interval", "15m")
	v.SetDefault("tracker.window", "24h")
	v.SetDefault("tracker.viral_views_per_hour", 10000.0)
	v.SetDefault("tracker.alert_cooldown", "6h")

	// Telegram defaults
	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.max_retries", 3)
	v.SetDefault("telegram.retry_delay_base", "1s")

	// Storage defaults
	v.SetDefault("storage.db_path", "./data/tubelens.db")
	v.SetDefault("storage.max_entities", 1000)
	v.SetDefault("storage.max_snapshots_per_entity", 500)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.YouTube.APIBaseURL == "" {
		return fmt.Errorf("youtube.api_base_url is required")
	}
	if c.YouTube.APIKey == "" {
		return fmt.Errorf("youtube.api_key is required (set TUBELENS_YOUTUBE_API_KEY)")
	}
	if c.YouTube.Timeout < time.Second {
		return fmt.Errorf("youtube.timeout must be at least 1 second")
	}

	if c.Tracker.Enabled {
		if c.Tracker.PollInterval < time.Minute {
			return fmt.Errorf("tracker.poll_interval must be at least 1 minute")
		}
		if c.Tracker.Window < c.Tracker.PollInterval {
			return fmt.Errorf("tracker.window must be at least one poll interval")
		}
		if len(c.Tracker.VideoIDs) == 0 {
			return fmt.Errorf("tracker.video_ids must contain at least one video when tracker is enabled")
		}
		if c.Tracker.ViralViewsPerHour <= 0 {
			return fmt.Errorf("tracker.viral_views_per_hour must be positive")
		}
	}

	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
	}

	if c.Storage.DBPath == "" {
		return fmt.Errorf("storage.db_path is required")
	}
	if c.Storage.MaxEntities < 1 {
		return fmt.Errorf("storage.max_entities must be at least 1")
	}
	if c.Storage.MaxSnapshotsPerEntity < 10 {
		return fmt.Errorf("storage.max_snapshots_per_entity must be at least 10")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}
