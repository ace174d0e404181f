package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Feed    FeedConfig    `mapstructure:"feed"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig holds character service configuration
type ServerConfig struct {
	URL   string `mapstructure:"url"`   // Character service base URL
	Token string `mapstructure:"token"` // Bearer token, optional
}

// FeedConfig tunes the virtualized feed engine
type FeedConfig struct {
	PageSize           int  `mapstructure:"page_size"`            // Entries per fetched page
	MaxWindowSize      int  `mapstructure:"max_window_size"`      // Bound on materialized entries
	PruneBuffer        int  `mapstructure:"prune_buffer"`         // Entries kept behind the cursor
	PrefetchThreshold  int  `mapstructure:"prefetch_threshold"`   // Remaining entries that trigger a fetch
	PrefetchCooldownMs int  `mapstructure:"prefetch_cooldown_ms"` // Minimum gap between fetch triggers
	UnfilteredEligible bool `mapstructure:"unfiltered_eligible"`  // Entitlement flag for the safety toggle
}

// UIConfig holds UI configuration
type UIConfig struct {
	Theme        string `mapstructure:"theme"`
	TransitionMs int    `mapstructure:"transition_ms"` // Slide animation duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			URL:   "",
			Token: "",
		},
		Feed: FeedConfig{
			PageSize:           6,
			MaxWindowSize:      10,
			PruneBuffer:        2,
			PrefetchThreshold:  3,
			PrefetchCooldownMs: 500,
		},
		UI: UIConfig{
			Theme:        "default",
			TransitionMs: 150,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "chatmix", "chatmix.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "chatmix", "chatmix.log")
	}
}

// defaultConfigPath returns the default config file path for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "chatmix")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "chatmix")
	}
}

// DefaultCacheDir returns where the durable preference store lives
func DefaultCacheDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "chatmix")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".cache", "chatmix")
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(defaultConfigPath())
	viper.AddConfigPath(".")

	// Environment variable overrides
	viper.SetEnvPrefix("CHATMIX")
	viper.AutomaticEnv()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the current configuration to file
func SaveConfig(cfg *Config) error {
	configPath := defaultConfigPath()

	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to ensure correct key names (snake_case)
	viper.Set("server.url", cfg.Server.URL)
	viper.Set("server.token", cfg.Server.Token)

	viper.Set("feed.page_size", cfg.Feed.PageSize)
	viper.Set("feed.max_window_size", cfg.Feed.MaxWindowSize)
	viper.Set("feed.prune_buffer", cfg.Feed.PruneBuffer)
	viper.Set("feed.prefetch_threshold", cfg.Feed.PrefetchThreshold)
	viper.Set("feed.prefetch_cooldown_ms", cfg.Feed.PrefetchCooldownMs)
	viper.Set("feed.unfiltered_eligible", cfg.Feed.UnfilteredEligible)

	viper.Set("ui.theme", cfg.UI.Theme)
	viper.Set("ui.transition_ms", cfg.UI.TransitionMs)

	viper.Set("logging.file", cfg.Logging.File)
	viper.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// IsConfigured returns true if the server URL is set
func (c *Config) IsConfigured() bool {
	return c.Server.URL != ""
}
