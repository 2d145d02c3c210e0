// Package config loads the settings shared by every command.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// UIOptions holds the settings handed to the presentation components.
// It is built once at startup and passed explicitly; nothing mutates it
// at runtime.
type UIOptions struct {
	VerboseLogging bool `mapstructure:"verbose_logging"`
}

// GitHubConfig holds the settings for talking to the GitHub API.
type GitHubConfig struct {
	Token string `mapstructure:"token"`
	// StatsConcurrency bounds the number of in-flight commit stats lookups.
	StatsConcurrency int `mapstructure:"stats_concurrency"`
}

// RefreshConfig holds the settings for the refresh endpoint client.
type RefreshConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// Config holds all configuration settings.
type Config struct {
	// BaseURL is prepended to group paths when building share URLs.
	BaseURL string `mapstructure:"base_url"`
	// Timezone is the IANA name used to bucket commits into days.
	Timezone string        `mapstructure:"timezone"`
	GitHub   GitHubConfig  `mapstructure:"github"`
	Refresh  RefreshConfig `mapstructure:"refresh"`
	UI       UIOptions     `mapstructure:"ui"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		BaseURL:  "http://localhost:8000",
		Timezone: "UTC",
		GitHub: GitHubConfig{
			StatsConcurrency: 4,
		},
		Refresh: RefreshConfig{
			Timeout: 30 * time.Second,
		},
	}
}

// Load reads the configuration. An explicit path must exist; otherwise
// commit-streaks.toml is searched for in the working directory and in
// ~/.config/commit-streaks, and defaults apply when none is found.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("toml")

	cfg := Default()
	v.SetDefault("base_url", cfg.BaseURL)
	v.SetDefault("timezone", cfg.Timezone)
	v.SetDefault("github.token", cfg.GitHub.Token)
	v.SetDefault("github.stats_concurrency", cfg.GitHub.StatsConcurrency)
	v.SetDefault("refresh.timeout", cfg.Refresh.Timeout)
	v.SetDefault("ui.verbose_logging", cfg.UI.VerboseLogging)

	// STREAKS_GITHUB_STATS_CONCURRENCY sets github.stats_concurrency.
	v.SetEnvPrefix("STREAKS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("commit-streaks")
		v.AddConfigPath(".")
		if homeDir, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(homeDir, ".config", "commit-streaks"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		cfg.GitHub.Token = token
	}
	if cfg.GitHub.StatsConcurrency < 1 {
		cfg.GitHub.StatsConcurrency = 1
	}
	return cfg, nil
}

// Location resolves Timezone, falling back to UTC when it is empty.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func loadEnvFiles() {
	for _, file := range []string{".env.local", ".env"} {
		if _, err := os.Stat(file); err == nil {
			_ = godotenv.Load(file)
		}
	}
}
