package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// DefaultBaseURL is used when no API base URL is configured.
const DefaultBaseURL = "http://127.0.0.1:8000"

// baseURLEnv overrides the configured API base URL when set.
const baseURLEnv = "CONTACTADMIN_API_BASE_URL"

// APIConfig holds settings for the website backend connection.
type APIConfig struct {
	// BaseURL is the root URL of the REST backend.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`

	// LatestCount is how many recent messages the dashboard shows.
	LatestCount int `mapstructure:"latest_count" yaml:"latest_count"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	API     APIConfig     `mapstructure:"api" yaml:"api"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/contactadmin/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "contactadmin", "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
		},
		Display: DisplayConfig{
			Theme:       "default",
			LatestCount: 5,
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration. The
// CONTACTADMIN_API_BASE_URL environment variable overrides the configured
// base URL either way.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("api.base_url", DefaultBaseURL)
	v.SetDefault("display.theme", "default")
	v.SetDefault("display.latest_count", 5)

	cfg := defaultAppConfig()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return applyEnv(cfg), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return applyEnv(cfg), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = DefaultBaseURL
	}
	if cfg.Display.LatestCount <= 0 {
		cfg.Display.LatestCount = 5
	}

	return applyEnv(cfg), nil
}

// applyEnv applies environment overrides on top of the loaded config.
func applyEnv(cfg *AppConfig) *AppConfig {
	if url := os.Getenv(baseURLEnv); url != "" {
		cfg.API.BaseURL = url
	}
	return cfg
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("api", cfg.API)
	v.Set("display", cfg.Display)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
