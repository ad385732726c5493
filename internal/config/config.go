package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all aliaskit configuration.
type Config struct {
	API    APIConfig    `toml:"api"`
	Detect DetectConfig `toml:"detect"`
}

// APIConfig holds remote API settings.
type APIConfig struct {
	BaseURL string `toml:"base_url"`
	Timeout string `toml:"timeout"`
}

// DetectConfig holds email-field detection settings.
type DetectConfig struct {
	ExtraSkipHosts []string `toml:"extra_skip_hosts"`
}

func defaults() Config {
	return Config{
		API: APIConfig{
			BaseURL: "https://purelymail.com",
			Timeout: "30s",
		},
	}
}

// Load reads config from path. If path is empty or the file is missing,
// returns defaults.
func Load(path string) (*Config, error) {
	cfg := defaults()
	if path == "" {
		return &cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// ConfigDir returns the aliaskit config directory path.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "aliaskit")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "aliaskit")
}

// DataDir returns the aliaskit data directory path.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "aliaskit")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "aliaskit")
}
