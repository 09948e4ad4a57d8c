// Package config loads navi's configuration from a TOML file with
// environment variable overrides. Secrets (API keys, the Apple app password)
// come from the environment only and are never written to disk.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

type ProviderConfig struct {
	Type    string `toml:"type"`
	BaseURL string `toml:"base_url,omitempty"`
	Model   string `toml:"model,omitempty"`
}

type ServerConfig struct {
	ListenAddr string `toml:"listen_addr"`
}

type CalendarConfig struct {
	ServerURL string `toml:"server_url"`
}

type FileConfig struct {
	Provider ProviderConfig `toml:"provider"`
	Server   ServerConfig   `toml:"server"`
	Calendar CalendarConfig `toml:"calendar"`

	DataDirectory string `toml:"data_directory,omitempty"`
	LogLevel      string `toml:"log_level,omitempty"`
}

// Config is the fully resolved runtime configuration.
type Config struct {
	ProviderType    string
	ProviderBaseURL string
	ProviderModel   string
	ProviderAPIKey  string

	ListenAddr string

	CalendarServerURL string
	AppleID           string
	ApplePassword     string

	DataDirectory string
	LogLevel      string
}

func defaults() *Config {
	return &Config{
		ProviderType:      "anthropic",
		ListenAddr:        ":8080",
		CalendarServerURL: "https://caldav.icloud.com",
		DataDirectory:     "~/.local/share/navi",
		LogLevel:          "info",
	}
}

// Load reads the config file at path (skipped when empty or missing), applies
// environment overrides, and creates the data directory.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path == "" {
		path = DefaultConfigPath()
	}
	if FileExists(path) {
		var fileCfg FileConfig
		if _, err := toml.DecodeFile(path, &fileCfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		cfg.applyFile(&fileCfg)
	}

	cfg.applyEnvOverrides()

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyFile(fc *FileConfig) {
	if fc.Provider.Type != "" {
		c.ProviderType = fc.Provider.Type
	}
	if fc.Provider.BaseURL != "" {
		c.ProviderBaseURL = fc.Provider.BaseURL
	}
	if fc.Provider.Model != "" {
		c.ProviderModel = fc.Provider.Model
	}
	if fc.Server.ListenAddr != "" {
		c.ListenAddr = fc.Server.ListenAddr
	}
	if fc.Calendar.ServerURL != "" {
		c.CalendarServerURL = fc.Calendar.ServerURL
	}
	if fc.DataDirectory != "" {
		c.DataDirectory = fc.DataDirectory
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("NAVI_PROVIDER"); v != "" {
		c.ProviderType = v
	}
	if v := os.Getenv("NAVI_PROVIDER_BASE_URL"); v != "" {
		c.ProviderBaseURL = v
	}
	if v := os.Getenv("NAVI_MODEL"); v != "" {
		c.ProviderModel = v
	}
	if v := os.Getenv("NAVI_LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("NAVI_DATA_DIR"); v != "" {
		c.DataDirectory = v
	}
	if v := os.Getenv("NAVI_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("NAVI_CALDAV_URL"); v != "" {
		c.CalendarServerURL = v
	}

	// Secrets are environment-only.
	switch c.ProviderType {
	case "anthropic":
		c.ProviderAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	case "openai":
		c.ProviderAPIKey = os.Getenv("OPENAI_API_KEY")
	}
	c.AppleID = os.Getenv("APPLE_ID")
	c.ApplePassword = os.Getenv("APPLE_APP_PASSWORD")
}

// DataDir returns the expanded data directory path.
func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

// CalendarConfigured reports whether Apple Calendar credentials are present.
func (c *Config) CalendarConfigured() bool {
	return c.AppleID != "" && c.ApplePassword != ""
}
