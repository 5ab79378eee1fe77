// Package config provides configuration management for the murph CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/sjson"
)

const appName = "murph"

// Tokens holds the JWT pair issued by the AstroWorld backend.
type Tokens struct {
	Access  string `json:"access,omitempty"`
	Refresh string `json:"refresh,omitempty"`
}

// Options holds optional configuration settings.
type Options struct {
	DataDir string `json:"data_directory,omitempty"`
	Debug   bool   `json:"debug,omitempty"`
}

// Config is the top-level configuration structure.
type Config struct {
	APIBaseURL string   `json:"api_base_url,omitempty"`
	Username   string   `json:"username,omitempty"`
	Tokens     *Tokens  `json:"tokens,omitempty"`
	Options    *Options `json:"options,omitempty"`
}

// NewConfig creates a new Config with defaults applied.
func NewConfig() *Config {
	cfg := &Config{Options: &Options{}}
	applyDefaults(cfg)
	return cfg
}

// IsLoggedIn reports whether a token pair is stored.
func (c *Config) IsLoggedIn() bool {
	return c.Tokens != nil && c.Tokens.Refresh != ""
}

// AccessToken returns the stored access token, or "".
func (c *Config) AccessToken() string {
	if c.Tokens == nil {
		return ""
	}
	return c.Tokens.Access
}

// RefreshToken returns the stored refresh token, or "".
func (c *Config) RefreshToken() string {
	if c.Tokens == nil {
		return ""
	}
	return c.Tokens.Refresh
}

// SetTokens persists a token pair to the config file and updates in-memory
// state. Disk first: the backend rotates refresh tokens, so losing the write
// would strand the session.
func (c *Config) SetTokens(access, refresh string) error {
	if err := c.SetConfigField("tokens.access", access); err != nil {
		return fmt.Errorf("persisting access token: %w", err)
	}
	if err := c.SetConfigField("tokens.refresh", refresh); err != nil {
		return fmt.Errorf("persisting refresh token: %w", err)
	}
	c.Tokens = &Tokens{Access: access, Refresh: refresh}
	return nil
}

// SetAccessToken persists a refreshed access token, keeping the stored
// refresh token.
func (c *Config) SetAccessToken(access string) error {
	if err := c.SetConfigField("tokens.access", access); err != nil {
		return fmt.Errorf("persisting access token: %w", err)
	}
	if c.Tokens == nil {
		c.Tokens = &Tokens{}
	}
	c.Tokens.Access = access
	return nil
}

// ClearTokens removes the stored token pair.
func (c *Config) ClearTokens() error {
	if err := c.SetConfigField("tokens", map[string]string{}); err != nil {
		return fmt.Errorf("clearing tokens: %w", err)
	}
	c.Tokens = nil
	return nil
}

// SetConfigField updates a single field in the config file using JSON path
// notation. This uses sjson for surgical updates - only the specified field
// is modified.
func (c *Config) SetConfigField(key string, value any) error {
	configPath := GlobalConfigPath()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			data = []byte("{}")
		} else {
			return fmt.Errorf("reading config file: %w", err)
		}
	}

	newData, err := sjson.Set(string(data), key, value)
	if err != nil {
		return fmt.Errorf("setting config field %q: %w", key, err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(configPath, []byte(newData), 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
