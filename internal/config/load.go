package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (
	configFileName = "murph.json"

	// defaultAPIBaseURL points at a local AstroWorld backend; deployments
	// override it in the config file or with MURPH_API_URL.
	defaultAPIBaseURL = "http://localhost:8000"
)

// Load finds and loads configuration from standard locations.
// It merges global config with project config (project takes precedence)
// and applies defaults and environment overrides.
func Load() (*Config, error) {
	cfg := &Config{Options: &Options{}}

	globalPath := GlobalConfigPath()
	if err := loadFile(globalPath, cfg); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading global config: %w", err)
	}

	projectPath := findProjectConfig()
	if projectPath != "" {
		projectCfg := &Config{}
		if err := loadFile(projectPath, projectCfg); err != nil {
			return nil, fmt.Errorf("loading project config: %w", err)
		}
		mergeConfig(cfg, projectCfg)
	}

	applyDefaults(cfg)
	return cfg, nil
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	cfg := &Config{Options: &Options{}}
	if err := loadFile(path, cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	return cfg, nil
}

// IsFirstRun reports whether no global config file exists yet.
func IsFirstRun() bool {
	_, err := os.Stat(GlobalConfigPath())
	return os.IsNotExist(err)
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, cfg)
}

func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		path := filepath.Join(dir, configFileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}

		hiddenPath := filepath.Join(dir, "."+configFileName)
		if _, err := os.Stat(hiddenPath); err == nil {
			return hiddenPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func mergeConfig(dst, src *Config) {
	if src.APIBaseURL != "" {
		dst.APIBaseURL = src.APIBaseURL
	}
	if src.Username != "" {
		dst.Username = src.Username
	}
	if src.Tokens != nil {
		dst.Tokens = src.Tokens
	}
	if src.Options != nil {
		if dst.Options == nil {
			dst.Options = &Options{}
		}
		if src.Options.DataDir != "" {
			dst.Options.DataDir = src.Options.DataDir
		}
		if src.Options.Debug {
			dst.Options.Debug = true
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Options == nil {
		cfg.Options = &Options{}
	}
	if cfg.Options.DataDir == "" {
		cfg.Options.DataDir = filepath.Join(xdg.DataHome, appName)
	}
	if url := os.Getenv("MURPH_API_URL"); url != "" {
		cfg.APIBaseURL = url
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaultAPIBaseURL
	}
}

// GlobalConfigPath returns the path to the global configuration file.
func GlobalConfigPath() string {
	return filepath.Join(xdg.ConfigHome, appName, configFileName)
}

// DataDir returns the data directory path from configuration.
func (c *Config) DataDir() string {
	if c.Options != nil && c.Options.DataDir != "" {
		return c.Options.DataDir
	}
	return filepath.Join(xdg.DataHome, appName)
}

// SessionsPath returns the path of the local chat session store.
func (c *Config) SessionsPath() string {
	return filepath.Join(c.DataDir(), "sessions.json")
}

// CachePath returns the path of the offline content cache database.
func (c *Config) CachePath() string {
	return filepath.Join(c.DataDir(), "cache.db")
}

// DebugLogPath returns the path of the debug log file.
func (c *Config) DebugLogPath() string {
	return filepath.Join(c.DataDir(), "debug.log")
}
