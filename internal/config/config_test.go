package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
)

// pointConfigHome redirects the XDG config home to a temp directory for the
// duration of the test. xdg caches its paths at init time, so a Reload is
// needed after changing the environment.
func pointConfigHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	xdg.Reload()
	t.Cleanup(xdg.Reload)
	return dir
}

func TestMergeConfig(t *testing.T) {
	tests := []struct {
		name string
		dst  *Config
		src  *Config
		want *Config
	}{
		{
			name: "project base URL wins",
			dst:  &Config{APIBaseURL: "http://global:8000"},
			src:  &Config{APIBaseURL: "http://project:9000"},
			want: &Config{APIBaseURL: "http://project:9000"},
		},
		{
			name: "empty project keeps global",
			dst:  &Config{APIBaseURL: "http://global:8000", Username: "ada"},
			src:  &Config{},
			want: &Config{APIBaseURL: "http://global:8000", Username: "ada"},
		},
		{
			name: "project tokens replace global",
			dst:  &Config{Tokens: &Tokens{Access: "old"}},
			src:  &Config{Tokens: &Tokens{Access: "new", Refresh: "r"}},
			want: &Config{Tokens: &Tokens{Access: "new", Refresh: "r"}},
		},
		{
			name: "debug flag is sticky",
			dst:  &Config{Options: &Options{Debug: true}},
			src:  &Config{Options: &Options{}},
			want: &Config{Options: &Options{Debug: true}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mergeConfig(tt.dst, tt.src)

			if tt.dst.APIBaseURL != tt.want.APIBaseURL {
				t.Errorf("APIBaseURL = %q, want %q", tt.dst.APIBaseURL, tt.want.APIBaseURL)
			}
			if tt.dst.Username != tt.want.Username {
				t.Errorf("Username = %q, want %q", tt.dst.Username, tt.want.Username)
			}
			if tt.want.Tokens != nil {
				if tt.dst.Tokens == nil || tt.dst.Tokens.Access != tt.want.Tokens.Access {
					t.Errorf("Tokens = %+v, want %+v", tt.dst.Tokens, tt.want.Tokens)
				}
			}
			if tt.want.Options != nil && tt.dst.Options.Debug != tt.want.Options.Debug {
				t.Errorf("Debug = %v, want %v", tt.dst.Options.Debug, tt.want.Options.Debug)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	t.Run("defaults fill empty config", func(t *testing.T) {
		cfg := &Config{}
		applyDefaults(cfg)

		if cfg.APIBaseURL != defaultAPIBaseURL {
			t.Errorf("APIBaseURL = %q, want %q", cfg.APIBaseURL, defaultAPIBaseURL)
		}
		if cfg.Options.DataDir == "" {
			t.Error("expected default data directory")
		}
	})

	t.Run("environment override wins", func(t *testing.T) {
		t.Setenv("MURPH_API_URL", "https://astroworld.example.com")

		cfg := &Config{APIBaseURL: "http://localhost:8000"}
		applyDefaults(cfg)

		if cfg.APIBaseURL != "https://astroworld.example.com" {
			t.Errorf("APIBaseURL = %q, want env override", cfg.APIBaseURL)
		}
	})
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "murph.json")
	content := `{
  "api_base_url": "https://api.astroworld.example.com",
  "username": "carl",
  "tokens": {"access": "a", "refresh": "r"}
}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if cfg.APIBaseURL != "https://api.astroworld.example.com" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.Username != "carl" {
		t.Errorf("Username = %q", cfg.Username)
	}
	if !cfg.IsLoggedIn() {
		t.Error("expected IsLoggedIn with a refresh token")
	}
	if cfg.AccessToken() != "a" || cfg.RefreshToken() != "r" {
		t.Errorf("tokens = %q/%q", cfg.AccessToken(), cfg.RefreshToken())
	}
}

func TestFirstRun(t *testing.T) {
	pointConfigHome(t)

	if !IsFirstRun() {
		t.Fatal("expected first run with no global config file")
	}

	cfg := NewConfig()
	cfg.APIBaseURL = "https://api.astroworld.example.com"
	if err := Save(cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if IsFirstRun() {
		t.Error("first run should be over once the config is written")
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.APIBaseURL != "https://api.astroworld.example.com" {
		t.Errorf("APIBaseURL = %q, want saved value", loaded.APIBaseURL)
	}
}

func TestTokenPersistence(t *testing.T) {
	pointConfigHome(t)

	cfg := NewConfig()
	if cfg.IsLoggedIn() {
		t.Fatal("fresh config should not be logged in")
	}

	if err := cfg.SetTokens("access-1", "refresh-1"); err != nil {
		t.Fatalf("SetTokens failed: %v", err)
	}

	// A reload sees the persisted pair.
	loaded, err := LoadFromFile(GlobalConfigPath())
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if loaded.AccessToken() != "access-1" || loaded.RefreshToken() != "refresh-1" {
		t.Errorf("persisted tokens = %q/%q", loaded.AccessToken(), loaded.RefreshToken())
	}

	// Refreshing the access token keeps the refresh token.
	if err := cfg.SetAccessToken("access-2"); err != nil {
		t.Fatalf("SetAccessToken failed: %v", err)
	}
	loaded, err = LoadFromFile(GlobalConfigPath())
	if err != nil {
		t.Fatal(err)
	}
	if loaded.AccessToken() != "access-2" {
		t.Errorf("access token = %q, want access-2", loaded.AccessToken())
	}
	if loaded.RefreshToken() != "refresh-1" {
		t.Errorf("refresh token = %q, want refresh-1", loaded.RefreshToken())
	}

	// ClearTokens logs out on disk too.
	if err := cfg.ClearTokens(); err != nil {
		t.Fatalf("ClearTokens failed: %v", err)
	}
	loaded, err = LoadFromFile(GlobalConfigPath())
	if err != nil {
		t.Fatal(err)
	}
	if loaded.IsLoggedIn() {
		t.Error("expected logged out after ClearTokens")
	}
}

func TestSetConfigFieldPreservesOtherFields(t *testing.T) {
	dir := pointConfigHome(t)

	cfg := NewConfig()
	cfg.APIBaseURL = "https://api.astroworld.example.com"
	cfg.Username = "vera"
	if err := Save(cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := cfg.SetConfigField("tokens.access", "tok"); err != nil {
		t.Fatalf("SetConfigField failed: %v", err)
	}

	loaded, err := LoadFromFile(filepath.Join(dir, "murph", "murph.json"))
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Username != "vera" {
		t.Errorf("Username = %q, surgical update should not touch it", loaded.Username)
	}
	if loaded.APIBaseURL != "https://api.astroworld.example.com" {
		t.Errorf("APIBaseURL = %q", loaded.APIBaseURL)
	}
	if loaded.AccessToken() != "tok" {
		t.Errorf("access token = %q", loaded.AccessToken())
	}
}

func TestDataPaths(t *testing.T) {
	cfg := &Config{Options: &Options{DataDir: "/tmp/murph-data"}}

	if got := cfg.SessionsPath(); got != filepath.Join("/tmp/murph-data", "sessions.json") {
		t.Errorf("SessionsPath = %q", got)
	}
	if got := cfg.CachePath(); got != filepath.Join("/tmp/murph-data", "cache.db") {
		t.Errorf("CachePath = %q", got)
	}
	if got := cfg.DebugLogPath(); got != filepath.Join("/tmp/murph-data", "debug.log") {
		t.Errorf("DebugLogPath = %q", got)
	}
}
