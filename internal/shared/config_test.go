package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./sonora.db" {
			t.Errorf("expected database path ./sonora.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}

		if config.API.BaseURL() != "http://localhost:3001" {
			t.Errorf("expected mock base URL, got %s", config.API.BaseURL())
		}

		if len(config.Offline.Manifest) != 4 || config.Offline.Manifest[0] != "/" {
			t.Errorf("unexpected default manifest: %v", config.Offline.Manifest)
		}

		if !config.Offline.SkipWaiting {
			t.Error("expected skip_waiting to default to true")
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		testConfig := `[api]
mode = "production"
production_url = "https://api.example.com/v1"

[server]
port = 8080

[offline]
version = "v7"
manifest = ["/", "/app.js"]
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.API.BaseURL() != "https://api.example.com/v1" || config.API.IsMock() {
			t.Errorf("expected production base URL, got %s", config.API.BaseURL())
		}

		if config.Server.Port != 8080 {
			t.Errorf("expected server port 8080, got %d", config.Server.Port)
		}

		if config.Offline.Version != "v7" || len(config.Offline.Manifest) != 2 {
			t.Errorf("unexpected offline config: %+v", config.Offline)
		}

		if config.Database.Path != "./sonora.db" {
			t.Errorf("missing keys should keep defaults, got %s", config.Database.Path)
		}
	})

	t.Run("LoadConfig Invalid", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[server\nport = "), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfig(configPath); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		t.Setenv("SONORA_PORT", "9999")
		t.Setenv("SONORA_UPSTREAM", "http://upstream.test")
		t.Setenv("SONORA_LOG_LEVEL", "debug")

		config := DefaultConfig()
		if err := config.ApplyEnv(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if config.Server.Port != 9999 || config.Offline.Upstream != "http://upstream.test" || config.Log.Level != "debug" {
			t.Errorf("env overrides not applied: %+v", config)
		}

		t.Setenv("SONORA_PORT", "not-a-port")
		if err := config.ApplyEnv(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("ResolveConfig reads dotenv", func(t *testing.T) {
		dir := t.TempDir()
		envPath := filepath.Join(dir, ".env")
		if err := os.WriteFile(envPath, []byte("SONORA_CACHE_VERSION=v42\n"), 0644); err != nil {
			t.Fatalf("failed to write env file: %v", err)
		}
		t.Cleanup(func() { os.Unsetenv("SONORA_CACHE_VERSION") })

		config, err := ResolveConfig(filepath.Join(dir, "missing.toml"), envPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if config.Offline.Version != "v42" {
			t.Errorf("expected version from .env, got %s", config.Offline.Version)
		}
	})
}
