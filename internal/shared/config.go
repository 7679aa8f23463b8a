package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	API      APIConfig      `toml:"api"`
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	Offline  OfflineConfig  `toml:"offline"`
	Player   PlayerConfig   `toml:"player"`
	Log      LogConfig      `toml:"log"`
}

// APIConfig selects the catalog API and its request policy.
type APIConfig struct {
	Mode          string `toml:"mode"`
	MockURL       string `toml:"mock_url"`
	ProductionURL string `toml:"production_url"`
	TimeoutMS     int    `toml:"timeout_ms"`
	Retries       int    `toml:"retries"`
	RetryDelayMS  int    `toml:"retry_delay_ms"`
}

// BaseURL returns the URL for the configured mode.
func (c APIConfig) BaseURL() string {
	if c.Mode == "production" {
		return c.ProductionURL
	}
	return c.MockURL
}

// IsMock reports whether the client targets the mock API.
func (c APIConfig) IsMock() bool { return c.Mode != "production" }

// Timeout returns the per-request timeout.
func (c APIConfig) Timeout() time.Duration { return time.Duration(c.TimeoutMS) * time.Millisecond }

// RetryDelay returns the pause between attempts.
func (c APIConfig) RetryDelay() time.Duration { return time.Duration(c.RetryDelayMS) * time.Millisecond }

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings for the offline intermediary.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns host:port.
func (c ServerConfig) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

// OfflineConfig drives the caching intermediary.
type OfflineConfig struct {
	AppName           string   `toml:"app_name"`
	Version           string   `toml:"version"`
	Upstream          string   `toml:"upstream"`
	StaticDir         string   `toml:"static_dir"`
	Manifest          []string `toml:"manifest"`
	Discover          bool     `toml:"discover"`
	MaxDynamicEntries int      `toml:"max_dynamic_entries"`
	SkipWaiting       bool     `toml:"skip_waiting"`
	InstallWorkers    int      `toml:"install_workers"`
	InstallRate       float64  `toml:"install_rate"`
}

// PlayerConfig holds playback defaults.
type PlayerConfig struct {
	DefaultVolume float64 `toml:"default_volume"`
	TickMS        int     `toml:"tick_ms"`
}

// Tick returns the virtual output clock resolution.
func (c PlayerConfig) Tick() time.Duration { return time.Duration(c.TickMS) * time.Millisecond }

// LogConfig holds the log level and the file used when the screen is owned by the TUI.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ResolveConfig loads path when it exists (defaults otherwise), reads .env files and applies SONORA_* overrides.
func ResolveConfig(path string, envFiles ...string) (*Config, error) {
	config := DefaultConfig()
	if _, err := os.Stat(path); err == nil {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		config = loaded
	}

	// A missing .env is the common case.
	_ = godotenv.Load(envFiles...)

	if err := config.ApplyEnv(); err != nil {
		return nil, err
	}
	return config, nil
}

// ApplyEnv overrides config values from SONORA_* environment variables.
func (c *Config) ApplyEnv() error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	setString("SONORA_API_MODE", &c.API.Mode)
	setString("SONORA_API_URL", &c.API.MockURL)
	setString("SONORA_API_PRODUCTION_URL", &c.API.ProductionURL)
	setString("SONORA_DB_PATH", &c.Database.Path)
	setString("SONORA_HOST", &c.Server.Host)
	setString("SONORA_UPSTREAM", &c.Offline.Upstream)
	setString("SONORA_STATIC_DIR", &c.Offline.StaticDir)
	setString("SONORA_CACHE_VERSION", &c.Offline.Version)
	setString("SONORA_LOG_LEVEL", &c.Log.Level)
	setString("SONORA_LOG_FILE", &c.Log.File)

	if v, ok := os.LookupEnv("SONORA_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: SONORA_PORT=%q", ErrInvalidConfig, v)
		}
		c.Server.Port = port
	}

	return nil
}
