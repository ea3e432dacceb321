// ABOUTME: Nourish configuration management with backend selection.
// ABOUTME: Handles the JSON settings file, the environment overlay, and the storage factory.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/harperreed/nourish/internal/charm"
	"github.com/harperreed/nourish/internal/storage"
	"github.com/joho/godotenv"
)

const (
	DefaultLookupTimeout = 8 * time.Second
	DefaultListenAddr    = ":8080"
	DefaultLogLevel      = "info"
	ModelFileName        = "target_cal_model.yaml"
	TableFileName        = "nutrition_table.json"
)

// Config stores nourish tool configuration.
type Config struct {
	// Backend selects the storage backend: "sqlite" (default) or "charm".
	Backend string `json:"backend,omitempty"`

	// DataDir is the root directory for local data. Supports ~ expansion.
	// Defaults to ~/.local/share/nourish.
	DataDir string `json:"data_dir,omitempty"`

	// ModelPath points at the target-calorie model artifact.
	ModelPath string `json:"model_path,omitempty"`

	// NutritionTablePath points at the local nutrition table (JSON).
	NutritionTablePath string `json:"nutrition_table_path,omitempty"`

	// LookupTimeout is a Go duration string bounding each provider request.
	LookupTimeout string `json:"lookup_timeout,omitempty"`

	LogLevel   string `json:"log_level,omitempty"`
	ListenAddr string `json:"listen_addr,omitempty"`

	// Env holds values read from the environment; never written to disk.
	Env Env `json:"-"`
}

// Env is the environment overlay. Provider credentials only ever come from here.
type Env struct {
	CalorieNinjasKey string `env:"CALORIE_NINJAS_KEY"`
	APINinjasKey     string `env:"API_NINJAS_KEY"`
	EdamamAppID      string `env:"EDAMAM_APP_ID"`
	EdamamAppKey     string `env:"EDAMAM_APP_KEY"`
	LogLevel         string `env:"NOURISH_LOG_LEVEL"`
	Backend          string `env:"NOURISH_BACKEND"`
	DataDir          string `env:"NOURISH_DATA_DIR"`
}

// LoadEnv reads a .env file from the working directory, if present, then
// parses the environment.
func LoadEnv() (Env, error) {
	_ = godotenv.Load()

	var e Env
	if err := env.Parse(&e); err != nil {
		return e, fmt.Errorf("parse environment: %w", err)
	}
	return e, nil
}

// NinjasKey returns the CalorieNinjas key, falling back to the API Ninjas key.
func (e Env) NinjasKey() string {
	if e.CalorieNinjasKey != "" {
		return e.CalorieNinjasKey
	}
	return e.APINinjasKey
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Env.Backend != "" {
		return c.Env.Backend
	}
	if c.Backend == "" {
		return "sqlite"
	}
	return c.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.Env.DataDir != "" {
		return ExpandPath(c.Env.DataDir)
	}
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetModelPath returns the model artifact path.
func (c *Config) GetModelPath() string {
	if c.ModelPath == "" {
		return filepath.Join(c.GetDataDir(), ModelFileName)
	}
	return ExpandPath(c.ModelPath)
}

// GetNutritionTablePath returns the local nutrition table path.
func (c *Config) GetNutritionTablePath() string {
	if c.NutritionTablePath == "" {
		return filepath.Join(c.GetDataDir(), TableFileName)
	}
	return ExpandPath(c.NutritionTablePath)
}

// GetLookupTimeout parses LookupTimeout, falling back to the default when
// unset or unparsable.
func (c *Config) GetLookupTimeout() time.Duration {
	if c.LookupTimeout == "" {
		return DefaultLookupTimeout
	}
	d, err := time.ParseDuration(c.LookupTimeout)
	if err != nil || d <= 0 {
		return DefaultLookupTimeout
	}
	return d
}

// GetLogLevel returns the effective log level name.
func (c *Config) GetLogLevel() string {
	if c.Env.LogLevel != "" {
		return c.Env.LogLevel
	}
	if c.LogLevel == "" {
		return DefaultLogLevel
	}
	return c.LogLevel
}

// GetListenAddr returns the HTTP listen address.
func (c *Config) GetListenAddr() string {
	if c.ListenAddr == "" {
		return DefaultListenAddr
	}
	return c.ListenAddr
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage creates a Repository implementation based on the configured backend.
func (c *Config) OpenStorage() (storage.Repository, error) {
	backend := c.GetBackend()

	switch backend {
	case "sqlite":
		return storage.Open(filepath.Join(c.GetDataDir(), "nourish.db"))
	case "charm":
		client, err := charm.InitClient()
		if err != nil {
			return nil, fmt.Errorf("open charm kv: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "nourish", "config.json")
}

// Load reads config from disk and overlays the environment.
func Load() (*Config, error) {
	cfg, err := loadFile(GetConfigPath())
	if err != nil {
		return nil, err
	}
	e, err := LoadEnv()
	if err != nil {
		return nil, err
	}
	cfg.Env = e
	return cfg, nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
