// ABOUTME: Tests for nourish configuration management.
// ABOUTME: Covers load, save, defaults, env overlay, backend selection, and path expansion.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetBackendDefault(t *testing.T) {
	cfg := &Config{}
	if got := cfg.GetBackend(); got != "sqlite" {
		t.Errorf("GetBackend() = %q, want %q", got, "sqlite")
	}
}

func TestGetBackendExplicit(t *testing.T) {
	cfg := &Config{Backend: "charm"}
	if got := cfg.GetBackend(); got != "charm" {
		t.Errorf("GetBackend() = %q, want %q", got, "charm")
	}
}

func TestGetBackendEnvWins(t *testing.T) {
	cfg := &Config{Backend: "charm", Env: Env{Backend: "sqlite"}}
	if got := cfg.GetBackend(); got != "sqlite" {
		t.Errorf("GetBackend() = %q, want %q", got, "sqlite")
	}
}

func TestGetDataDirDefault(t *testing.T) {
	cfg := &Config{}
	if got := cfg.GetDataDir(); got == "" {
		t.Error("GetDataDir() returned empty string")
	}
}

func TestGetDataDirExplicit(t *testing.T) {
	cfg := &Config{DataDir: "/tmp/nourish-test"}
	if got := cfg.GetDataDir(); got != "/tmp/nourish-test" {
		t.Errorf("GetDataDir() = %q, want %q", got, "/tmp/nourish-test")
	}
}

func TestGetDataDirExpandsTilde(t *testing.T) {
	home, _ := os.UserHomeDir()

	cfg := &Config{DataDir: "~/nourish-data"}
	want := filepath.Join(home, "nourish-data")
	if got := cfg.GetDataDir(); got != want {
		t.Errorf("GetDataDir() = %q, want %q", got, want)
	}
}

func TestDerivedPathsFollowDataDir(t *testing.T) {
	cfg := &Config{DataDir: "/srv/nourish"}

	if got := cfg.GetModelPath(); got != "/srv/nourish/target_cal_model.yaml" {
		t.Errorf("GetModelPath() = %q", got)
	}
	if got := cfg.GetNutritionTablePath(); got != "/srv/nourish/nutrition_table.json" {
		t.Errorf("GetNutritionTablePath() = %q", got)
	}

	cfg.ModelPath = "/models/m.yaml"
	if got := cfg.GetModelPath(); got != "/models/m.yaml" {
		t.Errorf("GetModelPath() override = %q", got)
	}
}

func TestGetLookupTimeout(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"", DefaultLookupTimeout},
		{"3s", 3 * time.Second},
		{"500ms", 500 * time.Millisecond},
		{"soon", DefaultLookupTimeout},
		{"-1s", DefaultLookupTimeout},
	}

	for _, tt := range tests {
		cfg := &Config{LookupTimeout: tt.in}
		if got := cfg.GetLookupTimeout(); got != tt.want {
			t.Errorf("GetLookupTimeout(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestGetLogLevelAndListenAddr(t *testing.T) {
	cfg := &Config{}
	if got := cfg.GetLogLevel(); got != "info" {
		t.Errorf("GetLogLevel() = %q, want info", got)
	}
	if got := cfg.GetListenAddr(); got != ":8080" {
		t.Errorf("GetListenAddr() = %q, want :8080", got)
	}

	cfg.LogLevel = "warn"
	cfg.Env.LogLevel = "debug"
	if got := cfg.GetLogLevel(); got != "debug" {
		t.Errorf("GetLogLevel() = %q, want debug", got)
	}
}

func TestNinjasKeyFallback(t *testing.T) {
	e := Env{APINinjasKey: "fallback"}
	if got := e.NinjasKey(); got != "fallback" {
		t.Errorf("NinjasKey() = %q, want fallback", got)
	}

	e.CalorieNinjasKey = "primary"
	if got := e.NinjasKey(); got != "primary" {
		t.Errorf("NinjasKey() = %q, want primary", got)
	}
}

func TestLoadEnvReadsVariables(t *testing.T) {
	t.Setenv("CALORIE_NINJAS_KEY", "")
	t.Setenv("API_NINJAS_KEY", "ninja")
	t.Setenv("EDAMAM_APP_ID", "id")
	t.Setenv("EDAMAM_APP_KEY", "key")
	t.Setenv("NOURISH_LOG_LEVEL", "error")

	e, err := LoadEnv()
	if err != nil {
		t.Fatalf("LoadEnv() failed: %v", err)
	}
	if e.NinjasKey() != "ninja" || e.EdamamAppID != "id" || e.EdamamAppKey != "key" || e.LogLevel != "error" {
		t.Errorf("unexpected env: %+v", e)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/tmp/foo", "/tmp/foo"},
		{"~", home},
		{"~/data/nourish", filepath.Join(home, "data/nourish")},
		{"data/nourish", "data/nourish"},
	}
	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with no config file should not error: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}
	if cfg.Backend != "" || cfg.DataDir != "" {
		t.Errorf("Expected empty config, got %+v", cfg)
	}
}

func TestSaveAndLoad(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("EDAMAM_APP_KEY", "secret")

	cfg := &Config{
		Backend:       "charm",
		DataDir:       "/tmp/nourish-data",
		LookupTimeout: "5s",
		Env:           Env{EdamamAppKey: "secret"},
	}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	raw, err := os.ReadFile(GetConfigPath())
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if !json.Valid(raw) {
		t.Fatalf("invalid config file: %s", raw)
	}
	var onDisk map[string]any
	_ = json.Unmarshal(raw, &onDisk)
	if _, ok := onDisk["Env"]; ok {
		t.Error("environment values must not be written to the config file")
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if loaded.Backend != "charm" || loaded.DataDir != "/tmp/nourish-data" {
		t.Errorf("mismatch: %+v", loaded)
	}
	if loaded.GetLookupTimeout() != 5*time.Second {
		t.Errorf("LookupTimeout = %v", loaded.GetLookupTimeout())
	}
	if loaded.Env.EdamamAppKey != "secret" {
		t.Errorf("expected env overlay after load, got %+v", loaded.Env)
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "nonexistent"))

	cfg := &Config{Backend: "sqlite"}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() should create directory: %v", err)
	}

	configDir := filepath.Join(tmpDir, "nonexistent", "nourish")
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		t.Error("Expected config directory to be created")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	configDir := filepath.Join(tmpDir, "nourish")
	_ = os.MkdirAll(configDir, 0755)
	_ = os.WriteFile(filepath.Join(configDir, "config.json"), []byte("invalid json"), 0600)

	if _, err := Load(); err == nil {
		t.Error("Expected error for invalid JSON config")
	}
}

func TestGetConfigPath(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	want := filepath.Join(tmpDir, "nourish", "config.json")
	if got := GetConfigPath(); got != want {
		t.Errorf("GetConfigPath() = %q, want %q", got, want)
	}
}

func TestOpenStorageSQLite(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := &Config{Backend: "sqlite", DataDir: tmpDir}
	repo, err := cfg.OpenStorage()
	if err != nil {
		t.Fatalf("OpenStorage() for sqlite failed: %v", err)
	}
	defer repo.Close()

	if _, err := os.Stat(filepath.Join(tmpDir, "nourish.db")); os.IsNotExist(err) {
		t.Error("Expected nourish.db to be created")
	}
}

func TestOpenStorageInvalidBackend(t *testing.T) {
	cfg := &Config{Backend: "invalid", DataDir: "/tmp"}
	if _, err := cfg.OpenStorage(); err == nil {
		t.Error("Expected error for invalid backend")
	}
}

func TestConfigJSONOmitsEmpty(t *testing.T) {
	data, err := json.Marshal(&Config{})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != "{}" {
		t.Errorf("Expected empty JSON object, got %s", string(data))
	}
}
