package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
)

func TestFromMapDefaults(t *testing.T) {
	cfg, err := FromMap(nil)
	if err != nil {
		t.Fatalf("Defaults should be valid: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Expected defaults, got %+v", cfg)
	}
	if cfg.OTelHeaders() != "" {
		t.Error("No API key should mean no headers")
	}
}

func TestFromDotenv(t *testing.T) {
	env, err := godotenv.Unmarshal(`
# workload
TORCHBEARER_SEED=42
TORCHBEARER_WIDTH=120
TORCHBEARER_RADIUS=10.5
TORCHBEARER_TELEMETRY=true
TORCHBEARER_LOG_FORMAT=json
HONEYCOMB_API_KEY=secret
`)
	if err != nil {
		t.Fatalf("Failed to parse dotenv: %v", err)
	}

	cfg, err := FromMap(env)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Seed != 42 || cfg.Width != 120 || cfg.Height != 24 || cfg.Radius != 10.5 {
		t.Errorf("Unexpected workload settings %+v", cfg)
	}
	if !cfg.Telemetry || cfg.LogFormat != "json" {
		t.Errorf("Unexpected observability settings %+v", cfg)
	}
	if want := "x-honeycomb-team=secret,x-honeycomb-dataset=torchbearer"; cfg.OTelHeaders() != want {
		t.Errorf("OTelHeaders() = %q, want %q", cfg.OTelHeaders(), want)
	}
}

func TestFromMapErrors(t *testing.T) {
	tests := []map[string]string{
		{"TORCHBEARER_WIDTH": "wide"},
		{"TORCHBEARER_SEED": "1.5"},
		{"TORCHBEARER_RADIUS": "far"},
		{"TORCHBEARER_TELEMETRY": "maybe"},
		{"TORCHBEARER_HEIGHT": "3"},
		{"TORCHBEARER_RADIUS": "-1"},
		{"TORCHBEARER_WORKERS": "0"},
		{"TORCHBEARER_ITERATIONS": "-5"},
		{"TORCHBEARER_CACHE_SIZE": "0"},
	}
	for _, env := range tests {
		if _, err := FromMap(env); !errors.Is(err, ErrInvalid) {
			t.Errorf("%v: expected ErrInvalid, got %v", env, err)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("TORCHBEARER_ITERATIONS=7\n"), 0o600); err != nil {
		t.Fatalf("Failed to write .env: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("TORCHBEARER_ITERATIONS") })
	t.Setenv("TORCHBEARER_WORKERS", "2")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Iterations != 7 || cfg.Workers != 2 {
		t.Errorf("Expected values from file and environment, got %+v", cfg)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("Missing .env should not be an error: %v", err)
	}
}
