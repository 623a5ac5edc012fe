// Package config reads torchbench settings from the environment, after
// loading a .env file when one is present.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid configuration")

// Config holds workload and observability options.
type Config struct {
	LogLevel  string
	LogFormat string

	// Seed for random number generation. Used for reproducible dungeon generation.
	// A seed of 0 means a random seed will be generated.
	Seed int64

	Width      int
	Height     int
	Radius     float64
	Iterations int
	CacheSize  int
	Workers    int

	Telemetry        bool
	HoneycombAPIKey  string
	HoneycombDataset string
}

// Default returns the configuration used for unset keys.
func Default() Config {
	return Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Width:            80,
		Height:           24,
		Radius:           8,
		Iterations:       1000,
		CacheSize:        256,
		Workers:          4,
		HoneycombDataset: "torchbearer",
	}
}

// Load reads .env files (a missing file is not an error) and then the
// process environment. Variables already set in the environment win over
// the file.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromLookup(os.LookupEnv)
}

// FromMap reads settings from a map, typically the result of godotenv.Read.
func FromMap(env map[string]string) (Config, error) {
	return FromLookup(func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	})
}

// FromLookup reads settings through lookup, which behaves like os.LookupEnv.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	r := reader{lookup: lookup}

	r.setString("TORCHBEARER_LOG_LEVEL", &cfg.LogLevel)
	r.setString("TORCHBEARER_LOG_FORMAT", &cfg.LogFormat)
	r.setInt64("TORCHBEARER_SEED", &cfg.Seed)
	r.setInt("TORCHBEARER_WIDTH", &cfg.Width)
	r.setInt("TORCHBEARER_HEIGHT", &cfg.Height)
	r.setFloat("TORCHBEARER_RADIUS", &cfg.Radius)
	r.setInt("TORCHBEARER_ITERATIONS", &cfg.Iterations)
	r.setInt("TORCHBEARER_CACHE_SIZE", &cfg.CacheSize)
	r.setInt("TORCHBEARER_WORKERS", &cfg.Workers)
	r.setBool("TORCHBEARER_TELEMETRY", &cfg.Telemetry)
	r.setString("HONEYCOMB_API_KEY", &cfg.HoneycombAPIKey)
	r.setString("HONEYCOMB_DATASET", &cfg.HoneycombDataset)

	if r.err != nil {
		return Config{}, r.err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the values describe a runnable workload.
func (c Config) Validate() error {
	switch {
	case c.Width < 10 || c.Height < 10:
		return fmt.Errorf("%w: map must be at least 10x10, got %dx%d", ErrInvalid, c.Width, c.Height)
	case c.Radius < 0:
		return fmt.Errorf("%w: negative radius %v", ErrInvalid, c.Radius)
	case c.Iterations < 1:
		return fmt.Errorf("%w: iterations must be positive, got %d", ErrInvalid, c.Iterations)
	case c.CacheSize < 1:
		return fmt.Errorf("%w: cache size must be positive, got %d", ErrInvalid, c.CacheSize)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalid, c.Workers)
	}
	return nil
}

// OTelHeaders returns the OTLP header value for Honeycomb, or "" without an
// API key.
func (c Config) OTelHeaders() string {
	if c.HoneycombAPIKey == "" {
		return ""
	}
	return fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", c.HoneycombAPIKey, c.HoneycombDataset)
}

// reader parses keys in order and keeps the first error.
type reader struct {
	lookup func(string) (string, bool)
	err    error
}

func (r *reader) raw(key string) (string, bool) {
	if r.err != nil {
		return "", false
	}
	v, ok := r.lookup(key)
	return v, ok && v != ""
}

func (r *reader) fail(key, value string, err error) {
	r.err = fmt.Errorf("%w: %s=%q: %w", ErrInvalid, key, value, err)
}

func (r *reader) setString(key string, dst *string) {
	if v, ok := r.raw(key); ok {
		*dst = v
	}
}

func (r *reader) setInt(key string, dst *int) {
	if v, ok := r.raw(key); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			r.fail(key, v, err)
			return
		}
		*dst = n
	}
}

func (r *reader) setInt64(key string, dst *int64) {
	if v, ok := r.raw(key); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			r.fail(key, v, err)
			return
		}
		*dst = n
	}
}

func (r *reader) setFloat(key string, dst *float64) {
	if v, ok := r.raw(key); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			r.fail(key, v, err)
			return
		}
		*dst = f
	}
}

func (r *reader) setBool(key string, dst *bool) {
	if v, ok := r.raw(key); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			r.fail(key, v, err)
			return
		}
		*dst = b
	}
}
