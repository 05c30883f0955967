// Package config resolves dinehub settings from, lowest to highest
// precedence: built-in defaults, config/app.json, .env, the process
// environment, and runtime overrides made with Set (CLI flags, tests).
// Keys are upper-case environment names; app.json keys are upper-cased.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var (
	loadOnce sync.Once
	loadErr  error

	mu     sync.RWMutex
	values = defaults()
)

// Load reads config/app.json and .env relative to the working directory.
// Only the first call does any work.
func Load() error {
	loadOnce.Do(func() {
		loadErr = loadFromFiles("config/app.json", ".env")
	})
	return loadErr
}

// Get reads any key, e.g. MAX_BODY_BYTES.
func Get(key, fallback string) string {
	_ = Load()
	return get(key, fallback)
}

// Set overrides key for the rest of the process.
func Set(key, value string) {
	_ = Load()
	mu.Lock()
	values[normalize(key)] = value
	mu.Unlock()
}

func loadFromFiles(jsonPath, envPath string) error {
	layered := defaults()
	for _, merge := range []func(map[string]string) error{
		func(m map[string]string) error { return mergeJSON(jsonPath, m) },
		func(m map[string]string) error { return mergeDotEnv(envPath, m) },
	} {
		if err := merge(layered); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	mergeEnviron(layered)

	mu.Lock()
	values = layered
	mu.Unlock()
	return nil
}

func mergeJSON(path string, into map[string]string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("config: %s: %w", path, err)
	}
	for k, v := range doc {
		var s string
		switch v := v.(type) {
		case string:
			s = v
		case bool:
			s = strconv.FormatBool(v)
		case float64:
			s = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			continue // nested objects are not settings
		}
		if k = normalize(k); k != "" {
			into[k] = strings.TrimSpace(s)
		}
	}
	return nil
}

func mergeDotEnv(path string, into map[string]string) error {
	env, err := godotenv.Read(path)
	if err != nil {
		return err
	}
	for k, v := range env {
		if k = normalize(k); k != "" {
			into[k] = strings.TrimSpace(v)
		}
	}
	return nil
}

// mergeEnviron applies environment variables for known keys and for the
// open-ended families in envPrefixes.
func mergeEnviron(into map[string]string) {
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		if _, known := into[k]; known || hasEnvPrefix(k) {
			into[k] = v
		}
	}
}

var envPrefixes = []string{"ADMIN_", "CORS_", "LOG_", "MAX_", "MENU_", "RATE_", "S3_", "STORAGE_"}

func hasEnvPrefix(k string) bool {
	for _, p := range envPrefixes {
		if strings.HasPrefix(k, p) {
			return true
		}
	}
	return false
}

func normalize(k string) string { return strings.ToUpper(strings.TrimSpace(k)) }

// ─── Typed reads ──────────────────────────────────────────────────────────────

// get returns the trimmed value of key, or fallback when blank.
func get(key, fallback string) string {
	mu.RLock()
	v := strings.TrimSpace(values[key])
	mu.RUnlock()
	if v == "" {
		return fallback
	}
	return v
}

func duration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(get(key, "")); err == nil && d > 0 {
		return d
	}
	return fallback
}

func boolean(key string, fallback bool) bool {
	if b, err := strconv.ParseBool(get(key, "")); err == nil {
		return b
	}
	return fallback
}

func positive(key string, fallback int) int {
	if n, err := strconv.Atoi(get(key, "")); err == nil && n > 0 {
		return n
	}
	return fallback
}

// The accessors in keys.go go through these so Load has always run.
func str(key, fallback string) string                      { _ = Load(); return get(key, fallback) }
func dur(key string, fallback time.Duration) time.Duration { _ = Load(); return duration(key, fallback) }
func flag(key string, fallback bool) bool                  { _ = Load(); return boolean(key, fallback) }
func num(key string, fallback int) int                     { _ = Load(); return positive(key, fallback) }
