package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeConfigFile creates a temp project root holding config/<env>.yaml and
// makes it the working directory for the test.
func writeConfigFile(t *testing.T, env, content string) {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatalf("mkdir config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config", env+".yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })

	// Keep ambient env from leaking into the test.
	t.Setenv("ENV_NAME", env)
	t.Setenv("CLASSIFIER_URL", "")
	t.Setenv("CACHE_BACKEND", "")
	t.Setenv("MEMCACHED_ADDRS", "")
	t.Setenv("FORECAST_HOUR_INTERVAL", "")
}

const minimalYAML = `
classifier:
  url: "http://localhost:5000"
`

func TestLoad_Defaults(t *testing.T) {
	writeConfigFile(t, "dev", minimalYAML)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want 8080", cfg.ServerPort)
	}
	if cfg.ClassifierURL != "http://localhost:5000" {
		t.Errorf("ClassifierURL = %q", cfg.ClassifierURL)
	}
	if cfg.ClassifierTimeout != 2*time.Second {
		t.Errorf("ClassifierTimeout = %v, want 2s", cfg.ClassifierTimeout)
	}
	if cfg.RequestTimeout != 10*time.Second {
		t.Errorf("RequestTimeout = %v, want 10s", cfg.RequestTimeout)
	}
	if cfg.QueryMaxLength != 2000 {
		t.Errorf("QueryMaxLength = %d, want 2000", cfg.QueryMaxLength)
	}
	if cfg.CacheBackend != "in_memory" {
		t.Errorf("CacheBackend = %q, want in_memory", cfg.CacheBackend)
	}
	if cfg.RetryAttempts != 3 || cfg.RetryBaseDelay != 100*time.Millisecond || cfg.RetryMaxDelay != 2*time.Second {
		t.Errorf("retry settings = %d/%v/%v", cfg.RetryAttempts, cfg.RetryBaseDelay, cfg.RetryMaxDelay)
	}
	if cfg.RateLimitRPS != 100 || cfg.RateLimitBurst != 250 {
		t.Errorf("rate limit = %d/%d, want 100/250", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 30s", cfg.ShutdownTimeout)
	}
	if cfg.DefaultLatitude != 41.8781 || cfg.DefaultLongitude != -87.6298 {
		t.Errorf("default coordinates = (%v, %v)", cfg.DefaultLatitude, cfg.DefaultLongitude)
	}
	if cfg.HourInterval != 6 {
		t.Errorf("HourInterval = %d, want 6", cfg.HourInterval)
	}
}

func TestLoad_ClassifierURLRequired(t *testing.T) {
	writeConfigFile(t, "dev", "server:\n  port: \"9090\"\n")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() succeeded without a classifier URL")
	}
	if !strings.Contains(err.Error(), "classifier.url required") {
		t.Errorf("error = %v, want the classifier.url message", err)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	writeConfigFile(t, "dev", `
classifier:
  url: "http://from-file:5000"
cache:
  backend: "in_memory"
forecast:
  hour_interval: 6
`)
	t.Setenv("CLASSIFIER_URL", "http://from-env:5000")
	t.Setenv("CACHE_BACKEND", "memcached")
	t.Setenv("MEMCACHED_ADDRS", "cache-1:11211,cache-2:11211")
	t.Setenv("FORECAST_HOUR_INTERVAL", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ClassifierURL != "http://from-env:5000" {
		t.Errorf("ClassifierURL = %q, want env value", cfg.ClassifierURL)
	}
	if cfg.CacheBackend != "memcached" {
		t.Errorf("CacheBackend = %q, want memcached", cfg.CacheBackend)
	}
	if cfg.MemcachedAddrs != "cache-1:11211,cache-2:11211" {
		t.Errorf("MemcachedAddrs = %q", cfg.MemcachedAddrs)
	}
	if cfg.HourInterval != 3 {
		t.Errorf("HourInterval = %d, want 3", cfg.HourInterval)
	}
}

func TestLoad_BadDurationsFallBack(t *testing.T) {
	writeConfigFile(t, "dev", `
classifier:
  url: "http://localhost:5000"
  timeout: "not-a-duration"
request:
  timeout: "-5s"
shutdown:
  timeout: ""
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ClassifierTimeout != 2*time.Second {
		t.Errorf("ClassifierTimeout = %v, want the 2s default", cfg.ClassifierTimeout)
	}
	if cfg.RequestTimeout != 10*time.Second {
		t.Errorf("RequestTimeout = %v, want the 10s default", cfg.RequestTimeout)
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Errorf("ShutdownTimeout = %v, want the 30s default", cfg.ShutdownTimeout)
	}
}

func TestLoad_RequestTimeoutLeavesRoomForClassifier(t *testing.T) {
	writeConfigFile(t, "dev", `
classifier:
  url: "http://localhost:5000"
  timeout: "4s"
request:
  timeout: "2s"
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Errorf("RequestTimeout = %v, want classifier timeout + 1s", cfg.RequestTimeout)
	}
}

func TestLoad_RejectsUnknownCacheBackend(t *testing.T) {
	writeConfigFile(t, "dev", minimalYAML)
	t.Setenv("CACHE_BACKEND", "redis")

	if _, err := Load(); err == nil {
		t.Fatal("Load() accepted an unknown cache backend")
	}
}

func TestLoad_RejectsIntervalOver24(t *testing.T) {
	writeConfigFile(t, "dev", minimalYAML)
	t.Setenv("FORECAST_HOUR_INTERVAL", "25")

	if _, err := Load(); err == nil {
		t.Fatal("Load() accepted hour_interval 25")
	}
}

func TestLoad_EnvNameSelectsFile(t *testing.T) {
	writeConfigFile(t, "prod", `
server:
  port: "9000"
classifier:
  url: "http://prod-model:5000"
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ServerPort != "9000" || cfg.ClassifierURL != "http://prod-model:5000" {
		t.Errorf("loaded wrong file: port=%q url=%q", cfg.ServerPort, cfg.ClassifierURL)
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	writeConfigFile(t, "dev", minimalYAML)
	t.Setenv("ENV_NAME", "staging")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() succeeded without a config file")
	}
	if !strings.Contains(err.Error(), "config file not found") {
		t.Errorf("error = %v, want config file not found", err)
	}
}
