package config

import (
	"reflect"
	"testing"
)

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("TEST_STR_SET", "custom")

	if got := getEnvOrDefault("TEST_STR_SET", "fallback"); got != "custom" {
		t.Errorf("getEnvOrDefault = %q, want custom", got)
	}
	if got := getEnvOrDefault("TEST_STR_UNSET", "fallback"); got != "fallback" {
		t.Errorf("getEnvOrDefault = %q, want fallback", got)
	}
}

func TestGetEnvAsIntOrDefault(t *testing.T) {
	t.Setenv("TEST_INT_OK", "45")
	t.Setenv("TEST_INT_BAD", "not-a-number")

	if got := getEnvAsIntOrDefault("TEST_INT_OK", 120); got != 45 {
		t.Errorf("getEnvAsIntOrDefault = %d, want 45", got)
	}
	if got := getEnvAsIntOrDefault("TEST_INT_BAD", 120); got != 120 {
		t.Errorf("Invalid int should fall back, got %d", got)
	}
	if got := getEnvAsIntOrDefault("TEST_INT_UNSET", 120); got != 120 {
		t.Errorf("Unset int should fall back, got %d", got)
	}
}

func TestGetEnvAsListOrDefault(t *testing.T) {
	fallback := []string{"/", "/index.html"}

	t.Setenv("TEST_LIST", "/, /css/styles.css ,https://cdn.jsdelivr.net/npm/chart.js")
	got := getEnvAsListOrDefault("TEST_LIST", fallback)
	want := []string{"/", "/css/styles.css", "https://cdn.jsdelivr.net/npm/chart.js"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("getEnvAsListOrDefault = %v, want %v", got, want)
	}

	if got := getEnvAsListOrDefault("TEST_LIST_UNSET", fallback); !reflect.DeepEqual(got, fallback) {
		t.Errorf("Unset list should fall back, got %v", got)
	}

	t.Setenv("TEST_LIST_BLANK", " , ,")
	if got := getEnvAsListOrDefault("TEST_LIST_BLANK", fallback); !reflect.DeepEqual(got, fallback) {
		t.Errorf("Blank-only list should fall back, got %v", got)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port == "" {
		t.Error("Port must always resolve to something")
	}
	if cfg.QuestionSchemaVersion != "V3" {
		t.Errorf("QuestionSchemaVersion = %q, want V3 default", cfg.QuestionSchemaVersion)
	}
	if len(cfg.CacheManifest) == 0 {
		t.Error("CacheManifest must default to the app shell")
	}
	if cfg.CacheManifest[0] != "/" {
		t.Errorf("First manifest entry = %q, want the root document", cfg.CacheManifest[0])
	}
}
