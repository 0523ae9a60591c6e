package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{
		"MICROSERVICE1_URL", "MICROSERVICE2_URL", "MICROSERVICE3_URL", "MICROSERVICE4_URL",
		"REQUEST_TIMEOUT", "MAX_RETRIES", "RETRY_DELAY", "HTTP_ADDR", "LOG_LEVEL", "CORS_ORIGINS",
	} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.UsersURL != "http://localhost:8081" {
		t.Errorf("unexpected users url %q", cfg.UsersURL)
	}
	if cfg.DashboardURL != "http://localhost:8080" {
		t.Errorf("unexpected dashboard url %q", cfg.DashboardURL)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("unexpected timeout %v", cfg.RequestTimeout)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("unexpected max retries %d", cfg.MaxRetries)
	}
	if cfg.RetryDelay != time.Second {
		t.Errorf("unexpected retry delay %v", cfg.RetryDelay)
	}
	if cfg.HTTPAddr != ":8005" {
		t.Errorf("unexpected addr %q", cfg.HTTPAddr)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("unexpected cors origins %v", cfg.CORSOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MICROSERVICE3_URL", "http://metrics.internal:9000")
	t.Setenv("REQUEST_TIMEOUT", "5")
	t.Setenv("MAX_RETRIES", "2")
	t.Setenv("RETRY_DELAY", "0.5")
	t.Setenv("CORS_ORIGINS", "http://a.example, http://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.MetricsURL != "http://metrics.internal:9000" {
		t.Errorf("unexpected metrics url %q", cfg.MetricsURL)
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Errorf("unexpected timeout %v", cfg.RequestTimeout)
	}
	if cfg.MaxRetries != 2 {
		t.Errorf("unexpected max retries %d", cfg.MaxRetries)
	}
	if cfg.RetryDelay != 500*time.Millisecond {
		t.Errorf("unexpected retry delay %v", cfg.RetryDelay)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.example" {
		t.Errorf("unexpected cors origins %v", cfg.CORSOrigins)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"relative base url", "MICROSERVICE1_URL", "localhost:8081"},
		{"non-numeric timeout", "REQUEST_TIMEOUT", "soon"},
		{"zero timeout", "REQUEST_TIMEOUT", "0"},
		{"zero retries", "MAX_RETRIES", "0"},
		{"non-numeric delay", "RETRY_DELAY", "fast"},
		{"negative delay", "RETRY_DELAY", "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}
