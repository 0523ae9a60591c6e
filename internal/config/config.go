package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// base URLs of the four aggregated services
	UsersURL     string
	AccountsURL  string
	MetricsURL   string
	DashboardURL string

	// executor retry policy
	RequestTimeout time.Duration
	MaxRetries     int
	RetryDelay     time.Duration

	HTTPAddr    string
	LogLevel    string
	CORSOrigins []string
}

func Load() (Config, error) {
	cfg := Config{
		UsersURL:     getenvDefault("MICROSERVICE1_URL", "http://localhost:8081"),
		AccountsURL:  getenvDefault("MICROSERVICE2_URL", "http://localhost:3000"),
		MetricsURL:   getenvDefault("MICROSERVICE3_URL", "http://localhost:8000"),
		DashboardURL: getenvDefault("MICROSERVICE4_URL", "http://localhost:8080"),
		HTTPAddr:     getenvDefault("HTTP_ADDR", ":8005"),
		LogLevel:     getenvDefault("LOG_LEVEL", "info"),
	}

	// light validation: base urls must be absolute
	for _, base := range []string{cfg.UsersURL, cfg.AccountsURL, cfg.MetricsURL, cfg.DashboardURL} {
		u, err := url.Parse(base)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return Config{}, fmt.Errorf("invalid_base_url: %s", base)
		}
	}

	timeoutSecs, err := getenvInt("REQUEST_TIMEOUT", 30)
	if err != nil {
		return Config{}, err
	}
	if timeoutSecs <= 0 {
		return Config{}, errors.New("REQUEST_TIMEOUT must be positive")
	}
	cfg.RequestTimeout = time.Duration(timeoutSecs) * time.Second

	cfg.MaxRetries, err = getenvInt("MAX_RETRIES", 3)
	if err != nil {
		return Config{}, err
	}
	if cfg.MaxRetries < 1 {
		return Config{}, errors.New("MAX_RETRIES must be at least 1")
	}

	// RETRY_DELAY in seconds, fractions allowed (e.g. 0.5)
	delaySecs, err := getenvFloat("RETRY_DELAY", 1.0)
	if err != nil {
		return Config{}, err
	}
	if delaySecs < 0 {
		return Config{}, errors.New("RETRY_DELAY must not be negative")
	}
	cfg.RetryDelay = time.Duration(delaySecs * float64(time.Second))

	corsOrigins := getenvDefault("CORS_ORIGINS", "")
	if corsOrigins != "" {
		cfg.CORSOrigins = strings.Split(corsOrigins, ",")
		for i := range cfg.CORSOrigins {
			cfg.CORSOrigins[i] = strings.TrimSpace(cfg.CORSOrigins[i])
		}
	} else {
		cfg.CORSOrigins = []string{"*"}
	}

	return cfg, nil
}

func getenvDefault(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(k string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", k, err)
	}
	return n, nil
}

func getenvFloat(k string, def float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", k, err)
	}
	return f, nil
}
