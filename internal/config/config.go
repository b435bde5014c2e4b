// Package config reads the dashboard configuration from the environment,
// after loading a local .env file when one exists.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	TokenStoreMemory = "memory"
	TokenStoreRedis  = "redis"
)

type Config struct {
	Host string
	Port uint

	APIBaseURL     string
	APITimeout     time.Duration
	SearchDebounce time.Duration

	TokenStore    string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SessionCookie string
	SessionTTL    time.Duration

	LoginRate  float64
	LoginBurst int

	InvoicesPerPage int
}

// Load reads .env (if present) and then the environment.
func Load() (*Config, error) {
	if err := loadEnvIfExists(); err != nil {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	return FromEnv()
}

// FromEnv reads the configuration from the process environment only.
func FromEnv() (*Config, error) {
	var errs []error

	cfg := &Config{
		Host:          getEnv("HOST", "localhost"),
		APIBaseURL:    getEnv("API_BASE_URL", "https://behiwot.com"),
		TokenStore:    getEnv("TOKEN_STORE", TokenStoreMemory),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		SessionCookie: getEnv("SESSION_COOKIE", "hyperdash_session"),
	}

	port, err := getEnvInt("PORT", 3000)
	errs = append(errs, err)
	if port <= 0 || port > 65535 {
		errs = append(errs, fmt.Errorf("PORT: %d out of range", port))
	}
	cfg.Port = uint(port)

	cfg.APITimeout, err = getEnvDuration("API_TIMEOUT", 10*time.Second)
	errs = append(errs, err)
	cfg.SearchDebounce, err = getEnvDuration("SEARCH_DEBOUNCE", 300*time.Millisecond)
	errs = append(errs, err)
	cfg.SessionTTL, err = getEnvDuration("SESSION_TTL", 24*time.Hour)
	errs = append(errs, err)

	cfg.RedisDB, err = getEnvInt("REDIS_DB", 0)
	errs = append(errs, err)
	cfg.LoginRate, err = getEnvFloat("LOGIN_RATE", 1)
	errs = append(errs, err)
	cfg.LoginBurst, err = getEnvInt("LOGIN_BURST", 5)
	errs = append(errs, err)
	cfg.InvoicesPerPage, err = getEnvInt("INVOICES_PER_PAGE", 10)
	errs = append(errs, err)

	switch cfg.TokenStore {
	case TokenStoreMemory, TokenStoreRedis:
	default:
		errs = append(errs, fmt.Errorf("TOKEN_STORE: unknown store %q", cfg.TokenStore))
	}
	if cfg.InvoicesPerPage <= 0 {
		errs = append(errs, errors.New("INVOICES_PER_PAGE must be positive"))
	}
	if cfg.LoginBurst <= 0 {
		errs = append(errs, errors.New("LOGIN_BURST must be positive"))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func loadEnvIfExists() error {
	if _, err := os.Stat(".env"); err == nil {
		return godotenv.Load()
	}
	return nil
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := getEnv(key, "")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, def float64) (float64, error) {
	v := getEnv(key, "")
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func getEnvDuration(key string, def time.Duration) (time.Duration, error) {
	v := getEnv(key, "")
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
