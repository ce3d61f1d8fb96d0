package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr        string
	MetricsAddr string
	BasePath    string

	DatabaseURL string
	AutoMigrate bool
	RedisURL    string

	JWTSecretKey string
	// AppURL is both issuer and audience of access tokens.
	AppURL   string
	TokenTTL time.Duration

	LoginMaxAttempts   int
	LoginLockoutWindow time.Duration

	RequestTimeout time.Duration

	// SeedAdminPassword, when set, creates or keeps an administrator account
	// with SeedAdminEmail at startup.
	SeedAdminEmail    string
	SeedAdminPassword string

	LogLevel string
}

// ErrMissingSecret is returned when JWT_SECRET_KEY is unset. Starting without
// a signing key would make every protected route unreachable.
var ErrMissingSecret = errors.New("JWT_SECRET_KEY must be set")

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	cfg := Server{
		Addr:         getenv("PETADOPT_ADDR", ":8080"),
		MetricsAddr:  getenv("METRICS_ADDR", ":9090"),
		BasePath:     os.Getenv("BASE_PATH"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		AutoMigrate:  os.Getenv("AUTO_MIGRATE") == "true",
		RedisURL:     os.Getenv("REDIS_URL"),
		JWTSecretKey: os.Getenv("JWT_SECRET_KEY"),
		AppURL:       getenv("APP_URL", "http://localhost:8080"),
		LogLevel:     getenv("LOG_LEVEL", "info"),

		SeedAdminEmail:    getenv("SEED_ADMIN_EMAIL", "admin@petadopt.local"),
		SeedAdminPassword: os.Getenv("SEED_ADMIN_PASSWORD"),
	}

	if cfg.JWTSecretKey == "" {
		return Server{}, ErrMissingSecret
	}

	var err error
	if cfg.TokenTTL, err = durationEnv("TOKEN_TTL", time.Hour); err != nil {
		return Server{}, err
	}
	if cfg.LoginLockoutWindow, err = durationEnv("LOGIN_LOCKOUT_WINDOW", 15*time.Minute); err != nil {
		return Server{}, err
	}
	if cfg.RequestTimeout, err = durationEnv("REQUEST_TIMEOUT", 30*time.Second); err != nil {
		return Server{}, err
	}
	if cfg.LoginMaxAttempts, err = intEnv("LOGIN_MAX_ATTEMPTS", 5); err != nil {
		return Server{}, err
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s: invalid duration %q", key, raw)
	}
	return d, nil
}

func intEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s: invalid positive integer %q", key, raw)
	}
	return n, nil
}
