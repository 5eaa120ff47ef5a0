package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Env  string
	Port string

	RedisURL  string
	RedisPass string
	RedisDB   int

	JWTSecret string

	// TokenExpiry is the window a session token stays consumable after the
	// play session starts. RetentionGrace is how long past expiry a token row
	// is kept around for auditing before the sweep may purge it.
	TokenExpiry    time.Duration
	RetentionGrace time.Duration

	HourlyCap      int
	DailyCap       int
	MinSubmitGap   time.Duration

	AnomalyQueueSize int

	// AllowUnknownGameTypes lets submissions for unregistered game types pass
	// with a warning instead of being rejected. Off by default; only meant for
	// staged rollouts of new games.
	AllowUnknownGameTypes bool

	// LimitsFile points at the versioned physics limits YAML. Empty means the
	// compiled-in defaults.
	LimitsFile string
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:       getEnv("APP_ENV", "development"),
		Port:      getEnv("PORT", "8080"),
		RedisURL:  getEnv("REDIS_URL", "localhost:6379"),
		RedisPass: getEnv("REDIS_PASSWORD", ""),
		JWTSecret: getEnv("JWT_SECRET", ""),

		LimitsFile: getEnv("LIMITS_FILE", ""),
	}

	if cfg.Env == "production" && cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required in production")
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-secret-do-not-use-in-production"
	}

	var err error
	if cfg.RedisDB, err = getEnvInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.TokenExpiry, err = getEnvDuration("TOKEN_EXPIRY", 3*time.Minute); err != nil {
		return nil, err
	}
	if cfg.RetentionGrace, err = getEnvDuration("TOKEN_RETENTION_GRACE", time.Hour); err != nil {
		return nil, err
	}
	if cfg.HourlyCap, err = getEnvInt("SUBMIT_HOURLY_CAP", 20); err != nil {
		return nil, err
	}
	if cfg.DailyCap, err = getEnvInt("SUBMIT_DAILY_CAP", 200); err != nil {
		return nil, err
	}
	if cfg.MinSubmitGap, err = getEnvDuration("SUBMIT_MIN_GAP", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.AnomalyQueueSize, err = getEnvInt("ANOMALY_QUEUE_SIZE", 256); err != nil {
		return nil, err
	}

	cfg.AllowUnknownGameTypes = getEnv("ALLOW_UNKNOWN_GAME_TYPES", "false") == "true"

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", key, err)
	}
	return d, nil
}
