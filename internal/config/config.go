package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port           int
	CatalogURL     string
	CatalogTimeout time.Duration
	RedisURL       string
	DatabaseURL    string
	DBPoolSize     int
	CacheTTL       time.Duration
	SessionTTL     time.Duration
}

// Load configuration from env. DATABASE_URL is optional: leaving it
// empty disables staff display-name resolution.
func Load() (*Config, error) {
	port := getEnvInt("PORT", 8080)
	catalogURL := getEnv("CATALOG_URL", "https://graphql.anilist.co")
	catalogTimeout := getEnvDuration("CATALOG_TIMEOUT", 15*time.Second)
	redisURL := getEnv("REDIS_URL", "redis://localhost:6379")
	dbURL := getEnv("DATABASE_URL", "")
	dbPoolSize := getEnvInt("DB_POOL_SIZE", 5)
	cacheTTL := getEnvDuration("CACHE_TTL", 10*time.Minute)
	sessionTTL := getEnvDuration("SESSION_TTL", 30*time.Minute)

	return &Config{
		Port:           port,
		CatalogURL:     catalogURL,
		CatalogTimeout: catalogTimeout,
		RedisURL:       redisURL,
		DatabaseURL:    dbURL,
		DBPoolSize:     dbPoolSize,
		CacheTTL:       cacheTTL,
		SessionTTL:     sessionTTL,
	}, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return fallback
}
