package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port            int
	DatabaseURL     string
	AuthUser        string
	AuthPass        string
	BaseURL         string
	CacheSize       int
	LogLevel        string
	RateLimit       int
	RateLimitWindow time.Duration
}

func LoadConfig() Config {
	port, _ := strconv.Atoi(getEnv("PORT", "8080"))
	cacheSize, _ := strconv.Atoi(getEnv("CACHE_SIZE", "1000"))
	rateLimit, _ := strconv.Atoi(getEnv("RATE_LIMIT", "60"))
	rateWindow, err := time.ParseDuration(getEnv("RATE_LIMIT_WINDOW", "1m"))
	if err != nil || rateWindow <= 0 {
		rateWindow = time.Minute
	}

	return Config{
		Port:            port,
		DatabaseURL:     getEnv("DATABASE_URL", "qrlink.db"),
		AuthUser:        getEnv("AUTH_USER", "admin"),
		AuthPass:        getEnv("AUTH_PASS", "password"),
		BaseURL:         getEnv("BASE_URL", "http://localhost:8080"),
		CacheSize:       cacheSize,
		LogLevel:        getEnv("LOG_LEVEL", "INFO"),
		RateLimit:       rateLimit,
		RateLimitWindow: rateWindow,
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
