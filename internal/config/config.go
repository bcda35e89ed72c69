package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
)

type Config struct {
	AppURL                 string
	DatabaseDSN            string
	RateLimitPerMinute     int
	SMTPAddr               string
	SMTPFrom               string
	ResetTokenTTLMinutes   int
	ShutdownTimeoutSeconds int
}

func Load() Config {
	appHost := getEnv("APP_HOST", "127.0.0.1")
	appPort := getEnv("PORT", "3000")

	cfg := Config{
		AppURL:                 fmt.Sprintf("%s:%s", appHost, appPort),
		DatabaseDSN:            getEnv("DATABASE_DSN", ""),
		RateLimitPerMinute:     getEnvAsInt("RATE_LIMIT_PER_MINUTE", 60),
		SMTPAddr:               getEnv("SMTP_ADDR", ""),
		SMTPFrom:               getEnv("SMTP_FROM", "noreply@taskhive.dev"),
		ResetTokenTTLMinutes:   getEnvAsInt("RESET_TOKEN_TTL_MINUTES", 30),
		ShutdownTimeoutSeconds: getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 20),
	}

	validate(cfg)
	return cfg
}

func validate(cfg Config) {
	if cfg.DatabaseDSN == "" {
		log.Fatal("DATABASE_DSN must not be empty")
	}
	if cfg.RateLimitPerMinute <= 0 {
		log.Fatal("RATE_LIMIT_PER_MINUTE must be greater than 0")
	}
	if cfg.ResetTokenTTLMinutes <= 0 {
		log.Fatal("RESET_TOKEN_TTL_MINUTES must be greater than 0")
	}
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("invalid integer value for %s", key)
		}
		return i
	}
	return defaultVal
}
