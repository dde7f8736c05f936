package config

import (
	"os"
	"strconv"
	"time"

	"github.com/hiromasa-t/project-collab-api/internal/constants"
)

type Config struct {
	DBDriver         string
	DBHost           string
	DBPort           string
	DBUser           string
	DBPassword       string
	DBName           string
	GinMode          string
	Port             string
	InviteTTL        time.Duration
	InviteReapPeriod time.Duration
}

func Load() *Config {
	return &Config{
		DBDriver:         getEnv("DB_DRIVER", "mysql"),
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBPort:           getEnv("DB_PORT", "3306"),
		DBUser:           getEnv("DB_USER", "collabuser"),
		DBPassword:       getEnv("DB_PASSWORD", "collabpassword"),
		DBName:           getEnv("DB_NAME", "project_collab"),
		GinMode:          getEnv("GIN_MODE", "debug"),
		Port:             getEnv("PORT", "8080"),
		InviteTTL:        getDurationEnv("INVITE_TTL_HOURS", time.Hour, constants.DefaultInviteTTL),
		InviteReapPeriod: getDurationEnv("INVITE_REAP_INTERVAL_MINUTES", time.Minute, constants.DefaultInviteReapInterval),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDurationEnv(key string, unit, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return time.Duration(n) * unit
}
