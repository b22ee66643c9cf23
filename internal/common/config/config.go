package config

import (
	"os"
	"strconv"
	"strings"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port           string
	Environment    string
	ReadTimeout    int
	WriteTimeout   int
	BodyLimit      int
	DBPath         string
	MigrationsPath string
	StorageRoot    string
	APISpecPath    string
	AllowedOrigins []string
}

// Load reads the configuration from environment variables.
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "3001"),
		Environment:    getEnv("ENV", "development"),
		ReadTimeout:    getEnvAsInt("READ_TIMEOUT", 10),
		WriteTimeout:   getEnvAsInt("WRITE_TIMEOUT", 10),
		BodyLimit:      getEnvAsInt("MAX_BODY_BYTES", 4*1024*1024),
		DBPath:         getEnv("PLANS_DB_PATH", "data/db/plans.db"),
		MigrationsPath: getEnv("PLANS_MIGRATIONS", "migrations/001_init_plans.sql"),
		StorageRoot:    getEnv("PLANS_STORAGE", "source"),
		APISpecPath:    getEnv("API_SPEC_PATH", "docs/converter.openapi.yaml"),
		AllowedOrigins: getEnvAsList("CORS_ORIGINS"),
	}
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
