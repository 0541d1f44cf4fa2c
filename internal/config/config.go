package config

import (
	"os"
)

type Config struct {
	Host          string
	Port          string
	DataDir       string
	AdminEmail    string
	AdminPassword string
	KafkaBrokers  string // empty disables event publishing
	LogLevel      string
}

func Load() *Config {
	return &Config{
		Host:          getEnv("HOST", "0.0.0.0"),
		Port:          getEnv("PORT", "3000"),
		DataDir:       getEnv("DATA_DIR", "data"),
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@apex-athletics.com"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "ChangeMe123!"),
		KafkaBrokers:  getEnv("KAFKA_BROKERS", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
