package server

import (
	"os"
	"strconv"
	"strings"
)

// Settings holds the sample application's environment-driven configuration.
type Settings struct {
	Environment string
	Debug       bool
	LogLevel    string
	APIPrefix   string
	APIVersion  string
	Host        string
	Port        int
}

// LoadSettings reads configuration from the environment with defaults that
// match what the deployer sets on the service.
func LoadSettings() Settings {
	return Settings{
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       strings.EqualFold(envOr("DEBUG", "false"), "true"),
		LogLevel:    envOr("LOG_LEVEL", "INFO"),
		APIPrefix:   envOr("API_PREFIX", "/api"),
		APIVersion:  envOr("API_VERSION", "1.0.0"),
		Host:        envOr("HOST", "0.0.0.0"),
		Port:        envIntOr("PORT", 8080),
	}
}

// IsProduction reports whether the app runs with the production label.
func (s Settings) IsProduction() bool {
	return s.Environment == "production"
}

// Addr returns the host:port the server listens on.
func (s Settings) Addr() string {
	return s.Host + ":" + strconv.Itoa(s.Port)
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return value
}
