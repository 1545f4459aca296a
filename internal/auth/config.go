// Package auth provides users, API keys and bearer-token authentication
// for the place-notes API.
package auth

import "os"

// Config holds server authentication configuration.
type Config struct {
	AdminEmail string // bootstrapped as a user with an API key when set
	DevMode    bool
	BaseURL    string // e.g. http://localhost:8080
}

// ConfigFromEnv creates a Config from environment variables.
func ConfigFromEnv() Config {
	return Config{
		AdminEmail: os.Getenv("PN_ADMIN_EMAIL"),
		DevMode:    os.Getenv("PN_DEV_MODE") == "true",
		BaseURL:    envOrDefault("PN_BASE_URL", "http://localhost:8080"),
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
