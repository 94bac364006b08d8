package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config carries everything the container needs to wire the app.
// Paths and DSNs are passed explicitly instead of being read from
// the environment at point of use.
type Config struct {
	DatabaseDSN  string
	MediaRoot    string
	HTTPAddr     string
	CookieDomain string
}

func Load() Config {
	// Missing .env is fine in deployed environments.
	_ = godotenv.Load()

	return Config{
		DatabaseDSN:  os.Getenv("DATABASE_DSN"),
		MediaRoot:    getEnv("MEDIA_ROOT", "uploads"),
		HTTPAddr:     getEnv("HTTP_ADDR", ":8080"),
		CookieDomain: os.Getenv("COOKIE_DOMAIN"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
