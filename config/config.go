// Package config loads service configuration from the environment, with
// an optional .env file for local development.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	GinMode        string
	Debug          bool
	AllowedOrigins []string
	OllamaURL      string
	OllamaModel    string
	ScrapeInterval time.Duration
}

// Load reads the environment. A missing .env is not an error; every
// variable has a default so the service starts bare.
func Load() Config {
	godotenv.Load()

	return Config{
		Port:           getEnv("PORT", "8000"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		Debug:          getBool("DEBUG", false),
		AllowedOrigins: getList("ALLOWED_ORIGINS", []string{"*"}),
		OllamaURL:      getEnv("OLLAMA_URL", "http://ollama:11434"),
		OllamaModel:    getEnv("OLLAMA_MODEL", "llama3"),
		ScrapeInterval: time.Duration(getInt("SCRAPE_INTERVAL", 3600)) * time.Second,
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getList(key string, fallback []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
