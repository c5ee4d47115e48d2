package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "http://ollama:11434", cfg.OllamaURL)
	assert.Equal(t, "llama3", cfg.OllamaModel)
	assert.Equal(t, time.Hour, cfg.ScrapeInterval)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.False(t, cfg.Debug)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("DEBUG", "true")
	t.Setenv("SCRAPE_INTERVAL", "60")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg := Load()

	assert.Equal(t, "9999", cfg.Port)
	assert.True(t, cfg.Debug)
	assert.Equal(t, time.Minute, cfg.ScrapeInterval)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoad_BadValuesFallBack(t *testing.T) {
	t.Setenv("SCRAPE_INTERVAL", "not-a-number")
	t.Setenv("DEBUG", "not-a-bool")

	cfg := Load()
	assert.Equal(t, time.Hour, cfg.ScrapeInterval)
	assert.False(t, cfg.Debug)
}
