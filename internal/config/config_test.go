package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"SARA_PORT", "SARA_GEMINI_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY",
		"SARA_PHALANX_URL", "PHALANX_API_URL", "API_BASE_URL",
		"SARA_STORAGE_BACKEND", "SARA_GCP_PROJECT", "SARA_CORS_ORIGIN", "SARA_USE_MOCK_RUNNER",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Empty(t, cfg.GeminiAPIKey)
	assert.Empty(t, cfg.PhalanxBaseURL)
	assert.Equal(t, "memory", cfg.StorageBackend)
	assert.Equal(t, "*", cfg.CORSAllowedOrigin)
	assert.False(t, cfg.UseMockRunner)
}

func TestLoadReadsFallbackKeys(t *testing.T) {
	t.Setenv("SARA_GEMINI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "key-from-fallback")
	t.Setenv("SARA_PHALANX_URL", "")
	t.Setenv("PHALANX_API_URL", "http://phalanx:9000")
	t.Setenv("SARA_USE_MOCK_RUNNER", "true")

	cfg := Load()
	assert.Equal(t, "key-from-fallback", cfg.GeminiAPIKey)
	assert.Equal(t, "http://phalanx:9000", cfg.PhalanxBaseURL)
	assert.True(t, cfg.UseMockRunner)
}

func TestLoadPrefersPrimaryKeys(t *testing.T) {
	t.Setenv("SARA_GEMINI_API_KEY", "primary")
	t.Setenv("GEMINI_API_KEY", "fallback")

	cfg := Load()
	assert.Equal(t, "primary", cfg.GeminiAPIKey)
}
