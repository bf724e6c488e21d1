package config

import "os"

type Config struct {
	Port string

	// Credential for the agent execution service. May be empty; startup
	// warns and agent calls fail with a configuration message.
	GeminiAPIKey string

	// Base URL of the Phalanx mission backend. Empty disables the publish
	// step entirely.
	PhalanxBaseURL string

	StorageBackend string // "none", "memory" or "firestore"
	GCPProjectID   string

	// Origin granted in CORS headers; "*" (the default) allows any.
	CORSAllowedOrigin string

	UseMockRunner bool // scripted runner instead of the live agent service
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v == "1" || v == "true" || v == "TRUE"
}

// Load reads all env vars and builds the config.
func Load() *Config {
	return &Config{
		Port:              getEnv("SARA_PORT", "8080"),
		GeminiAPIKey:      firstEnv("SARA_GEMINI_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY"),
		PhalanxBaseURL:    firstEnv("SARA_PHALANX_URL", "PHALANX_API_URL", "API_BASE_URL"),
		StorageBackend:    getEnv("SARA_STORAGE_BACKEND", "memory"),
		GCPProjectID:      getEnv("SARA_GCP_PROJECT", ""),
		CORSAllowedOrigin: getEnv("SARA_CORS_ORIGIN", "*"),
		UseMockRunner:     getBoolEnv("SARA_USE_MOCK_RUNNER", false),
	}
}
