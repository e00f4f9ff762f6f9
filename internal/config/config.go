package config

import (
	"log/slog"
	"os"
	"strconv"
)

// Config holds every setting read from the process environment.
type Config struct {
	ServerPort string
	LogLevel   string
	MaxPages   int

	// OCR (Gemini on Vertex AI)
	GeminiAPIKey     string
	ProjectID        string
	VertexAIRegion   string
	OCRModel         string
	OCRStagingBucket string

	// Question generation (OpenAI-compatible endpoint)
	InferenceBaseURL string
	InferenceAPIKey  string
	InferenceModel   string
}

// Load reads the configuration, falling back to defaults for unset keys.
func Load() *Config {
	return &Config{
		// Cloud Run and most PaaS hosts provide the listening port via PORT.
		ServerPort: getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", "8080")),
		LogLevel:   getEnvOrDefault("LOG_LEVEL", "info"),
		MaxPages:   getEnvIntOrDefault("MAX_PAGES", 8),

		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		ProjectID:        getEnvOrDefault("PROJECT_ID", ""),
		VertexAIRegion:   getEnvOrDefault("VERTEX_AI_REGION", "us-central1"),
		OCRModel:         getEnvOrDefault("OCR_MODEL", "gemini-2.0-flash-001"),
		OCRStagingBucket: getEnvOrDefault("OCR_STAGING_BUCKET", ""),

		InferenceBaseURL: getEnvOrDefault("INFERENCE_BASE_URL", "http://localhost:8000/v1"),
		InferenceAPIKey:  getEnvOrDefault("INFERENCE_API_KEY", "dummy"),
		InferenceModel:   getEnvOrDefault("INFERENCE_MODEL", "intelliask"),
	}
}

// WarnMissingCredentials logs the OCR credential check and reports whether
// anything was missing. The Vertex AI client needs a project plus either
// GEMINI_API_KEY or application default credentials. A missing setting never
// blocks startup; the first OCR call fails instead.
func (c *Config) WarnMissingCredentials(logger *slog.Logger) bool {
	missing := false
	if c.GeminiAPIKey == "" {
		logger.Warn("GEMINI_API_KEY environment variable not set")
		missing = true
	}
	if c.ProjectID == "" {
		logger.Warn("PROJECT_ID environment variable not set; OCR requests will fail")
		missing = true
	}
	return missing
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}
