package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Provider names accepted in LLM_PROVIDER.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

const (
	defaultGeminiModel = "gemini-2.5-flash-lite"
	defaultOpenAIModel = "Llama-3.1-8B-Instruct"
	defaultOpenAIURL   = "http://localhost:8080"

	// geminiKeyPlaceholder is the value shipped in the sample .env file.
	geminiKeyPlaceholder = "YOUR_GEMINI_API_KEY"
)

// Config holds all configuration for the application.
type Config struct {
	LLMProvider      string
	GeminiAPIKey     string
	LLMBaseURL       string
	LLMAPIKey        string
	LLMModelName     string
	LLMTemperature   float32
	Persona          string
	SystemPromptFile string
	Renderer         string
	MaxMessages      int
	APIPort          string
	LogLevel         slog.Level
	LogFormat        string
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates the rest.
// If a .env file exists in the current directory or a parent, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
// A missing API key is not an error; see APIKeyConfigured.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break // Reached filesystem root
			}
			dir = parent
		}
	}

	provider := strings.ToLower(getEnv("LLM_PROVIDER", ProviderGemini))
	var defaultModel, defaultBaseURL string
	switch provider {
	case ProviderGemini:
		defaultModel = defaultGeminiModel
	case ProviderOpenAI:
		defaultModel = defaultOpenAIModel
		defaultBaseURL = defaultOpenAIURL
	default:
		return nil, fmt.Errorf("LLM_PROVIDER must be %q or %q, got %q", ProviderGemini, ProviderOpenAI, provider)
	}

	cfg := &Config{
		LLMProvider:      provider,
		GeminiAPIKey:     strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		LLMBaseURL:       getEnv("LLM_BASE_URL", defaultBaseURL),
		LLMAPIKey:        os.Getenv("LLM_API_KEY"),
		LLMModelName:     getEnv("LLM_MODEL", defaultModel),
		Persona:          strings.ToLower(getEnv("PERSONA", "mindmate")),
		SystemPromptFile: os.Getenv("SYSTEM_PROMPT_FILE"),
		Renderer:         strings.ToLower(getEnv("RENDERER", "inline")),
		APIPort:          getEnv("API_PORT", "9000"),
		LogFormat:        strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}

	temperature, err := strconv.ParseFloat(getEnv("LLM_TEMPERATURE", "0.1"), 32)
	if err != nil {
		return nil, fmt.Errorf("LLM_TEMPERATURE must be a number: %w", err)
	}
	if temperature < 0 || temperature > 2 {
		return nil, fmt.Errorf("LLM_TEMPERATURE must be between 0 and 2, got %v", temperature)
	}
	cfg.LLMTemperature = float32(temperature)

	maxMessages, err := strconv.Atoi(getEnv("MAX_MESSAGES", "200"))
	if err != nil {
		return nil, fmt.Errorf("MAX_MESSAGES must be a valid integer: %w", err)
	}
	if maxMessages <= 0 {
		return nil, fmt.Errorf("MAX_MESSAGES must be greater than 0")
	}
	cfg.MaxMessages = maxMessages

	if cfg.Renderer != "inline" && cfg.Renderer != "commonmark" {
		return nil, fmt.Errorf("RENDERER must be \"inline\" or \"commonmark\", got %q", cfg.Renderer)
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL is invalid: %w", err)
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be \"text\" or \"json\", got %q", cfg.LogFormat)
	}

	return cfg, nil
}

// APIKeyConfigured reports whether the selected provider has usable credentials.
// Gemini keys must be set, not the sample placeholder, and longer than 10
// characters. OpenAI-compatible servers only need a base URL, since local
// servers accept requests without a key.
func (c *Config) APIKeyConfigured() bool {
	switch c.LLMProvider {
	case ProviderGemini:
		return c.GeminiAPIKey != "" && c.GeminiAPIKey != geminiKeyPlaceholder && len(c.GeminiAPIKey) > 10
	case ProviderOpenAI:
		return c.LLMBaseURL != ""
	default:
		return false
	}
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
