package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"mindmate/internal/config"
	"mindmate/internal/http"
	"mindmate/internal/llm"
	"mindmate/internal/render"
	"mindmate/internal/service"
	"mindmate/internal/web"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	renderer, err := render.New(cfg.Renderer)
	if err != nil {
		log.Fatalf("Failed to create renderer: %v", err)
	}

	systemPrompt, err := llm.SystemPrompt(cfg.Persona, cfg.SystemPromptFile)
	if err != nil {
		log.Fatalf("Failed to load system prompt: %v", err)
	}

	ctx := context.Background()
	llmClient := newLLMClient(ctx, cfg, systemPrompt)

	chatService := service.NewChatService(llmClient, renderer, service.Options{
		MaxMessages:      cfg.MaxMessages,
		APIKeyConfigured: cfg.APIKeyConfigured(),
	})

	router := http.NewRouter(&http.Deps{
		ChatService: chatService,
		Renderer:    renderer,
		Provider:    cfg.LLMProvider,
		Model:       cfg.LLMModelName,
		IndexHTML:   web.IndexHTML,
	})

	// Start API server
	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr, "provider", cfg.LLMProvider, "renderer", cfg.Renderer)
	slog.Debug("LLM configuration", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModelName, "persona", cfg.Persona)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}

// newLLMClient builds the configured provider. The server still starts when
// Gemini has no usable key; chat requests then fail with the fallback reply.
func newLLMClient(ctx context.Context, cfg *config.Config, systemPrompt string) service.LLMClient {
	temperature := cfg.LLMTemperature

	if cfg.LLMProvider == config.ProviderOpenAI {
		client := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName)
		client.SystemPrompt = systemPrompt
		client.Params = llm.ChatParams{Temperature: &temperature}
		slog.Info("LLM client initialized", "provider", cfg.LLMProvider, "model", cfg.LLMModelName)
		return client
	}

	if !cfg.APIKeyConfigured() {
		slog.Warn("Gemini API key is not configured; chat requests will fail until GEMINI_API_KEY is set")
		return llm.Unavailable{}
	}

	client, err := llm.NewGeminiClient(ctx, llm.GeminiConfig{
		APIKey:            cfg.GeminiAPIKey,
		BaseURL:           cfg.LLMBaseURL,
		Model:             cfg.LLMModelName,
		SystemInstruction: systemPrompt,
		Temperature:       &temperature,
	})
	if err != nil {
		slog.Error("Failed to create Gemini client", "error", err)
		return llm.Unavailable{Reason: err}
	}
	slog.Info("LLM client initialized", "provider", cfg.LLMProvider, "model", client.Model())
	return client
}
