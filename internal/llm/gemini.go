package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultGeminiModel is the model used when none is configured.
const DefaultGeminiModel = "gemini-2.5-flash-lite"

// GeminiConfig configures a GeminiClient.
type GeminiConfig struct {
	APIKey string
	// BaseURL overrides the Gemini API endpoint. Empty uses the SDK default.
	BaseURL           string
	Model             string
	SystemInstruction string
	// Temperature is passed through when set, including zero.
	Temperature *float32
}

// GeminiClient sends single-turn prompts to the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
}

// NewGeminiClient creates a client for the Gemini developer API.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultGeminiModel
	}

	genCfg := &genai.GenerateContentConfig{}
	if cfg.SystemInstruction != "" {
		genCfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: cfg.SystemInstruction}},
		}
	}
	if cfg.Temperature != nil {
		temperature := *cfg.Temperature
		genCfg.Temperature = &temperature
	}

	return &GeminiClient{
		client: client,
		model:  model,
		config: genCfg,
	}, nil
}

// Model returns the configured model name.
func (g *GeminiClient) Model() string {
	return g.model
}

// Chat sends message as a single user turn and returns the reply text.
func (g *GeminiClient) Chat(ctx context.Context, message string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, userContent(message), g.config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}

// StreamChat sends message and calls callback with each text chunk as it arrives.
func (g *GeminiClient) StreamChat(ctx context.Context, message string, callback func(chunk string) error) error {
	for resp, err := range g.client.Models.GenerateContentStream(ctx, g.model, userContent(message), g.config) {
		if err != nil {
			return fmt.Errorf("stream content: %w", err)
		}
		chunk := resp.Text()
		if chunk == "" {
			continue
		}
		if err := callback(chunk); err != nil {
			return fmt.Errorf("callback error: %w", err)
		}
	}
	return nil
}

func userContent(message string) []*genai.Content {
	return []*genai.Content{
		{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{{Text: message}},
		},
	}
}
