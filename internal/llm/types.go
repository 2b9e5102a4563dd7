package llm

import "errors"

// Message represents a single message in a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatParams holds parameters for chat completion requests.
type ChatParams struct {
	// Model specifies the model to use. If empty, the client's default model is used.
	Model string

	// MaxTokens specifies the maximum number of tokens to generate.
	// If 0, no limit is applied.
	MaxTokens int

	// Temperature controls the randomness of the output.
	// If nil, the provider default is used. Zero is sent as zero.
	Temperature *float32
}

// ErrEmptyReply is returned when a provider answers without any text.
var ErrEmptyReply = errors.New("empty reply from model")
