package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_llm_client.go -package=mocks mindmate/internal/service LLMClient
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chat_service.go -package=mocks -mock_names=ChatService=MockChatService mindmate/internal/service ChatService

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"

	"mindmate/internal/contextutil"
)

// LLMClient is an interface for interacting with an LLM API.
// This interface is defined from the service layer's perspective (consumer-first).
type LLMClient interface {
	// Chat sends a message to the LLM and returns the reply.
	Chat(ctx context.Context, message string) (string, error)
	// StreamChat sends a message to the LLM and streams the reply via callback.
	StreamChat(ctx context.Context, message string, callback func(chunk string) error) error
}

// Renderer converts reply text into an HTML fragment.
type Renderer interface {
	Render(text string) string
}

// ChatRequest represents a chat request in the domain layer.
type ChatRequest struct {
	Message string
}

// ChatResponse represents a chat response in the domain layer.
type ChatResponse struct {
	Reply Message
}

// Status reports the state the UI needs to draw its indicators.
type Status struct {
	Thinking         bool `json:"thinking"`
	Messages         int  `json:"messages"`
	APIKeyConfigured bool `json:"api_key_configured"`
}

// Options configures a ChatService.
type Options struct {
	// MaxMessages bounds the transcript. Zero uses DefaultMaxMessages.
	MaxMessages int
	// APIKeyConfigured is reported through Status so the UI can warn.
	APIKeyConfigured bool
}

// ChatService provides chat functionality.
type ChatService interface {
	// ProcessChat sends the message to the model and returns the rendered reply.
	ProcessChat(ctx context.Context, req ChatRequest) (ChatResponse, error)
	// StreamChat is ProcessChat with raw reply chunks passed to callback as they arrive.
	StreamChat(ctx context.Context, req ChatRequest, callback func(chunk string) error) (ChatResponse, error)
	// History returns the conversation so far.
	History(ctx context.Context) []Message
	// Reset clears the conversation.
	Reset(ctx context.Context)
	// Status reports whether a reply is in progress.
	Status(ctx context.Context) Status
}

// chatService implements ChatService.
type chatService struct {
	llmClient  LLMClient
	renderer   Renderer
	transcript *Transcript
	thinking   atomic.Bool
	apiKeySet  bool
}

// NewChatService creates a new ChatService.
func NewChatService(llmClient LLMClient, renderer Renderer, opts Options) ChatService {
	return &chatService{
		llmClient:  llmClient,
		renderer:   renderer,
		transcript: NewTranscript(opts.MaxMessages),
		apiKeySet:  opts.APIKeyConfigured,
	}
}

// ProcessChat processes a chat request.
func (s *chatService) ProcessChat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if err := s.begin(ctx, logger, req); err != nil {
		return ChatResponse{}, err
	}
	defer s.thinking.Store(false)

	s.transcript.Append(SenderUser, req.Message, false)

	reply, err := s.llmClient.Chat(ctx, req.Message)
	if err != nil {
		logger.ErrorContext(ctx, "failed to get LLM response", "error", err)
		s.transcript.Append(SenderBot, FallbackReply, false)
		return ChatResponse{}, externalError(err, "failed to get LLM response")
	}

	msg := s.transcript.Append(SenderBot, s.renderer.Render(reply), true)
	logger.InfoContext(ctx, "chat request processed successfully", "message_length", len(req.Message), "reply_length", len(reply))
	return ChatResponse{Reply: msg}, nil
}

// StreamChat processes a chat request and streams the raw reply text.
// The rendered reply is recorded once the stream completes.
func (s *chatService) StreamChat(ctx context.Context, req ChatRequest, callback func(chunk string) error) (ChatResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if err := s.begin(ctx, logger, req); err != nil {
		return ChatResponse{}, err
	}
	defer s.thinking.Store(false)

	s.transcript.Append(SenderUser, req.Message, false)

	var reply strings.Builder
	err := s.llmClient.StreamChat(ctx, req.Message, func(chunk string) error {
		reply.WriteString(chunk)
		return callback(chunk)
	})
	if err == nil && strings.TrimSpace(reply.String()) == "" {
		err = errEmptyStream
	}
	if err != nil {
		logger.ErrorContext(ctx, "failed to stream LLM response", "error", err)
		s.transcript.Append(SenderBot, FallbackReply, false)
		return ChatResponse{}, externalError(err, "failed to stream LLM response")
	}

	msg := s.transcript.Append(SenderBot, s.renderer.Render(reply.String()), true)
	logger.InfoContext(ctx, "streaming chat request processed successfully", "message_length", len(req.Message), "reply_length", reply.Len())
	return ChatResponse{Reply: msg}, nil
}

// History returns the transcript.
func (s *chatService) History(ctx context.Context) []Message {
	return s.transcript.Messages()
}

// Reset clears the transcript.
func (s *chatService) Reset(ctx context.Context) {
	s.transcript.Clear()
	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "conversation cleared")
}

// Status reports the thinking flag and transcript size.
func (s *chatService) Status(ctx context.Context) Status {
	return Status{
		Thinking:         s.thinking.Load(),
		Messages:         s.transcript.Len(),
		APIKeyConfigured: s.apiKeySet,
	}
}

// begin validates req and claims the single in-flight slot.
func (s *chatService) begin(ctx context.Context, logger *slog.Logger, req ChatRequest) error {
	if strings.TrimSpace(req.Message) == "" {
		logger.WarnContext(ctx, "empty message in chat request")
		return &ValidationError{
			Field:   "message",
			Message: "cannot be empty",
		}
	}
	if !s.thinking.CompareAndSwap(false, true) {
		logger.WarnContext(ctx, "chat request rejected while another reply is in progress")
		return ErrBusy
	}
	return nil
}
