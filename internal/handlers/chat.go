package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"mindmate/internal/contextutil"
	"mindmate/internal/service"
)

// ChatHandler handles HTTP requests for chat.
type ChatHandler struct {
	chatService service.ChatService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

// ChatRequest represents the HTTP request payload for chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse represents the HTTP response payload for chat.
type ChatResponse struct {
	Message service.Message `json:"message"`
}

// ServeHTTP handles HTTP requests for chat.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	svcReq := service.ChatRequest{
		Message: req.Message,
	}

	if r.URL.Query().Get("stream") == "true" {
		h.handleStreamingChat(w, ctx, svcReq)
		return
	}

	svcResp, err := h.chatService.ProcessChat(ctx, svcReq)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to process chat request")
		return
	}

	writeJSON(ctx, w, http.StatusOK, ChatResponse{Message: svcResp.Reply})
}

// handleStreamingChat streams the reply as Server-Sent Events. Raw text chunks
// are sent as unnamed events, the rendered reply as a "message" event, and the
// stream ends with "[DONE]". Failures before the first chunk are reported as a
// regular JSON error response.
func (h *ChatHandler) handleStreamingChat(w http.ResponseWriter, ctx context.Context, req service.ChatRequest) {
	logger := contextutil.LoggerFromContext(ctx)

	flusher, ok := w.(http.Flusher)
	if !ok {
		logger.ErrorContext(ctx, "streaming not supported by response writer")
		writeError(w, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	started := false
	start := func() {
		if started {
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		started = true
	}

	svcResp, err := h.chatService.StreamChat(ctx, req, func(chunk string) error {
		start()
		if err := writeEvent(w, "", chunk); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})

	if err != nil {
		if !started {
			handleServiceError(w, ctx, err, "Failed to process chat request")
			return
		}
		logger.ErrorContext(ctx, "error streaming chat", "error", err)
		_, msg := classifyError(err, "Failed to process chat request")
		payload, _ := json.Marshal(ErrorResponse{Error: msg})
		_ = writeEvent(w, "error", string(payload))
		flusher.Flush()
		return
	}

	start()
	payload, err := json.Marshal(ChatResponse{Message: svcResp.Reply})
	if err != nil {
		logger.ErrorContext(ctx, "failed to encode reply", "error", err)
		return
	}
	_ = writeEvent(w, "message", string(payload))
	_ = writeEvent(w, "", "[DONE]")
	flusher.Flush()
}

// writeEvent writes one SSE event. Multi-line data is split over several
// data fields so clients reassemble it with newlines.
func writeEvent(w http.ResponseWriter, event, data string) error {
	var b strings.Builder
	if event != "" {
		fmt.Fprintf(&b, "event: %s\n", event)
	}
	for _, line := range strings.Split(data, "\n") {
		fmt.Fprintf(&b, "data: %s\n", line)
	}
	b.WriteString("\n")
	_, err := w.Write([]byte(b.String()))
	return err
}
