package handlers

import (
	"net/http"

	"mindmate/internal/contextutil"
	"mindmate/internal/service"
)

// MessagesHandler exposes the conversation transcript.
type MessagesHandler struct {
	chatService service.ChatService
}

// NewMessagesHandler creates a new MessagesHandler.
func NewMessagesHandler(chatService service.ChatService) *MessagesHandler {
	return &MessagesHandler{chatService: chatService}
}

// MessagesResponse lists the conversation in order.
type MessagesResponse struct {
	Messages []service.Message `json:"messages"`
}

// ServeHTTP returns the transcript on GET and clears it on DELETE.
func (h *MessagesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		messages := h.chatService.History(ctx)
		if messages == nil {
			messages = []service.Message{}
		}
		writeJSON(ctx, w, http.StatusOK, MessagesResponse{Messages: messages})
	case http.MethodDelete:
		h.chatService.Reset(ctx)
		w.WriteHeader(http.StatusNoContent)
	default:
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}
