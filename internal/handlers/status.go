package handlers

import (
	"net/http"

	"mindmate/internal/service"
)

// StatusHandler reports whether the assistant is thinking.
type StatusHandler struct {
	chatService service.ChatService
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(chatService service.ChatService) *StatusHandler {
	return &StatusHandler{chatService: chatService}
}

// ServeHTTP writes the current service.Status.
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, h.chatService.Status(r.Context()))
}
