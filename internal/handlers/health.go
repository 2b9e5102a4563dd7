package handlers

import (
	"net/http"
	"time"

	"mindmate/internal/contextutil"
	"mindmate/internal/service"
)

// HealthHandler handles HTTP requests for health checks.
type HealthHandler struct {
	chatService service.ChatService
	provider    string
	model       string
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(chatService service.ChatService, provider, model string) *HealthHandler {
	return &HealthHandler{
		chatService: chatService,
		provider:    provider,
		model:       model,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	// Overall health status: "healthy" or "unhealthy"
	Status string `json:"status"`

	// Timestamp of the health check
	Timestamp string `json:"timestamp"`

	// Provider and model answering chat requests
	Provider string `json:"provider"`
	Model    string `json:"model"`

	// Individual check results
	Checks map[string]string `json:"checks"`

	// List of issues (only present if status is unhealthy)
	Issues []string `json:"issues,omitempty"`
}

// ServeHTTP handles HTTP requests for health checks.
// Returns 200 OK if healthy, 503 Service Unavailable if the API key is missing.
// The model itself is not called, to keep the check free of quota and latency.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	status := h.chatService.Status(ctx)

	checks := make(map[string]string)
	var issues []string

	if status.APIKeyConfigured {
		checks["api_key"] = "ok"
	} else {
		checks["api_key"] = "missing"
		issues = append(issues, "api_key_not_configured")
	}

	if status.Thinking {
		checks["chat"] = "busy"
	} else {
		checks["chat"] = "idle"
	}

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Provider:  h.provider,
		Model:     h.model,
		Checks:    checks,
	}

	httpStatus := http.StatusOK
	if len(issues) > 0 {
		response.Status = "unhealthy"
		response.Issues = issues
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(ctx, w, httpStatus, response)
}
