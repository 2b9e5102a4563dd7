package handlers

import (
	"encoding/json"
	"net/http"

	"mindmate/internal/contextutil"
	"mindmate/internal/service"
)

// maxRenderBody caps the size of text accepted by the render endpoint.
const maxRenderBody = 1 << 20

// RenderHandler converts arbitrary reply text to HTML without calling the model.
type RenderHandler struct {
	renderer service.Renderer
}

// NewRenderHandler creates a new RenderHandler.
func NewRenderHandler(renderer service.Renderer) *RenderHandler {
	return &RenderHandler{renderer: renderer}
}

// RenderRequest is the payload for POST /api/render.
type RenderRequest struct {
	Text string `json:"text"`
}

// RenderResponse carries the rendered fragment.
type RenderResponse struct {
	HTML string `json:"html"`
}

// ServeHTTP renders the posted text.
func (h *RenderHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req RenderRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRenderBody)).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid render body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	writeJSON(ctx, w, http.StatusOK, RenderResponse{HTML: h.renderer.Render(req.Text)})
}
