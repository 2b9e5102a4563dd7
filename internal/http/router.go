package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"mindmate/internal/handlers"
	"mindmate/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	ChatService service.ChatService
	Renderer    service.Renderer
	Provider    string // reported by the health check
	Model       string
	IndexHTML   string // Embedded HTML content
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(CORS)

	chatHandler := handlers.NewChatHandler(deps.ChatService)
	messagesHandler := handlers.NewMessagesHandler(deps.ChatService)
	statusHandler := handlers.NewStatusHandler(deps.ChatService)
	renderHandler := handlers.NewRenderHandler(deps.Renderer)
	healthHandler := handlers.NewHealthHandler(deps.ChatService, deps.Provider, deps.Model)

	// Handlers enforce their own methods so clients get JSON errors.
	r.Route("/api", func(r chi.Router) {
		r.Handle("/chat", chatHandler)
		r.Handle("/messages", messagesHandler)
		r.Handle("/status", statusHandler)
		r.Handle("/render", renderHandler)
		r.Handle("/health", healthHandler)
	})

	// Serve HTML page at root
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(deps.IndexHTML))
	})

	return r
}
