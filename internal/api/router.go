package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hanlee/daylink/internal/diaryservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced; userID is the
// identity requests act as. sseHandler, if non-nil, is mounted at GET /events
// inside the auth group.
func NewRouter(svc *diaryservice.Service, authEnabled bool, token, userID string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token, userID))

	// Log entries.
	r.Get("/logs", h.ListLogs)
	r.Post("/logs", h.CreateLog)
	r.Put("/logs/{id}", h.UpdateLog)
	r.Delete("/logs/{id}", h.DeleteLog)

	// Todos.
	r.Get("/todos", h.ListTodos)
	r.Post("/todos", h.CreateTodo)
	r.Put("/todos/{id}/toggle", h.ToggleTodo)
	r.Delete("/todos/{id}", h.DeleteTodo)

	// Derived month views.
	r.Get("/calendar", h.Calendar)
	r.Get("/search", h.Search)
	r.Get("/links", h.Links)

	// SSE endpoint (protected by the same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
