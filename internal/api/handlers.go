package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hanlee/daylink/internal/apperr"
	"github.com/hanlee/daylink/internal/dateutil"
	"github.com/hanlee/daylink/internal/diaryservice"
	"github.com/hanlee/daylink/internal/grid"
	"github.com/hanlee/daylink/internal/links"
	"github.com/hanlee/daylink/internal/search"
	"github.com/hanlee/daylink/internal/store"
)

// Handler holds API route handlers.
type Handler struct {
	svc *diaryservice.Service
	st  *store.Store
}

// NewHandler creates a new Handler.
func NewHandler(svc *diaryservice.Service) *Handler {
	return &Handler{svc: svc, st: svc.Store()}
}

// writeErr maps service errors to HTTP status codes.
func writeErr(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrAuthRequired):
		writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

// dateParam validates the ?date query parameter.
func dateParam(r *http.Request) (string, bool) {
	d := r.URL.Query().Get("date")
	return d, dateKeyPattern.MatchString(d)
}

// monthParam parses the ?month query parameter to the month's first day.
func monthParam(r *http.Request) (time.Time, string, bool) {
	raw := r.URL.Query().Get("month")
	m, err := dateutil.ParseMonth(raw)
	if err != nil {
		return time.Time{}, "", false
	}
	return m, raw, true
}

// ListLogs handles GET /api/logs?date=YYYY-MM-DD, returning the day's entries
// in creation order.
func (h *Handler) ListLogs(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'date' must be YYYY-MM-DD"))
		return
	}
	logs := h.st.LogsOn(date)
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].CreatedAt.Before(logs[j].CreatedAt)
	})
	writeJSON(w, http.StatusOK, LogListResponse{Logs: logs})
}

// CreateLog handles POST /api/logs.
func (h *Handler) CreateLog(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req CreateLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	entry, err := h.svc.SendLog(r.Context(), req.DateKey, req.Content)
	if err != nil {
		writeErr(w, "create log", err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// UpdateLog handles PUT /api/logs/{id}. Only the content changes; the linked
// date stays as it was at creation.
func (h *Handler) UpdateLog(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	id := chi.URLParam(r, "id")
	var req UpdateLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	entry, err := h.svc.EditLog(r.Context(), id, req.Content)
	if err != nil {
		writeErr(w, "update log", err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// DeleteLog handles DELETE /api/logs/{id}.
func (h *Handler) DeleteLog(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteLog(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeErr(w, "delete log", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListTodos handles GET /api/todos?date=YYYY-MM-DD.
func (h *Handler) ListTodos(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'date' must be YYYY-MM-DD"))
		return
	}
	writeJSON(w, http.StatusOK, TodoListResponse{Todos: h.st.TodosOn(date)})
}

// CreateTodo handles POST /api/todos.
func (h *Handler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req CreateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	item, err := h.svc.AddTodo(r.Context(), req.DateKey, req.Content)
	if err != nil {
		writeErr(w, "create todo", err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// ToggleTodo handles PUT /api/todos/{id}/toggle. Every call persists, so two
// toggles round-trip back to the original state.
func (h *Handler) ToggleTodo(w http.ResponseWriter, r *http.Request) {
	item, err := h.svc.ToggleTodo(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, "toggle todo", err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// DeleteTodo handles DELETE /api/todos/{id}.
func (h *Handler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteTodo(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeErr(w, "delete todo", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Calendar handles GET /api/calendar?month=YYYY-MM[&q=...], returning the
// derived month grid (whole weeks) plus the month's link aggregation. The
// optional q applies month-scoped search highlighting.
func (h *Handler) Calendar(w http.ResponseWriter, r *http.Request) {
	month, raw, ok := monthParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'month' must be YYYY-MM"))
		return
	}

	var matches map[string]struct{}
	if q := r.URL.Query().Get("q"); q != "" {
		eng := search.NewEngine()
		eng.SetQuery(q)
		matches = eng.Matches(h.st, month)
	}

	writeJSON(w, http.StatusOK, CalendarResponse{
		Month:     raw,
		Days:      grid.Build(month, time.Now(), h.st, matches),
		LinkDates: links.MonthDates(h.st, month),
	})
}

// Search handles GET /api/search?month=YYYY-MM&q=..., returning the matched
// date keys in ascending order.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	month, raw, ok := monthParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'month' must be YYYY-MM"))
		return
	}
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}

	eng := search.NewEngine()
	eng.SetQuery(q)
	matched := make([]string, 0)
	for key := range eng.Matches(h.st, month) {
		matched = append(matched, key)
	}
	sort.Strings(matched)

	writeJSON(w, http.StatusOK, SearchResponse{Month: raw, Query: q, Matches: matched})
}

// Links handles GET /api/links?month=YYYY-MM.
func (h *Handler) Links(w http.ResponseWriter, r *http.Request) {
	month, raw, ok := monthParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'month' must be YYYY-MM"))
		return
	}
	dates := links.MonthDates(h.st, month)
	if dates == nil {
		dates = []string{}
	}
	writeJSON(w, http.StatusOK, LinksResponse{Month: raw, Dates: dates})
}
