// Package search implements month-scoped substring search over log content.
package search

import (
	"strings"
	"sync"
	"time"

	"github.com/hanlee/daylink/internal/dateutil"
	"github.com/hanlee/daylink/internal/store"
)

// Engine holds the query state. The query persists across month navigation;
// only the match set is recomputed when the displayed month changes.
type Engine struct {
	mu    sync.RWMutex
	query string
}

// NewEngine creates an engine with no active query.
func NewEngine() *Engine {
	return &Engine{}
}

// SetQuery replaces the current query.
func (e *Engine) SetQuery(q string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.query = q
}

// Query returns the current query string.
func (e *Engine) Query() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.query
}

// Active reports whether a non-whitespace query is set. An inactive search
// matches nothing rather than everything.
func (e *Engine) Active() bool {
	return strings.TrimSpace(e.Query()) != ""
}

// Matches returns the date keys within month that have at least one log whose
// content contains the query, case-insensitively. Entries outside the
// displayed month never match, even when they contain the query.
func (e *Engine) Matches(st *store.Store, month time.Time) map[string]struct{} {
	out := make(map[string]struct{})
	if !e.Active() {
		return out
	}
	needle := strings.ToLower(strings.TrimSpace(e.Query()))

	for _, entry := range st.Logs() {
		if !dateutil.InMonthKey(entry.DateKey, month) {
			continue
		}
		if strings.Contains(strings.ToLower(entry.Content), needle) {
			out[entry.DateKey] = struct{}{}
		}
	}
	return out
}
