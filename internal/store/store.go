// Package store holds the in-memory mirror of the remote diary rows.
//
// The store is the single source of truth for every derived view. It is
// mutated by local optimistic writes and by inbound push events, both funneled
// through the same idempotent per-id rules, so a local apply followed by its
// own remote echo converges without duplication. Rows are kept in arrival
// order; ordered views re-sort explicitly.
package store

import (
	"sync"

	"github.com/hanlee/daylink/internal/models"
)

// Store mirrors the diary_logs and todos tables.
type Store struct {
	mu    sync.RWMutex
	logs  []models.LogEntry
	todos []models.TodoItem
}

// New creates an empty store.
func New() *Store {
	return &Store{}
}

// Reset replaces the full contents, used by bulk fetch on load.
func (s *Store) Reset(logs []models.LogEntry, todos []models.TodoItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append([]models.LogEntry(nil), logs...)
	s.todos = append([]models.TodoItem(nil), todos...)
}

// InsertLog appends the row unless a row with that id already exists.
// Duplicate inserts are no-ops, making event replay idempotent.
func (s *Store) InsertLog(e models.LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findLog(e.ID) >= 0 {
		return
	}
	s.logs = append(s.logs, e)
}

// UpdateLog replaces the row matching id wholesale. Updating a missing id is
// a no-op; the update may have raced ahead of its insert.
func (s *Store) UpdateLog(e models.LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.findLog(e.ID); i >= 0 {
		s.logs[i] = e
	}
}

// RemoveLog deletes the row by id; removing a missing id is a no-op.
func (s *Store) RemoveLog(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.findLog(id); i >= 0 {
		s.logs = append(s.logs[:i], s.logs[i+1:]...)
	}
}

// InsertTodo appends the row unless a row with that id already exists.
func (s *Store) InsertTodo(t models.TodoItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findTodo(t.ID) >= 0 {
		return
	}
	s.todos = append(s.todos, t)
}

// UpdateTodo replaces the row matching id wholesale; missing id is a no-op.
func (s *Store) UpdateTodo(t models.TodoItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.findTodo(t.ID); i >= 0 {
		s.todos[i] = t
	}
}

// RemoveTodo deletes the row by id; missing id is a no-op.
func (s *Store) RemoveTodo(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.findTodo(id); i >= 0 {
		s.todos = append(s.todos[:i], s.todos[i+1:]...)
	}
}

// Logs returns a copy of all log rows in arrival order.
func (s *Store) Logs() []models.LogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.LogEntry(nil), s.logs...)
}

// Todos returns a copy of all todo rows in arrival order.
func (s *Store) Todos() []models.TodoItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.TodoItem(nil), s.todos...)
}

// LogsOn returns the log rows for one date key, arrival order.
func (s *Store) LogsOn(dateKey string) []models.LogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.LogEntry
	for _, e := range s.logs {
		if e.DateKey == dateKey {
			out = append(out, e)
		}
	}
	return out
}

// TodosOn returns the todo rows for one date key, arrival order.
func (s *Store) TodosOn(dateKey string) []models.TodoItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.TodoItem
	for _, t := range s.todos {
		if t.DateKey == dateKey {
			out = append(out, t)
		}
	}
	return out
}

// Log looks up one log row by id.
func (s *Store) Log(id string) (models.LogEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.findLog(id); i >= 0 {
		return s.logs[i], true
	}
	return models.LogEntry{}, false
}

// Todo looks up one todo row by id.
func (s *Store) Todo(id string) (models.TodoItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.findTodo(id); i >= 0 {
		return s.todos[i], true
	}
	return models.TodoItem{}, false
}

func (s *Store) findLog(id string) int {
	for i := range s.logs {
		if s.logs[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) findTodo(id string) int {
	for i := range s.todos {
		if s.todos[i].ID == id {
			return i
		}
	}
	return -1
}
