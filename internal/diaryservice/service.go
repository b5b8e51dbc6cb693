// Package diaryservice implements the write path for logs and todos:
// validate, gate on identity, persist, apply optimistically, publish.
package diaryservice

import (
	"context"
	"fmt"
	"strings"

	"github.com/hanlee/daylink/internal/apperr"
	"github.com/hanlee/daylink/internal/auth"
	"github.com/hanlee/daylink/internal/backend"
	"github.com/hanlee/daylink/internal/dateutil"
	"github.com/hanlee/daylink/internal/linkparse"
	"github.com/hanlee/daylink/internal/models"
	"github.com/hanlee/daylink/internal/store"
)

// Publisher receives every successful change for fan-out to subscribers.
type Publisher interface {
	PublishChange(models.ChangeEvent)
}

// Service coordinates backend writes with the local mirror.
//
// Successful writes apply to the mirror immediately (optimistic); the
// broker's echo of the same event is absorbed by the store's idempotent
// merge rules. Backend failures leave the mirror untouched and are returned
// to the caller; retry is manual.
type Service struct {
	backend backend.Provider
	store   *store.Store
	pub     Publisher
}

// NewService creates a new diary service. pub may be nil (no fan-out).
func NewService(be backend.Provider, st *store.Store, pub Publisher) *Service {
	return &Service{backend: be, store: st, pub: pub}
}

// Store exposes the local mirror for derived views.
func (s *Service) Store() *store.Store {
	return s.store
}

// LoadAll bulk-fetches both tables and resets the mirror.
func (s *Service) LoadAll(_ context.Context) error {
	logs, err := s.backend.FetchLogs()
	if err != nil {
		return fmt.Errorf("load logs: %w", err)
	}
	todos, err := s.backend.FetchTodos()
	if err != nil {
		return fmt.Errorf("load todos: %w", err)
	}
	s.store.Reset(logs, todos)
	return nil
}

// SendLog validates and persists a new log entry on dateKey.
//
// Empty content and a matched-but-impossible tag date are rejected before any
// backend call; a missing identity aborts with ErrAuthRequired. The first
// valid tag occurrence becomes the entry's linked date.
func (s *Service) SendLog(ctx context.Context, dateKey, content string) (models.LogEntry, error) {
	if strings.TrimSpace(content) == "" {
		return models.LogEntry{}, fmt.Errorf("%w: empty content", apperr.ErrValidation)
	}
	if _, err := dateutil.ParseKey(dateKey); err != nil {
		return models.LogEntry{}, fmt.Errorf("%w: bad date key %q", apperr.ErrValidation, dateKey)
	}

	user, ok := auth.UserFrom(ctx)
	if !ok {
		return models.LogEntry{}, apperr.ErrAuthRequired
	}

	linked := ""
	if tag := linkparse.First(content); tag.HasTag {
		if !tag.Valid {
			return models.LogEntry{}, fmt.Errorf("%w: tag %q is not a calendar date", apperr.ErrValidation, tag.Raw)
		}
		linked = tag.Date
	}

	entry, err := s.backend.InsertLog(dateKey, content, linked, user)
	if err != nil {
		return models.LogEntry{}, err
	}

	ev := models.LogInsert(entry)
	s.store.Apply(ev)
	s.publish(ev)
	return entry, nil
}

// EditLog replaces an entry's content in place. The linked date is not
// recomputed; tags typed into an edit never become links.
func (s *Service) EditLog(ctx context.Context, id, content string) (models.LogEntry, error) {
	if strings.TrimSpace(content) == "" {
		return models.LogEntry{}, fmt.Errorf("%w: empty content", apperr.ErrValidation)
	}
	user, ok := auth.UserFrom(ctx)
	if !ok {
		return models.LogEntry{}, apperr.ErrAuthRequired
	}

	entry, err := s.backend.UpdateLogContent(id, content, user)
	if err != nil {
		return models.LogEntry{}, err
	}

	ev := models.LogUpdate(entry)
	s.store.Apply(ev)
	s.publish(ev)
	return entry, nil
}

// DeleteLog removes an entry. The local row is removed only after the
// backend confirms; a failed delete leaves the mirror unchanged.
func (s *Service) DeleteLog(ctx context.Context, id string) error {
	user, ok := auth.UserFrom(ctx)
	if !ok {
		return apperr.ErrAuthRequired
	}
	if err := s.backend.DeleteLog(id, user); err != nil {
		return err
	}

	ev := models.LogDelete(id)
	s.store.Apply(ev)
	s.publish(ev)
	return nil
}

// AddTodo persists a new todo on dateKey.
func (s *Service) AddTodo(ctx context.Context, dateKey, content string) (models.TodoItem, error) {
	if strings.TrimSpace(content) == "" {
		return models.TodoItem{}, fmt.Errorf("%w: empty content", apperr.ErrValidation)
	}
	if _, err := dateutil.ParseKey(dateKey); err != nil {
		return models.TodoItem{}, fmt.Errorf("%w: bad date key %q", apperr.ErrValidation, dateKey)
	}
	user, ok := auth.UserFrom(ctx)
	if !ok {
		return models.TodoItem{}, apperr.ErrAuthRequired
	}

	item, err := s.backend.InsertTodo(dateKey, content, user)
	if err != nil {
		return models.TodoItem{}, err
	}

	ev := models.TodoInsert(item)
	s.store.Apply(ev)
	s.publish(ev)
	return item, nil
}

// ToggleTodo flips the completion flag. Every toggle is persisted, so two
// toggles issue two update calls and restore the original value.
func (s *Service) ToggleTodo(ctx context.Context, id string) (models.TodoItem, error) {
	user, ok := auth.UserFrom(ctx)
	if !ok {
		return models.TodoItem{}, apperr.ErrAuthRequired
	}

	current, ok := s.store.Todo(id)
	if !ok {
		return models.TodoItem{}, apperr.ErrNotFound
	}

	item, err := s.backend.SetTodoCompleted(id, !current.IsCompleted, user)
	if err != nil {
		return models.TodoItem{}, err
	}

	ev := models.TodoUpdate(item)
	s.store.Apply(ev)
	s.publish(ev)
	return item, nil
}

// DeleteTodo removes a todo after backend confirmation.
func (s *Service) DeleteTodo(ctx context.Context, id string) error {
	user, ok := auth.UserFrom(ctx)
	if !ok {
		return apperr.ErrAuthRequired
	}
	if err := s.backend.DeleteTodo(id, user); err != nil {
		return err
	}

	ev := models.TodoDelete(id)
	s.store.Apply(ev)
	s.publish(ev)
	return nil
}

func (s *Service) publish(ev models.ChangeEvent) {
	if s.pub != nil {
		s.pub.PublishChange(ev)
	}
}
