// Package backend implements the durable backing store for diary rows.
package backend

import "github.com/hanlee/daylink/internal/models"

// Provider is the backing-store contract consumed by the service layer:
// bulk fetch, id-assigning inserts, and owner-scoped mutation. Mutating a row
// that does not exist, or that belongs to another author, reports
// apperr.ErrNotFound.
type Provider interface {
	FetchLogs() ([]models.LogEntry, error)
	FetchTodos() ([]models.TodoItem, error)

	InsertLog(dateKey, content, linkedDate, authorID string) (models.LogEntry, error)
	UpdateLogContent(id, content, authorID string) (models.LogEntry, error)
	DeleteLog(id, authorID string) error

	InsertTodo(dateKey, content, authorID string) (models.TodoItem, error)
	SetTodoCompleted(id string, completed bool, authorID string) (models.TodoItem, error)
	DeleteTodo(id, authorID string) error

	Close() error
}

// Verify *DB satisfies Provider at compile time.
var _ Provider = (*DB)(nil)
