// Package models defines the domain types for daylink.
package models

import "time"

// LogEntry is one dated journal record. DateKey is the canonical YYYY-MM-DD
// day the entry belongs to and never changes after creation. LinkedDate is
// set from the first valid inline tag at creation time and is not recomputed
// when the content is edited.
type LogEntry struct {
	ID         string    `json:"id"`
	DateKey    string    `json:"date_key"`
	Content    string    `json:"content"`
	LinkedDate string    `json:"linked_date,omitempty"`
	AuthorID   string    `json:"author_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// TodoItem is a per-date to-do row. IsCompleted is the only mutable flag.
type TodoItem struct {
	ID          string    `json:"id"`
	DateKey     string    `json:"date_key"`
	Content     string    `json:"content"`
	IsCompleted bool      `json:"is_completed"`
	AuthorID    string    `json:"author_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// EventType identifies the kind of remote change.
type EventType string

// Change event kinds delivered by the push stream.
const (
	EventInsert EventType = "INSERT"
	EventUpdate EventType = "UPDATE"
	EventDelete EventType = "DELETE"
)

// Table identifies which entity collection an event belongs to.
type Table string

// Entity tables covered by the push stream.
const (
	TableLogs  Table = "diary_logs"
	TableTodos Table = "todos"
)

// ChangeEvent is one inbound change from the push stream. Exactly one of Log
// or Todo is set, matching Table. For deletes the payload carries at least
// the row id.
type ChangeEvent struct {
	Type  EventType `json:"event_type"`
	Table Table     `json:"table"`
	Log   *LogEntry `json:"log,omitempty"`
	Todo  *TodoItem `json:"todo,omitempty"`
}

// LogInsert builds an insert event for a log row.
func LogInsert(e LogEntry) ChangeEvent {
	return ChangeEvent{Type: EventInsert, Table: TableLogs, Log: &e}
}

// LogUpdate builds an update event carrying the full replacement row.
func LogUpdate(e LogEntry) ChangeEvent {
	return ChangeEvent{Type: EventUpdate, Table: TableLogs, Log: &e}
}

// LogDelete builds a delete event; only the id is required.
func LogDelete(id string) ChangeEvent {
	return ChangeEvent{Type: EventDelete, Table: TableLogs, Log: &LogEntry{ID: id}}
}

// TodoInsert builds an insert event for a todo row.
func TodoInsert(t TodoItem) ChangeEvent {
	return ChangeEvent{Type: EventInsert, Table: TableTodos, Todo: &t}
}

// TodoUpdate builds an update event carrying the full replacement row.
func TodoUpdate(t TodoItem) ChangeEvent {
	return ChangeEvent{Type: EventUpdate, Table: TableTodos, Todo: &t}
}

// TodoDelete builds a delete event; only the id is required.
func TodoDelete(id string) ChangeEvent {
	return ChangeEvent{Type: EventDelete, Table: TableTodos, Todo: &TodoItem{ID: id}}
}
