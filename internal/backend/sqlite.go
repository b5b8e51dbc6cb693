package backend

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/hanlee/daylink/internal/apperr"
	"github.com/hanlee/daylink/internal/models"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS diary_logs (
	id          TEXT PRIMARY KEY,
	date_key    TEXT NOT NULL,
	content     TEXT NOT NULL,
	linked_date TEXT NOT NULL DEFAULT '',
	author_id   TEXT NOT NULL,
	created_at  DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS todos (
	id           TEXT PRIMARY KEY,
	date_key     TEXT NOT NULL,
	content      TEXT NOT NULL,
	is_completed INTEGER NOT NULL DEFAULT 0,
	author_id    TEXT NOT NULL,
	created_at   DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_logs_date ON diary_logs(date_key);
CREATE INDEX IF NOT EXISTS idx_todos_date ON todos(date_key);
`

// DB wraps a sql.DB with diary-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("backend: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("backend: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("backend: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// FetchLogs returns every log row. No pagination at this layer.
func (db *DB) FetchLogs() ([]models.LogEntry, error) {
	rows, err := db.conn.Query(`SELECT id, date_key, content, linked_date, author_id, created_at FROM diary_logs`)
	if err != nil {
		return nil, fmt.Errorf("backend: fetch logs: %w", err)
	}
	defer rows.Close()

	var out []models.LogEntry
	for rows.Next() {
		var e models.LogEntry
		if err := rows.Scan(&e.ID, &e.DateKey, &e.Content, &e.LinkedDate, &e.AuthorID, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// FetchTodos returns every todo row.
func (db *DB) FetchTodos() ([]models.TodoItem, error) {
	rows, err := db.conn.Query(`SELECT id, date_key, content, is_completed, author_id, created_at FROM todos`)
	if err != nil {
		return nil, fmt.Errorf("backend: fetch todos: %w", err)
	}
	defer rows.Close()

	var out []models.TodoItem
	for rows.Next() {
		var t models.TodoItem
		if err := rows.Scan(&t.ID, &t.DateKey, &t.Content, &t.IsCompleted, &t.AuthorID, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// InsertLog stores a new log row, assigning id and creation timestamp.
func (db *DB) InsertLog(dateKey, content, linkedDate, authorID string) (models.LogEntry, error) {
	e := models.LogEntry{
		ID:         uuid.NewString(),
		DateKey:    dateKey,
		Content:    content,
		LinkedDate: linkedDate,
		AuthorID:   authorID,
		CreatedAt:  time.Now(),
	}
	_, err := db.conn.Exec(`
		INSERT INTO diary_logs (id, date_key, content, linked_date, author_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.ID, e.DateKey, e.Content, e.LinkedDate, e.AuthorID, e.CreatedAt)
	if err != nil {
		return models.LogEntry{}, fmt.Errorf("backend: insert log: %w", err)
	}
	return e, nil
}

// UpdateLogContent replaces the content of the author's row. The stored
// linked_date is left untouched; links are fixed at creation time.
func (db *DB) UpdateLogContent(id, content, authorID string) (models.LogEntry, error) {
	res, err := db.conn.Exec(`
		UPDATE diary_logs SET content = ? WHERE id = ? AND author_id = ?
	`, content, id, authorID)
	if err != nil {
		return models.LogEntry{}, fmt.Errorf("backend: update log: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.LogEntry{}, apperr.ErrNotFound
	}
	return db.getLog(id)
}

// DeleteLog removes the author's row.
func (db *DB) DeleteLog(id, authorID string) error {
	res, err := db.conn.Exec(`DELETE FROM diary_logs WHERE id = ? AND author_id = ?`, id, authorID)
	if err != nil {
		return fmt.Errorf("backend: delete log: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// InsertTodo stores a new todo row, assigning id and creation timestamp.
func (db *DB) InsertTodo(dateKey, content, authorID string) (models.TodoItem, error) {
	t := models.TodoItem{
		ID:        uuid.NewString(),
		DateKey:   dateKey,
		Content:   content,
		AuthorID:  authorID,
		CreatedAt: time.Now(),
	}
	_, err := db.conn.Exec(`
		INSERT INTO todos (id, date_key, content, is_completed, author_id, created_at)
		VALUES (?, ?, ?, 0, ?, ?)
	`, t.ID, t.DateKey, t.Content, t.AuthorID, t.CreatedAt)
	if err != nil {
		return models.TodoItem{}, fmt.Errorf("backend: insert todo: %w", err)
	}
	return t, nil
}

// SetTodoCompleted writes the completion flag on the author's row.
func (db *DB) SetTodoCompleted(id string, completed bool, authorID string) (models.TodoItem, error) {
	res, err := db.conn.Exec(`
		UPDATE todos SET is_completed = ? WHERE id = ? AND author_id = ?
	`, completed, id, authorID)
	if err != nil {
		return models.TodoItem{}, fmt.Errorf("backend: set todo completed: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.TodoItem{}, apperr.ErrNotFound
	}
	return db.getTodo(id)
}

// DeleteTodo removes the author's row.
func (db *DB) DeleteTodo(id, authorID string) error {
	res, err := db.conn.Exec(`DELETE FROM todos WHERE id = ? AND author_id = ?`, id, authorID)
	if err != nil {
		return fmt.Errorf("backend: delete todo: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (db *DB) getLog(id string) (models.LogEntry, error) {
	var e models.LogEntry
	err := db.conn.QueryRow(`
		SELECT id, date_key, content, linked_date, author_id, created_at
		FROM diary_logs WHERE id = ?
	`, id).Scan(&e.ID, &e.DateKey, &e.Content, &e.LinkedDate, &e.AuthorID, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.LogEntry{}, apperr.ErrNotFound
	}
	if err != nil {
		return models.LogEntry{}, fmt.Errorf("backend: get log: %w", err)
	}
	return e, nil
}

func (db *DB) getTodo(id string) (models.TodoItem, error) {
	var t models.TodoItem
	err := db.conn.QueryRow(`
		SELECT id, date_key, content, is_completed, author_id, created_at
		FROM todos WHERE id = ?
	`, id).Scan(&t.ID, &t.DateKey, &t.Content, &t.IsCompleted, &t.AuthorID, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.TodoItem{}, apperr.ErrNotFound
	}
	if err != nil {
		return models.TodoItem{}, fmt.Errorf("backend: get todo: %w", err)
	}
	return t, nil
}
