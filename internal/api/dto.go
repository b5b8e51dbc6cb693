package api

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/hanlee/daylink/internal/grid"
	"github.com/hanlee/daylink/internal/models"
)

var dateKeyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// CreateLogRequest is the request body for appending a log entry.
type CreateLogRequest struct {
	DateKey string `json:"date_key"`
	Content string `json:"content"`
}

// Validate checks the request shape. Content semantics (empty after trim,
// impossible tag dates) are enforced by the service layer.
func (r CreateLogRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DateKey, validation.Required, validation.Match(dateKeyPattern)),
		validation.Field(&r.Content, validation.Required),
	)
}

// UpdateLogRequest is the request body for editing a log entry's content.
type UpdateLogRequest struct {
	Content string `json:"content"`
}

// Validate checks the request shape.
func (r UpdateLogRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Content, validation.Required),
	)
}

// CreateTodoRequest is the request body for adding a todo.
type CreateTodoRequest struct {
	DateKey string `json:"date_key"`
	Content string `json:"content"`
}

// Validate checks the request shape.
func (r CreateTodoRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DateKey, validation.Required, validation.Match(dateKeyPattern)),
		validation.Field(&r.Content, validation.Required),
	)
}

// LogListResponse wraps a day's log entries.
type LogListResponse struct {
	Logs []models.LogEntry `json:"logs"`
}

// TodoListResponse wraps a day's todos.
type TodoListResponse struct {
	Todos []models.TodoItem `json:"todos"`
}

// CalendarResponse is the derived month grid plus its link aggregation.
type CalendarResponse struct {
	Month     string     `json:"month"`
	Days      []grid.Day `json:"days"`
	LinkDates []string   `json:"link_dates"`
}

// SearchResponse lists the date keys matching a month-scoped query.
type SearchResponse struct {
	Month   string   `json:"month"`
	Query   string   `json:"query"`
	Matches []string `json:"matches"`
}

// LinksResponse lists a month's aggregated link targets.
type LinksResponse struct {
	Month string   `json:"month"`
	Dates []string `json:"dates"`
}
