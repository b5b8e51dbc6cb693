// Package grid derives the rendered calendar day sequence for one month.
package grid

import (
	"time"

	"github.com/hanlee/daylink/internal/dateutil"
	"github.com/hanlee/daylink/internal/models"
	"github.com/hanlee/daylink/internal/store"
)

// TodoPreviewLimit bounds the per-day todo preview.
const TodoPreviewLimit = 3

// Day is one derived calendar cell. Cells outside the current month are kept
// in the sequence (the grid always covers whole weeks) but flagged so the
// caller excludes them from click-to-open and add-todo actions.
type Day struct {
	Date          time.Time         `json:"date"`
	Key           string            `json:"key"`
	InMonth       bool              `json:"in_month"`
	IsToday       bool              `json:"is_today"`
	HasLog        bool              `json:"has_log"`
	HasLink       bool              `json:"has_link"`
	IsSearchMatch bool              `json:"is_search_match"`
	TodoPreview   []models.TodoItem `json:"todo_preview,omitempty"`
}

// Build derives the day sequence for the month containing month, covering
// complete weeks: the result length is always a multiple of 7. matches is
// the active search result set (nil when search is inactive); only days in
// it are flagged IsSearchMatch.
func Build(month, today time.Time, st *store.Store, matches map[string]struct{}) []Day {
	logs := st.Logs()
	todos := st.Todos()

	hasLog := make(map[string]bool)
	hasLink := make(map[string]bool)
	for _, e := range logs {
		hasLog[e.DateKey] = true
		if e.LinkedDate != "" {
			hasLink[e.DateKey] = true
		}
	}

	// First TodoPreviewLimit per day, store order; completed items are kept
	// here and suppressed visually elsewhere.
	preview := make(map[string][]models.TodoItem)
	for _, t := range todos {
		if len(preview[t.DateKey]) < TodoPreviewLimit {
			preview[t.DateKey] = append(preview[t.DateKey], t)
		}
	}

	var days []Day
	for _, d := range dateutil.GridDays(month) {
		key := dateutil.Key(d)
		_, match := matches[key]
		days = append(days, Day{
			Date:          d,
			Key:           key,
			InMonth:       dateutil.SameMonth(d, month),
			IsToday:       dateutil.SameDay(d, today),
			HasLog:        hasLog[key],
			HasLink:       hasLink[key],
			IsSearchMatch: match,
			TodoPreview:   preview[key],
		})
	}
	return days
}
