// Package links aggregates the cross-date link targets of a month.
package links

import (
	"sort"
	"time"

	"github.com/hanlee/daylink/internal/dateutil"
	"github.com/hanlee/daylink/internal/models"
	"github.com/hanlee/daylink/internal/store"
)

// DisplayLimit is the default number of link chips shown before truncation.
const DisplayLimit = 5

// MonthDates returns the deduplicated, ascending list of linked target dates
// referenced by entries whose source date falls inside month. Lexicographic
// order on canonical keys is chronological order.
func MonthDates(st *store.Store, month time.Time) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, e := range st.Logs() {
		if e.LinkedDate == "" {
			continue
		}
		if !dateutil.InMonthKey(e.DateKey, month) {
			continue
		}
		if _, dup := seen[e.LinkedDate]; dup {
			continue
		}
		seen[e.LinkedDate] = struct{}{}
		out = append(out, e.LinkedDate)
	}
	sort.Strings(out)
	return out
}

// Detail lists every entry on dateKey that itself carries a link, ordered by
// creation time. Selecting one navigates the timeline to that entry's owning
// date with the entry id as focus target.
func Detail(st *store.Store, dateKey string) []models.LogEntry {
	var out []models.LogEntry
	for _, e := range st.LogsOn(dateKey) {
		if e.LinkedDate != "" {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// View is the truncated presentation of a month's link dates with an
// expand/collapse toggle. Toggling never refetches or reorders the data.
type View struct {
	dates    []string
	limit    int
	expanded bool
}

// NewView wraps dates with the given display limit (<=0 means DisplayLimit).
func NewView(dates []string, limit int) *View {
	if limit <= 0 {
		limit = DisplayLimit
	}
	return &View{dates: dates, limit: limit}
}

// Visible returns the currently shown dates.
func (v *View) Visible() []string {
	if v.expanded || len(v.dates) <= v.limit {
		return append([]string(nil), v.dates...)
	}
	return append([]string(nil), v.dates[:v.limit]...)
}

// HiddenCount returns how many dates the collapsed view hides.
func (v *View) HiddenCount() int {
	if v.expanded || len(v.dates) <= v.limit {
		return 0
	}
	return len(v.dates) - v.limit
}

// Expanded reports the toggle state.
func (v *View) Expanded() bool {
	return v.expanded
}

// Toggle flips between the truncated and full presentation.
func (v *View) Toggle() {
	v.expanded = !v.expanded
}
