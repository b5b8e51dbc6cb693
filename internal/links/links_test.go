package links

import (
	"reflect"
	"testing"
	"time"

	"github.com/hanlee/daylink/internal/models"
	"github.com/hanlee/daylink/internal/store"
)

func jan() time.Time { return time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC) }

func TestMonthDates_DedupedSorted(t *testing.T) {
	st := store.New()
	st.InsertLog(models.LogEntry{ID: "a", DateKey: "2026-01-02", LinkedDate: "2026-01-20"})
	st.InsertLog(models.LogEntry{ID: "b", DateKey: "2026-01-03", LinkedDate: "2026-01-05"})
	st.InsertLog(models.LogEntry{ID: "c", DateKey: "2026-01-09", LinkedDate: "2026-01-20"})

	got := MonthDates(st, jan())
	want := []string{"2026-01-05", "2026-01-20"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MonthDates = %v, want %v", got, want)
	}
}

func TestMonthDates_SourceScopedToMonth(t *testing.T) {
	st := store.New()
	st.InsertLog(models.LogEntry{ID: "a", DateKey: "2025-12-31", LinkedDate: "2026-01-20"})
	st.InsertLog(models.LogEntry{ID: "b", DateKey: "2026-01-02", LinkedDate: "2026-07-07"})
	st.InsertLog(models.LogEntry{ID: "c", DateKey: "2026-01-04"})

	got := MonthDates(st, jan())
	// Only b's target counts: a's source is outside January, c has no link.
	// Targets outside the month still count; scoping is by source date.
	want := []string{"2026-07-07"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MonthDates = %v, want %v", got, want)
	}
}

func TestDetail_OnlyLinkedEntriesInCreationOrder(t *testing.T) {
	st := store.New()
	base := time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC)
	st.InsertLog(models.LogEntry{ID: "late", DateKey: "2026-01-05", LinkedDate: "2026-01-20", CreatedAt: base.Add(2 * time.Hour)})
	st.InsertLog(models.LogEntry{ID: "plain", DateKey: "2026-01-05", CreatedAt: base.Add(time.Hour)})
	st.InsertLog(models.LogEntry{ID: "early", DateKey: "2026-01-05", LinkedDate: "2026-01-07", CreatedAt: base})

	got := Detail(st, "2026-01-05")
	if len(got) != 2 || got[0].ID != "early" || got[1].ID != "late" {
		t.Errorf("Detail = %+v", got)
	}
}

func TestView_TruncationAndToggle(t *testing.T) {
	dates := []string{"2026-01-01", "2026-01-02", "2026-01-03", "2026-01-04", "2026-01-05", "2026-01-06", "2026-01-07"}
	v := NewView(dates, 5)

	if got := v.Visible(); len(got) != 5 {
		t.Fatalf("collapsed visible = %v", got)
	}
	if v.HiddenCount() != 2 {
		t.Errorf("hidden = %d, want 2", v.HiddenCount())
	}

	v.Toggle()
	if !v.Expanded() {
		t.Error("expected expanded after toggle")
	}
	if got := v.Visible(); !reflect.DeepEqual(got, dates) {
		t.Errorf("expanded visible = %v", got)
	}

	v.Toggle()
	if got := v.Visible(); len(got) != 5 || got[0] != "2026-01-01" {
		t.Errorf("collapse must restore the same prefix, got %v", got)
	}
}

func TestView_UnderLimitShowsAll(t *testing.T) {
	v := NewView([]string{"2026-01-01"}, 5)
	if v.HiddenCount() != 0 || len(v.Visible()) != 1 {
		t.Errorf("visible = %v hidden = %d", v.Visible(), v.HiddenCount())
	}
}
