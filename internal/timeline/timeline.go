// Package timeline orders a single day's log entries and manages the
// chat-style send/edit/delete operations plus scroll and highlight focus.
package timeline

import (
	"context"
	"sort"
	"time"

	"github.com/hanlee/daylink/internal/diaryservice"
	"github.com/hanlee/daylink/internal/models"
	"github.com/hanlee/daylink/internal/store"
)

// HighlightTTL is how long a focused entry keeps its highlight decoration.
const HighlightTTL = 4 * time.Second

// ScrollKind tells the renderer where to scroll after a change.
type ScrollKind int

// Scroll decisions, in precedence order.
const (
	ScrollNone ScrollKind = iota
	ScrollToEntry
	ScrollToBottom
)

// Scroll is the outcome of NextScroll.
type Scroll struct {
	Kind    ScrollKind
	EntryID string // set for ScrollToEntry
}

// Controller presents one date's entries. It holds only transient view state
// (input buffer, focus id, last seen count); the store remains the single
// owner of the entries themselves.
type Controller struct {
	dateKey string
	svc     *diaryservice.Service
	st      *store.Store

	input       string
	focusID     string
	focusUntil  time.Time
	focusFresh  bool
	prevCount   int
	initialized bool
}

// NewController creates a controller for dateKey.
func NewController(dateKey string, svc *diaryservice.Service) *Controller {
	return &Controller{dateKey: dateKey, svc: svc, st: svc.Store()}
}

// DateKey returns the date this controller presents.
func (c *Controller) DateKey() string {
	return c.dateKey
}

// Entries returns the day's entries sorted by creation time ascending.
func (c *Controller) Entries() []models.LogEntry {
	entries := c.st.LogsOn(c.dateKey)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
	return entries
}

// SetInput replaces the input buffer.
func (c *Controller) SetInput(text string) {
	c.input = text
}

// Input returns the current input buffer.
func (c *Controller) Input() string {
	return c.input
}

// Send submits the input buffer as a new entry. Validation and identity
// failures surface before any backend call and leave the buffer intact so
// the user can correct it. On success the buffer and any highlight focus are
// cleared.
func (c *Controller) Send(ctx context.Context) (models.LogEntry, error) {
	entry, err := c.svc.SendLog(ctx, c.dateKey, c.input)
	if err != nil {
		return models.LogEntry{}, err
	}
	c.input = ""
	c.clearFocus()
	return entry, nil
}

// Edit replaces an entry's content in place; the linked date is untouched.
func (c *Controller) Edit(ctx context.Context, id, content string) (models.LogEntry, error) {
	return c.svc.EditLog(ctx, id, content)
}

// Delete removes an entry. Deleting the currently focused entry clears the
// focus; other entries keep their order.
func (c *Controller) Delete(ctx context.Context, id string) error {
	if err := c.svc.DeleteLog(ctx, id); err != nil {
		return err
	}
	if c.focusID == id {
		c.clearFocus()
	}
	return nil
}

// Focus requests scroll-and-highlight on one entry (cross-link navigation).
func (c *Controller) Focus(id string) {
	c.focusID = id
	c.focusUntil = time.Now().Add(HighlightTTL)
	c.focusFresh = true
}

// Highlighted returns the id of the entry whose highlight decoration is
// still active at now, or "".
func (c *Controller) Highlighted(now time.Time) string {
	if c.focusID != "" && now.Before(c.focusUntil) {
		return c.focusID
	}
	return ""
}

// NextScroll decides where the renderer should scroll. A pending focus
// target takes precedence; otherwise the view scrolls to the newest entry
// only when the entry count actually increased, never on a plain re-render.
func (c *Controller) NextScroll(now time.Time) Scroll {
	count := len(c.Entries())
	defer func() {
		c.prevCount = count
		c.initialized = true
	}()

	if c.focusFresh && c.focusID != "" && now.Before(c.focusUntil) {
		c.focusFresh = false
		return Scroll{Kind: ScrollToEntry, EntryID: c.focusID}
	}
	if c.initialized && count > c.prevCount {
		return Scroll{Kind: ScrollToBottom}
	}
	return Scroll{Kind: ScrollNone}
}

func (c *Controller) clearFocus() {
	c.focusID = ""
	c.focusUntil = time.Time{}
	c.focusFresh = false
}
