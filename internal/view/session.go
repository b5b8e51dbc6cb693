// Package view composes the store, search engine and derived builders into a
// calendar session: one displayed month, one persistent query, and a
// reconciliation pump that folds pushed changes into the local mirror.
package view

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hanlee/daylink/internal/dateutil"
	"github.com/hanlee/daylink/internal/diaryservice"
	"github.com/hanlee/daylink/internal/grid"
	"github.com/hanlee/daylink/internal/links"
	"github.com/hanlee/daylink/internal/models"
	"github.com/hanlee/daylink/internal/search"
	"github.com/hanlee/daylink/internal/sse"
	"github.com/hanlee/daylink/internal/store"
	"github.com/hanlee/daylink/internal/timeline"
)

// Session is one client's calendar state. Writes go through the service and
// land in the mirror twice, once optimistically and once via the broker echo;
// the store's idempotent merge keeps the second application a no-op.
type Session struct {
	svc    *diaryservice.Service
	st     *store.Store
	broker *sse.Broker
	search *search.Engine

	mu    sync.Mutex
	month time.Time

	events chan models.ChangeEvent
	pumped chan struct{}
}

// Open bulk-loads the mirror, subscribes to the change stream and starts the
// reconciliation pump. The session starts on now's month.
func Open(ctx context.Context, svc *diaryservice.Service, broker *sse.Broker, now time.Time) (*Session, error) {
	if err := svc.LoadAll(ctx); err != nil {
		return nil, fmt.Errorf("view: initial load: %w", err)
	}

	s := &Session{
		svc:    svc,
		st:     svc.Store(),
		broker: broker,
		search: search.NewEngine(),
		month:  dateutil.MonthStart(now),
		pumped: make(chan struct{}),
	}

	if broker != nil {
		s.events = broker.SubscribeChanges()
		go s.pump()
	} else {
		close(s.pumped)
	}
	return s, nil
}

// pump applies pushed changes until the subscription channel closes. Events
// arrive in arbitrary interleavings with local writes; every handler in the
// store tolerates duplicates and unknown ids, so order does not matter.
func (s *Session) pump() {
	defer close(s.pumped)
	for ev := range s.events {
		s.st.Apply(ev)
	}
}

// Close detaches from the change stream and waits for the pump to drain.
func (s *Session) Close() {
	if s.broker != nil && s.events != nil {
		s.broker.UnsubscribeChanges(s.events)
	}
	<-s.pumped
}

// Month returns the first day of the displayed month.
func (s *Session) Month() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.month
}

// SetMonth jumps the view to t's month.
func (s *Session) SetMonth(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.month = dateutil.MonthStart(t)
}

// NextMonth advances the displayed month by one.
func (s *Session) NextMonth() {
	s.shift(1)
}

// PrevMonth moves the displayed month back by one.
func (s *Session) PrevMonth() {
	s.shift(-1)
}

func (s *Session) shift(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.month = dateutil.AddMonths(s.month, n)
}

// GoToday returns the view to now's month.
func (s *Session) GoToday(now time.Time) {
	s.SetMonth(now)
}

// Search exposes the session's query engine. The query persists across month
// navigation; matches are recomputed against the displayed month on each
// Days call.
func (s *Session) Search() *search.Engine {
	return s.search
}

// Days builds the current month's grid with search matches applied.
func (s *Session) Days(now time.Time) []grid.Day {
	month := s.Month()
	return grid.Build(month, now, s.st, s.search.Matches(s.st, month))
}

// LinkDates aggregates the displayed month's link targets.
func (s *Session) LinkDates() []string {
	return links.MonthDates(s.st, s.Month())
}

// LinkDetail lists the linking entries on one date.
func (s *Session) LinkDetail(dateKey string) []models.LogEntry {
	return links.Detail(s.st, dateKey)
}

// Timeline creates a controller for one date's entries.
func (s *Session) Timeline(dateKey string) *timeline.Controller {
	return timeline.NewController(dateKey, s.svc)
}

// Store exposes the underlying mirror, mainly for read handlers.
func (s *Session) Store() *store.Store {
	return s.st
}
