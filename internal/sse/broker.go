// Package sse implements the push stream for diary changes: typed in-process
// subscriptions for reconcilers plus a Server-Sent Events endpoint for remote
// clients.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/hanlee/daylink/internal/models"
)

// Broker fans change events out to subscribers.
//
// Concurrency model: a single internal event loop (goroutine) owns mutable
// state (clients, typed subscribers, calendar throttle timestamp). Public
// methods communicate with this loop through channels, so no mutexes are
// required.
type Broker struct {
	calendarMin time.Duration

	subscribeCh   chan chan []byte
	unsubscribeCh chan chan []byte
	subChangeCh   chan chan models.ChangeEvent
	unsubChangeCh chan chan models.ChangeEvent
	publishCh     chan models.ChangeEvent
	countReqCh    chan chan int

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// NewBroker creates a broker with the given calendar-signal throttle interval.
func NewBroker(calendarThrottle time.Duration) *Broker {
	if calendarThrottle <= 0 {
		calendarThrottle = 2 * time.Second
	}

	b := &Broker{
		calendarMin:   calendarThrottle,
		subscribeCh:   make(chan chan []byte),
		unsubscribeCh: make(chan chan []byte),
		subChangeCh:   make(chan chan models.ChangeEvent),
		unsubChangeCh: make(chan chan models.ChangeEvent),
		publishCh:     make(chan models.ChangeEvent, 256),
		countReqCh:    make(chan chan int),
		stopCh:        make(chan struct{}),
		stopped:       make(chan struct{}),
	}

	go b.run()
	return b
}

func (b *Broker) run() {
	defer close(b.stopped)

	clients := make(map[chan []byte]struct{})
	changeSubs := make(map[chan models.ChangeEvent]struct{})
	var lastCalendar time.Time

	frame := func(eventName string, data any) []byte {
		payload, err := json.Marshal(data)
		if err != nil {
			return nil
		}
		return []byte(fmt.Sprintf("event: %s\ndata: %s\n\n", eventName, payload))
	}

	broadcast := func(raw []byte) {
		if raw == nil {
			return
		}
		for ch := range clients {
			select {
			case ch <- raw:
			default:
				// Client buffer full; skip to avoid blocking broker loop.
			}
		}
	}

	for {
		select {
		case <-b.stopCh:
			for ch := range clients {
				close(ch)
			}
			for ch := range changeSubs {
				close(ch)
			}
			return

		case ch := <-b.subscribeCh:
			clients[ch] = struct{}{}

		case ch := <-b.unsubscribeCh:
			if _, ok := clients[ch]; ok {
				delete(clients, ch)
				close(ch)
			}

		case ch := <-b.subChangeCh:
			changeSubs[ch] = struct{}{}

		case ch := <-b.unsubChangeCh:
			if _, ok := changeSubs[ch]; ok {
				delete(changeSubs, ch)
				close(ch)
			}

		case ev := <-b.publishCh:
			for ch := range changeSubs {
				select {
				case ch <- ev:
				default:
					// Slow reconciler; dropped events surface on the next bulk fetch.
				}
			}

			broadcast(frame(eventName(ev), ev))

			now := time.Now()
			if now.Sub(lastCalendar) >= b.calendarMin {
				lastCalendar = now
				broadcast(frame("calendar.updated", map[string]string{}))
			}

		case resp := <-b.countReqCh:
			resp <- len(clients) + len(changeSubs)
		}
	}
}

// eventName maps a change event to its SSE event name, e.g. "diary_logs.insert".
func eventName(ev models.ChangeEvent) string {
	switch ev.Type {
	case models.EventInsert:
		return string(ev.Table) + ".insert"
	case models.EventUpdate:
		return string(ev.Table) + ".update"
	case models.EventDelete:
		return string(ev.Table) + ".delete"
	}
	return string(ev.Table) + ".change"
}

// Close gracefully stops the broker loop and closes all subscriber channels.
func (b *Broker) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.stopCh)
	}
	<-b.stopped
}

// Subscribe adds a new SSE client and returns its frame channel.
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, 64)
	if b.closed.Load() {
		close(ch)
		return ch
	}

	select {
	case b.subscribeCh <- ch:
	case <-b.stopped:
		close(ch)
	}

	return ch
}

// Unsubscribe removes an SSE client and closes its channel.
func (b *Broker) Unsubscribe(ch chan []byte) {
	if b.closed.Load() {
		return
	}
	select {
	case b.unsubscribeCh <- ch:
	case <-b.stopped:
	}
}

// SubscribeChanges adds a typed change subscriber, the in-process equivalent
// of the remote push channel.
func (b *Broker) SubscribeChanges() chan models.ChangeEvent {
	ch := make(chan models.ChangeEvent, 64)
	if b.closed.Load() {
		close(ch)
		return ch
	}

	select {
	case b.subChangeCh <- ch:
	case <-b.stopped:
		close(ch)
	}

	return ch
}

// UnsubscribeChanges removes a typed subscriber and closes its channel.
func (b *Broker) UnsubscribeChanges(ch chan models.ChangeEvent) {
	if b.closed.Load() {
		return
	}
	select {
	case b.unsubChangeCh <- ch:
	case <-b.stopped:
	}
}

// SubscriberCount returns the number of connected subscribers of both kinds.
func (b *Broker) SubscriberCount() int {
	if b.closed.Load() {
		return 0
	}

	resp := make(chan int, 1)
	select {
	case b.countReqCh <- resp:
	case <-b.stopped:
		return 0
	}

	select {
	case n := <-resp:
		return n
	case <-b.stopped:
		return 0
	}
}

// PublishChange delivers one change event to every subscriber and emits a
// throttled calendar.updated signal to SSE clients.
func (b *Broker) PublishChange(ev models.ChangeEvent) {
	if b.closed.Load() {
		return
	}
	select {
	case b.publishCh <- ev:
	case <-b.stopped:
	}
}

// ServeHTTP is the SSE endpoint handler (GET /api/events).
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write(msg)
			flusher.Flush()
		}
	}
}
