package sse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hanlee/daylink/internal/models"
)

func TestSubscribeUnsubscribe(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	if b.SubscriberCount() != 0 {
		t.Fatalf("expected 0 subscribers")
	}
	ch := b.Subscribe()
	if b.SubscriberCount() != 1 {
		t.Fatalf("expected 1 subscriber")
	}
	b.Unsubscribe(ch)
	if b.SubscriberCount() != 0 {
		t.Fatalf("expected 0 subscribers after unsub")
	}
}

func TestPublishChange_SSEFrame(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishChange(models.LogInsert(models.LogEntry{ID: "a", DateKey: "2026-01-01", Content: "hi"}))

	select {
	case msg := <-ch:
		s := string(msg)
		if !strings.Contains(s, "event: diary_logs.insert") {
			t.Errorf("missing event name in %q", s)
		}
		if !strings.Contains(s, `"date_key":"2026-01-01"`) {
			t.Errorf("missing payload in %q", s)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for frame")
	}
}

func TestPublishChange_TypedDelivery(t *testing.T) {
	b := NewBroker(time.Second)
	defer b.Close()
	ch := b.SubscribeChanges()
	defer b.UnsubscribeChanges(ch)

	want := models.TodoUpdate(models.TodoItem{ID: "t1", DateKey: "2026-01-02", IsCompleted: true})
	b.PublishChange(want)

	select {
	case ev := <-ch:
		if ev.Table != models.TableTodos || ev.Type != models.EventUpdate {
			t.Errorf("event = %+v", ev)
		}
		if ev.Todo == nil || ev.Todo.ID != "t1" {
			t.Errorf("payload = %+v", ev.Todo)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for typed event")
	}
}

func TestCalendarSignalThrottled(t *testing.T) {
	b := NewBroker(500 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishChange(models.LogInsert(models.LogEntry{ID: "a"}))
	b.PublishChange(models.LogInsert(models.LogEntry{ID: "b"}))

	time.Sleep(50 * time.Millisecond)
	calendar, change := 0, 0
loop:
	for {
		select {
		case msg := <-ch:
			if strings.Contains(string(msg), "calendar.updated") {
				calendar++
			} else {
				change++
			}
		default:
			break loop
		}
	}

	if change != 2 {
		t.Errorf("change frames = %d, want 2", change)
	}
	if calendar != 1 {
		t.Errorf("calendar frames = %d, want 1 (throttled)", calendar)
	}
}

func TestSSEHandler(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req = req.WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		b.ServeHTTP(w, req)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	if b.SubscriberCount() != 1 {
		t.Fatalf("expected 1 subscriber from handler")
	}

	b.PublishChange(models.LogDelete("gone"))
	time.Sleep(50 * time.Millisecond)

	cancel()
	<-done

	body := w.Body.String()
	if !strings.Contains(body, "event: diary_logs.delete") {
		t.Errorf("handler output missing event: %q", body)
	}

	time.Sleep(50 * time.Millisecond)
	if b.SubscriberCount() != 0 {
		t.Errorf("subscriber not cleaned up after disconnect")
	}
}

func TestPublishDropsOnFullBuffer(t *testing.T) {
	b := NewBroker(time.Second)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	// Fill the client buffer (capacity 64); publishing past it must not block.
	for i := 0; i < 80; i++ {
		b.PublishChange(models.LogInsert(models.LogEntry{ID: "x"}))
	}
}

func TestCloseClosesSubscribers(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	ch := b.Subscribe()
	tc := b.SubscribeChanges()

	b.Close()

	if _, ok := <-ch; ok {
		t.Error("expected SSE channel closed")
	}
	if _, ok := <-tc; ok {
		t.Error("expected typed channel closed")
	}

	// Safe no-ops after close.
	b.PublishChange(models.LogInsert(models.LogEntry{ID: "a"}))
	if b.SubscriberCount() != 0 {
		t.Error("expected 0 subscribers after close")
	}
}
