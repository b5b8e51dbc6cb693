package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hanlee/daylink/internal/diaryservice"
	"github.com/hanlee/daylink/internal/models"
	"github.com/hanlee/daylink/internal/store"
	"github.com/hanlee/daylink/internal/testutil"
)

// testEnv sets up a temp SQLite backend, service, and router.
// authToken == "" means disabled mode acting as the "local" user.
func testEnv(t *testing.T, authToken string) (*diaryservice.Service, http.Handler) {
	t.Helper()
	svc := diaryservice.NewService(testutil.TestBackend(t), store.New(), nil)
	router := NewRouter(svc, authToken != "", authToken, "local", nil)
	return svc, router
}

func postJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateAndListLogs(t *testing.T) {
	_, router := testEnv(t, "")

	w := postJSON(t, router, "/logs", map[string]string{"date_key": "2026-01-15", "content": "first"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}
	var created models.LogEntry
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.ID == "" || created.AuthorID != "local" {
		t.Errorf("created = %+v", created)
	}

	req := httptest.NewRequest(http.MethodGet, "/logs?date=2026-01-15", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var resp LogListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Logs) != 1 || resp.Logs[0].ID != created.ID {
		t.Errorf("logs = %+v", resp.Logs)
	}
}

func TestCreateLogWithTag(t *testing.T) {
	_, router := testEnv(t, "")

	w := postJSON(t, router, "/logs", map[string]string{"date_key": "2026-01-15", "content": "see #2026-01-20"})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var created models.LogEntry
	json.Unmarshal(w.Body.Bytes(), &created)
	if created.LinkedDate != "2026-01-20" {
		t.Errorf("linked = %q", created.LinkedDate)
	}

	// A matched but impossible date is rejected by the service layer.
	w = postJSON(t, router, "/logs", map[string]string{"date_key": "2026-01-15", "content": "bad #2026-02-30"})
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("impossible tag status = %d, want 422", w.Code)
	}
}

func TestCreateLogValidation(t *testing.T) {
	_, router := testEnv(t, "")

	for name, body := range map[string]map[string]string{
		"missing content": {"date_key": "2026-01-15"},
		"bad date key":    {"date_key": "Jan 15", "content": "x"},
	} {
		if w := postJSON(t, router, "/logs", body); w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", name, w.Code)
		}
	}

	// Whitespace-only content passes the shape check but fails the service.
	w := postJSON(t, router, "/logs", map[string]string{"date_key": "2026-01-15", "content": "   "})
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("blank content status = %d, want 422", w.Code)
	}
}

func TestUpdateAndDeleteLog(t *testing.T) {
	_, router := testEnv(t, "")

	w := postJSON(t, router, "/logs", map[string]string{"date_key": "2026-01-15", "content": "original #2026-01-20"})
	var created models.LogEntry
	json.Unmarshal(w.Body.Bytes(), &created)

	raw, _ := json.Marshal(map[string]string{"content": "edited, still links"})
	req := httptest.NewRequest(http.MethodPut, "/logs/"+created.ID, bytes.NewReader(raw))
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, req)
	if w2.Code != http.StatusOK {
		t.Fatalf("update status = %d, body = %s", w2.Code, w2.Body.String())
	}
	var updated models.LogEntry
	json.Unmarshal(w2.Body.Bytes(), &updated)
	if updated.Content != "edited, still links" || updated.LinkedDate != "2026-01-20" {
		t.Errorf("updated = %+v, want content replaced and link kept", updated)
	}

	req = httptest.NewRequest(http.MethodDelete, "/logs/"+created.ID, nil)
	w2 = httptest.NewRecorder()
	router.ServeHTTP(w2, req)
	if w2.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", w2.Code)
	}

	// Gone now.
	req = httptest.NewRequest(http.MethodDelete, "/logs/"+created.ID, nil)
	w2 = httptest.NewRecorder()
	router.ServeHTTP(w2, req)
	if w2.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", w2.Code)
	}
}

func TestTodoLifecycle(t *testing.T) {
	_, router := testEnv(t, "")

	w := postJSON(t, router, "/todos", map[string]string{"date_key": "2026-01-15", "content": "buy milk"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}
	var created models.TodoItem
	json.Unmarshal(w.Body.Bytes(), &created)
	if created.IsCompleted {
		t.Error("new todo must start incomplete")
	}

	toggle := func() models.TodoItem {
		req := httptest.NewRequest(http.MethodPut, "/todos/"+created.ID+"/toggle", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("toggle status = %d, body = %s", rec.Code, rec.Body.String())
		}
		var item models.TodoItem
		json.Unmarshal(rec.Body.Bytes(), &item)
		return item
	}
	if item := toggle(); !item.IsCompleted {
		t.Error("first toggle should complete")
	}
	if item := toggle(); item.IsCompleted {
		t.Error("second toggle should restore incomplete")
	}

	req := httptest.NewRequest(http.MethodDelete, "/todos/"+created.ID, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
}

func TestCalendarEndpoint(t *testing.T) {
	_, router := testEnv(t, "")

	postJSON(t, router, "/logs", map[string]string{"date_key": "2026-01-05", "content": "coffee #2026-01-20"})
	postJSON(t, router, "/logs", map[string]string{"date_key": "2026-01-09", "content": "more #2026-01-20"})

	req := httptest.NewRequest(http.MethodGet, "/calendar?month=2026-01&q=coffee", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp CalendarResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Days)%7 != 0 {
		t.Errorf("days = %d, not whole weeks", len(resp.Days))
	}
	if len(resp.LinkDates) != 1 || resp.LinkDates[0] != "2026-01-20" {
		t.Errorf("link dates = %v", resp.LinkDates)
	}
	var matched bool
	for _, d := range resp.Days {
		if d.Key == "2026-01-05" && d.IsSearchMatch {
			matched = true
		}
	}
	if !matched {
		t.Error("query match not flagged in grid")
	}
}

func TestSearchEndpoint(t *testing.T) {
	_, router := testEnv(t, "")

	postJSON(t, router, "/logs", map[string]string{"date_key": "2026-01-05", "content": "Coffee with Mina"})
	postJSON(t, router, "/logs", map[string]string{"date_key": "2026-02-02", "content": "coffee next month"})

	req := httptest.NewRequest(http.MethodGet, "/search?month=2026-01&q=coffee", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp SearchResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Matches) != 1 || resp.Matches[0] != "2026-01-05" {
		t.Errorf("matches = %v", resp.Matches)
	}

	req = httptest.NewRequest(http.MethodGet, "/search?month=2026-01", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing q status = %d, want 400", w.Code)
	}
}

func TestAuthModes(t *testing.T) {
	_, router := testEnv(t, "sekrit")

	req := httptest.NewRequest(http.MethodGet, "/logs?date=2026-01-15", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no token status = %d, want 401", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/logs?date=2026-01-15", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token status = %d, want 401", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/logs?date=2026-01-15", nil)
	req.Header.Set("Authorization", "Bearer sekrit")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("valid token status = %d, want 200", w.Code)
	}
}
