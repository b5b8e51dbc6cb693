package backend

import (
	"errors"
	"os"
	"testing"

	"github.com/hanlee/daylink/internal/apperr"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "daylink-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestInsertLog_AssignsIDAndTimestamp(t *testing.T) {
	db := testDB(t)
	e, err := db.InsertLog("2026-01-01", "hello #2026-01-14", "2026-01-14", "u1")
	if err != nil {
		t.Fatalf("InsertLog: %v", err)
	}
	if e.ID == "" || e.CreatedAt.IsZero() {
		t.Errorf("id/created_at not assigned: %+v", e)
	}

	logs, err := db.FetchLogs()
	if err != nil {
		t.Fatalf("FetchLogs: %v", err)
	}
	if len(logs) != 1 || logs[0].LinkedDate != "2026-01-14" {
		t.Errorf("logs = %+v", logs)
	}
}

func TestUpdateLogContent_PreservesLinkedDate(t *testing.T) {
	db := testDB(t)
	e, _ := db.InsertLog("2026-01-01", "see #2026-01-14", "2026-01-14", "u1")

	got, err := db.UpdateLogContent(e.ID, "edited, tag gone", "u1")
	if err != nil {
		t.Fatalf("UpdateLogContent: %v", err)
	}
	if got.Content != "edited, tag gone" {
		t.Errorf("content = %q", got.Content)
	}
	if got.LinkedDate != "2026-01-14" {
		t.Errorf("linked_date = %q, want original link preserved", got.LinkedDate)
	}
}

func TestOwnerScopedMutation(t *testing.T) {
	db := testDB(t)
	e, _ := db.InsertLog("2026-01-01", "mine", "", "u1")

	if _, err := db.UpdateLogContent(e.ID, "stolen", "u2"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("update by non-owner: err = %v, want ErrNotFound", err)
	}
	if err := db.DeleteLog(e.ID, "u2"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("delete by non-owner: err = %v, want ErrNotFound", err)
	}
	if err := db.DeleteLog(e.ID, "u1"); err != nil {
		t.Errorf("delete by owner: %v", err)
	}
}

func TestTodoLifecycle(t *testing.T) {
	db := testDB(t)
	td, err := db.InsertTodo("2026-01-05", "buy milk", "u1")
	if err != nil {
		t.Fatalf("InsertTodo: %v", err)
	}
	if td.IsCompleted {
		t.Error("new todo should start incomplete")
	}

	td, err = db.SetTodoCompleted(td.ID, true, "u1")
	if err != nil {
		t.Fatalf("SetTodoCompleted: %v", err)
	}
	if !td.IsCompleted {
		t.Error("todo not completed after update")
	}

	td, _ = db.SetTodoCompleted(td.ID, false, "u1")
	if td.IsCompleted {
		t.Error("second toggle should restore original value")
	}

	if err := db.DeleteTodo(td.ID, "u1"); err != nil {
		t.Fatalf("DeleteTodo: %v", err)
	}
	todos, _ := db.FetchTodos()
	if len(todos) != 0 {
		t.Errorf("todos = %+v, want empty", todos)
	}
}

func TestMutateMissingRow(t *testing.T) {
	db := testDB(t)
	if _, err := db.UpdateLogContent("ghost", "x", "u1"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if _, err := db.SetTodoCompleted("ghost", true, "u1"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
