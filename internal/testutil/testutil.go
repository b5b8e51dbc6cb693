// Package testutil provides shared test helpers for temporary backends.
package testutil

import (
	"os"
	"testing"

	"github.com/hanlee/daylink/internal/backend"
)

// TestBackend creates a temporary SQLite backend that is cleaned up with the test.
func TestBackend(t *testing.T) *backend.DB {
	t.Helper()
	f, err := os.CreateTemp("", "daylink-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := backend.Open(f.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
