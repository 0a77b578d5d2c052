// Package testutil provides shared testing utilities for StudyPilot.
package testutil

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/studypilot/studypilot/internal/session"
	"github.com/studypilot/studypilot/internal/storage"
)

// TestDB creates an in-memory SQLite database for testing.
// The database is automatically closed when the test completes.
func TestDB(t *testing.T) *storage.DB {
	t.Helper()

	db, err := storage.Open(storage.Config{InMemory: true})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// TestRegistry creates an in-memory session registry, closed with the test.
func TestRegistry(t *testing.T) *session.Registry {
	t.Helper()

	reg := session.NewInMemoryRegistry()
	t.Cleanup(func() {
		reg.Close()
	})
	return reg
}

// TestHandle acquires one in-memory session handle for direct store access.
func TestHandle(t *testing.T) *session.Handle {
	t.Helper()

	h, err := TestRegistry(t).Acquire("test")
	if err != nil {
		t.Fatalf("acquire test session: %v", err)
	}
	return h
}

// TestContext returns a context with a timeout for tests.
// The context is automatically cancelled when the test completes.
func TestContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// MockLLM runs a chat-completions endpoint that replays the given response
// bodies in order. It fails the test on extra calls.
func MockLLM(t *testing.T, responses ...map[string]any) *httptest.Server {
	t.Helper()

	call := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if call >= len(responses) {
			t.Errorf("unexpected model call %d", call+1)
			http.Error(w, "no scripted response", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(responses[call])
		call++
	}))
	t.Cleanup(server.Close)

	return server
}
