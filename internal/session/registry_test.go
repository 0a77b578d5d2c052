package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/studypilot/studypilot/internal/core"
)

func TestRegistry_Acquire_SameTokenSameHandle(t *testing.T) {
	reg := NewInMemoryRegistry()
	defer reg.Close()

	h1, err := reg.Acquire("alice")
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	h2, err := reg.Acquire("alice")
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	if h1 != h2 {
		t.Error("same token should return the same handle")
	}
}

func TestRegistry_Acquire_Isolation(t *testing.T) {
	reg := NewInMemoryRegistry()
	defer reg.Close()

	ha, _ := reg.Acquire("alice")
	hb, _ := reg.Acquire("bob")

	if _, err := ha.Courses.Add(&core.Course{CourseCode: "CS101", CourseName: "Intro"}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	courses, err := hb.Courses.List(core.CourseFilter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(courses) != 0 {
		t.Errorf("bob sees %d of alice's courses, want 0", len(courses))
	}
}

func TestRegistry_Acquire_EmptyTokenIsDefault(t *testing.T) {
	reg := NewInMemoryRegistry()
	defer reg.Close()

	h1, _ := reg.Acquire("")
	h2, _ := reg.Acquire(core.DefaultSession)

	if h1 != h2 {
		t.Error("empty token should map to the default session")
	}
}

func TestRegistry_Acquire_CreatesHashedFile(t *testing.T) {
	dir := t.TempDir()
	reg := NewRegistry(dir)
	defer reg.Close()

	if _, err := reg.Acquire("weird/../token name"); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	entries, err := os.ReadDir(filepath.Join(dir, "sessions"))
	if err != nil {
		t.Fatalf("read sessions dir: %v", err)
	}

	var dbFiles int
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".db" {
			dbFiles++
			if len(e.Name()) != len("0123456789abcdef.db") {
				t.Errorf("filename %q is not a fixed-length hash", e.Name())
			}
		}
	}
	if dbFiles != 1 {
		t.Errorf("session files = %d, want 1", dbFiles)
	}
}

func TestRegistry_Close_RefusesAcquire(t *testing.T) {
	reg := NewInMemoryRegistry()

	if _, err := reg.Acquire("alice"); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if err := reg.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	_, err := reg.Acquire("bob")
	if !errors.Is(err, core.ErrSessionClosed) {
		t.Errorf("Acquire() after Close error = %v, want ErrSessionClosed", err)
	}
}
