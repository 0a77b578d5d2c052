// Package session maps opaque session tokens to isolated storage handles.
//
// Each token owns one SQLite database file. The registry opens databases
// lazily on first use and hands out the same handle for the same token for
// the life of the process. Callers serialize multi-step work on a handle
// through its lock; the handle is the unit of isolation and of mutual
// exclusion.
package session

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"sync"

	"github.com/studypilot/studypilot/internal/core"
	"github.com/studypilot/studypilot/internal/storage"
)

// Handle is one session's open database plus its stores.
type Handle struct {
	mu sync.Mutex
	db *storage.DB

	State   *storage.StateStore
	Tasks   *storage.TaskStore
	Career  *storage.CareerStore
	Courses *storage.CourseStore
	Study   *storage.StudyStore
	Chat    *storage.ChatStore
}

// Lock serializes work on the session. Turns and direct REST reads both take
// it, so two concurrent requests for the same token never interleave.
func (h *Handle) Lock() {
	h.mu.Lock()
}

// Unlock releases the session.
func (h *Handle) Unlock() {
	h.mu.Unlock()
}

func newHandle(db *storage.DB) *Handle {
	return &Handle{
		db:      db,
		State:   storage.NewStateStore(db),
		Tasks:   storage.NewTaskStore(db),
		Career:  storage.NewCareerStore(db),
		Courses: storage.NewCourseStore(db),
		Study:   storage.NewStudyStore(db),
		Chat:    storage.NewChatStore(db),
	}
}

// Registry owns all open session handles.
type Registry struct {
	dataDir  string
	inMemory bool

	mu      sync.Mutex
	handles map[core.SessionID]*Handle
	closed  bool
}

// NewRegistry creates a registry storing session databases under dataDir.
func NewRegistry(dataDir string) *Registry {
	return &Registry{
		dataDir: dataDir,
		handles: make(map[core.SessionID]*Handle),
	}
}

// NewInMemoryRegistry creates a registry backed by in-memory databases,
// for testing.
func NewInMemoryRegistry() *Registry {
	return &Registry{
		inMemory: true,
		handles:  make(map[core.SessionID]*Handle),
	}
}

// Acquire returns the handle for a session token, opening and migrating its
// database on first use. An empty token maps to the default session. The
// token itself never reaches the filesystem; the filename is derived from
// its hash.
func (r *Registry) Acquire(id core.SessionID) (*Handle, error) {
	if id == "" {
		id = core.DefaultSession
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, core.ErrSessionClosed
	}

	if h, ok := r.handles[id]; ok {
		return h, nil
	}

	cfg := storage.Config{InMemory: true}
	if !r.inMemory {
		cfg = storage.Config{Path: filepath.Join(r.dataDir, "sessions", sessionFilename(id))}
	}

	db, err := storage.Open(cfg)
	if err != nil {
		return nil, err
	}

	h := newHandle(db)
	r.handles[id] = h
	return h, nil
}

// Close closes every open session database. The registry refuses new
// acquisitions afterward.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	var firstErr error
	for _, h := range r.handles {
		if err := h.db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// sessionFilename hashes the token so arbitrary client strings become safe,
// fixed-length filenames.
func sessionFilename(id core.SessionID) string {
	sum := sha256.Sum256([]byte(id))
	return hex.EncodeToString(sum[:8]) + ".db"
}
