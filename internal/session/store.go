// ABOUTME: Store serializes access to per-user sessions and applies the idle timeout lazily
// ABOUTME: The one-in-flight-step-per-session guarantee is this contract, not an accident

package session

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Store gives serialized access to sessions. Do runs fn with exclusive
// ownership of the session for sessionID, creating it at StepIdle on first
// use. Concurrent Do calls for the same session queue; calls for different
// sessions run in parallel.
type Store interface {
	Do(ctx context.Context, sessionID string, fn func(*Session) error) error
}

// entry pairs a session with its own lock so sessions block independently.
type entry struct {
	mu      sync.Mutex
	session *Session
}

// MemoryStore is the in-process Store. A session idle past the configured
// timeout is reset to Idle lazily at the start of the next Do; no
// background sweep runs.
type MemoryStore struct {
	mu          sync.Mutex
	sessions    map[string]*entry
	idleTimeout time.Duration
	logger      *slog.Logger
	now         func() time.Time // test hook
}

// NewMemoryStore creates a store. idleTimeout <= 0 disables idle resets.
func NewMemoryStore(idleTimeout time.Duration, logger *slog.Logger) *MemoryStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &MemoryStore{
		sessions:    make(map[string]*entry),
		idleTimeout: idleTimeout,
		logger:      logger.With("component", "session"),
		now:         time.Now,
	}
}

// Do implements Store.
func (m *MemoryStore) Do(ctx context.Context, sessionID string, fn func(*Session) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	e, ok := m.sessions[sessionID]
	if !ok {
		e = &entry{session: &Session{
			ID:       sessionID,
			Step:     StepIdle,
			LastSeen: m.now(),
		}}
		m.sessions[sessionID] = e
	}
	m.mu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	now := m.now()
	if m.idleTimeout > 0 && e.session.Step != StepIdle && now.Sub(e.session.LastSeen) > m.idleTimeout {
		m.logger.Debug("session idle timeout, resetting",
			"session_id", sessionID,
			"idle", now.Sub(e.session.LastSeen))
		e.session.Reset()
	}
	e.session.LastSeen = now

	return fn(e.session)
}
