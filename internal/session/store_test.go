// ABOUTME: Tests for the session store: creation, serialization, idle reset

package session

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMemoryStoreCreatesSessions(t *testing.T) {
	store := NewMemoryStore(0, testLogger())

	err := store.Do(context.Background(), "user-1", func(s *Session) error {
		if s.ID != "user-1" {
			t.Errorf("expected ID user-1, got %q", s.ID)
		}
		if s.Step != StepIdle {
			t.Errorf("new session must start Idle, got %q", s.Step)
		}
		s.Step = StepSelectCategory
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Same session comes back with its state.
	_ = store.Do(context.Background(), "user-1", func(s *Session) error {
		if s.Step != StepSelectCategory {
			t.Errorf("expected persisted step, got %q", s.Step)
		}
		return nil
	})

	// Different session is independent.
	_ = store.Do(context.Background(), "user-2", func(s *Session) error {
		if s.Step != StepIdle {
			t.Errorf("sessions must be independent, got %q", s.Step)
		}
		return nil
	})
}

func TestMemoryStoreSerializesPerSession(t *testing.T) {
	store := NewMemoryStore(0, testLogger())

	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Do(context.Background(), "user-1", func(s *Session) error {
				// Unsynchronized on purpose: Do must serialize us.
				counter++
				return nil
			})
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Errorf("expected 50 serialized increments, got %d", counter)
	}
}

func TestMemoryStoreIdleReset(t *testing.T) {
	store := NewMemoryStore(time.Minute, testLogger())
	current := time.Unix(1000000, 0)
	store.now = func() time.Time { return current }

	_ = store.Do(context.Background(), "user-1", func(s *Session) error {
		s.Step = StepEnterValue
		s.Category = "Length"
		return nil
	})

	t.Run("under the timeout keeps state", func(t *testing.T) {
		current = current.Add(30 * time.Second)
		_ = store.Do(context.Background(), "user-1", func(s *Session) error {
			if s.Step != StepEnterValue {
				t.Errorf("expected state kept, got %q", s.Step)
			}
			return nil
		})
	})

	t.Run("past the timeout resets lazily", func(t *testing.T) {
		current = current.Add(2 * time.Minute)
		_ = store.Do(context.Background(), "user-1", func(s *Session) error {
			if s.Step != StepIdle {
				t.Errorf("expected idle reset, got %q", s.Step)
			}
			if s.Category != "" {
				t.Errorf("expected selections cleared, got %q", s.Category)
			}
			return nil
		})
	})
}

func TestMemoryStoreCancelledContext(t *testing.T) {
	store := NewMemoryStore(0, testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.Do(ctx, "user-1", func(s *Session) error {
		t.Error("fn must not run with a cancelled context")
		return nil
	})
	if err == nil {
		t.Fatal("expected context error")
	}
}
