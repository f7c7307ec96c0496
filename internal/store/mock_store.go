// ABOUTME: Mock Store implementation for testing
// ABOUTME: Allows tests to run without SQLite and to inject persistence failures

package store

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// ErrMockFailure is returned by a MockStore whose FailWrites flag is set.
var ErrMockFailure = errors.New("mock store failure")

// MockStore is an in-memory Store implementation for testing.
type MockStore struct {
	mu          sync.RWMutex
	conversions []*Conversion
	favorites   map[string]*Favorite // keyed by "sessionID\x00name"

	// FailWrites makes every write return ErrMockFailure, for exercising
	// the degrade-to-"not saved" path.
	FailWrites bool
}

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		favorites: make(map[string]*Favorite),
	}
}

func favKey(sessionID, name string) string {
	return sessionID + "\x00" + name
}

// SaveConversion appends a conversion.
func (m *MockStore) SaveConversion(ctx context.Context, c *Conversion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return ErrMockFailure
	}
	cp := *c
	m.conversions = append(m.conversions, &cp)
	return nil
}

// ListConversions returns a session's conversions, newest first.
func (m *MockStore) ListConversions(ctx context.Context, sessionID string, limit int) ([]*Conversion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if limit <= 0 {
		limit = 20
	}
	var out []*Conversion
	for i := len(m.conversions) - 1; i >= 0 && len(out) < limit; i-- {
		if m.conversions[i].SessionID == sessionID {
			cp := *m.conversions[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

// SaveFavorite upserts a favorite.
func (m *MockStore) SaveFavorite(ctx context.Context, f *Favorite) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return ErrMockFailure
	}
	cp := *f
	m.favorites[favKey(f.SessionID, f.Name)] = &cp
	return nil
}

// ListFavorites returns a session's favorites, newest first.
func (m *MockStore) ListFavorites(ctx context.Context, sessionID string) ([]*Favorite, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Favorite
	for _, f := range m.favorites {
		if f.SessionID == sessionID {
			cp := *f
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// DeleteFavorite removes a favorite by session and name.
func (m *MockStore) DeleteFavorite(ctx context.Context, sessionID, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return ErrMockFailure
	}
	key := favKey(sessionID, name)
	if _, ok := m.favorites[key]; !ok {
		return ErrNotFound
	}
	delete(m.favorites, key)
	return nil
}

// UsageByCategory aggregates conversion counts.
func (m *MockStore) UsageByCategory(ctx context.Context) ([]*CategoryUsage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[string]int64)
	for _, c := range m.conversions {
		counts[c.Category]++
	}
	var out []*CategoryUsage
	for category, n := range counts {
		out = append(out, &CategoryUsage{Category: category, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}

// ConversionCount reports how many conversions were recorded (test helper).
func (m *MockStore) ConversionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.conversions)
}

// Close is a no-op.
func (m *MockStore) Close() error {
	return nil
}
