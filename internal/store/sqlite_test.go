// ABOUTME: Tests for the SQLite store: history, favorites upsert, usage aggregation
// ABOUTME: Each test gets a fresh database in t.TempDir()

package store

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "convbot.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveAndListConversions(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, s.SaveConversion(ctx, &Conversion{
			ID:        string(rune('a' + i)),
			SessionID: "user-1",
			Category:  "Length",
			UnitFrom:  "inch",
			UnitTo:    "centimeter",
			Value:     float64(i + 1),
			Result:    float64(i+1) * 2.54,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, s.SaveConversion(ctx, &Conversion{
		ID:        "other",
		SessionID: "user-2",
		Category:  "Mass",
		UnitFrom:  "pound",
		UnitTo:    "kilogram",
		Value:     1,
		Result:    0.453592,
		CreatedAt: base,
	}))

	got, err := s.ListConversions(ctx, "user-1", 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "c", got[0].ID, "newest first")
	assert.Equal(t, 3.0, got[0].Value)
	assert.Equal(t, "Length", got[0].Category)

	limited, err := s.ListConversions(ctx, "user-1", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	empty, err := s.ListConversions(ctx, "nobody", 0)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestFavoritesUpsert(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	fav := &Favorite{
		ID:        "f1",
		SessionID: "user-1",
		Name:      "workshop",
		Category:  "Length",
		UnitFrom:  "inch",
		UnitTo:    "millimeter",
		CreatedAt: time.Now(),
	}
	require.NoError(t, s.SaveFavorite(ctx, fav))

	// Same session+name replaces.
	fav2 := *fav
	fav2.ID = "f2"
	fav2.UnitTo = "centimeter"
	fav2.CreatedAt = fav.CreatedAt.Add(time.Hour)
	require.NoError(t, s.SaveFavorite(ctx, &fav2))

	got, err := s.ListFavorites(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "centimeter", got[0].UnitTo)
}

func TestDeleteFavorite(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveFavorite(ctx, &Favorite{
		ID:        "f1",
		SessionID: "user-1",
		Name:      "workshop",
		Category:  "Length",
		UnitFrom:  "inch",
		UnitTo:    "millimeter",
		CreatedAt: time.Now(),
	}))

	require.NoError(t, s.DeleteFavorite(ctx, "user-1", "workshop"))

	got, err := s.ListFavorites(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, got)

	err = s.DeleteFavorite(ctx, "user-1", "workshop")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUsageByCategory(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	now := time.Now()
	for i, category := range []string{"Length", "Length", "Mass"} {
		require.NoError(t, s.SaveConversion(ctx, &Conversion{
			ID:        string(rune('a' + i)),
			SessionID: "user-1",
			Category:  category,
			UnitFrom:  "x",
			UnitTo:    "y",
			Value:     1,
			Result:    1,
			CreatedAt: now,
		}))
	}

	usage, err := s.UsageByCategory(ctx)
	require.NoError(t, err)
	require.Len(t, usage, 2)
	assert.Equal(t, "Length", usage[0].Category)
	assert.Equal(t, int64(2), usage[0].Count)
	assert.Equal(t, int64(1), usage[1].Count)
}
