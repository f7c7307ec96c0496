// ABOUTME: Data types and sentinel errors for convbot persistence
// ABOUTME: Defines Conversion and Favorite records and the Store interface

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Conversion is one completed conversion, recorded for history.
type Conversion struct {
	ID        string
	SessionID string
	Category  string
	UnitFrom  string
	UnitTo    string
	Value     float64
	Result    float64
	CreatedAt time.Time
}

// Favorite is a named source/target unit pair a user wants to reuse.
// Unique per (session, name); saving again overwrites.
type Favorite struct {
	ID        string
	SessionID string
	Name      string
	Category  string
	UnitFrom  string
	UnitTo    string
	CreatedAt time.Time
}

// CategoryUsage is an aggregate count of conversions per category.
type CategoryUsage struct {
	Category string
	Count    int64
}

// Store is the full persistence surface. The conversation service uses a
// narrower interface it declares itself.
type Store interface {
	SaveConversion(ctx context.Context, c *Conversion) error
	ListConversions(ctx context.Context, sessionID string, limit int) ([]*Conversion, error)

	SaveFavorite(ctx context.Context, f *Favorite) error
	ListFavorites(ctx context.Context, sessionID string) ([]*Favorite, error)
	DeleteFavorite(ctx context.Context, sessionID, name string) error

	UsageByCategory(ctx context.Context) ([]*CategoryUsage, error)

	Close() error
}
