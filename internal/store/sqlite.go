// ABOUTME: SQLite implementation of the Store interface using modernc.org/sqlite
// ABOUTME: Provides history/favorites persistence with automatic schema creation

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
func NewSQLiteStore(path string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "store")

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist.
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS conversions (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			category TEXT NOT NULL,
			unit_from TEXT NOT NULL,
			unit_to TEXT NOT NULL,
			value REAL NOT NULL,
			result REAL NOT NULL,
			created_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_conversions_session_created
			ON conversions(session_id, created_at);

		CREATE INDEX IF NOT EXISTS idx_conversions_category
			ON conversions(category);

		CREATE TABLE IF NOT EXISTS favorites (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			name TEXT NOT NULL,
			category TEXT NOT NULL,
			unit_from TEXT NOT NULL,
			unit_to TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);

		CREATE UNIQUE INDEX IF NOT EXISTS idx_favorites_session_name
			ON favorites(session_id, name);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("executing schema: %w", err)
	}
	return nil
}

// SaveConversion appends a conversion to the history.
func (s *SQLiteStore) SaveConversion(ctx context.Context, c *Conversion) error {
	query := `
		INSERT INTO conversions (id, session_id, category, unit_from, unit_to, value, result, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		c.ID,
		c.SessionID,
		c.Category,
		c.UnitFrom,
		c.UnitTo,
		c.Value,
		c.Result,
		c.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting conversion: %w", err)
	}

	s.logger.Debug("conversion saved",
		"id", c.ID,
		"session_id", c.SessionID,
		"category", c.Category)
	return nil
}

// ListConversions returns the most recent conversions for a session,
// newest first. limit <= 0 means a default of 20.
func (s *SQLiteStore) ListConversions(ctx context.Context, sessionID string, limit int) ([]*Conversion, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT id, session_id, category, unit_from, unit_to, value, result, created_at
		FROM conversions
		WHERE session_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying conversions: %w", err)
	}
	defer rows.Close()

	var out []*Conversion
	for rows.Next() {
		var c Conversion
		var createdAt string
		if err := rows.Scan(&c.ID, &c.SessionID, &c.Category, &c.UnitFrom, &c.UnitTo, &c.Value, &c.Result, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning conversion: %w", err)
		}
		c.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

// SaveFavorite inserts or replaces the favorite named (session, name).
func (s *SQLiteStore) SaveFavorite(ctx context.Context, f *Favorite) error {
	query := `
		INSERT INTO favorites (id, session_id, name, category, unit_from, unit_to, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id, name) DO UPDATE SET
			category = excluded.category,
			unit_from = excluded.unit_from,
			unit_to = excluded.unit_to,
			created_at = excluded.created_at
	`
	_, err := s.db.ExecContext(ctx, query,
		f.ID,
		f.SessionID,
		f.Name,
		f.Category,
		f.UnitFrom,
		f.UnitTo,
		f.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upserting favorite: %w", err)
	}

	s.logger.Debug("favorite saved",
		"session_id", f.SessionID,
		"name", f.Name)
	return nil
}

// ListFavorites returns a session's favorites, newest first.
func (s *SQLiteStore) ListFavorites(ctx context.Context, sessionID string) ([]*Favorite, error) {
	query := `
		SELECT id, session_id, name, category, unit_from, unit_to, created_at
		FROM favorites
		WHERE session_id = ?
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying favorites: %w", err)
	}
	defer rows.Close()

	var out []*Favorite
	for rows.Next() {
		var f Favorite
		var createdAt string
		if err := rows.Scan(&f.ID, &f.SessionID, &f.Name, &f.Category, &f.UnitFrom, &f.UnitTo, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning favorite: %w", err)
		}
		f.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		out = append(out, &f)
	}
	return out, rows.Err()
}

// DeleteFavorite removes a favorite by session and name.
func (s *SQLiteStore) DeleteFavorite(ctx context.Context, sessionID, name string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE session_id = ? AND name = ?`, sessionID, name)
	if err != nil {
		return fmt.Errorf("deleting favorite: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// UsageByCategory aggregates conversion counts per category, most used first.
func (s *SQLiteStore) UsageByCategory(ctx context.Context) ([]*CategoryUsage, error) {
	query := `
		SELECT category, COUNT(*) AS n
		FROM conversions
		GROUP BY category
		ORDER BY n DESC, category ASC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying usage: %w", err)
	}
	defer rows.Close()

	var out []*CategoryUsage
	for rows.Next() {
		var u CategoryUsage
		if err := rows.Scan(&u.Category, &u.Count); err != nil {
			return nil, fmt.Errorf("scanning usage: %w", err)
		}
		out = append(out, &u)
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
