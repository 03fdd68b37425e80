package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

const table = "kv_entries"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Store keeps values in a postgres table, one row per key.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the backing table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS kv_entries (
			name       TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("creating %s: %w", table, err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var value string

	err := getQuery(key).RunWith(s.db).QueryRowContext(ctx).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}

		return "", false, fmt.Errorf("getting %s: %w", key, err)
	}

	return value, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if _, err := setQuery(key, value, time.Now()).RunWith(s.db).ExecContext(ctx); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}

	return nil
}

func getQuery(key string) sq.SelectBuilder {
	return psql.Select("value").
		From(table).
		Where(sq.Eq{"name": key})
}

func setQuery(key, value string, updated time.Time) sq.InsertBuilder {
	return psql.Insert(table).
		Columns("name", "value", "updated_at").
		Values(key, value, updated).
		Suffix("ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at")
}
