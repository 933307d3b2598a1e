package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/financia/internal/database"
	"github.com/MrJamesThe3rd/financia/internal/kv"
)

// Store keeps each collection as one row of the collections table.
type Store struct {
	db       *sql.DB
	getQuery string
	setQuery string
}

func New(db *sql.DB, dialect database.Dialect) *Store {
	getQuery := `SELECT payload FROM collections WHERE user_email = $1 AND kind = $2`
	setQuery := `
		INSERT INTO collections (user_email, kind, payload, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
		ON CONFLICT (user_email, kind) DO UPDATE
		SET payload = excluded.payload, updated_at = excluded.updated_at
	`

	if dialect == database.SQLite {
		getQuery = `SELECT payload FROM collections WHERE user_email = ? AND kind = ?`
		setQuery = `
			INSERT INTO collections (user_email, kind, payload, updated_at)
			VALUES (?, ?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT (user_email, kind) DO UPDATE
			SET payload = excluded.payload, updated_at = excluded.updated_at
		`
	}

	return &Store{db: db, getQuery: getQuery, setQuery: setQuery}
}

func (s *Store) Get(ctx context.Context, key kv.Key) ([]byte, error) {
	var payload []byte

	err := s.db.QueryRowContext(ctx, s.getQuery, key.User, string(key.Kind)).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("getting %s: %w", key, err)
	}

	return payload, nil
}

func (s *Store) Set(ctx context.Context, key kv.Key, value []byte) error {
	if _, err := s.db.ExecContext(ctx, s.setQuery, key.User, string(key.Kind), value); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}

	return nil
}
