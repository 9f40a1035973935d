package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS recreation_drafts (
	id             UUID PRIMARY KEY,
	inspiration_id TEXT,
	concept        TEXT NOT NULL,
	style          TEXT NOT NULL,
	title          TEXT NOT NULL DEFAULT '',
	content        TEXT NOT NULL,
	similarity     DOUBLE PRECISION NOT NULL,
	breakdown      JSONB NOT NULL DEFAULT '{}'::jsonb,
	is_fair_use    BOOLEAN NOT NULL,
	threshold      DOUBLE PRECISION NOT NULL,
	revision       INT NOT NULL DEFAULT 1,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS recreation_drafts_inspiration_idx ON recreation_drafts (inspiration_id);
`

// EnsureSchema creates the drafts table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
