package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createSlotsTable = `
	CREATE TABLE IF NOT EXISTS slots (
		key        TEXT PRIMARY KEY,
		value      JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)
`

type PgSlot struct { // Слот поверх таблицы slots в Postgres
	pool *pgxpool.Pool
	key  string
}

func NewPgSlot(pool *pgxpool.Pool, key string) *PgSlot {
	if key == "" {
		key = DefaultKey
	}
	return &PgSlot{
		pool: pool,
		key:  key,
	}
}

func (s *PgSlot) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, createSlotsTable); err != nil {
		return fmt.Errorf("create slots table: %w", err)
	}
	return nil
}

func (s *PgSlot) Load(ctx context.Context) ([]byte, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, `
		SELECT value::text FROM slots WHERE key = $1
	`, s.key).Scan(&data)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load slot %q: %w", s.key, err)
	}
	return data, nil
}

func (s *PgSlot) Save(ctx context.Context, data []byte) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO slots (key, value, updated_at) VALUES ($1, $2::jsonb, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`, s.key, string(data))
	if err != nil {
		return fmt.Errorf("save slot %q: %w", s.key, err)
	}
	return nil
}
