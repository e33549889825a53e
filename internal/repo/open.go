package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BuzzLyutic/todo-list/internal/config"
)

// Open создает слот по конфигурации. Возвращаемую функцию нужно вызвать при завершении.
func Open(ctx context.Context, cfg config.Config) (Slot, func(), error) {
	switch cfg.Backend {
	case config.BackendFile:
		slot, err := NewFileSlot(cfg.StorageDir, cfg.SlotKey)
		if err != nil {
			return nil, nil, err
		}
		return slot, func() {}, nil

	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ping database: %w", err)
		}

		slot := NewPgSlot(pool, cfg.SlotKey)
		if err := slot.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return slot, pool.Close, nil

	case config.BackendMemory:
		return NewMemorySlot(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
