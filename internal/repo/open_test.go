package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BuzzLyutic/todo-list/internal/config"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("file", func(t *testing.T) {
		slot, closeFn, err := Open(ctx, config.Config{Backend: config.BackendFile, StorageDir: t.TempDir(), SlotKey: "todos"})
		require.NoError(t, err)
		defer closeFn()
		assert.IsType(t, &FileSlot{}, slot)
	})

	t.Run("memory", func(t *testing.T) {
		slot, closeFn, err := Open(ctx, config.Config{Backend: config.BackendMemory})
		require.NoError(t, err)
		defer closeFn()
		assert.IsType(t, &MemorySlot{}, slot)
	})

	t.Run("unknown", func(t *testing.T) {
		_, _, err := Open(ctx, config.Config{Backend: "redis"})
		assert.ErrorContains(t, err, "unknown storage backend")
	})
}
