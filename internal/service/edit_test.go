package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BuzzLyutic/todo-list/internal/model"
)

func TestEditSession_Save(t *testing.T) {
	store, slot := newStore(t)
	ctx := context.Background()
	task, _ := store.Add(ctx, "Buy milk")
	store.ToggleComplete(ctx, task.ID)

	edit := NewEditSession(store)
	state, err := edit.Begin(task.ID)
	require.NoError(t, err)
	assert.Equal(t, EditState{Editing: true, ID: task.ID, Draft: "Buy milk"}, state)

	_, err = edit.SetDraft("Buy oat milk")
	require.NoError(t, err)
	got, _ := store.Get(task.ID)
	assert.Equal(t, "Buy milk", got.Text, "draft is buffered until save")

	saved, err := edit.Save(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.Task{ID: task.ID, Text: "Buy oat milk", Completed: true}, saved)
	assert.Equal(t, EditState{}, edit.State())

	want := []model.Task{saved}
	assert.Equal(t, want, store.Snapshot())
	assert.Equal(t, want, persisted(t, slot))
}

func TestEditSession_Cancel(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()
	task, _ := store.Add(ctx, "Buy milk")

	var notified int
	store.Subscribe(func([]model.Task) { notified++ })

	edit := NewEditSession(store)
	_, err := edit.Begin(task.ID)
	require.NoError(t, err)
	edit.SetDraft("something else")
	edit.Cancel()

	assert.Equal(t, EditState{}, edit.State())
	assert.Equal(t, []model.Task{{ID: task.ID, Text: "Buy milk"}}, store.Snapshot())
	assert.Zero(t, notified)

	// Отмена в idle ничего не делает
	edit.Cancel()
	assert.Equal(t, EditState{}, edit.State())
}

func TestEditSession_Transitions(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()
	a, _ := store.Add(ctx, "a")
	b, _ := store.Add(ctx, "b")

	edit := NewEditSession(store)

	t.Run("idle rejects draft and save", func(t *testing.T) {
		_, err := edit.SetDraft("x")
		assert.ErrorIs(t, err, ErrNotEditing)
		_, err = edit.Save(ctx)
		assert.ErrorIs(t, err, ErrNotEditing)
	})

	t.Run("unknown id stays idle", func(t *testing.T) {
		_, err := edit.Begin("missing")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.False(t, edit.State().Editing)
	})

	t.Run("second begin is refused", func(t *testing.T) {
		_, err := edit.Begin(a.ID)
		require.NoError(t, err)
		_, err = edit.Begin(b.ID)
		assert.ErrorIs(t, err, ErrAlreadyEditing)
		assert.Equal(t, a.ID, edit.State().ID)
		edit.Cancel()
	})

	t.Run("blank draft is not saved", func(t *testing.T) {
		_, err := edit.Begin(b.ID)
		require.NoError(t, err)
		edit.SetDraft("  ")
		_, err = edit.Save(ctx)
		assert.ErrorIs(t, err, ErrValidation)
		assert.False(t, edit.State().Editing, "save always closes the dialog")

		got, _ := store.Get(b.ID)
		assert.Equal(t, "b", got.Text)
	})

	t.Run("task removed while editing", func(t *testing.T) {
		_, err := edit.Begin(a.ID)
		require.NoError(t, err)
		store.Remove(ctx, a.ID)
		_, err = edit.Save(ctx)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Len(t, store.Snapshot(), 1)
	})
}

func TestEditSession_SaveRacesCancel(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()
	task, _ := store.Add(ctx, "Buy milk")

	for i := 0; i < 100; i++ {
		edit := NewEditSession(store)
		_, err := edit.Begin(task.ID)
		require.NoError(t, err)
		edit.SetDraft("Buy milk")

		var wg sync.WaitGroup
		var saveErr error
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, saveErr = edit.Save(ctx)
		}()
		go func() {
			defer wg.Done()
			edit.Cancel()
		}()
		wg.Wait()

		// Либо сохранение прошло, либо отмена успела раньше. Ошибки валидации быть не может.
		if saveErr != nil {
			assert.ErrorIs(t, saveErr, ErrNotEditing)
		}
		assert.False(t, edit.State().Editing)
	}
}
