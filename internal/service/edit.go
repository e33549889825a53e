package service

import (
	"context"
	"errors"
	"sync"

	"github.com/BuzzLyutic/todo-list/internal/model"
)

var (
	ErrValidation     = errors.New("text must not be empty")
	ErrNotFound       = errors.New("task not found")
	ErrNotEditing     = errors.New("no edit in progress")
	ErrAlreadyEditing = errors.New("another edit is in progress")
)

// EditState состояние диалога редактирования для отрисовки.
type EditState struct {
	Editing bool         `json:"editing"`
	ID      model.TaskID `json:"id,omitempty"`
	Draft   string       `json:"draft"`
}

// EditSession автомат idle/editing поверх TaskStore.SetText.
// Черновик хранится отдельно, отмена его просто выбрасывает.
type EditSession struct {
	store *TaskStore

	mu    sync.Mutex
	state EditState
}

func NewEditSession(store *TaskStore) *EditSession {
	return &EditSession{store: store}
}

// Begin открывает редактирование задачи, черновик берется из ее текущего текста.
func (e *EditSession) Begin(id model.TaskID) (EditState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.Editing {
		return e.state, ErrAlreadyEditing
	}
	task, ok := e.store.Get(id)
	if !ok {
		return e.state, ErrNotFound
	}
	e.state = EditState{Editing: true, ID: task.ID, Draft: task.Text}
	return e.state, nil
}

func (e *EditSession) SetDraft(text string) (EditState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.state.Editing {
		return e.state, ErrNotEditing
	}
	e.state.Draft = text
	return e.state, nil
}

func (e *EditSession) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = EditState{}
}

// Save применяет черновик и при любом исходе возвращает автомат в idle.
// Причина отказа определяется по состоянию, снятому под той же блокировкой, что и сброс.
func (e *EditSession) Save(ctx context.Context) (model.Task, error) {
	e.mu.Lock()
	state := e.state
	e.state = EditState{}
	e.mu.Unlock()

	if !state.Editing {
		return model.Task{}, ErrNotEditing
	}
	if !validText(state.Draft) {
		return model.Task{}, ErrValidation
	}
	if !e.store.SetText(ctx, state.ID, state.Draft) {
		return model.Task{}, ErrNotFound
	}

	task, ok := e.store.Get(state.ID)
	if !ok { // удалили сразу после сохранения
		return model.Task{}, ErrNotFound
	}
	return task, nil
}

func (e *EditSession) State() EditState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}
