package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/BuzzLyutic/todo-list/internal/model"
)

var (
	ErrMalformedSnapshot = errors.New("malformed snapshot")
)

// wireTask форма записи в слоте. Указатели отличают отсутствующее поле от нулевого значения.
type wireTask struct {
	ID        model.TaskID `json:"id"`
	Text      *string      `json:"text"`
	Completed *bool        `json:"completed"`
}

func EncodeSnapshot(tasks []model.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []model.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return append(data, '\n'), nil
}

// DecodeSnapshot разбирает снимок. Любое несоответствие формы считается ошибкой:
// лишние поля, отсутствующие id/text/completed, пустой текст, повторяющиеся id.
func DecodeSnapshot(data []byte) ([]model.Task, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var wire []wireTask
	if err := dec.Decode(&wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data", ErrMalformedSnapshot)
	}
	if wire == nil { // null
		return nil, fmt.Errorf("%w: not a list", ErrMalformedSnapshot)
	}

	tasks := make([]model.Task, 0, len(wire))
	seen := make(map[model.TaskID]struct{}, len(wire))
	for i, w := range wire {
		switch {
		case w.ID == "":
			return nil, fmt.Errorf("%w: task %d has no id", ErrMalformedSnapshot, i)
		case w.Text == nil:
			return nil, fmt.Errorf("%w: task %d has no text", ErrMalformedSnapshot, i)
		case w.Completed == nil:
			return nil, fmt.Errorf("%w: task %d has no completed flag", ErrMalformedSnapshot, i)
		case !validText(*w.Text):
			return nil, fmt.Errorf("%w: task %d has empty text", ErrMalformedSnapshot, i)
		}
		if _, dup := seen[w.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrMalformedSnapshot, w.ID)
		}
		seen[w.ID] = struct{}{}

		tasks = append(tasks, model.Task{ID: w.ID, Text: *w.Text, Completed: *w.Completed})
	}
	return tasks, nil
}
