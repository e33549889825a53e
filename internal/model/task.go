package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/google/uuid"
)

// TaskID идентификатор задачи. Непрозрачная строка, сравнивается только на равенство.
type TaskID string

func NewTaskID() TaskID {
	return TaskID(uuid.NewString())
}

// UnmarshalJSON принимает и строку, и число: старые снимки хранили Date.now().
func (id *TaskID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = TaskID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.New("task id must be a string or a number")
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return err
	}
	*id = TaskID(n.String())
	return nil
}

type Task struct {
	ID        TaskID `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

type Stats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Active    int `json:"active"`
}
