package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/todo-list/internal/model"
	"github.com/BuzzLyutic/todo-list/pkg/respond"
)

const snapshotEvent = "snapshot"

// Events отдает поток server-sent events: текущий список, затем новый снимок после каждого изменения.
// Медленный клиент получает только последний снимок.
func (h *TaskHandler) Events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := respond.StartStream(w)
	if !ok {
		respond.Error(w, r, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	updates := make(chan []model.Task, 1)
	unsubscribe := h.store.Subscribe(func(tasks []model.Task) {
		select {
		case <-updates:
		default:
		}
		updates <- tasks
	})
	defer unsubscribe()

	if err := respond.Event(w, flusher, snapshotEvent, h.store.Snapshot()); err != nil {
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case tasks := <-updates:
			if err := respond.Event(w, flusher, snapshotEvent, tasks); err != nil {
				h.logger.Debug("event stream closed", zap.Error(err))
				return
			}
		}
	}
}
