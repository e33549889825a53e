package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/todo-list/internal/model"
	"github.com/BuzzLyutic/todo-list/internal/repo"
	"github.com/BuzzLyutic/todo-list/internal/service"
	"github.com/BuzzLyutic/todo-list/pkg/respond"
)

type textRequest struct {
	Text string `json:"text"`
}

type editRequest struct {
	ID model.TaskID `json:"id"`
}

type TaskHandler struct {
	store  *service.TaskStore
	edit   *service.EditSession
	logger *zap.Logger
}

func NewTaskHandler(store *service.TaskStore, edit *service.EditSession, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		store:  store,
		edit:   edit,
		logger: logger,
	}
}

// Routes монтирует все маршруты API
func (h *TaskHandler) Routes(r chi.Router) {
	r.Route("/api/tasks", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Post("/{id}/toggle", h.Toggle)
	})

	r.Route("/api/edit", func(r chi.Router) {
		r.Get("/", h.EditState)
		r.Post("/", h.EditBegin)
		r.Put("/", h.EditDraft)
		r.Delete("/", h.EditCancel)
		r.Post("/save", h.EditSave)
	})

	r.Get("/api/stats", h.Stats)
	r.Get("/api/events", h.Events)
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength == 0 {
		respond.Error(w, r, http.StatusBadRequest, "empty request body")
		return
	}

	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode json", zap.Error(err))
		respond.Error(w, r, http.StatusBadRequest, fmt.Sprintf("invalid json: %v", err))
		return
	}

	task, ok := h.store.Add(r.Context(), req.Text)
	if !ok {
		h.handleErrors(w, r, service.ErrValidation)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/tasks/%s", task.ID))
	respond.JSON(w, r, http.StatusCreated, task)
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, r, http.StatusOK, h.store.Snapshot())
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	task, ok := h.store.Get(taskID(r))
	if !ok {
		h.handleErrors(w, r, repo.ErrorNotFound)
		return
	}
	respond.JSON(w, r, http.StatusOK, task)
}

func (h *TaskHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id := taskID(r)
	if !h.store.ToggleComplete(r.Context(), id) {
		h.handleErrors(w, r, repo.ErrorNotFound)
		return
	}
	h.respondTask(w, r, id)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := taskID(r)

	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "invalid json")
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		h.handleErrors(w, r, service.ErrValidation)
		return
	}
	if !h.store.SetText(r.Context(), id, req.Text) {
		h.handleErrors(w, r, repo.ErrorNotFound)
		return
	}
	h.respondTask(w, r, id)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.store.Remove(r.Context(), taskID(r)) {
		h.handleErrors(w, r, repo.ErrorNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TaskHandler) Stats(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, r, http.StatusOK, h.store.Stats())
}

func (h *TaskHandler) respondTask(w http.ResponseWriter, r *http.Request, id model.TaskID) {
	task, ok := h.store.Get(id)
	if !ok { // удалили между изменением и чтением
		h.handleErrors(w, r, repo.ErrorNotFound)
		return
	}
	respond.JSON(w, r, http.StatusOK, task)
}

func (h *TaskHandler) handleErrors(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repo.ErrorNotFound), errors.Is(err, service.ErrNotFound):
		respond.Error(w, r, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrValidation):
		respond.Error(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotEditing), errors.Is(err, service.ErrAlreadyEditing):
		respond.Error(w, r, http.StatusConflict, err.Error())
	default:
		h.logger.Error("internal error", zap.Error(err))
		respond.Error(w, r, http.StatusInternalServerError, "internal error")
	}
}

func taskID(r *http.Request) model.TaskID {
	return model.TaskID(chi.URLParam(r, "id"))
}
