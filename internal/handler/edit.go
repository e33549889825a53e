package handler

import (
	"encoding/json"
	"net/http"

	"github.com/BuzzLyutic/todo-list/pkg/respond"
)

func (h *TaskHandler) EditState(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, r, http.StatusOK, h.edit.State())
}

func (h *TaskHandler) EditBegin(w http.ResponseWriter, r *http.Request) {
	var req editRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "invalid json")
		return
	}

	state, err := h.edit.Begin(req.ID)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, state)
}

func (h *TaskHandler) EditDraft(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "invalid json")
		return
	}

	state, err := h.edit.SetDraft(req.Text)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, state)
}

func (h *TaskHandler) EditCancel(w http.ResponseWriter, r *http.Request) {
	h.edit.Cancel()
	respond.JSON(w, r, http.StatusOK, h.edit.State())
}

func (h *TaskHandler) EditSave(w http.ResponseWriter, r *http.Request) {
	task, err := h.edit.Save(r.Context())
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, task)
}
