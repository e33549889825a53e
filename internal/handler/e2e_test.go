package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/todo-list/internal/model"
	"github.com/BuzzLyutic/todo-list/internal/repo"
	"github.com/BuzzLyutic/todo-list/internal/service"
	"github.com/BuzzLyutic/todo-list/internal/testutil"
)

func setupE2EServer(t *testing.T, slot repo.Slot) *httptest.Server {
	t.Helper()

	logger := zap.NewNop()
	store := service.NewTaskStore(slot, logger)
	store.Initialize(context.Background())
	taskHandler := NewTaskHandler(store, service.NewEditSession(store), logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"ok"}`)
	})
	taskHandler.Routes(r)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server
}

func send(t *testing.T, method, url string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestE2E_PostgresSlot(t *testing.T) {
	pool, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	slot := repo.NewPgSlot(pool, "e2e")
	require.NoError(t, slot.EnsureSchema(ctx))
	testutil.TruncateSlots(t, pool)

	server := setupE2EServer(t, slot)

	resp := send(t, http.MethodGet, server.URL+"/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// 1. Добавляем задачи
	var milk model.Task
	resp = send(t, http.MethodPost, server.URL+"/api/tasks", map[string]string{"text": "Buy milk"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&milk))

	resp = send(t, http.MethodPost, server.URL+"/api/tasks", map[string]string{"text": "Walk dog"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = send(t, http.MethodPost, server.URL+"/api/tasks", map[string]string{"text": ""})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// 2. Отмечаем и редактируем через диалог
	resp = send(t, http.MethodPost, server.URL+"/api/tasks/"+string(milk.ID)+"/toggle", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	send(t, http.MethodPost, server.URL+"/api/edit", map[string]string{"id": string(milk.ID)})
	send(t, http.MethodPut, server.URL+"/api/edit", map[string]string{"text": "Buy oat milk"})
	resp = send(t, http.MethodPost, server.URL+"/api/edit/save", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list []model.Task
	resp = send(t, http.MethodGet, server.URL+"/api/tasks", nil)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 2)
	assert.Equal(t, model.Task{ID: milk.ID, Text: "Buy oat milk", Completed: true}, list[0])

	// 3. Новый процесс видит тот же список
	reloaded := service.NewTaskStore(repo.NewPgSlot(pool, "e2e"), zap.NewNop())
	reloaded.Initialize(ctx)
	assert.Equal(t, list, reloaded.Snapshot())

	// 4. Удаление
	resp = send(t, http.MethodDelete, server.URL+"/api/tasks/"+string(milk.ID), nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	reloaded.Initialize(ctx)
	require.Len(t, reloaded.Snapshot(), 1)
	assert.Equal(t, "Walk dog", reloaded.Snapshot()[0].Text)
}
