package service

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/todo-list/internal/model"
	"github.com/BuzzLyutic/todo-list/internal/repo"
)

// Subscriber получает новый снимок после каждого изменения списка.
type Subscriber func(tasks []model.Task)

// TaskStore хранит список задач в памяти и после каждого изменения
// целиком переписывает его в слот. Ни одна операция не возвращает ошибку:
// пустой текст и неизвестный id это тихий no-op.
type TaskStore struct {
	slot   repo.Slot
	logger *zap.Logger
	newID  func() model.TaskID

	mu         sync.Mutex
	tasks      []model.Task
	persistErr error
	notifyMu   sync.Mutex

	subMu  sync.Mutex
	subs   map[int]Subscriber
	nextID int
}

func NewTaskStore(slot repo.Slot, logger *zap.Logger) *TaskStore {
	return &TaskStore{
		slot:   slot,
		logger: logger,
		newID:  model.NewTaskID,
		tasks:  []model.Task{},
		subs:   make(map[int]Subscriber),
	}
}

// Initialize читает снимок из слота. Отсутствующий или битый снимок дает пустой список.
func (s *TaskStore) Initialize(ctx context.Context) {
	tasks := s.load(ctx)

	s.mu.Lock()
	s.tasks = tasks
	snapshot := slices.Clone(s.tasks)
	s.notifyMu.Lock()
	s.mu.Unlock()

	s.logger.Info("Task list loaded", zap.Int("tasks", len(snapshot)))
	s.notify(snapshot)
	s.notifyMu.Unlock()
}

func (s *TaskStore) load(ctx context.Context) []model.Task {
	data, err := s.slot.Load(ctx)
	if errors.Is(err, repo.ErrorNotFound) {
		return []model.Task{}
	}
	if err != nil {
		s.logger.Warn("failed to read task list, starting empty", zap.Error(err))
		return []model.Task{}
	}

	tasks, err := DecodeSnapshot(data)
	if err != nil {
		s.logger.Warn("stored task list is malformed, starting empty", zap.Error(err))
		return []model.Task{}
	}
	return tasks
}

func (s *TaskStore) Add(ctx context.Context, text string) (model.Task, bool) {
	if !validText(text) {
		return model.Task{}, false
	}

	task := model.Task{
		ID:   s.newID(),
		Text: text,
	}

	ok := s.mutate(ctx, func(tasks []model.Task) ([]model.Task, bool) {
		if indexOf(tasks, task.ID) >= 0 {
			return tasks, false
		}
		return append(tasks, task), true
	})
	if !ok {
		s.logger.Error("generated task id already in use", zap.String("task_id", string(task.ID)))
		return model.Task{}, false
	}
	return task, true
}

func (s *TaskStore) ToggleComplete(ctx context.Context, id model.TaskID) bool {
	return s.mutate(ctx, func(tasks []model.Task) ([]model.Task, bool) {
		i := indexOf(tasks, id)
		if i < 0 {
			return tasks, false
		}
		tasks[i].Completed = !tasks[i].Completed
		return tasks, true
	})
}

// SetText заменяет текст задачи. Правило непустого текста то же, что у Add.
func (s *TaskStore) SetText(ctx context.Context, id model.TaskID, text string) bool {
	if !validText(text) {
		return false
	}
	return s.mutate(ctx, func(tasks []model.Task) ([]model.Task, bool) {
		i := indexOf(tasks, id)
		if i < 0 {
			return tasks, false
		}
		tasks[i].Text = text
		return tasks, true
	})
}

func (s *TaskStore) Remove(ctx context.Context, id model.TaskID) bool {
	return s.mutate(ctx, func(tasks []model.Task) ([]model.Task, bool) {
		i := indexOf(tasks, id)
		if i < 0 {
			return tasks, false
		}
		return slices.Delete(tasks, i, i+1), true
	})
}

func (s *TaskStore) Get(id model.TaskID) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.tasks, id)
	if i < 0 {
		return model.Task{}, false
	}
	return s.tasks[i], true
}

func (s *TaskStore) Snapshot() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.tasks)
}

func (s *TaskStore) Stats() model.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := model.Stats{Total: len(s.tasks)}
	for _, t := range s.tasks {
		if t.Completed {
			stats.Completed++
		}
	}
	stats.Active = stats.Total - stats.Completed
	return stats
}

// Subscribe регистрирует подписчика. Возвращаемая функция отписывает его, повторный вызов безопасен.
func (s *TaskStore) Subscribe(fn Subscriber) func() {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

// mutate применяет изменение под блокировкой, пишет снимок в слот и оповещает подписчиков.
// Подписчики вызываются без s.mu (могут читать из стора), но под notifyMu,
// поэтому видят снимки в порядке изменений. Менять стор из подписчика нельзя.
func (s *TaskStore) mutate(ctx context.Context, fn func([]model.Task) ([]model.Task, bool)) bool {
	s.mu.Lock()
	tasks, changed := fn(s.tasks)
	if !changed {
		s.mu.Unlock()
		return false
	}
	s.tasks = tasks
	snapshot := slices.Clone(s.tasks)
	s.persist(ctx, snapshot)

	s.notifyMu.Lock()
	s.mu.Unlock()
	s.notify(snapshot)
	s.notifyMu.Unlock()
	return true
}

// LastPersistError возвращает ошибку последней записи в слот, nil если она прошла.
// Операции стора ошибок не возвращают; короткоживущий процесс проверяет запись здесь перед выходом.
func (s *TaskStore) LastPersistError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistErr
}

// persist вызывается под s.mu, чтобы записи в слот шли в том же порядке, что и изменения.
func (s *TaskStore) persist(ctx context.Context, tasks []model.Task) {
	s.persistErr = s.save(ctx, tasks)
	if s.persistErr != nil {
		s.logger.Error("failed to persist task list", zap.Int("tasks", len(tasks)), zap.Error(s.persistErr))
	}
}

func (s *TaskStore) save(ctx context.Context, tasks []model.Task) error {
	data, err := EncodeSnapshot(tasks)
	if err != nil {
		return err
	}
	return s.slot.Save(ctx, data)
}

func (s *TaskStore) notify(snapshot []model.Task) {
	s.subMu.Lock()
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	subs := make([]Subscriber, 0, len(ids))
	for _, id := range ids {
		subs = append(subs, s.subs[id])
	}
	s.subMu.Unlock()

	for _, fn := range subs {
		fn(slices.Clone(snapshot))
	}
}

func validText(text string) bool {
	return strings.TrimSpace(text) != ""
}

func indexOf(tasks []model.Task, id model.TaskID) int {
	return slices.IndexFunc(tasks, func(t model.Task) bool { return t.ID == id })
}
