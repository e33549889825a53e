package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/BuzzLyutic/todo-list/internal/model"
	"github.com/BuzzLyutic/todo-list/internal/service"
)

func commands() map[string]command {
	return map[string]command{
		"list": {
			usage:    "todo list",
			synopsis: "Show all tasks",
			run:      runList,
		},
		"add": {
			usage:    "todo add <text...>",
			synopsis: "Add a task",
			run:      runAdd,
		},
		"done": {
			usage:    "todo done <id>",
			synopsis: "Toggle a task's completed flag",
			run:      runDone,
		},
		"edit": {
			usage:    "todo edit <id> <text...>",
			synopsis: "Replace a task's text",
			run:      runEdit,
		},
		"rm": {
			usage:    "todo rm <id>",
			synopsis: "Delete a task",
			run:      runRemove,
		},
		"stats": {
			usage:    "todo stats",
			synopsis: "Count completed and active tasks",
			run:      runStats,
		},
	}
}

func runList(ctx context.Context, e *env, args []string) error {
	if len(args) != 0 {
		return errUsage
	}

	tasks := e.store.Snapshot()
	if len(tasks) == 0 {
		fmt.Fprintln(e.out, "No tasks.")
		return nil
	}
	for _, t := range tasks {
		formatTask(e, t)
	}
	return nil
}

func runAdd(ctx context.Context, e *env, args []string) error {
	task, ok := e.store.Add(ctx, joinArgs(args))
	if !ok {
		return userErrorf("task text must not be empty")
	}
	formatTask(e, task)
	return nil
}

func runDone(ctx context.Context, e *env, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	id, err := resolveID(e, args[0])
	if err != nil {
		return err
	}

	e.store.ToggleComplete(ctx, id)
	task, _ := e.store.Get(id)
	formatTask(e, task)
	return nil
}

func runEdit(ctx context.Context, e *env, args []string) error {
	if len(args) < 2 {
		return errUsage
	}
	id, err := resolveID(e, args[0])
	if err != nil {
		return err
	}

	if _, err := e.edit.Begin(id); err != nil {
		return userErrorf("%v", err)
	}
	e.edit.SetDraft(joinArgs(args[1:]))
	task, err := e.edit.Save(ctx)
	if errors.Is(err, service.ErrValidation) {
		return userErrorf("task text must not be empty")
	}
	if err != nil {
		return userErrorf("%v", err)
	}
	formatTask(e, task)
	return nil
}

func runRemove(ctx context.Context, e *env, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	id, err := resolveID(e, args[0])
	if err != nil {
		return err
	}

	e.store.Remove(ctx, id)
	fmt.Fprintf(e.out, "Removed %s\n", id)
	return nil
}

func runStats(ctx context.Context, e *env, args []string) error {
	if len(args) != 0 {
		return errUsage
	}
	stats := e.store.Stats()
	fmt.Fprintf(e.out, "%d tasks, %d completed, %d active\n", stats.Total, stats.Completed, stats.Active)
	return nil
}

// resolveID принимает полный id или его однозначный префикс.
func resolveID(e *env, ref string) (model.TaskID, error) {
	if ref == "" {
		return "", userErrorf("task id must not be empty")
	}
	if _, ok := e.store.Get(model.TaskID(ref)); ok {
		return model.TaskID(ref), nil
	}

	var matches []model.TaskID
	for _, t := range e.store.Snapshot() {
		if strings.HasPrefix(string(t.ID), ref) {
			matches = append(matches, t.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", userErrorf("no task with id %s", ref)
	case 1:
		return matches[0], nil
	default:
		return "", userErrorf("id prefix %s is ambiguous (%d tasks)", ref, len(matches))
	}
}

func formatTask(e *env, t model.Task) {
	mark := " "
	if t.Completed {
		mark = "x"
	}
	fmt.Fprintf(e.out, "[%s] %s  %s\n", mark, t.ID, t.Text)
}
