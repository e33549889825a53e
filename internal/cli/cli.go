// Package cli командная строка todo.
// Каждая команда открывает слот, загружает список, применяет одно действие и завершается.
package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/todo-list/internal/config"
	"github.com/BuzzLyutic/todo-list/internal/exitcode"
	"github.com/BuzzLyutic/todo-list/internal/repo"
	"github.com/BuzzLyutic/todo-list/internal/service"
)

// SlotOpener открывает слот по конфигурации. В тестах подменяется.
type SlotOpener func(ctx context.Context, cfg config.Config) (repo.Slot, func(), error)

type command struct {
	usage    string
	synopsis string
	run      func(ctx context.Context, env *env, args []string) error
}

// env окружение, в котором выполняется команда
type env struct {
	store *service.TaskStore
	edit  *service.EditSession
	out   io.Writer
}

var errUsage = errors.New("usage")

// userError показывается пользователю как есть, код выхода exitcode.UserError
type userError struct {
	msg string
}

func (e *userError) Error() string { return e.msg }

func userErrorf(format string, args ...interface{}) error {
	return &userError{msg: fmt.Sprintf(format, args...)}
}

type App struct {
	defaults config.Config
	open     SlotOpener
	commands map[string]command
}

func New(defaults config.Config, open SlotOpener) *App {
	return &App{
		defaults: defaults,
		open:     open,
		commands: commands(),
	}
}

// Run разбирает аргументы, выполняет одну команду и возвращает код выхода.
func (a *App) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	cfg := a.defaults
	var verbose bool

	flagSet := pflag.NewFlagSet("todo", pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.SetInterspersed(false)
	flagSet.StringVar(&cfg.Backend, "backend", cfg.Backend, "storage backend: file, postgres or memory")
	flagSet.StringVar(&cfg.StorageDir, "dir", cfg.StorageDir, "directory for the file backend")
	flagSet.StringVar(&cfg.DatabaseURL, "database-url", cfg.DatabaseURL, "connection string for the postgres backend")
	flagSet.StringVar(&cfg.SlotKey, "key", cfg.SlotKey, "storage slot key")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log to stderr")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			a.printHelp(out, flagSet)
			return exitcode.Success
		}
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if help, _ := flagSet.GetBool("help"); help {
		a.printHelp(out, flagSet)
		return exitcode.Success
	}

	rest := flagSet.Args()
	name := "list"
	if len(rest) > 0 {
		name, rest = rest[0], rest[1:]
	}
	if len(rest) > 0 && rest[0] == "--" {
		rest = rest[1:]
	}
	if name == "help" {
		a.printHelp(out, flagSet)
		return exitcode.Success
	}

	cmd, ok := a.commands[name]
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", name)
		return exitcode.UserError
	}

	logger := zap.NewNop()
	if verbose {
		if dev, err := zap.NewDevelopment(); err == nil {
			logger = dev
		}
	}
	defer logger.Sync()

	slot, closeSlot, err := a.open(ctx, cfg)
	if err != nil {
		fmt.Fprintf(errOut, "error: open %s storage: %v\n", cfg.Backend, err)
		return exitcode.BackendError
	}
	defer closeSlot()

	store := service.NewTaskStore(slot, logger)
	store.Initialize(ctx)

	// Вывод копится в буфере: если запись в слот не прошла, результат не печатаем
	var buf bytes.Buffer
	e := &env{store: store, edit: service.NewEditSession(store), out: &buf}
	if err := cmd.run(ctx, e, rest); err != nil {
		var ue *userError
		switch {
		case errors.Is(err, errUsage):
			fmt.Fprintf(errOut, "usage: %s\n", cmd.usage)
		case errors.As(err, &ue):
			fmt.Fprintf(errOut, "error: %s\n", ue.msg)
		default:
			fmt.Fprintf(errOut, "error: %v\n", err)
		}
		return exitcode.UserError
	}

	// Процесс сейчас завершится, следующей записи не будет
	if err := store.LastPersistError(); err != nil {
		fmt.Fprintf(errOut, "error: save tasks to %s storage: %v\n", cfg.Backend, err)
		return exitcode.BackendError
	}

	buf.WriteTo(out)
	return exitcode.Success
}

func (a *App) printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintln(w, "todo - keep a short list of tasks.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  todo [flags] <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")

	names := make([]string, 0, len(a.commands))
	for name := range a.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-28s %s\n", a.commands[name].usage, a.commands[name].synopsis)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprint(w, flagSet.FlagUsages())
}

func joinArgs(args []string) string {
	return strings.Join(args, " ")
}
