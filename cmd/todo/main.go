// Точка входа CLI todo.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/BuzzLyutic/todo-list/internal/cli"
	"github.com/BuzzLyutic/todo-list/internal/config"
	"github.com/BuzzLyutic/todo-list/internal/repo"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	app := cli.New(config.Load(), repo.Open)
	code := app.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)

	cancel()
	os.Exit(code)
}
