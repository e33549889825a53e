// Package exitcode коды выхода todo.
package exitcode

const (
	Success = 0

	// UserError неверные аргументы, неизвестный id, пустой текст
	UserError = 1

	// BackendError слот не открылся или запись в него не прошла
	BackendError = 3
)
