package repo

import (
	"context"
	"errors"
)

// DefaultKey ключ слота по умолчанию
const DefaultKey = "todos"

var (
	ErrorNotFound = errors.New("not found")
)

// Slot определяет интерфейс долговременного хранилища одного снимка списка задач.
// Save всегда перезаписывает значение целиком, побеждает последняя запись.
type Slot interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}
