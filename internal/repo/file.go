package repo

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileSlot хранит снимок в файле <dir>/<key>.json.
type FileSlot struct {
	path string
}

func NewFileSlot(dir, key string) (*FileSlot, error) {
	if key == "" {
		key = DefaultKey
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create slot dir: %w", err)
	}
	return &FileSlot{path: filepath.Join(dir, key+".json")}, nil
}

func (s *FileSlot) Path() string {
	return s.path
}

func (s *FileSlot) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read slot file: %w", err)
	}
	return data, nil
}

// Save пишет во временный файл и переименовывает его, чтобы не оставить половину снимка.
func (s *FileSlot) Save(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp slot file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write slot file: %w", err)
	}
	if len(data) == 0 || data[len(data)-1] != '\n' {
		if _, err := tmp.Write([]byte{'\n'}); err != nil {
			tmp.Close()
			return fmt.Errorf("write slot file: %w", err)
		}
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close slot file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace slot file: %w", err)
	}
	return nil
}
