package repo

import (
	"context"
	"sync"
)

type MemorySlot struct {
	mu     sync.Mutex
	data   []byte
	exists bool
}

func NewMemorySlot() *MemorySlot {
	return &MemorySlot{}
}

func (s *MemorySlot) Load(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.exists {
		return nil, ErrorNotFound
	}
	return append([]byte(nil), s.data...), nil
}

func (s *MemorySlot) Save(ctx context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = append(s.data[:0], data...)
	s.exists = true
	return nil
}
