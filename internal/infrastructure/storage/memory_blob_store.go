package storage

import (
	"context"
	"sync"

	"coffee-diagnosis/internal/domain/port"
)

// MemoryBlobStore хранит данные в памяти процесса, для тестов и демо
type MemoryBlobStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryBlobStore создаёт пустое хранилище
func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{blobs: make(map[string][]byte)}
}

func (s *MemoryBlobStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.blobs[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), data...), true, nil
}

func (s *MemoryBlobStore) Save(ctx context.Context, key string, data []byte) error {
	s.mu.Lock()
	s.blobs[key] = append([]byte(nil), data...)
	s.mu.Unlock()

	return nil
}

var _ port.BlobStore = (*MemoryBlobStore)(nil)
