package repository

import (
	"context"
	"sync"

	"promptboard/internal/model"
)

// MemoryRepository keeps encoded snapshots in process memory. Snapshots are
// stored encoded so callers observe the same round trip as the durable
// backends.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string][]byte
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string][]byte)}
}

func (r *MemoryRepository) Load(ctx context.Context, key string) (*model.Board, error) {
	r.mu.RLock()
	payload, ok := r.items[key]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	return decodeBoard(payload)
}

func (r *MemoryRepository) Save(ctx context.Context, key string, board model.Board) error {
	payload, err := encodeBoard(board)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.items[key] = payload
	r.mu.Unlock()
	return nil
}

// Put stores a raw payload, bypassing encoding.
func (r *MemoryRepository) Put(key string, payload []byte) {
	r.mu.Lock()
	r.items[key] = payload
	r.mu.Unlock()
}

func (r *MemoryRepository) Ping(ctx context.Context) error {
	return nil
}

func (r *MemoryRepository) Close() error {
	return nil
}
