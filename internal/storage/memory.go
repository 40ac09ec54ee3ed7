package storage

import (
	"context"
	"sync"
)

// MemoryStore is a process-local store, used in tests and as a last resort.
type MemoryStore struct {
	collections sync.Map // map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(_ context.Context, collection string) ([]byte, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	val, ok := s.collections.Load(collection)
	if !ok {
		return emptyCollection, nil
	}
	return append([]byte(nil), val.([]byte)...), nil
}

func (s *MemoryStore) Replace(_ context.Context, collection string, data []byte) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	s.collections.Store(collection, append([]byte(nil), data...))
	return nil
}
