package memorykv

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/DeepsSystems/Sasingian-Lawyers/internal/apperrors"
	portsrepo "github.com/DeepsSystems/Sasingian-Lawyers/internal/core/ports/repositories"
)

// Store keeps collections in process memory. Values are copied on the way
// in and out so callers cannot alias stored bytes.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// New creates an empty store.
func New() *Store {
	return &Store{data: map[string][]byte{}}
}

var _ portsrepo.KVStore = (*Store)(nil)

func (s *Store) Read(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, fmt.Errorf("%w: key %s", apperrors.ErrNotFound, key)
	}
	return slices.Clone(v), nil
}

func (s *Store) Write(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = slices.Clone(value)
	return nil
}

func (s *Store) WriteMany(ctx context.Context, entries map[string][]byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, value := range entries {
		s.data[key] = slices.Clone(value)
	}
	return nil
}

// Keys lists the stored keys in sorted order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.data))
}

func (s *Store) Close() error { return nil }
