package storage

import (
	"context"
	"sync"

	"github.com/tilewx/backend/internal/models"
)

// MemoryStore implements ShareStore in process memory. Contents are lost on restart.
type MemoryStore struct {
	mu     sync.RWMutex
	shares map[string][]models.SharedLocation
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		shares: make(map[string][]models.SharedLocation),
	}
}

// Put stores a copy of locations under code.
func (s *MemoryStore) Put(ctx context.Context, code string, locations []models.SharedLocation) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.shares[code]; ok {
		return ErrShareExists
	}
	s.shares[code] = copyLocations(locations)
	return nil
}

// Get returns a copy of the payload stored under code.
func (s *MemoryStore) Get(ctx context.Context, code string) ([]models.SharedLocation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	locations, ok := s.shares[code]
	if !ok {
		return nil, ErrShareNotFound
	}
	return copyLocations(locations), nil
}

// Len returns the number of stored shares.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.shares)
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}

func copyLocations(in []models.SharedLocation) []models.SharedLocation {
	out := make([]models.SharedLocation, len(in))
	copy(out, in)
	return out
}
