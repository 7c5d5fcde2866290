// mock_storage.go - Mock share store for testing
package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/tilewx/backend/internal/models"
	"github.com/tilewx/backend/internal/storage"
)

// MockShareStore implements storage.ShareStore for testing
type MockShareStore struct {
	shares map[string][]models.SharedLocation
	mu     sync.RWMutex

	// PutErr and GetErr, when set, are returned instead of touching the map.
	PutErr error
	GetErr error

	PutCalls []string
	GetCalls []string
}

var _ storage.ShareStore = (*MockShareStore)(nil)

// NewMockShareStore creates an empty mock store
func NewMockShareStore() *MockShareStore {
	return &MockShareStore{
		shares: make(map[string][]models.SharedLocation),
	}
}

func (m *MockShareStore) Put(ctx context.Context, code string, locations []models.SharedLocation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PutCalls = append(m.PutCalls, code)
	if m.PutErr != nil {
		return m.PutErr
	}
	if _, ok := m.shares[code]; ok {
		return storage.ErrShareExists
	}
	m.shares[code] = append([]models.SharedLocation(nil), locations...)
	return nil
}

func (m *MockShareStore) Get(ctx context.Context, code string) ([]models.SharedLocation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetCalls = append(m.GetCalls, code)
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	locations, ok := m.shares[code]
	if !ok {
		return nil, storage.ErrShareNotFound
	}
	return append([]models.SharedLocation(nil), locations...), nil
}

func (m *MockShareStore) Close() error {
	return nil
}

// Seed stores a payload directly, bypassing PutErr.
func (m *MockShareStore) Seed(code string, locations []models.SharedLocation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shares[code] = locations
}

// Payload returns what was stored under code.
func (m *MockShareStore) Payload(code string) ([]models.SharedLocation, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	locations, ok := m.shares[code]
	return locations, ok
}

// Len returns the number of stored shares.
func (m *MockShareStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.shares)
}

// ErrMockFailure is a generic injected failure.
var ErrMockFailure = errors.New("mock failure")
