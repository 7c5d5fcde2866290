package tiles

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tilewx/backend/internal/models"
	"gopkg.in/yaml.v3"
)

// State is what the terminal host persists between runs.
type State struct {
	Unit      string                 `yaml:"unit,omitempty"`
	Locations []models.LocationEntry `yaml:"locations"`
}

// FileStore persists State as a YAML document.
type FileStore struct {
	path string
}

// NewFileStore creates a store for the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the saved state. A missing file yields an empty state.
func (s *FileStore) Load() (*State, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return &State{Locations: []models.LocationEntry{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read tiles file: %w", err)
	}

	var state State
	if err := yaml.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse tiles file %s: %w", s.path, err)
	}
	if state.Locations == nil {
		state.Locations = []models.LocationEntry{}
	}
	return &state, nil
}

// Save replaces the file atomically via a temp file and rename.
func (s *FileStore) Save(state *State) error {
	data, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal tiles: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create tiles directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tiles-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write tiles: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write tiles: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace tiles file: %w", err)
	}
	return nil
}
