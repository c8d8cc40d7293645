package library

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/MordecaiM24/meridian/internal/experience"
)

// Store persists the experience list as a single JSON document.
type Store struct {
	path string
}

// DefaultPath returns the default library document path.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, "Library", "Application Support", "Meridian", "experiences.json")
}

// NewStore creates a store backed by the document at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the experience list. A missing or zero-length document
// yields an empty list, not an error.
func (s *Store) Load() ([]experience.Experience, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read library: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var experiences []experience.Experience
	if err := json.Unmarshal(data, &experiences); err != nil {
		return nil, fmt.Errorf("decode library: %w", err)
	}
	return experiences, nil
}

// Save writes the whole list in one atomic replace: the document is
// written to a temp file in the same directory and renamed over the
// old one, so a partial write is never observable by a later Load.
func (s *Store) Save(experiences []experience.Experience) error {
	if experiences == nil {
		experiences = []experience.Experience{}
	}

	data, err := json.MarshalIndent(experiences, "", "  ")
	if err != nil {
		return fmt.Errorf("encode library: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create library directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".experiences-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write library: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace library: %w", err)
	}
	return nil
}
