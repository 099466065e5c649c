// Package store persists the market and ledger documents as JSON files.
// Loads are tolerant: a missing, empty or corrupt file yields the supplied
// default, which is written back so the file exists for the next run.
package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

type Store struct {
	dir string
	log *slog.Logger
}

func New(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{dir: dir, log: logger}, nil
}

func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Load reads the named document into a fresh value of type T. Any failure
// falls back to def: the caller always gets usable state, and def is saved
// so later loads see it.
func Load[T any](s *Store, name string, def T) T {
	path := s.Path(name)
	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("document unreadable, using defaults", "path", path, "err", err)
		}
		_ = s.Save(name, def)
		return def
	}
	if len(raw) == 0 {
		_ = s.Save(name, def)
		return def
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		s.log.Warn("document corrupt, using defaults", "path", path, "err", err)
		_ = s.Save(name, def)
		return def
	}
	return out
}

// Save writes the full document. Write failures are returned for the caller
// to log; they never roll back in-memory state.
func (s *Store) Save(name string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	if err := os.WriteFile(s.Path(name), raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
