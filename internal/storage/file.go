package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/hammamikhairi/smartagri/internal/domain"
	"github.com/hammamikhairi/smartagri/internal/logger"
)

// Compile-time interface check.
var _ domain.PreferenceStore = (*FileStore)(nil)

// FileStore keeps preferences in a small JSON object on disk. Every write
// replaces the whole file through a temp file and rename, so a crash never
// leaves a half-written file behind.
type FileStore struct {
	path string
	log  *logger.Logger

	mu     sync.Mutex
	values map[string]string
}

// DefaultPath returns the preferences file under the user config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config dir: %w", err)
	}
	return filepath.Join(dir, "smartagri", "preferences.json"), nil
}

// NewFileStore opens the store at path, loading existing values. A missing
// file is treated as empty.
func NewFileStore(path string, log *logger.Logger) (*FileStore, error) {
	s := &FileStore{
		path:   path,
		log:    log.With("store"),
		values: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		s.log.Debug("no preferences at %s yet", path)
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("reading preferences: %w", err)
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.values); err != nil {
			return nil, fmt.Errorf("decoding preferences %s: %w", path, err)
		}
	}
	s.log.Debug("loaded %d preferences from %s", len(s.values), path)
	return s, nil
}

// Path returns the backing file.
func (s *FileStore) Path() string { return s.path }

// Get returns the value for key, or domain.ErrNotFound.
func (s *FileStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.values[key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return v, nil
}

// Set stores a value and flushes the file.
func (s *FileStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.values[key]
	s.values[key] = value
	if err := s.flushLocked(); err != nil {
		if had {
			s.values[key] = prev
		} else {
			delete(s.values, key)
		}
		return err
	}
	s.log.Debug("set %s", key)
	return nil
}

// Delete removes key and flushes the file. Deleting a missing key is not
// an error.
func (s *FileStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.values[key]
	if !had {
		return nil
	}
	delete(s.values, key)
	if err := s.flushLocked(); err != nil {
		s.values[key] = prev
		return err
	}
	s.log.Debug("deleted %s", key)
	return nil
}

func (s *FileStore) flushLocked() error {
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding preferences: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".preferences-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing preferences: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing preferences: %w", err)
	}
	return nil
}
