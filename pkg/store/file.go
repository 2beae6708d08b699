package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/analyzere/extras/pkg/errors"
)

// FileStore keeps one JSON file per record under a base directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates the directory if needed.
// If baseDir is empty, defaults to ~/.local/state/are-extras/renders/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "get home dir")
		}
		baseDir = filepath.Join(home, ".local", "state", "are-extras", "renders")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create render dir")
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) recordPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *FileStore) Save(_ context.Context, rec *RenderRecord) error {
	if err := checkRecord(rec); err != nil {
		return err
	}
	// Ids become file names.
	if err := uuid.Validate(rec.ID); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidID, err, "render record id %q", rec.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "marshal render record")
	}
	if err := os.WriteFile(s.recordPath(rec.ID), data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write render record")
	}
	return nil
}

func (s *FileStore) Get(_ context.Context, id string) (*RenderRecord, error) {
	if uuid.Validate(id) != nil {
		return nil, notFound(id)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.recordPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(id)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read render record")
	}

	var rec RenderRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse render record")
	}
	return &rec, nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for record files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
