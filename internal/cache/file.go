package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// fileRecord is the on-disk schema. Notified is a list, not a set; the
// loader de-duplicates so a damaged file cannot poison the in-memory
// state.
type fileRecord struct {
	Notified  []string  `json:"notified"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
	RunID     string    `json:"run_id,omitempty"`
}

// FileStore loads and persists the cache as a single JSON file.
type FileStore struct {
	path   string
	logger *zap.Logger
}

// NewFileStore creates a FileStore for the given path.
func NewFileStore(path string, logger *zap.Logger) *FileStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileStore{path: path, logger: logger}
}

// Load reads the persisted cache. It never fails the run: a missing
// file yields an empty cache, and a corrupt file yields an empty cache
// plus a diagnostic (accepting the risk of re-notification).
func (s *FileStore) Load() *Cache {
	c := New()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("delivery cache unreadable, starting empty",
				zap.String("path", s.path), zap.Error(err))
		}
		return c
	}

	var rec fileRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		s.logger.Warn("delivery cache corrupt, starting empty",
			zap.String("path", s.path), zap.Error(err))
		return c
	}

	for _, id := range rec.Notified {
		c.Record(id)
	}
	c.UpdatedAt = rec.UpdatedAt
	c.RunID = rec.RunID

	s.logger.Debug("delivery cache loaded",
		zap.String("path", s.path), zap.Int("notified", c.Len()))
	return c
}

// Persist writes the cache to disk. The caller decides whether a
// failure is fatal; for the sync run it is logged only, at the risk of
// re-notifying on the next run.
func (s *FileStore) Persist(c *Cache) error {
	rec := fileRecord{
		Notified:  c.IDs(),
		UpdatedAt: c.UpdatedAt,
		RunID:     c.RunID,
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create cache directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	return nil
}
