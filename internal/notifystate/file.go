package notifystate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zq535228/UptimeGuard/internal/log"
)

// FileStore keeps the notification state in a single JSON file. Saves go
// through a temp file plus rename so a crash mid-write cannot leave a
// half-written state file behind.
type FileStore struct {
	path   string
	logger *log.Logger
}

// NewFileStore returns a store backed by the given file.
func NewFileStore(path string, logger *log.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

// Load reads the full mapping. A missing or unparsable file yields an empty
// mapping; corruption is logged as a warning, never returned as an error.
func (s *FileStore) Load() (map[string]Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.warn("notification state unreadable, starting empty", err)
		}
		return map[string]Record{}, nil
	}

	records := map[string]Record{}
	if err := json.Unmarshal(data, &records); err != nil {
		s.warn("notification state corrupt, starting empty", err)
		return map[string]Record{}, nil
	}
	return records, nil
}

// Save atomically replaces the state file with the given mapping.
func (s *FileStore) Save(records map[string]Record) error {
	if records == nil {
		records = map[string]Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode notification state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".notifystate-*")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp state file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

// ClearSite removes one site's record.
func (s *FileStore) ClearSite(url string) error {
	records, err := s.Load()
	if err != nil {
		return err
	}
	if _, ok := records[url]; !ok {
		return nil
	}
	delete(records, url)
	return s.Save(records)
}

// ClearAll resets the whole mapping.
func (s *FileStore) ClearAll() error {
	return s.Save(map[string]Record{})
}

func (s *FileStore) warn(message string, err error) {
	if s.logger == nil {
		return
	}
	s.logger.Warn(message, map[string]interface{}{
		"path":  s.path,
		"error": err.Error(),
	})
}
