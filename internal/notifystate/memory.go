package notifystate

import "sync"

// MemoryStore is an in-process Store for tests and ephemeral runs.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]Record
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[string]Record{}}
}

// Load returns a copy of the mapping.
func (s *MemoryStore) Load() (map[string]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]Record, len(s.records))
	for url, rec := range s.records {
		out[url] = rec
	}
	return out, nil
}

// Save replaces the mapping with a copy of the given one.
func (s *MemoryStore) Save(records map[string]Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[string]Record, len(records))
	for url, rec := range records {
		s.records[url] = rec
	}
	return nil
}

// ClearSite removes one site's record.
func (s *MemoryStore) ClearSite(url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, url)
	return nil
}

// ClearAll resets the whole mapping.
func (s *MemoryStore) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = map[string]Record{}
	return nil
}
