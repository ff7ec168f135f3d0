package storage

import (
	"maps"
	"slices"
	"sync"

	"github.com/julianstephens/habitquest/internal/models"
)

// MemoryStore keeps snapshots in process memory. It backs tests and
// throwaway sessions.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string][]byte
	settings  models.AppSettings
	loaded    bool

	// FailWrites makes every write return the error. Used by tests.
	FailWrites error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: map[string][]byte{}, settings: models.DefaultAppSettings()}
}

func (s *MemoryStore) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = true
	return nil
}

func (s *MemoryStore) Load() error { return s.Init() }
func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) GetConfigPath() string { return ":memory:" }

func (s *MemoryStore) GetSettings() (models.AppSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings, nil
}

func (s *MemoryStore) SaveSettings(settings models.AppSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites != nil {
		return s.FailWrites
	}
	s.settings = settings
	return nil
}

func (s *MemoryStore) ReadSnapshot(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.snapshots[key]
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	return slices.Clone(data), nil
}

func (s *MemoryStore) WriteSnapshot(key string, data []byte) error {
	return s.WriteSnapshots(map[string][]byte{key: data})
}

func (s *MemoryStore) WriteSnapshots(entries map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites != nil {
		return s.FailWrites
	}
	for k, v := range entries {
		s.snapshots[k] = slices.Clone(v)
	}
	return nil
}

// Keys returns the stored snapshot keys.
func (s *MemoryStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.snapshots))
}
