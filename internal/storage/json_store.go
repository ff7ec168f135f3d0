package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sync"

	"github.com/julianstephens/habitquest/internal/models"
)

type jsonDocument struct {
	Version   int                        `json:"version"`
	Settings  models.AppSettings         `json:"settings"`
	Snapshots map[string]json.RawMessage `json:"snapshots"`
}

// JSONStore keeps every snapshot in a single JSON document on disk.
// Writes go to a temp file that is renamed over the original.
type JSONStore struct {
	mu   sync.Mutex
	path string
	doc  *jsonDocument
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(s.path); err == nil {
		return s.load()
	}
	s.doc = &jsonDocument{
		Version:   1,
		Settings:  models.DefaultAppSettings(),
		Snapshots: map[string]json.RawMessage{},
	}
	return s.save()
}

func (s *JSONStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *JSONStore) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotInitialized
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}
	doc := &jsonDocument{}
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if doc.Snapshots == nil {
		doc.Snapshots = map[string]json.RawMessage{}
	}
	s.doc = doc
	return nil
}

// refresh re-reads the document so writes from another process sharing the
// file are neither missed nor overwritten.
func (s *JSONStore) refresh() error {
	if s.doc == nil {
		return ErrNotLoaded
	}
	return s.load()
}

func (s *JSONStore) save() error {
	data, err := json.Marshal(s.doc)
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace storage: %w", err)
	}
	return nil
}

func (s *JSONStore) Close() error { return nil }

func (s *JSONStore) GetConfigPath() string { return s.path }

func (s *JSONStore) GetSettings() (models.AppSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.refresh(); err != nil {
		return models.AppSettings{}, err
	}
	return s.doc.Settings, nil
}

func (s *JSONStore) SaveSettings(settings models.AppSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.refresh(); err != nil {
		return err
	}
	s.doc.Settings = settings
	return s.save()
}

func (s *JSONStore) ReadSnapshot(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.refresh(); err != nil {
		return nil, err
	}
	raw, ok := s.doc.Snapshots[key]
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	return append([]byte(nil), raw...), nil
}

func (s *JSONStore) WriteSnapshot(key string, data []byte) error {
	return s.WriteSnapshots(map[string][]byte{key: data})
}

func (s *JSONStore) WriteSnapshots(entries map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.refresh(); err != nil {
		return err
	}
	next := maps.Clone(s.doc.Snapshots)
	for k, v := range entries {
		if !json.Valid(v) {
			return fmt.Errorf("snapshot %q is not valid JSON", k)
		}
		next[k] = append(json.RawMessage(nil), v...)
	}
	prev := s.doc.Snapshots
	s.doc.Snapshots = next
	if err := s.save(); err != nil {
		s.doc.Snapshots = prev
		return err
	}
	return nil
}
