package storage

import (
	"errors"

	"github.com/julianstephens/habitquest/internal/models"
)

var (
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrNotLoaded        = errors.New("storage not loaded")
	ErrNotInitialized   = errors.New("storage not initialized, run 'habitquest init' first")
)

// Provider persists opaque JSON snapshots keyed by collection name, plus
// storage-level settings that are not part of the export bundle.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.AppSettings, error)
	SaveSettings(models.AppSettings) error

	// Snapshots
	ReadSnapshot(key string) ([]byte, error)
	WriteSnapshot(key string, data []byte) error
	// WriteSnapshots stores every entry or none of them.
	WriteSnapshots(entries map[string][]byte) error

	// Utils
	GetConfigPath() string
}
