// Package backup writes, rotates and restores bundle backups of the game
// state.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/julianstephens/habitquest/internal/constants"
	"github.com/julianstephens/habitquest/internal/engine"
	"github.com/julianstephens/habitquest/internal/logger"
	"github.com/julianstephens/habitquest/internal/models"
	"github.com/julianstephens/habitquest/internal/utils"
)

var ErrBackupNotFound = errors.New("backup file does not exist")

// Source exports and imports the state being backed up.
type Source interface {
	Export() engine.Bundle
	Import(data []byte) error
}

// SettingsStore records when the last automatic backup ran.
type SettingsStore interface {
	GetSettings() (models.AppSettings, error)
	SaveSettings(models.AppSettings) error
}

// BackupInfo contains information about a backup file
type BackupInfo struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager handles backup operations
type Manager struct {
	dir    string
	source Source
	now    func() time.Time
}

// NewManager creates a manager writing into dir.
func NewManager(dir string, source Source) *Manager {
	return &Manager{dir: dir, source: source, now: time.Now}
}

// Dir returns the backup directory path.
func (m *Manager) Dir() string {
	return m.dir
}

// Create writes a backup of the current state and prunes old ones.
func (m *Manager) Create() (string, error) {
	return m.create(false)
}

// create writes a backup. skipRotation keeps a pre-restore safety backup
// from pruning the file being restored.
func (m *Manager) create(skipRotation bool) (string, error) {
	if err := os.MkdirAll(m.dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	data, err := json.MarshalIndent(m.source.Export(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode backup: %w", err)
	}

	path, err := m.uniquePath()
	if err != nil {
		return "", err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to write backup: %w", err)
	}

	if !skipRotation {
		if err := m.rotate(); err != nil {
			logger.Warn("Failed to rotate old backups", "error", err)
		}
	}
	logger.Info("Created backup", "path", path)
	return path, nil
}

func fileName(stamp string) string {
	return constants.BackupFilePrefix + stamp + constants.BackupFileSuffix
}

// uniquePath names a backup after the current minute, falling back to
// seconds and then a counter when the name is taken.
func (m *Manager) uniquePath() (string, error) {
	now := m.now()
	path := filepath.Join(m.dir, fileName(now.Format("20060102-1504")))
	if !exists(path) {
		return path, nil
	}
	stamp := now.Format("20060102-150405")
	path = filepath.Join(m.dir, fileName(stamp))
	for i := 1; exists(path); i++ {
		if i > 100 {
			return "", errors.New("failed to generate unique backup filename")
		}
		path = filepath.Join(m.dir, fileName(fmt.Sprintf("%s-%d", stamp, i)))
	}
	return path, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// parseStamp reads the timestamp out of a backup file name, ignoring a
// trailing collision counter.
func parseStamp(name string) (time.Time, bool) {
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)
	parts := strings.Split(stamp, "-")
	if len(parts) == 3 {
		stamp = parts[0] + "-" + parts[1]
	}
	for _, layout := range []string{"20060102-1504", "20060102-150405"} {
		if ts, err := time.ParseInLocation(layout, stamp, time.Local); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// List returns every backup in the directory, newest first.
func (m *Manager) List() ([]BackupInfo, error) {
	entries, err := os.ReadDir(m.dir)
	if errors.Is(err, os.ErrNotExist) {
		return []BackupInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []BackupInfo{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
			continue
		}
		ts, ok := parseStamp(name)
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, BackupInfo{Path: filepath.Join(m.dir, name), Timestamp: ts, Size: info.Size()})
	}

	slices.SortStableFunc(backups, func(a, b BackupInfo) int {
		if c := b.Timestamp.Compare(a.Timestamp); c != 0 {
			return c
		}
		return strings.Compare(b.Path, a.Path)
	})
	return backups, nil
}

func (m *Manager) rotate() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	for _, b := range backups[min(len(backups), constants.MaxBackups):] {
		if err := os.Remove(b.Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", b.Path, err)
		}
	}
	return nil
}

// Resolve turns a bare file name into a path inside the backup directory.
func (m *Manager) Resolve(nameOrPath string) string {
	if filepath.IsAbs(nameOrPath) || strings.ContainsRune(nameOrPath, filepath.Separator) {
		return nameOrPath
	}
	return filepath.Join(m.dir, nameOrPath)
}

// Restore validates a backup, saves the current state as a safety backup and
// then imports it. It returns the safety backup's path.
func (m *Manager) Restore(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrBackupNotFound, path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read backup: %w", err)
	}
	if err := engine.ValidateBundle(data); err != nil {
		return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	safety, err := m.create(true)
	if err != nil {
		return "", fmt.Errorf("failed to back up current state before restore: %w", err)
	}
	if err := m.source.Import(data); err != nil {
		return safety, fmt.Errorf("failed to restore backup: %w", err)
	}
	logger.Info("Restored backup", "path", path, "safety", safety)
	return safety, nil
}

// AutoBackupDue reports whether an automatic backup should run at now:
// enabled, and never run or run at least AutoBackupInterval calendar days ago.
func AutoBackupDue(s models.AppSettings, now time.Time) bool {
	if !s.AutoBackupEnabled {
		return false
	}
	return s.LastAutoBackup == nil || utils.DaysBetween(now, *s.LastAutoBackup) >= constants.AutoBackupInterval
}

// RunAutomatic creates a backup when one is due and records the time. It
// returns the new backup's path, or "" when none was due.
func (m *Manager) RunAutomatic(settings SettingsStore) (string, error) {
	s, err := settings.GetSettings()
	if err != nil {
		return "", fmt.Errorf("failed to read settings: %w", err)
	}
	now := m.now()
	if !AutoBackupDue(s, now) {
		return "", nil
	}
	path, err := m.Create()
	if err != nil {
		return "", err
	}
	s.LastAutoBackup = &now
	if err := settings.SaveSettings(s); err != nil {
		return path, fmt.Errorf("failed to record automatic backup: %w", err)
	}
	return path, nil
}
