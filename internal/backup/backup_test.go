package backup

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitquest/internal/constants"
	"github.com/julianstephens/habitquest/internal/engine"
	"github.com/julianstephens/habitquest/internal/models"
	"github.com/julianstephens/habitquest/internal/storage"
)

var base = time.Date(2026, 1, 5, 9, 30, 0, 0, time.Local)

func setupManager(t *testing.T) (*Manager, *engine.Engine, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	e := engine.New(store, engine.WithClock(engine.NewFakeClock(base)), engine.WithBadgeCatalog(nil))
	if err := e.Load(); err != nil {
		t.Fatalf("failed to load engine: %v", err)
	}
	mgr := NewManager(filepath.Join(t.TempDir(), constants.BackupDirName), e)
	mgr.now = func() time.Time { return base }
	return mgr, e, store
}

func addHabit(t *testing.T, e *engine.Engine, name string) {
	t.Helper()
	_, err := e.AddHabit(engine.NewHabit{Name: name, Category: models.CategoryHealth, Type: models.HabitTypeBuild})
	if err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}
}

func TestCreateBackup(t *testing.T) {
	mgr, e, _ := setupManager(t)
	addHabit(t, e, "Read")

	path, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if filepath.Base(path) != "habitquest-20260105-0930.json" {
		t.Errorf("unexpected backup name %s", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read backup: %v", err)
	}
	if err := engine.ValidateBundle(data); err != nil {
		t.Errorf("backup is not a valid bundle: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file was left behind")
	}
}

func TestCreateBackupUniqueNames(t *testing.T) {
	mgr, _, _ := setupManager(t)

	want := []string{
		"habitquest-20260105-0930.json",
		"habitquest-20260105-093000.json",
		"habitquest-20260105-093000-1.json",
		"habitquest-20260105-093000-2.json",
	}
	for _, name := range want {
		path, err := mgr.Create()
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if filepath.Base(path) != name {
			t.Errorf("got %s, want %s", filepath.Base(path), name)
		}
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != len(want) {
		t.Errorf("expected %d backups, got %d", len(want), len(backups))
	}
}

func TestListBackups(t *testing.T) {
	mgr, _, _ := setupManager(t)

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List on missing directory failed: %v", err)
	}
	if len(backups) != 0 {
		t.Fatalf("expected no backups, got %d", len(backups))
	}

	for i := range 3 {
		mgr.now = func() time.Time { return base.Add(time.Duration(i) * time.Hour) }
		if _, err := mgr.Create(); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	if err := os.WriteFile(filepath.Join(mgr.Dir(), "notes.txt"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	backups, err = mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("expected 3 backups, got %d", len(backups))
	}
	for i := 1; i < len(backups); i++ {
		if !backups[i-1].Timestamp.After(backups[i].Timestamp) {
			t.Errorf("backups not sorted newest first: %v before %v", backups[i-1].Timestamp, backups[i].Timestamp)
		}
	}
	if !backups[0].Timestamp.Equal(base.Add(2 * time.Hour)) {
		t.Errorf("newest backup timestamp = %v", backups[0].Timestamp)
	}
	if backups[0].Size == 0 {
		t.Error("expected a non-zero size")
	}
}

func TestRotation(t *testing.T) {
	mgr, _, _ := setupManager(t)

	total := constants.MaxBackups + 2
	for i := range total {
		mgr.now = func() time.Time { return base.Add(time.Duration(i) * time.Minute) }
		if _, err := mgr.Create(); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != constants.MaxBackups {
		t.Fatalf("expected %d backups after rotation, got %d", constants.MaxBackups, len(backups))
	}
	oldest := backups[len(backups)-1].Timestamp
	if !oldest.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("oldest remaining backup = %v, want %v", oldest, base.Add(2*time.Minute))
	}
}

func TestResolve(t *testing.T) {
	mgr, _, _ := setupManager(t)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare name", "habitquest-20260105-0930.json", filepath.Join(mgr.Dir(), "habitquest-20260105-0930.json")},
		{"absolute", "/tmp/backup.json", "/tmp/backup.json"},
		{"relative path", "exports/backup.json", "exports/backup.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mgr.Resolve(tt.in); got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRestoreBackup(t *testing.T) {
	mgr, e, _ := setupManager(t)
	addHabit(t, e, "Read")

	path, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	addHabit(t, e, "Run")

	safety, err := mgr.Restore(path)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	habits := e.Snapshot().Habits
	if len(habits) != 1 || habits[0].Name != "Read" {
		t.Errorf("expected only the backed up habit, got %+v", habits)
	}

	data, err := os.ReadFile(safety)
	if err != nil {
		t.Fatalf("safety backup missing: %v", err)
	}
	if !strings.Contains(string(data), `"Run"`) {
		t.Error("safety backup does not hold the pre-restore state")
	}
}

func TestRestoreRejectsInvalidBackup(t *testing.T) {
	mgr, e, _ := setupManager(t)
	addHabit(t, e, "Read")

	if err := os.MkdirAll(mgr.Dir(), 0o700); err != nil {
		t.Fatal(err)
	}
	bad := filepath.Join(mgr.Dir(), "habitquest-20260101-0000.json")
	if err := os.WriteFile(bad, []byte("not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := mgr.Restore(bad); err == nil {
		t.Fatal("expected an error for a corrupted backup")
	}
	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 1 {
		t.Errorf("no safety backup should be written for an invalid file, got %d backups", len(backups))
	}
	if len(e.Snapshot().Habits) != 1 {
		t.Error("state changed after a rejected restore")
	}
}

func TestRestoreMissingBackup(t *testing.T) {
	mgr, _, _ := setupManager(t)

	_, err := mgr.Restore(filepath.Join(mgr.Dir(), "missing.json"))
	if !errors.Is(err, ErrBackupNotFound) {
		t.Errorf("expected ErrBackupNotFound, got %v", err)
	}
}

func TestAutoBackupDue(t *testing.T) {
	ago := func(days int) *time.Time {
		ts := base.AddDate(0, 0, -days)
		return &ts
	}

	tests := []struct {
		name     string
		settings models.AppSettings
		want     bool
	}{
		{"disabled", models.AppSettings{AutoBackupEnabled: false}, false},
		{"never run", models.AppSettings{AutoBackupEnabled: true}, true},
		{"ran today", models.AppSettings{AutoBackupEnabled: true, LastAutoBackup: ago(0)}, false},
		{"six days ago", models.AppSettings{AutoBackupEnabled: true, LastAutoBackup: ago(6)}, false},
		{"seven days ago", models.AppSettings{AutoBackupEnabled: true, LastAutoBackup: ago(7)}, true},
		{"disabled and stale", models.AppSettings{AutoBackupEnabled: false, LastAutoBackup: ago(30)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AutoBackupDue(tt.settings, base); got != tt.want {
				t.Errorf("AutoBackupDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRunAutomatic(t *testing.T) {
	mgr, _, store := setupManager(t)
	if err := store.SaveSettings(models.AppSettings{AutoBackupEnabled: true}); err != nil {
		t.Fatal(err)
	}

	path, err := mgr.RunAutomatic(store)
	if err != nil {
		t.Fatalf("RunAutomatic failed: %v", err)
	}
	if path == "" {
		t.Fatal("expected a backup on first run")
	}
	s, _ := store.GetSettings()
	if s.LastAutoBackup == nil || !s.LastAutoBackup.Equal(base) {
		t.Errorf("LastAutoBackup = %v, want %v", s.LastAutoBackup, base)
	}

	mgr.now = func() time.Time { return base.AddDate(0, 0, 3) }
	path, err = mgr.RunAutomatic(store)
	if err != nil {
		t.Fatalf("RunAutomatic failed: %v", err)
	}
	if path != "" {
		t.Errorf("backup should not run again within the interval, got %s", path)
	}

	mgr.now = func() time.Time { return base.AddDate(0, 0, constants.AutoBackupInterval) }
	path, err = mgr.RunAutomatic(store)
	if err != nil {
		t.Fatalf("RunAutomatic failed: %v", err)
	}
	if path == "" {
		t.Error("expected a backup once the interval has passed")
	}
}
