package sqlite

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/habitquest/internal/models"
	"github.com/julianstephens/habitquest/internal/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), "config", "habitquest.db"))
	if err := s.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestInitCreatesSchema(t *testing.T) {
	s := newTestStore(t)
	for _, table := range []string{"snapshots", "settings", "schema_version"} {
		var n int
		err := s.GetDB().QueryRow("SELECT count(*) FROM sqlite_master WHERE type='table' AND name = ?", table).Scan(&n)
		if err != nil || n != 1 {
			t.Errorf("table %s missing (n=%d, err=%v)", table, n, err)
		}
	}

	settings, err := s.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if settings != models.DefaultAppSettings() {
		t.Errorf("default settings = %+v", settings)
	}
}

func TestInitIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habitquest.db")
	first := NewStore(path)
	if err := first.Init(); err != nil {
		t.Fatal(err)
	}
	if err := first.WriteSnapshot("habits", []byte(`[]`)); err != nil {
		t.Fatal(err)
	}
	first.Close()

	second := NewStore(path)
	if err := second.Init(); err != nil {
		t.Fatalf("second Init failed: %v", err)
	}
	defer second.Close()
	if n, err := second.Migrate(); err != nil || n != 0 {
		t.Errorf("Migrate applied %d (err %v), want 0", n, err)
	}
	if _, err := second.ReadSnapshot("habits"); err != nil {
		t.Errorf("snapshot lost: %v", err)
	}
}

func TestLoad(t *testing.T) {
	missing := NewStore(filepath.Join(t.TempDir(), "nope.db"))
	if err := missing.Load(); !errors.Is(err, storage.ErrNotInitialized) {
		t.Errorf("Load err = %v, want ErrNotInitialized", err)
	}

	s := newTestStore(t)
	path := s.GetConfigPath()
	s.Close()

	loaded := NewStore(path)
	if err := loaded.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer loaded.Close()
	if _, err := loaded.GetSettings(); err != nil {
		t.Errorf("GetSettings after Load: %v", err)
	}
}

func TestLoadRejectsNewerSchema(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetDB().Exec("UPDATE schema_version SET version = 999"); err != nil {
		t.Fatal(err)
	}
	path := s.GetConfigPath()
	s.Close()

	loaded := NewStore(path)
	defer loaded.Close()
	if err := loaded.Load(); err == nil {
		t.Error("Load should refuse a newer schema")
	}
}

func TestSnapshots(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.ReadSnapshot("profile"); !errors.Is(err, storage.ErrSnapshotNotFound) {
		t.Errorf("missing err = %v", err)
	}

	batch := map[string][]byte{
		"habits":      []byte(`[{"id":"h1"}]`),
		"completions": []byte(`[]`),
		"profile":     []byte(`{"level":1}`),
	}
	if err := s.WriteSnapshots(batch); err != nil {
		t.Fatalf("WriteSnapshots failed: %v", err)
	}
	if err := s.WriteSnapshot("profile", []byte(`{"level":3}`)); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		key  string
		want string
	}{
		{"habits", `[{"id":"h1"}]`},
		{"completions", `[]`},
		{"profile", `{"level":3}`},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := s.ReadSnapshot(tt.key)
			if err != nil {
				t.Fatal(err)
			}
			if string(got) != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	at := time.Date(2024, 6, 2, 8, 15, 0, 0, time.UTC)
	if err := s.SaveSettings(models.AppSettings{AutoBackupEnabled: false, LastAutoBackup: &at, NotificationsEnabled: true}); err != nil {
		t.Fatal(err)
	}
	got, err := s.GetSettings()
	if err != nil {
		t.Fatal(err)
	}
	if got.AutoBackupEnabled || !got.NotificationsEnabled || got.LastAutoBackup == nil || !got.LastAutoBackup.Equal(at) {
		t.Errorf("settings = %+v", got)
	}
}

func TestClosedStore(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "x.db"))
	if _, err := s.ReadSnapshot("habits"); !errors.Is(err, storage.ErrNotLoaded) {
		t.Errorf("err = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close on unopened store: %v", err)
	}
}

func TestSchemaVersion(t *testing.T) {
	unopened := NewStore(filepath.Join(t.TempDir(), "habitquest.db"))
	if _, _, err := unopened.SchemaVersion(); !errors.Is(err, storage.ErrNotLoaded) {
		t.Errorf("expected ErrNotLoaded before Init, got %v", err)
	}

	s := newTestStore(t)
	current, latest, err := s.SchemaVersion()
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	if latest < 1 || current != latest {
		t.Errorf("current = %d, latest = %d after Init", current, latest)
	}
}
