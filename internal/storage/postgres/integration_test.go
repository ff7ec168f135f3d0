package postgres

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/julianstephens/habitquest/internal/storage"
)

// Set POSTGRES_TEST_URL to run, e.g.
// POSTGRES_TEST_URL="postgres://hq@localhost:5432/hq_test?sslmode=disable"
func TestStoreIntegration(t *testing.T) {
	connStr := os.Getenv("POSTGRES_TEST_URL")
	if connStr == "" {
		t.Skip("POSTGRES_TEST_URL not set, skipping PostgreSQL integration test")
	}

	store := New(connStr)
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer store.Close()

	t.Run("Settings", func(t *testing.T) {
		settings, err := store.GetSettings()
		if err != nil {
			t.Fatalf("GetSettings failed: %v", err)
		}
		now := time.Now().UTC().Truncate(time.Second)
		settings.LastAutoBackup = &now
		if err := store.SaveSettings(settings); err != nil {
			t.Fatalf("SaveSettings failed: %v", err)
		}
		got, err := store.GetSettings()
		if err != nil {
			t.Fatal(err)
		}
		if got.LastAutoBackup == nil || !got.LastAutoBackup.Equal(now) {
			t.Errorf("LastAutoBackup = %v, want %v", got.LastAutoBackup, now)
		}
	})

	t.Run("Snapshots", func(t *testing.T) {
		if err := store.WriteSnapshots(map[string][]byte{
			"pg-test-a": []byte(`[1]`),
			"pg-test-b": []byte(`{"x":2}`),
		}); err != nil {
			t.Fatalf("WriteSnapshots failed: %v", err)
		}
		data, err := store.ReadSnapshot("pg-test-b")
		if err != nil || string(data) != `{"x":2}` {
			t.Errorf("ReadSnapshot = %q, %v", data, err)
		}
		if _, err := store.ReadSnapshot("pg-test-missing"); !errors.Is(err, storage.ErrSnapshotNotFound) {
			t.Errorf("missing key err = %v", err)
		}
	})
}
