package redis

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitquest/internal/storage"
)

func TestNewParsesPrefix(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		wantURL    string
		wantPrefix string
	}{
		{"default prefix", "redis://localhost:6379/0", "redis://localhost:6379/0", "habitquest"},
		{"custom prefix", "redis://localhost:6379/2?prefix=alice", "redis://localhost:6379/2", "alice"},
		{"keeps other params", "rediss://h:6380/0?prefix=p&dial_timeout=3s", "rediss://h:6380/0?dial_timeout=3s", "p"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.url)
			if s.url != tt.wantURL || s.prefix != tt.wantPrefix {
				t.Errorf("New() = %q/%q, want %q/%q", s.url, s.prefix, tt.wantURL, tt.wantPrefix)
			}
		})
	}
}

func TestIsURL(t *testing.T) {
	for in, want := range map[string]bool{
		"redis://localhost":      true,
		"rediss://localhost":     true,
		"postgres://localhost":   false,
		"/home/me/habitquest.db": false,
	} {
		if got := IsURL(in); got != want {
			t.Errorf("IsURL(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestUnloadedStore(t *testing.T) {
	s := New("redis://localhost:6379/0")
	if _, err := s.ReadSnapshot("habits"); !errors.Is(err, storage.ErrNotLoaded) {
		t.Errorf("ReadSnapshot err = %v", err)
	}
	if err := s.WriteSnapshot("habits", []byte("[]")); !errors.Is(err, storage.ErrNotLoaded) {
		t.Errorf("WriteSnapshot err = %v", err)
	}
}

// Set REDIS_TEST_URL to run, e.g. REDIS_TEST_URL="redis://localhost:6379/15"
func TestStoreIntegration(t *testing.T) {
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set, skipping Redis integration test")
	}

	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	store := New(fmt.Sprintf("%s%sprefix=hq-test-%d", url, sep, time.Now().UnixNano()))
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer store.Close()

	settings, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if !settings.AutoBackupEnabled {
		t.Error("default settings should enable auto backup")
	}

	if err := store.WriteSnapshots(map[string][]byte{"habits": []byte(`[]`), "profile": []byte(`{}`)}); err != nil {
		t.Fatalf("WriteSnapshots failed: %v", err)
	}
	data, err := store.ReadSnapshot("profile")
	if err != nil || string(data) != `{}` {
		t.Errorf("ReadSnapshot = %q, %v", data, err)
	}
	if _, err := store.ReadSnapshot("quests"); !errors.Is(err, storage.ErrSnapshotNotFound) {
		t.Errorf("missing snapshot err = %v", err)
	}
}
