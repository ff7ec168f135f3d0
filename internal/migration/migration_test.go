package migration

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func files(m map[string]string) fstest.MapFS {
	out := fstest.MapFS{}
	for name, body := range m {
		out[name] = &fstest.MapFile{Data: []byte(body)}
	}
	return out
}

func TestCurrentVersion(t *testing.T) {
	runner := NewRunner(openTestDB(t), files(nil), SQLite)

	v, err := runner.CurrentVersion()
	if err != nil {
		t.Fatalf("CurrentVersion failed: %v", err)
	}
	if v != 0 {
		t.Errorf("fresh database version = %d, want 0", v)
	}

	if err := runner.SetVersion(5); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}
	if v, _ := runner.CurrentVersion(); v != 5 {
		t.Errorf("version = %d, want 5", v)
	}
}

func TestReadMigrationFiles(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		want    []string
		wantErr string
	}{
		{
			name: "sorted by version",
			files: map[string]string{
				"003_another.sql": "SELECT 1;",
				"001_init.sql":    "SELECT 1;",
				"002_update.sql":  "SELECT 1;",
				"README.md":       "ignored",
			},
			want: []string{"init", "update", "another"},
		},
		{name: "missing separator", files: map[string]string{"001.sql": ""}, wantErr: "invalid migration filename"},
		{name: "non numeric", files: map[string]string{"abc_init.sql": ""}, wantErr: "invalid version number"},
		{name: "zero version", files: map[string]string{"000_init.sql": ""}, wantErr: "at least 1"},
		{
			name:    "duplicate",
			files:   map[string]string{"001_a.sql": "", "1_b.sql": ""},
			wantErr: "duplicate migration version 1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := NewRunner(openTestDB(t), files(tt.files), SQLite)
			ms, err := runner.ReadMigrationFiles()
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("err = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadMigrationFiles failed: %v", err)
			}
			if len(ms) != len(tt.want) {
				t.Fatalf("got %d migrations, want %d", len(ms), len(tt.want))
			}
			for i, m := range ms {
				if m.Version != i+1 || m.Name != tt.want[i] {
					t.Errorf("migration %d = %d/%s, want %d/%s", i, m.Version, m.Name, i+1, tt.want[i])
				}
			}
		})
	}
}

func TestApplyMigrations(t *testing.T) {
	db := openTestDB(t)
	fsys := files(map[string]string{
		"001_init.sql":  "CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT);",
		"002_posts.sql": "CREATE TABLE posts (id INTEGER PRIMARY KEY, user_id INTEGER);",
	})
	runner := NewRunner(db, fsys, SQLite)

	var logs []string
	n, err := runner.ApplyMigrations(func(s string) { logs = append(logs, s) })
	if err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}
	if n != 2 {
		t.Errorf("applied %d, want 2", n)
	}
	if len(logs) == 0 {
		t.Error("expected progress messages")
	}
	if v, _ := runner.CurrentVersion(); v != 2 {
		t.Errorf("version = %d, want 2", v)
	}
	if _, err := db.Exec("INSERT INTO posts (user_id) VALUES (1)"); err != nil {
		t.Errorf("posts table missing: %v", err)
	}

	n, err = runner.ApplyMigrations(nil)
	if err != nil || n != 0 {
		t.Errorf("second run applied %d (err %v), want 0", n, err)
	}
}

func TestApplyMigrationsIncremental(t *testing.T) {
	db := openTestDB(t)
	first := files(map[string]string{"001_init.sql": "CREATE TABLE a (id INTEGER);"})
	if _, err := NewRunner(db, first, SQLite).ApplyMigrations(nil); err != nil {
		t.Fatalf("first run failed: %v", err)
	}

	second := files(map[string]string{
		"001_init.sql": "CREATE TABLE a (id INTEGER);",
		"002_b.sql":    "CREATE TABLE b (id INTEGER);",
	})
	n, err := NewRunner(db, second, SQLite).ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if n != 1 {
		t.Errorf("applied %d, want 1", n)
	}
}

func TestApplyMigrationsRollsBackFailure(t *testing.T) {
	db := openTestDB(t)
	runner := NewRunner(db, files(map[string]string{
		"001_ok.sql":     "CREATE TABLE ok (id INTEGER);",
		"002_broken.sql": "CREATE TABLE nope (id INTEGER); THIS IS NOT SQL;",
	}), SQLite)

	n, err := runner.ApplyMigrations(nil)
	if err == nil {
		t.Fatal("expected failure")
	}
	if n != 1 {
		t.Errorf("applied %d before failure, want 1", n)
	}
	if v, _ := runner.CurrentVersion(); v != 1 {
		t.Errorf("version = %d, want 1", v)
	}
}

func TestValidateVersion(t *testing.T) {
	db := openTestDB(t)
	runner := NewRunner(db, files(map[string]string{"001_init.sql": "SELECT 1;"}), SQLite)

	if err := runner.ValidateVersion(); err != nil {
		t.Errorf("fresh database should validate: %v", err)
	}
	if err := runner.SetVersion(7); err != nil {
		t.Fatal(err)
	}
	err := runner.ValidateVersion()
	if err == nil || !strings.Contains(err.Error(), "newer than supported") {
		t.Errorf("err = %v, want newer-schema error", err)
	}
	if _, err := runner.ApplyMigrations(nil); err == nil {
		t.Error("ApplyMigrations should refuse a newer schema")
	}
}

func TestDialectBind(t *testing.T) {
	if got := SQLite.bind(1); got != "?" {
		t.Errorf("sqlite bind = %q", got)
	}
	if got := Postgres.bind(2); got != "$2" {
		t.Errorf("postgres bind = %q", got)
	}
}
