package backups

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/habitquest/internal/cli"
	"github.com/julianstephens/habitquest/internal/config"
	"github.com/julianstephens/habitquest/internal/engine"
	"github.com/julianstephens/habitquest/internal/models"
	"github.com/julianstephens/habitquest/internal/storage"
)

func setupContext(t *testing.T) *cli.Context {
	t.Helper()
	store := storage.NewMemoryStore()
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	cfg := &config.Config{Timezone: "UTC", Quests: config.QuestConfig{Count: 3}, Dir: t.TempDir()}
	clock := engine.NewFakeClock(time.Date(2026, 1, 7, 10, 0, 0, 0, time.UTC))
	ctx, err := cli.NewContext(cfg, store, engine.WithClock(clock), engine.WithBadgeCatalog(nil))
	if err != nil {
		t.Fatalf("failed to create context: %v", err)
	}
	if err := ctx.Engine.Load(); err != nil {
		t.Fatalf("failed to load engine: %v", err)
	}
	ctx.Yes = true
	return ctx
}

func addHabit(t *testing.T, ctx *cli.Context, name string) {
	t.Helper()
	if _, err := ctx.Engine.AddHabit(engine.NewHabit{Name: name, Category: models.CategoryHealth, Type: models.HabitTypeBuild}); err != nil {
		t.Fatal(err)
	}
}

func TestBackupCreateListRestore(t *testing.T) {
	ctx := setupContext(t)
	addHabit(t, ctx, "Read")

	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup list on empty dir failed: %v", err)
	}
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup create failed: %v", err)
	}
	backups, err := ctx.Backups().List()
	if err != nil || len(backups) != 1 {
		t.Fatalf("expected 1 backup, got %d (%v)", len(backups), err)
	}
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup list failed: %v", err)
	}

	addHabit(t, ctx, "Run")
	if err := (&BackupRestoreCmd{BackupFile: filepath.Base(backups[0].Path)}).Run(ctx); err != nil {
		t.Fatalf("backup restore failed: %v", err)
	}
	if n := len(ctx.Engine.Snapshot().Habits); n != 1 {
		t.Errorf("expected 1 habit after restore, got %d", n)
	}
}

func TestBackupRestoreMissingFile(t *testing.T) {
	ctx := setupContext(t)
	if err := (&BackupRestoreCmd{BackupFile: "habitquest-19990101-0000.json"}).Run(ctx); err == nil {
		t.Error("expected an error for a missing backup")
	}
}

func TestExportImport(t *testing.T) {
	ctx := setupContext(t)
	addHabit(t, ctx, "Read")

	out := filepath.Join(t.TempDir(), "export.json")
	if err := (&ExportCmd{Output: out}).Run(ctx); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	addHabit(t, ctx, "Run")

	if err := (&ImportCmd{File: out}).Run(ctx); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	habits := ctx.Engine.Snapshot().Habits
	if len(habits) != 1 || habits[0].Name != "Read" {
		t.Errorf("habits after import = %+v", habits)
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte(`{"version":99,"data":{}}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := (&ImportCmd{File: bad}).Run(ctx); err == nil {
		t.Error("expected an error for an unsupported bundle")
	}
	if n := len(ctx.Engine.Snapshot().Habits); n != 1 {
		t.Errorf("rejected import changed state: %d habits", n)
	}
}
