package progress

import (
	"testing"
	"time"

	"github.com/julianstephens/habitquest/internal/badges"
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
	ctx, err := cli.NewContext(cfg, store, engine.WithClock(clock), engine.WithBadgeCatalog(badges.Catalog))
	if err != nil {
		t.Fatalf("failed to create context: %v", err)
	}
	if err := ctx.Engine.Load(); err != nil {
		t.Fatalf("failed to load engine: %v", err)
	}
	return ctx
}

func TestReadOnlyCommands(t *testing.T) {
	ctx := setupContext(t)

	run := func(t *testing.T) {
		t.Helper()
		cmds := map[string]interface{ Run(*cli.Context) error }{
			"profile":    &ProfileCmd{},
			"quests":     &QuestsCmd{},
			"badges":     &BadgesCmd{},
			"badges all": &BadgesCmd{All: true},
			"insights":   &InsightsCmd{},
		}
		for name, cmd := range cmds {
			if err := cmd.Run(ctx); err != nil {
				t.Errorf("%s failed: %v", name, err)
			}
		}
	}

	t.Run("empty", run)

	h, err := ctx.Engine.AddHabit(engine.NewHabit{Name: "Run", Category: models.CategoryHealth, Type: models.HabitTypeBuild})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ctx.Engine.Apply(h.ID, models.StatusCompleted, ctx.Engine.Now()); err != nil {
		t.Fatal(err)
	}
	t.Run("with history", run)
}

func TestQuestsCmdGeneratesQuests(t *testing.T) {
	ctx := setupContext(t)
	if _, err := ctx.Engine.AddHabit(engine.NewHabit{Name: "Run", Category: models.CategoryHealth, Type: models.HabitTypeBuild}); err != nil {
		t.Fatal(err)
	}

	if err := (&QuestsCmd{}).Run(ctx); err != nil {
		t.Fatalf("quests failed: %v", err)
	}
	if n := len(ctx.Engine.Snapshot().Quests); n == 0 {
		t.Error("expected daily quests once a habit exists")
	}
}
