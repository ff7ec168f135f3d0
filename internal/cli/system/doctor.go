package system

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitquest/internal/cli"
	"github.com/julianstephens/habitquest/internal/constants"
	"github.com/julianstephens/habitquest/internal/utils"
)

var errNoBackups = errors.New("no backups found - consider creating one with 'habitquest backup create'")

type schemaVersioner interface {
	SchemaVersion() (current, latest int, err error)
}

type dbProvider interface {
	GetDB() *sql.DB
}

type check struct {
	name string
	run  func(*cli.Context) error

	// warnOnly checks never fail the run.
	warnOnly bool

	// needsStore checks are skipped when the store is unreachable.
	needsStore bool
}

var checks = []check{
	{name: "Schema version", run: checkSchemaVersion, needsStore: true},
	{name: "Backups present", run: checkBackupsPresent, warnOnly: true},
	{name: "Habit integrity", run: checkHabitIntegrity, needsStore: true},
	{name: "Completion integrity", run: checkCompletionIntegrity, needsStore: true},
	{name: "Clock/timezone", run: checkClockTimezone},
}

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	reachable := true
	if err := checkStoreReachable(ctx); err != nil {
		fmt.Printf("❌ Store reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
		reachable = false
	} else {
		fmt.Printf("✓ Store reachable: OK\n")
	}

	for _, c := range checks {
		if c.needsStore && !reachable {
			fmt.Printf("⊘ %s: SKIPPED (store not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	fmt.Println("All diagnostics passed!")
	return nil
}

func checkStoreReachable(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return fmt.Errorf("failed to load store: %w", err)
	}
	if p, ok := ctx.Store.(dbProvider); ok {
		db := p.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		if err := db.Ping(); err != nil {
			return fmt.Errorf("failed to reach database: %w", err)
		}
	}
	if _, err := ctx.Store.GetSettings(); err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	v, ok := ctx.Store.(schemaVersioner)
	if !ok {
		return nil
	}
	current, latest, err := v.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'habitquest migrate')", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	backups, err := ctx.Backups().List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return errNoBackups
	}
	return nil
}

func checkHabitIntegrity(ctx *cli.Context) error {
	st := ctx.Engine.Snapshot()
	ids := make(map[string]bool, len(st.Habits))
	for _, h := range st.Habits {
		if ids[h.ID] {
			return fmt.Errorf("duplicate habit ID found: %s", h.ID)
		}
		ids[h.ID] = true
		if h.Name == "" {
			return fmt.Errorf("habit %s has no name", h.ID)
		}
	}
	return nil
}

func checkCompletionIntegrity(ctx *cli.Context) error {
	st := ctx.Engine.Snapshot()
	habits := make(map[string]bool, len(st.Habits))
	for _, h := range st.Habits {
		habits[h.ID] = true
	}

	orphaned := 0
	seen := make(map[string]bool, len(st.Completions))
	for _, c := range st.Completions {
		if !habits[c.HabitID] {
			orphaned++
		}
		if !c.Status.Valid() {
			return fmt.Errorf("completion %s has invalid status %q", c.ID, c.Status)
		}
		day := utils.DateKey(c.Date.In(ctx.Engine.Location()))
		key := c.HabitID + "/" + day
		if seen[key] {
			return fmt.Errorf("habit %s has more than one completion on %s", c.HabitID, day)
		}
		seen[key] = true
	}
	if orphaned > 0 {
		return fmt.Errorf("found %d completions referencing non-existent habits", orphaned)
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if !utils.ValidateTimezone(ctx.Config.Timezone) {
		return fmt.Errorf("invalid timezone %q", ctx.Config.Timezone)
	}
	fmt.Printf("   Today is %s in %s\n", ctx.Engine.Now().Format(constants.DateFormat), ctx.Engine.Location())
	return nil
}
