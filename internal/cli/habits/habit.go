package habits

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/julianstephens/habitquest/internal/cli"
	"github.com/julianstephens/habitquest/internal/engine"
	"github.com/julianstephens/habitquest/internal/models"
	"github.com/julianstephens/habitquest/internal/utils"
)

type HabitCmd struct {
	Add       HabitAddCmd       `cmd:"" help:"Add a new habit."`
	Presets   HabitPresetsCmd   `cmd:"" help:"List preset habits for 'habit add --preset'."`
	List      HabitListCmd      `cmd:"" help:"List habits." default:"1"`
	Today     HabitTodayCmd     `cmd:"" help:"Show today's habit status."`
	Done      HabitDoneCmd      `cmd:"" help:"Mark a habit completed."`
	Fail      HabitFailCmd      `cmd:"" help:"Mark a habit failed."`
	Skip      HabitSkipCmd      `cmd:"" help:"Skip a habit for a day."`
	Undo      HabitUndoCmd      `cmd:"" help:"Remove the record for a day."`
	Duplicate HabitDuplicateCmd `cmd:"" help:"Create a copy of a habit."`
	Archive   HabitArchiveCmd   `cmd:"" help:"Archive a habit."`
	Restore   HabitRestoreCmd   `cmd:"" help:"Restore an archived habit."`
	Delete    HabitDeleteCmd    `cmd:"" help:"Delete a habit and its history."`
	Reorder   HabitReorderCmd   `cmd:"" help:"Move a habit to another habit's position."`
}

// HabitFlags are the editable fields shared by add and duplicate.
type HabitFlags struct {
	Category   string `help:"Health, Wellness, Productivity or Lifestyle."`
	Type       string `help:"build, reduce or maintain."`
	Days       string `help:"Schedule: daily, weekdays, weekends or a list like mon,wed,fri."`
	Reminder   string `help:"Reminder time (HH:MM). Use 'none' to clear."`
	Difficulty string `help:"easy, medium, hard or a custom label with --xp."`
	XP         int    `help:"Custom XP reward (1-100)."`
}

func (f HabitFlags) apply(nh *engine.NewHabit) error {
	if f.Category != "" {
		cat, err := models.ParseCategory(f.Category)
		if err != nil {
			return err
		}
		nh.Category = cat
	}
	if f.Type != "" {
		typ, err := models.ParseHabitType(f.Type)
		if err != nil {
			return err
		}
		nh.Type = typ
	}
	if f.Days != "" {
		days, err := cli.ParseWeekdays(f.Days)
		if err != nil {
			return err
		}
		nh.ScheduleDays = days
	}
	switch strings.ToLower(f.Reminder) {
	case "":
	case "none":
		nh.ReminderTime = nil
	default:
		r := f.Reminder
		nh.ReminderTime = &r
	}
	if f.Difficulty != "" {
		nh.Difficulty = strings.ToLower(f.Difficulty)
		if _, ok := models.LookupDifficulty(nh.Difficulty); ok && f.XP == 0 {
			nh.XPReward = 0
		}
	}
	if f.XP != 0 {
		nh.XPReward = f.XP
	}
	return nil
}

type HabitAddCmd struct {
	Name   string     `arg:"" optional:"" help:"Habit name."`
	Preset string     `help:"Start from a preset habit (see 'habit presets')."`
	Flags  HabitFlags `embed:""`
}

func findPreset(name string) (models.HabitTemplate, bool) {
	all := slices.Concat(models.PreconfiguredHabits, models.ScheduledTemplates)
	i := slices.IndexFunc(all, func(t models.HabitTemplate) bool { return strings.EqualFold(t.Name, name) })
	if i < 0 {
		return models.HabitTemplate{}, false
	}
	return all[i], true
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	nh := engine.NewHabit{Category: models.CategoryHealth, Type: models.HabitTypeBuild}
	if c.Preset != "" {
		tpl, ok := findPreset(c.Preset)
		if !ok {
			return fmt.Errorf("unknown preset %q; see 'habitquest habit presets'", c.Preset)
		}
		nh = engine.NewHabit{Name: tpl.Name, Category: tpl.Category, Type: tpl.Type, ScheduleDays: tpl.ScheduleDays}
	}
	if c.Name != "" {
		nh.Name = c.Name
	}
	if err := c.Flags.apply(&nh); err != nil {
		return err
	}

	habit, err := ctx.Engine.AddHabit(nh)
	if err != nil {
		return err
	}
	cli.Success("Added habit %s (%s, %s, %d XP)", habit.Name, habit.Category, cli.FormatSchedule(habit.ScheduleDays), habit.XPReward)
	printUnlocks(ctx)
	return nil
}

type HabitPresetsCmd struct{}

func (c *HabitPresetsCmd) Run(ctx *cli.Context) error {
	fmt.Println(cli.TitleStyle.Render("Everyday habits"))
	for _, t := range models.PreconfiguredHabits {
		fmt.Printf("  %-22s %-13s %s\n", t.Name, t.Category, t.Type)
	}
	fmt.Println()
	fmt.Println(cli.TitleStyle.Render("Scheduled habits"))
	for _, t := range models.ScheduledTemplates {
		fmt.Printf("  %-22s %-13s %-9s %s\n", t.Name, t.Category, t.Type, cli.FormatSchedule(t.ScheduleDays))
	}
	return nil
}

type HabitListCmd struct {
	Archived bool `help:"Show archived habits instead."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	habits := ctx.Engine.ActiveHabits()
	if c.Archived {
		habits = ctx.Engine.ArchivedHabits()
	}
	if len(habits) == 0 {
		if c.Archived {
			fmt.Println("No archived habits.")
		} else {
			fmt.Println("No habits yet. Add one with 'habitquest habit add'.")
		}
		return nil
	}

	for _, h := range habits {
		reminder := ""
		if h.HasReminder() {
			reminder = " ⏰ " + *h.ReminderTime
		}
		fmt.Printf("%s  %-24s %-13s %-9s %-16s 🔥 %d%s\n",
			cli.MutedStyle.Render(h.ID[:min(8, len(h.ID))]), h.Name, h.Category, h.Type,
			cli.FormatSchedule(h.ScheduleDays), h.Streak, reminder)
	}
	return nil
}

type HabitTodayCmd struct{}

func (c *HabitTodayCmd) Run(ctx *cli.Context) error {
	now := ctx.Engine.Now()
	st := ctx.Engine.Snapshot()

	status := map[string]models.CompletionStatus{}
	for _, rec := range st.Completions {
		if utils.SameDay(now, rec.Date) {
			status[rec.HabitID] = rec.Status
		}
	}

	fmt.Println(cli.TitleStyle.Render(now.Format("Monday, January 2")))
	shown := 0
	for _, h := range ctx.Engine.ActiveHabits() {
		if !h.ScheduledOn(now.Weekday()) {
			continue
		}
		shown++
		mark := "○"
		switch status[h.ID] {
		case models.StatusCompleted:
			mark = cli.SuccessStyle.Render("✓")
		case models.StatusFailed:
			mark = cli.WarnStyle.Render("✗")
		case models.StatusSkipped:
			mark = cli.MutedStyle.Render("–")
		}
		fmt.Printf("  %s %s\n", mark, h.Name)
	}
	if shown == 0 {
		fmt.Println("  Nothing scheduled today.")
	}
	return nil
}

type HabitDuplicateCmd struct {
	Habit string     `arg:"" help:"Habit id or name."`
	Name  string     `help:"Name for the copy (default: '<name> (copy)')."`
	Flags HabitFlags `embed:""`
}

func (c *HabitDuplicateCmd) Run(ctx *cli.Context) error {
	src, err := resolve(ctx, c.Habit)
	if err != nil {
		return err
	}
	if err := c.Flags.apply(&engine.NewHabit{}); err != nil {
		return err
	}

	name := c.Name
	if name == "" {
		name = src.Name + " (copy)"
	}
	habit, err := ctx.Engine.DuplicateHabit(src.ID, func(nh *engine.NewHabit) {
		nh.Name = name
		_ = c.Flags.apply(nh)
	})
	if err != nil {
		return err
	}
	cli.Success("Created %s from %s", habit.Name, src.Name)
	printUnlocks(ctx)
	return nil
}

// printUnlocks announces pending badge unlocks and clears them.
func printUnlocks(ctx *cli.Context) {
	unlocks := ctx.Engine.PendingUnlocks()
	for _, u := range unlocks {
		fmt.Println(cli.XPStyle.Render(fmt.Sprintf("🏆 Badge unlocked: %s (+%d XP)", u.Tier.Name, u.Tier.XPReward)))
		fmt.Println("   " + cli.MutedStyle.Render(u.Tier.Description))
	}
	if len(unlocks) > 0 {
		ctx.Engine.DismissUnlocks()
	}
}

func resolve(ctx *cli.Context, ref string) (models.Habit, error) {
	h, err := ctx.FindHabit(ref)
	if errors.Is(err, engine.ErrHabitNotFound) {
		return h, fmt.Errorf("habit %q not found", ref)
	}
	return h, err
}
