package habits

import (
	"fmt"

	"github.com/julianstephens/habitquest/internal/cli"
	"github.com/julianstephens/habitquest/internal/constants"
	"github.com/julianstephens/habitquest/internal/engine"
	"github.com/julianstephens/habitquest/internal/models"
)

// DayFlags selects the habit and day a record applies to.
type DayFlags struct {
	Habit string `arg:"" help:"Habit id or name."`
	Date  string `help:"Day to record: today, yesterday or YYYY-MM-DD." default:"today"`
}

type HabitDoneCmd struct {
	Day DayFlags `embed:""`
}

func (c *HabitDoneCmd) Run(ctx *cli.Context) error {
	return record(ctx, c.Day, models.StatusCompleted)
}

type HabitFailCmd struct {
	Day DayFlags `embed:""`
}

func (c *HabitFailCmd) Run(ctx *cli.Context) error {
	return record(ctx, c.Day, models.StatusFailed)
}

type HabitSkipCmd struct {
	Day DayFlags `embed:""`
}

func (c *HabitSkipCmd) Run(ctx *cli.Context) error {
	return record(ctx, c.Day, models.StatusSkipped)
}

func record(ctx *cli.Context, f DayFlags, status models.CompletionStatus) error {
	habit, err := resolve(ctx, f.Habit)
	if err != nil {
		return err
	}
	at, err := ctx.ParseDate(f.Date)
	if err != nil {
		return err
	}
	if !ctx.Engine.Editable(at) {
		return fmt.Errorf("only the last %d days can be edited", constants.EditableWindowDays+1)
	}

	res, err := ctx.Engine.Apply(habit.ID, status, at)
	if err != nil {
		return err
	}
	printResult(habit, status, res)
	printUnlocks(ctx)
	return nil
}

func printResult(habit models.Habit, status models.CompletionStatus, res engine.Result) {
	switch status {
	case models.StatusCompleted:
		cli.Success("%s completed", habit.Name)
	case models.StatusFailed:
		cli.Warn("%s marked failed", habit.Name)
	case models.StatusSkipped:
		fmt.Printf("%s skipped\n", habit.Name)
	}
	if res.XPGained > 0 {
		fmt.Println(cli.XPStyle.Render(fmt.Sprintf("+%d XP", res.XPGained)))
	}
	if res.LeveledUp {
		fmt.Println(cli.XPStyle.Render(fmt.Sprintf("⭐ Level up! You reached level %d", res.Level)))
	}
}

type HabitUndoCmd struct {
	Day DayFlags `embed:""`
}

func (c *HabitUndoCmd) Run(ctx *cli.Context) error {
	habit, err := resolve(ctx, c.Day.Habit)
	if err != nil {
		return err
	}
	at, err := ctx.ParseDate(c.Day.Date)
	if err != nil {
		return err
	}

	removed, err := ctx.Engine.Undo(habit.ID, at)
	if err != nil {
		return err
	}
	if !removed {
		fmt.Printf("Nothing to undo for %s on %s.\n", habit.Name, at.Format(constants.DateFormat))
		return nil
	}
	cli.Success("Removed %s record for %s", habit.Name, at.Format(constants.DateFormat))
	return nil
}
