package habits

import (
	"fmt"

	"github.com/julianstephens/habitquest/internal/cli"
	"github.com/julianstephens/habitquest/internal/engine"
)

type HabitArchiveCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
}

func (c *HabitArchiveCmd) Run(ctx *cli.Context) error {
	habit, err := resolve(ctx, c.Habit)
	if err != nil {
		return err
	}
	if habit.IsArchived {
		fmt.Printf("%s is already archived.\n", habit.Name)
		return nil
	}
	if _, err := ctx.Engine.Archive(habit.ID); err != nil {
		return err
	}
	cli.Success("Archived %s", habit.Name)
	return nil
}

type HabitRestoreCmd struct {
	Habit    string `arg:"" help:"Habit id or name."`
	Replace  bool   `help:"Delete an active duplicate of this habit." xor:"resolution"`
	KeepBoth bool   `help:"Keep an active duplicate of this habit." xor:"resolution"`
}

func (c *HabitRestoreCmd) resolution() engine.Resolution {
	switch {
	case c.Replace:
		return engine.ResolutionReplace
	case c.KeepBoth:
		return engine.ResolutionKeepBoth
	}
	return engine.ResolutionNone
}

func (c *HabitRestoreCmd) Run(ctx *cli.Context) error {
	habit, err := resolve(ctx, c.Habit)
	if err != nil {
		return err
	}
	if !habit.IsArchived {
		fmt.Printf("%s is not archived.\n", habit.Name)
		return nil
	}

	res := c.resolution()
	_, err = ctx.Engine.Restore(habit.ID, res)
	if conflict, ok := engine.IsConflict(err); ok && !ctx.Yes {
		if res, err = ctx.ChooseResolution(conflict); err != nil {
			return err
		}
		if res == engine.ResolutionNone {
			fmt.Println("Restore cancelled.")
			return nil
		}
		_, err = ctx.Engine.Restore(habit.ID, res)
	}
	if err != nil {
		return err
	}
	cli.Success("Restored %s", habit.Name)
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	habit, err := resolve(ctx, c.Habit)
	if err != nil {
		return err
	}
	ok, err := ctx.Confirm(fmt.Sprintf("Delete %s?", habit.Name), "Its whole history is removed. Archive it instead to keep the history.")
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Delete cancelled.")
		return nil
	}
	if _, err := ctx.Engine.Delete(habit.ID); err != nil {
		return err
	}
	cli.Success("Deleted %s", habit.Name)
	return nil
}

type HabitReorderCmd struct {
	Habit  string `arg:"" help:"Habit to move."`
	Target string `arg:"" help:"Habit whose position it takes."`
}

func (c *HabitReorderCmd) Run(ctx *cli.Context) error {
	habit, err := resolve(ctx, c.Habit)
	if err != nil {
		return err
	}
	target, err := resolve(ctx, c.Target)
	if err != nil {
		return err
	}
	moved, err := ctx.Engine.Reorder(habit.ID, target.ID)
	if err != nil {
		return err
	}
	if !moved {
		fmt.Println("Nothing to move; both habits must be active and different.")
		return nil
	}
	cli.Success("Moved %s to position %d", habit.Name, target.Order+1)
	return nil
}
