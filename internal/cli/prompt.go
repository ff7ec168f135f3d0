package cli

import (
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitquest/internal/engine"
)

// Confirm asks a yes/no question, answering yes without asking when --yes
// was given.
func (c *Context) Confirm(title, description string) (bool, error) {
	if c.Yes {
		return true, nil
	}
	ok := false
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	return ok, err
}

// ChooseResolution asks how to restore a habit that has an active duplicate.
func (c *Context) ChooseResolution(conflict *engine.ConflictError) (engine.Resolution, error) {
	res := engine.ResolutionKeepBoth
	err := huh.NewSelect[engine.Resolution]().
		Title("Restore " + conflict.Habit.Name + "?").
		Description(conflict.Duplicate.Name + " was duplicated from this habit and is still active.").
		Options(
			huh.NewOption("Keep both habits", engine.ResolutionKeepBoth),
			huh.NewOption("Replace the duplicate (its history is deleted)", engine.ResolutionReplace),
			huh.NewOption("Cancel", engine.ResolutionNone),
		).
		Value(&res).
		Run()
	return res, err
}
