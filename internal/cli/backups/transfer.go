package backups

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/julianstephens/habitquest/internal/cli"
	"github.com/julianstephens/habitquest/internal/constants"
)

type ExportCmd struct {
	Output string `arg:"" optional:"" help:"File to write (default: habitquest-export-YYYY-MM-DD.json, '-' for stdout)."`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	bundle := ctx.Engine.Export()
	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}

	if c.Output == "-" {
		fmt.Println(string(data))
		return nil
	}
	out := c.Output
	if out == "" {
		out = fmt.Sprintf("%sexport-%s%s", constants.BackupFilePrefix, bundle.ExportedAt.Format(constants.DateFormat), constants.BackupFileSuffix)
	}
	if err := os.WriteFile(out, data, 0o600); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	cli.Success("Exported %d habits to %s", len(bundle.Data.Habits), out)
	return nil
}

type ImportCmd struct {
	File string `arg:"" help:"Exported bundle to import." type:"existingfile"`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", c.File, err)
	}

	ok, err := ctx.Confirm("Import "+c.File+"?", "This replaces all habits, history and progress.")
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Import cancelled.")
		return nil
	}

	if err := ctx.Engine.Import(data); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	cli.Success("Imported %d habits", len(ctx.Engine.Snapshot().Habits))
	return nil
}
