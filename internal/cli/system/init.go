package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/habitquest/internal/cli"
	"github.com/julianstephens/habitquest/internal/constants"
	"github.com/julianstephens/habitquest/internal/storage"
)

// snapshotKeys are copied by init --source.
var snapshotKeys = []string{
	constants.SnapshotHabits,
	constants.SnapshotCompletions,
	constants.SnapshotProfile,
	constants.SnapshotQuests,
	constants.SnapshotQuestsLastGenerated,
}

type InitCmd struct {
	Force  bool   `help:"Delete an existing store file before initializing."`
	Source string `help:"Store path or connection string to copy data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized habitquest storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		fmt.Printf("Copying data from: %s\n", c.Source)
		src, err := cli.OpenStore(c.Source)
		if err != nil {
			return err
		}
		n, err := copyStore(src, ctx.Store)
		if err != nil {
			return fmt.Errorf("copy failed: %w", err)
		}
		fmt.Printf("Copied %d collections\n", n)
	}

	return ctx.Engine.Load()
}

// reset removes the store file. Server-backed stores are left alone.
func (c *InitCmd) reset(ctx *cli.Context) error {
	path := ctx.Store.GetConfigPath()
	if c.Source != "" {
		absPath, err1 := filepath.Abs(path)
		absSource, err2 := filepath.Abs(c.Source)
		if err1 == nil && err2 == nil && absPath == absSource {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", path)
		}
	}

	if _, err := os.Stat(path); err == nil {
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing store: %w", err)
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to delete existing store: %w", err)
		}
		fmt.Printf("Deleted existing store at: %s\n", path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing store: %w", err)
	}
	return nil
}

// copyStore writes every snapshot src holds into dst in one batch, then
// copies the storage settings.
func copyStore(src, dst storage.Provider) (int, error) {
	if err := src.Load(); err != nil {
		return 0, fmt.Errorf("failed to load source store: %w", err)
	}
	defer src.Close()

	entries := make(map[string][]byte, len(snapshotKeys))
	for _, key := range snapshotKeys {
		data, err := src.ReadSnapshot(key)
		if errors.Is(err, storage.ErrSnapshotNotFound) {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("failed to read %s: %w", key, err)
		}
		entries[key] = data
	}
	if len(entries) > 0 {
		if err := dst.WriteSnapshots(entries); err != nil {
			return 0, err
		}
	}

	settings, err := src.GetSettings()
	if err != nil {
		return 0, fmt.Errorf("failed to read settings: %w", err)
	}
	if err := dst.SaveSettings(settings); err != nil {
		return 0, fmt.Errorf("failed to save settings: %w", err)
	}
	return len(entries), nil
}
