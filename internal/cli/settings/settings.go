package settings

import (
	"fmt"

	"github.com/julianstephens/habitquest/internal/cli"
	"github.com/julianstephens/habitquest/internal/constants"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	NotificationsEnabled *bool `help:"Enable or disable desktop notifications."`
	AutoBackup           *bool `help:"Enable or disable weekly automatic backups."`
	DailyHabitLimit      *int  `help:"Maximum active habits scheduled on any weekday." xor:"limit"`
	NoLimit              bool  `help:"Remove the daily habit limit." xor:"limit"`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	player := ctx.Engine.Snapshot().Profile.Settings

	if c.List {
		limit := "none"
		if player.DailyHabitLimit != nil {
			limit = fmt.Sprint(*player.DailyHabitLimit)
		}
		last := "never"
		if settings.LastAutoBackup != nil {
			last = settings.LastAutoBackup.In(ctx.Engine.Location()).Format(constants.DateFormat + " " + constants.TimeFormat)
		}
		fmt.Println("Current Settings:")
		fmt.Printf("  Notifications Enabled: %v\n", settings.NotificationsEnabled)
		fmt.Printf("  Auto Backup:           %v\n", settings.AutoBackupEnabled)
		fmt.Printf("  Last Auto Backup:      %s\n", last)
		fmt.Printf("  Daily Habit Limit:     %s\n", limit)
		return nil
	}

	updated := false
	if c.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *c.NotificationsEnabled
		updated = true
	}
	if c.AutoBackup != nil {
		settings.AutoBackupEnabled = *c.AutoBackup
		updated = true
	}
	if updated {
		if err := ctx.Store.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
	}

	if c.DailyHabitLimit != nil || c.NoLimit {
		player.DailyHabitLimit = c.DailyHabitLimit
		if c.NoLimit {
			player.DailyHabitLimit = nil
		}
		if err := ctx.Engine.UpdatePlayerSettings(player); err != nil {
			return err
		}
		updated = true
	}

	if updated {
		fmt.Println("Settings updated successfully.")
	} else {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
	}
	return nil
}
