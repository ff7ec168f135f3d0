package system

import (
	"fmt"

	"github.com/julianstephens/habitquest/internal/cli"
	"github.com/julianstephens/habitquest/internal/notifier"
)

// NotifyCmd sends one desktop notification through the tray app.
type NotifyCmd struct {
	Title string `help:"Notification title." default:"HabitQuest"`
	Text  string `arg:"" optional:"" help:"Notification text." default:"Notifications are working."`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	n := notifier.New(ctx.Store)
	if !n.PermissionGranted() {
		return fmt.Errorf("notifications are disabled, enable them with 'habitquest settings --notifications-enabled'")
	}
	if err := n.Notify(c.Title, c.Text); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	cli.Success("Notification sent")
	return nil
}
