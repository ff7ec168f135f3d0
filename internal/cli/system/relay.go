package system

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/habitquest/internal/cli"
	"github.com/julianstephens/habitquest/internal/constants"
	"github.com/julianstephens/habitquest/internal/keyring"
	"github.com/julianstephens/habitquest/internal/relay"
)

type RelayCmd struct {
	Test      RelayTestCmd      `cmd:"" help:"Ask the push relay to send a test notification." default:"1"`
	Sync      RelaySyncCmd      `cmd:"" help:"Push the current reminder list to the relay now."`
	Subscribe RelaySubscribeCmd `cmd:"" help:"Keep a push subscription in the OS keyring."`
}

func relayClient(ctx *cli.Context) (*relay.Client, error) {
	sub, err := cli.LoadSubscription(ctx.Config)
	if err != nil {
		return nil, err
	}
	return relay.NewClient(ctx.Config.Relay.URL, sub)
}

type RelayTestCmd struct{}

func (c *RelayTestCmd) Run(ctx *cli.Context) error {
	client, err := relayClient(ctx)
	if err != nil {
		return err
	}
	reqCtx, cancel := context.WithTimeout(context.Background(), constants.RelayTimeout)
	defer cancel()
	if err := client.SendTest(reqCtx); err != nil {
		return fmt.Errorf("relay test failed: %w", err)
	}
	cli.Success("Test notification sent via %s", ctx.Config.Relay.URL)
	return nil
}

type RelaySyncCmd struct{}

func (c *RelaySyncCmd) Run(ctx *cli.Context) error {
	client, err := relayClient(ctx)
	if err != nil {
		return err
	}
	reminders := ctx.Engine.Reminders()
	reqCtx, cancel := context.WithTimeout(context.Background(), constants.RelayTimeout)
	defer cancel()
	if err := client.Subscribe(reqCtx, reminders); err != nil {
		return fmt.Errorf("relay sync failed: %w", err)
	}
	cli.Success("Synced %d reminders", len(reminders))
	return nil
}

// RelaySubscribeCmd stores the browser's push subscription JSON, used when
// relay.subscription_file does not exist.
type RelaySubscribeCmd struct {
	File string `arg:"" help:"Subscription JSON exported from the browser." type:"existingfile"`
}

func (c *RelaySubscribeCmd) Run(ctx *cli.Context) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to read subscription: %w", err)
	}
	if !json.Valid(data) {
		return errors.New("subscription is not valid JSON")
	}
	if err := keyring.Set(keyring.EntrySubscription, string(data)); err != nil {
		return err
	}
	cli.Success("Push subscription stored in OS keyring")
	return nil
}
