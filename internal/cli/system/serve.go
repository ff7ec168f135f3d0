package system

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/habitquest/internal/api"
	"github.com/julianstephens/habitquest/internal/cli"
	"github.com/julianstephens/habitquest/internal/daemon"
	"github.com/julianstephens/habitquest/internal/notifier"
)

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// newDaemon wires the scheduler to the context's engine, notifier and backups.
func newDaemon(ctx *cli.Context) (*daemon.Daemon, error) {
	loc, err := ctx.Config.Location()
	if err != nil {
		return nil, err
	}
	backups := ctx.Backups()
	return daemon.New(loc, ctx.Engine,
		daemon.WithNotifier(notifier.New(ctx.Store)),
		daemon.WithBackup(ctx.Config.Daemon.BackupInterval, func() error {
			_, err := backups.RunAutomatic(ctx.Store)
			return err
		}),
	), nil
}

type ServeCmd struct {
	Addr       string `help:"Address to listen on (default from config)."`
	WithDaemon bool   `help:"Also run the background scheduler."`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	addr := c.Addr
	if addr == "" {
		addr = ctx.Config.Server.Addr
	}

	sigCtx, stop := signalContext()
	defer stop()

	errc := make(chan error, 1)
	if c.WithDaemon {
		d, err := newDaemon(ctx)
		if err != nil {
			return err
		}
		go func() { errc <- d.Run(sigCtx) }()
	}

	srv := api.New(ctx.Engine, api.Options{
		AllowedOrigins: ctx.Config.Server.AllowedOrigins,
		RateLimit:      ctx.Config.Server.RateLimit,
		Burst:          ctx.Config.Server.Burst,
	})
	err := srv.ListenAndServe(sigCtx, addr)
	stop()
	if c.WithDaemon {
		if derr := <-errc; err == nil {
			err = derr
		}
	}
	return err
}

type DaemonCmd struct{}

func (c *DaemonCmd) Run(ctx *cli.Context) error {
	d, err := newDaemon(ctx)
	if err != nil {
		return err
	}
	sigCtx, stop := signalContext()
	defer stop()
	return d.Run(sigCtx)
}
