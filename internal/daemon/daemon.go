// Package daemon runs the background jobs of a long-lived habitquest
// process: the midnight quest rollover, local reminder notifications and
// the automatic backup check.
package daemon

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/julianstephens/habitquest/internal/logger"
	"github.com/julianstephens/habitquest/internal/models"
)

const (
	RolloverSpec = "0 0 0 * * *"
	ReminderSpec = "0 * * * * *"

	ReminderTitle = "HabitQuest Reminder"
)

// Engine is the part of the progression engine the jobs drive.
type Engine interface {
	EnsureDailyQuests() (bool, error)
	DueReminders(at time.Time) []models.Reminder
	Now() time.Time
}

// Notifier delivers reminder notifications.
type Notifier interface {
	PermissionGranted() bool
	Notify(title, body string) error
}

type Daemon struct {
	cron     *cron.Cron
	engine   Engine
	notifier Notifier

	backup         func() error
	backupInterval time.Duration
}

type Option func(*Daemon)

// WithNotifier enables the reminder job.
func WithNotifier(n Notifier) Option { return func(d *Daemon) { d.notifier = n } }

// WithBackup runs fn every interval.
func WithBackup(interval time.Duration, fn func() error) Option {
	return func(d *Daemon) {
		d.backupInterval = interval
		d.backup = fn
	}
}

func New(loc *time.Location, engine Engine, opts ...Option) *Daemon {
	d := &Daemon{
		cron:   cron.New(cron.WithLocation(loc), cron.WithSeconds()),
		engine: engine,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Daemon) register() error {
	if _, err := d.cron.AddFunc(RolloverSpec, d.Rollover); err != nil {
		return fmt.Errorf("failed to schedule quest rollover: %w", err)
	}
	if d.notifier != nil {
		if _, err := d.cron.AddFunc(ReminderSpec, func() { d.Remind(d.engine.Now()) }); err != nil {
			return fmt.Errorf("failed to schedule reminders: %w", err)
		}
	}
	if d.backup != nil {
		if d.backupInterval <= 0 {
			return fmt.Errorf("backup interval must be positive")
		}
		seconds := max(int(d.backupInterval.Seconds()), 1)
		if _, err := d.cron.AddFunc(fmt.Sprintf("@every %ds", seconds), d.Backup); err != nil {
			return fmt.Errorf("failed to schedule backups: %w", err)
		}
	}
	return nil
}

// Run schedules the jobs and blocks until ctx is done, then waits for
// running jobs to finish.
func (d *Daemon) Run(ctx context.Context) error {
	if err := d.register(); err != nil {
		return err
	}
	// Catch up on anything missed while the daemon was not running.
	d.Rollover()
	d.Backup()

	d.cron.Start()
	logger.Info("Daemon started", "jobs", len(d.cron.Entries()))
	<-ctx.Done()

	<-d.cron.Stop().Done()
	logger.Info("Daemon stopped")
	return nil
}

// Rollover generates the day's quests if they have not been generated yet.
func (d *Daemon) Rollover() {
	generated, err := d.engine.EnsureDailyQuests()
	if err != nil {
		logger.Error("Quest rollover failed", "error", err)
		return
	}
	if generated {
		logger.Info("Generated daily quests")
	}
}

// Remind notifies about every reminder due at the given minute and returns
// how many were sent.
func (d *Daemon) Remind(at time.Time) int {
	if d.notifier == nil || !d.notifier.PermissionGranted() {
		return 0
	}
	sent := 0
	for _, r := range d.engine.DueReminders(at) {
		if err := d.notifier.Notify(ReminderTitle, fmt.Sprintf("Don't forget %q", r.HabitName)); err != nil {
			logger.Warn("Failed to send reminder", "habit", r.HabitID, "error", err)
			continue
		}
		sent++
	}
	return sent
}

func (d *Daemon) Backup() {
	if d.backup == nil {
		return
	}
	if err := d.backup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}
