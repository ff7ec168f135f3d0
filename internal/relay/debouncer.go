package relay

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/julianstephens/habitquest/internal/constants"
	"github.com/julianstephens/habitquest/internal/logger"
	"github.com/julianstephens/habitquest/internal/models"
)

// Subscriber is the part of Client the debouncer needs.
type Subscriber interface {
	Subscribe(ctx context.Context, reminders []models.Reminder) error
}

// Debouncer coalesces bursts of reminder changes into one Subscribe call
// sent after the burst has been quiet for the delay. Failures are logged.
type Debouncer struct {
	sub   Subscriber
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending []models.Reminder
	dirty   bool
	wg      sync.WaitGroup
}

func NewDebouncer(sub Subscriber, delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = constants.DefaultRelayDebounce
	}
	return &Debouncer{sub: sub, delay: delay}
}

// SyncReminders schedules a sync of reminders, replacing any pending one.
func (d *Debouncer) SyncReminders(reminders []models.Reminder) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = slices.Clone(reminders)
	if !d.dirty {
		d.wg.Add(1)
	}
	d.dirty = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	if !d.dirty {
		d.mu.Unlock()
		return
	}
	reminders := d.pending
	d.dirty = false
	d.pending = nil
	d.mu.Unlock()
	defer d.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), constants.RelayTimeout)
	defer cancel()
	if err := d.sub.Subscribe(ctx, reminders); err != nil {
		logger.Warn("Failed to sync reminders with relay", "error", err)
		return
	}
	logger.Debug("Synced reminders with relay", "count", len(reminders))
}

// Flush sends a pending sync now and waits for in-flight syncs to finish.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.mu.Unlock()
	d.fire()
	d.wg.Wait()
}
