package daemon

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/julianstephens/habitquest/internal/engine"
	"github.com/julianstephens/habitquest/internal/models"
	"github.com/julianstephens/habitquest/internal/storage"
)

var start = time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

type fakeEngine struct {
	mu        sync.Mutex
	rollovers int
	err       error
}

func (f *fakeEngine) EnsureDailyQuests() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rollovers++
	return f.err == nil, f.err
}

func (f *fakeEngine) DueReminders(time.Time) []models.Reminder { return nil }
func (f *fakeEngine) Now() time.Time { return start }

type fakeNotifier struct {
	granted bool
	err     error
	sent    []string
}

func (n *fakeNotifier) PermissionGranted() bool { return n.granted }

func (n *fakeNotifier) Notify(title, body string) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, title+": "+body)
	return nil
}

func newEngine(t *testing.T) (*engine.Engine, *engine.FakeClock) {
	t.Helper()
	store := storage.NewMemoryStore()
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}
	clock := engine.NewFakeClock(start)
	e := engine.New(store, engine.WithClock(clock), engine.WithBadgeCatalog(nil))
	if err := e.Load(); err != nil {
		t.Fatal(err)
	}
	return e, clock
}

func addReminder(t *testing.T, e *engine.Engine, name, at string) models.Habit {
	t.Helper()
	h, err := e.AddHabit(engine.NewHabit{
		Name:         name,
		Category:     models.CategoryWellness,
		Type:         models.HabitTypeBuild,
		ReminderTime: &at,
	})
	if err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}
	return h
}

func TestRemind(t *testing.T) {
	e, _ := newEngine(t)
	read := addReminder(t, e, "Read", "09:30")
	addReminder(t, e, "Stretch", "21:00")

	at := time.Date(2026, 1, 5, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		notifier *fakeNotifier
		want     int
	}{
		{"permission denied", &fakeNotifier{granted: false}, 0},
		{"delivery error", &fakeNotifier{granted: true, err: errors.New("tray down")}, 0},
		{"due reminder", &fakeNotifier{granted: true}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New(time.UTC, e, WithNotifier(tt.notifier))
			if got := d.Remind(at); got != tt.want {
				t.Errorf("Remind() = %d, want %d", got, tt.want)
			}
		})
	}

	n := &fakeNotifier{granted: true}
	d := New(time.UTC, e, WithNotifier(n))
	d.Remind(at)
	if len(n.sent) != 1 || !strings.Contains(n.sent[0], `Don't forget "Read"`) {
		t.Errorf("unexpected notifications: %v", n.sent)
	}

	if _, err := e.Apply(read.ID, models.StatusCompleted, at); err != nil {
		t.Fatal(err)
	}
	if got := d.Remind(at); got != 0 {
		t.Errorf("expected no reminder for a habit already logged today, got %d", got)
	}
}

func TestRemindWithoutNotifier(t *testing.T) {
	d := New(time.UTC, &fakeEngine{})
	if got := d.Remind(start); got != 0 {
		t.Errorf("Remind() = %d, want 0", got)
	}
}

func TestRollover(t *testing.T) {
	f := &fakeEngine{}
	d := New(time.UTC, f)
	d.Rollover()

	f.err = errors.New("disk full")
	d.Rollover()

	if f.rollovers != 2 {
		t.Errorf("expected 2 rollovers, got %d", f.rollovers)
	}
}

func TestRunCatchesUpAndStops(t *testing.T) {
	f := &fakeEngine{}
	backups := 0
	d := New(time.UTC, f, WithBackup(time.Hour, func() error {
		backups++
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := d.Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if f.rollovers != 1 {
		t.Errorf("expected a catch-up rollover, got %d", f.rollovers)
	}
	if backups != 1 {
		t.Errorf("expected a catch-up backup check, got %d", backups)
	}
	if len(d.cron.Entries()) != 2 {
		t.Errorf("expected 2 scheduled jobs, got %d", len(d.cron.Entries()))
	}
}

func TestRunRejectsInvalidBackupInterval(t *testing.T) {
	d := New(time.UTC, &fakeEngine{}, WithBackup(0, func() error { return nil }))
	if err := d.Run(context.Background()); err == nil {
		t.Error("expected an error for a zero backup interval")
	}
}
