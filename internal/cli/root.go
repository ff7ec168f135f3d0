package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/habitquest/internal/backup"
	"github.com/julianstephens/habitquest/internal/config"
	"github.com/julianstephens/habitquest/internal/engine"
	"github.com/julianstephens/habitquest/internal/keyring"
	"github.com/julianstephens/habitquest/internal/logger"
	"github.com/julianstephens/habitquest/internal/models"
	"github.com/julianstephens/habitquest/internal/notifier"
	"github.com/julianstephens/habitquest/internal/relay"
	"github.com/julianstephens/habitquest/internal/storage"
)

type Context struct {
	Config *config.Config
	Store  storage.Provider
	Engine *engine.Engine
	// Relay is nil unless a relay url and subscription are configured.
	Relay *relay.Debouncer
	// Yes skips confirmation prompts.
	Yes bool
}

// NewContext wires the engine to store using cfg. Extra options are applied
// after the configured ones.
func NewContext(cfg *config.Config, store storage.Provider, opts ...engine.Option) (*Context, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	ctx := &Context{Config: cfg, Store: store}
	base := []engine.Option{
		engine.WithClock(engine.LocalClock{Location: loc}),
		engine.WithQuestCount(cfg.Quests.Count),
		engine.WithNotifier(notifier.New(store)),
	}
	if d := newRelay(cfg); d != nil {
		ctx.Relay = d
		base = append(base, engine.WithReminderSyncer(d))
	}
	ctx.Engine = engine.New(store, append(base, opts...)...)
	return ctx, nil
}

func newRelay(cfg *config.Config) *relay.Debouncer {
	if cfg.Relay.URL == "" {
		return nil
	}
	sub, err := LoadSubscription(cfg)
	if err != nil {
		logger.Warn("Relay configured without a usable subscription", "error", err)
		return nil
	}
	client, err := relay.NewClient(cfg.Relay.URL, sub)
	if err != nil {
		logger.Warn("Relay disabled", "error", err)
		return nil
	}
	return relay.NewDebouncer(client, cfg.Relay.Debounce)
}

// LoadSubscription reads the push subscription from the configured file,
// falling back to the copy kept in the OS keyring.
func LoadSubscription(cfg *config.Config) (json.RawMessage, error) {
	sub, err := relay.LoadSubscription(cfg.Relay.SubscriptionFile)
	if !errors.Is(err, relay.ErrNoSubscription) {
		return sub, err
	}
	stored, kerr := keyring.Get(keyring.EntrySubscription)
	if kerr != nil {
		return nil, err
	}
	return json.RawMessage(stored), nil
}

// Load opens the store and loads the engine state.
func (c *Context) Load() error {
	if err := c.Store.Load(); err != nil {
		return err
	}
	return c.Engine.Load()
}

// Close flushes pending relay syncs and closes the store.
func (c *Context) Close() error {
	if c.Relay != nil {
		c.Relay.Flush()
	}
	return c.Store.Close()
}

func (c *Context) Backups() *backup.Manager {
	return backup.NewManager(c.Config.BackupDir(), c.Engine)
}

// PerformAutomaticBackup creates the weekly automatic backup when one is due
// and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	path, err := c.Backups().RunAutomatic(c.Store)
	if err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
		return
	}
	if path != "" {
		logger.Info("Automatic backup created", "path", path)
	}
}

var ErrAmbiguousHabit = errors.New("more than one habit matches")

// FindHabit resolves ref as a habit id, a unique id prefix or a
// case-insensitive name.
func (c *Context) FindHabit(ref string) (models.Habit, error) {
	ref = strings.TrimSpace(ref)
	habits := c.Engine.Snapshot().Habits

	var matches []models.Habit
	for _, h := range habits {
		if h.ID == ref {
			return h, nil
		}
		if strings.EqualFold(h.Name, ref) || (len(ref) >= 4 && strings.HasPrefix(h.ID, ref)) {
			matches = append(matches, h)
		}
	}
	switch len(matches) {
	case 0:
		return models.Habit{}, fmt.Errorf("%w: %s", engine.ErrHabitNotFound, ref)
	case 1:
		return matches[0], nil
	}
	return models.Habit{}, fmt.Errorf("%w %q; use the id instead", ErrAmbiguousHabit, ref)
}

// ParseDate resolves "today", "yesterday" or YYYY-MM-DD to a time on that
// day at the current time of day. Empty means now.
func (c *Context) ParseDate(s string) (time.Time, error) {
	now := c.Engine.Now()
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return now, nil
	case "yesterday":
		return now.AddDate(0, 0, -1), nil
	}
	day, err := time.ParseInLocation("2006-01-02", s, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD, today or yesterday)", s)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), now.Hour(), now.Minute(), now.Second(), 0, now.Location()), nil
}

// ParseWeekdays parses a comma-separated list of weekdays into day numbers
// (0 = Sunday). "daily" and "all" select every day.
func ParseWeekdays(s string) ([]int, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "daily", "all", "everyday":
		return slices.Clone(models.AllDays), nil
	case "weekdays":
		return []int{1, 2, 3, 4, 5}, nil
	case "weekends":
		return []int{0, 6}, nil
	}

	dayMap := map[string]int{
		"sun":       0,
		"sunday":    0,
		"mon":       1,
		"monday":    1,
		"tue":       2,
		"tuesday":   2,
		"wed":       3,
		"wednesday": 3,
		"thu":       4,
		"thursday":  4,
		"fri":       5,
		"friday":    5,
		"sat":       6,
		"saturday":  6,
	}

	var days []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if day, ok := dayMap[part]; ok {
			days = append(days, day)
			continue
		}
		// Try parsing as number (0=Sunday, 6=Saturday)
		num, err := strconv.Atoi(part)
		if err != nil || num < 0 || num > 6 {
			return nil, fmt.Errorf("invalid weekday: %s", part)
		}
		days = append(days, num)
	}
	return days, nil
}

// FormatSchedule renders schedule days as "daily" or a list like "Mon,Wed".
func FormatSchedule(days []int) string {
	if len(days) == 7 {
		return "daily"
	}
	names := make([]string, 0, len(days))
	for _, d := range days {
		names = append(names, time.Weekday(d).String()[:3])
	}
	return strings.Join(names, ",")
}
