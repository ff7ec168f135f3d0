// Package engine owns the player's state and applies every game rule to
// it: streaks, XP and levels, daily quests, badges and habit management.
// All operations are serialized by one mutex so the CLI, the HTTP API and
// the daemon can share an Engine.
package engine

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitquest/internal/badges"
	"github.com/julianstephens/habitquest/internal/constants"
	"github.com/julianstephens/habitquest/internal/logger"
	"github.com/julianstephens/habitquest/internal/models"
	"github.com/julianstephens/habitquest/internal/quests"
	"github.com/julianstephens/habitquest/internal/storage"
	"github.com/julianstephens/habitquest/internal/utils"
)

// Notifier raises user-facing notifications when permission was granted.
type Notifier interface {
	PermissionGranted() bool
	Notify(title, body string) error
}

// ReminderSyncer receives the reminder list whenever the habit set changes.
type ReminderSyncer interface {
	SyncReminders(reminders []models.Reminder)
}

type Engine struct {
	mu sync.Mutex

	store      storage.Provider
	clock      Clock
	generator  *quests.Generator
	questCount int
	catalog    []badges.Badge
	notifier   Notifier
	syncer     ReminderSyncer
	newID      func() string

	state   State
	pending []badges.Unlock
}

type Option func(*Engine)

func WithClock(c Clock) Option { return func(e *Engine) { e.clock = c } }

func WithGenerator(g *quests.Generator) Option { return func(e *Engine) { e.generator = g } }

// WithQuestCount sets how many quests are drawn each day.
func WithQuestCount(n int) Option { return func(e *Engine) { e.questCount = n } }

func WithBadgeCatalog(c []badges.Badge) Option { return func(e *Engine) { e.catalog = c } }

func WithNotifier(n Notifier) Option { return func(e *Engine) { e.notifier = n } }

func WithReminderSyncer(s ReminderSyncer) Option { return func(e *Engine) { e.syncer = s } }

// WithIDs replaces the uuid generator for habits and completions.
func WithIDs(f func() string) Option { return func(e *Engine) { e.newID = f } }

func New(store storage.Provider, opts ...Option) *Engine {
	e := &Engine{
		store:      store,
		clock:      RealClock{},
		questCount: constants.DefaultDailyQuestCount,
		catalog:    badges.Catalog,
		newID:      uuid.NewString,
		state:      emptyState(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.generator == nil {
		e.generator = quests.NewGenerator(nil)
	}
	return e
}

// txn is a working copy of the state. Nothing reaches e.state or the store
// until commit succeeds.
type txn struct {
	state State
	now   time.Time
	dirty map[string]bool

	unlocks  []badges.Unlock
	levelUp  int
	syncRems bool
}

func (t *txn) touch(keys ...string) {
	for _, k := range keys {
		t.dirty[k] = true
	}
}

// begin reloads the stored snapshots and opens a txn over them. Another
// process may have written to the store since this engine last touched it.
func (e *Engine) begin() (*txn, error) {
	dirty, err := e.refresh()
	if err != nil {
		return nil, err
	}
	t := &txn{state: e.state.clone(), now: e.clock.Now(), dirty: dirty}
	e.rollover(t)
	return t, nil
}

func (e *Engine) refresh() (map[string]bool, error) {
	st, dirty, err := readState(e.store)
	if err != nil {
		return nil, err
	}
	e.state = st
	return dirty, nil
}

// view refreshes ahead of a read. On failure the cached state is served.
func (e *Engine) view() {
	if _, err := e.refresh(); err != nil {
		logger.Warn("Failed to refresh state", "error", err)
	}
}

func (e *Engine) commit(t *txn) error {
	e.rollover(t)
	if len(t.dirty) > 0 {
		data, err := t.state.encode(t.dirty)
		if err != nil {
			return err
		}
		if err := e.store.WriteSnapshots(data); err != nil {
			return fmt.Errorf("failed to save state: %w", err)
		}
	}
	e.state = t.state
	e.enqueue(t.unlocks)
	e.announce(t)
	if t.syncRems && e.syncer != nil {
		e.syncer.SyncReminders(reminders(e.state.Habits))
	}
	return nil
}

// Load replaces the in-memory state with the stored snapshots, writing back
// anything that needed normalizing, then runs the daily quest rollover.
func (e *Engine) Load() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, dirty, err := readState(e.store)
	if err != nil {
		return err
	}
	if len(dirty) > 0 {
		logger.Info("Normalized stored state", "snapshots", slices.Sorted(maps.Keys(dirty)))
	}
	e.state = st
	t := &txn{state: st.clone(), now: e.clock.Now(), dirty: dirty}
	return e.commit(t)
}

// rollover draws a fresh quest set once per calendar day, as long as at
// least one habit is active.
func (e *Engine) rollover(t *txn) bool {
	if last := t.state.QuestsLastGenerated; last != nil && utils.SameDay(t.now, *last) {
		return false
	}
	active := activeHabits(t.state.Habits)
	if len(active) == 0 {
		return false
	}
	t.state.Quests = e.generator.Generate(e.questCount, active, t.now)
	midnight := utils.StartOfDay(t.now)
	t.state.QuestsLastGenerated = &midnight
	t.touch(constants.SnapshotQuests, constants.SnapshotQuestsLastGenerated)
	logger.Debug("Generated daily quests", "count", len(t.state.Quests), "day", utils.DateKey(t.now))
	return true
}

// EnsureDailyQuests regenerates quests if the stored set is from an earlier
// day. It reports whether a new set was drawn.
func (e *Engine) EnsureDailyQuests() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	dirty, err := e.refresh()
	if err != nil {
		return false, err
	}
	t := &txn{state: e.state.clone(), now: e.clock.Now(), dirty: dirty}
	generated := e.rollover(t)
	if err := e.commit(t); err != nil {
		return false, err
	}
	return generated, nil
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.view()
	return e.state.clone()
}

// Now returns the engine clock's current time.
func (e *Engine) Now() time.Time {
	return e.clock.Now()
}

// Location is the time zone calendar days are evaluated in.
func (e *Engine) Location() *time.Location {
	return e.clock.Now().Location()
}

// Catalog returns the badge catalog in use.
func (e *Engine) Catalog() []badges.Badge {
	return e.catalog
}

// PendingUnlocks returns badge unlocks not yet dismissed.
func (e *Engine) PendingUnlocks() []badges.Unlock {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.pending)
}

// DismissUnlocks clears the pending unlock queue.
func (e *Engine) DismissUnlocks() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending = nil
}

func (e *Engine) enqueue(unlocks []badges.Unlock) {
	for _, u := range unlocks {
		dup := slices.ContainsFunc(e.pending, func(p badges.Unlock) bool {
			return p.BadgeID == u.BadgeID && p.Tier.Tier == u.Tier.Tier
		})
		if !dup {
			e.pending = append(e.pending, u)
		}
	}
}

func (e *Engine) announce(t *txn) {
	if e.notifier == nil || (len(t.unlocks) == 0 && t.levelUp == 0) {
		return
	}
	if !e.notifier.PermissionGranted() {
		return
	}
	if len(t.unlocks) > 0 {
		names := make([]string, len(t.unlocks))
		for i, u := range t.unlocks {
			names[i] = u.Tier.Name
		}
		e.notify("Achievement Unlocked!", "You've earned: "+strings.Join(names, ", "))
	}
	if t.levelUp > 0 {
		e.notify("Level Up!", fmt.Sprintf("You've reached Level %d! Keep up the great work!", t.levelUp))
	}
}

func (e *Engine) notify(title, body string) {
	if err := e.notifier.Notify(title, body); err != nil {
		logger.Warn("Failed to send notification", "title", title, "error", err)
	}
}

// awardBadges unlocks every newly qualifying tier against the profile as it
// stands and returns the XP those tiers are worth.
func (e *Engine) awardBadges(t *txn) int {
	unlocks := badges.Evaluate(e.catalog, badges.Input{
		Profile:     t.state.Profile,
		Habits:      t.state.Habits,
		Completions: t.state.Completions,
		Now:         t.now,
	})
	if len(unlocks) == 0 {
		return 0
	}
	bonus := 0
	for _, u := range unlocks {
		bonus += u.Tier.XPReward
		if u.Tier.Tier > t.state.Profile.UnlockedBadges[u.BadgeID] {
			t.state.Profile.UnlockedBadges[u.BadgeID] = u.Tier.Tier
		}
		logger.Info("Badge unlocked", "badge", u.BadgeID, "tier", u.Tier.Tier)
	}
	t.unlocks = append(t.unlocks, unlocks...)
	t.touch(constants.SnapshotProfile)
	return bonus
}

func activeHabits(habits []models.Habit) []models.Habit {
	out := make([]models.Habit, 0, len(habits))
	for _, h := range habits {
		if !h.IsArchived {
			out = append(out, h)
		}
	}
	return out
}
