package engine

import (
	"slices"
	"time"

	"github.com/julianstephens/habitquest/internal/badges"
	"github.com/julianstephens/habitquest/internal/constants"
	"github.com/julianstephens/habitquest/internal/logger"
	"github.com/julianstephens/habitquest/internal/models"
	"github.com/julianstephens/habitquest/internal/utils"
	"github.com/julianstephens/habitquest/internal/xp"
)

// Result describes what an Apply call changed.
type Result struct {
	Applied    bool               `json:"applied"`
	Completion *models.Completion `json:"completion,omitempty"`
	XPGained   int                `json:"xpGained"` // includes badge rewards
	Unlocks    []badges.Unlock    `json:"unlocks,omitempty"`
	LeveledUp  bool               `json:"leveledUp"`
	Level      int                `json:"level"`
}

// Editable reports whether at falls on today or one of the two calendar days
// before it, with days taken in now's location.
func Editable(at, now time.Time) bool {
	today := utils.StartOfDay(now)
	day := utils.StartOfDay(at.In(now.Location()))
	earliest := today.AddDate(0, 0, -constants.EditableWindowDays)
	return !day.Before(earliest) && !day.After(today)
}

// Editable reports whether at is inside the engine's editable window.
func (e *Engine) Editable(at time.Time) bool {
	return Editable(at, e.clock.Now())
}

func findRecord(completions []models.Completion, habitID string, day time.Time) int {
	return slices.IndexFunc(completions, func(c models.Completion) bool {
		return c.HabitID == habitID && utils.SameDay(day, c.Date)
	})
}

// Apply records status for a habit on at's calendar day, replacing any record
// already there. Actions outside the editable window and unknown habits are
// ignored and reported with Applied false.
func (e *Engine) Apply(habitID string, status models.CompletionStatus, at time.Time) (Result, error) {
	if !status.Valid() {
		return Result{}, ErrInvalidStatus
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.begin()
	if err != nil {
		return Result{}, err
	}
	at = at.In(t.now.Location())
	if !Editable(at, t.now) {
		logger.Debug("Ignoring action outside editable window", "habit", habitID, "date", utils.DateKey(at))
		return Result{}, nil
	}
	hi := t.state.habitIndex(habitID)
	if hi < 0 {
		return Result{}, nil
	}

	if ri := findRecord(t.state.Completions, habitID, at); ri >= 0 {
		e.revert(t, ri, true)
	}

	h := &t.state.Habits[hi]
	rec := models.Completion{
		ID:                  e.newID(),
		HabitID:             h.ID,
		Date:                at,
		HabitCategory:       h.Category,
		Status:              status,
		StreakBefore:        h.Streak,
		LastCompletedBefore: h.LastCompleted,
	}

	questsDone := 0
	switch status {
	case models.StatusCompleted:
		advanceStreak(h, t.state.Completions, at)
		h.CompletionCount++
		var questXP int
		rec.QuestsAffected, questXP, questsDone = progressQuests(&t.state, *h)
		rec.XPGained = xp.ForCompletion(h.XPReward, rec.StreakBefore) + questXP
	case models.StatusFailed:
		h.Streak = 0
	}
	t.state.Completions = append(t.state.Completions, rec)

	bonus := e.awardBadges(t)
	total := rec.XPGained + bonus
	p := &t.state.Profile
	leveledUp := xp.Grant(p, total)
	p.TotalQuestsCompleted += questsDone
	if leveledUp {
		t.levelUp = p.Level
	}
	t.touch(allSnapshots...)

	if err := e.commit(t); err != nil {
		return Result{}, err
	}
	logger.Debug("Applied habit status", "habit", habitID, "status", status, "xp", total)
	return Result{
		Applied:    true,
		Completion: &rec,
		XPGained:   total,
		Unlocks:    t.unlocks,
		LeveledUp:  leveledUp,
		Level:      e.state.Profile.Level,
	}, nil
}

// Undo removes the record for a habit on at's calendar day and reverses its
// XP, quest progress, streak and completion count. Badges stay unlocked.
func (e *Engine) Undo(habitID string, at time.Time) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.begin()
	if err != nil {
		return false, err
	}
	at = at.In(t.now.Location())
	if !Editable(at, t.now) {
		return false, nil
	}
	ri := findRecord(t.state.Completions, habitID, at)
	if ri < 0 {
		return false, nil
	}
	e.revert(t, ri, false)
	if err := e.commit(t); err != nil {
		return false, err
	}
	return true, nil
}

// revert reverses the record at index ri and deletes it. Undo resets the
// streak to what the record found; a replacement goes through unwind.
func (e *Engine) revert(t *txn, ri int, replacing bool) {
	rec := t.state.Completions[ri]
	p := &t.state.Profile

	xp.Revoke(p, rec.XPGained)
	for _, d := range rec.QuestsAffected {
		qi := slices.IndexFunc(t.state.Quests, func(q models.Quest) bool { return q.ID == d.QuestID })
		if qi < 0 {
			continue
		}
		q := &t.state.Quests[qi]
		if q.IsCompleted && !d.WasCompleted {
			p.TotalQuestsCompleted = max(0, p.TotalQuestsCompleted-1)
		}
		q.Progress = d.ProgressBefore
		q.IsCompleted = d.WasCompleted
	}

	if hi := t.state.habitIndex(rec.HabitID); hi >= 0 {
		h := &t.state.Habits[hi]
		if rec.Status == models.StatusCompleted {
			h.CompletionCount = max(0, h.CompletionCount-1)
		}
		if replacing {
			unwind(h, rec)
		} else {
			h.Streak = rec.StreakBefore
		}
	}

	t.state.Completions = slices.Delete(t.state.Completions, ri, ri+1)
	t.touch(allSnapshots...)
}

// unwind restores the streak and lastCompleted a record found, but only when
// the record is still the newest thing shaping them. Records from before
// lastCompleted are left alone, and so are completions stored without the
// lastCompleted they replaced, since there is nothing to restore it to.
func unwind(h *models.Habit, rec models.Completion) {
	if h.LastCompleted == nil {
		h.Streak = rec.StreakBefore
		return
	}
	gap := utils.DaysBetween(rec.Date, *h.LastCompleted)
	switch {
	case gap < 0:
	case gap == 0 && rec.Status == models.StatusCompleted:
		if rec.LastCompletedBefore != nil || rec.StreakBefore == 0 {
			h.Streak = rec.StreakBefore
			h.LastCompleted = rec.LastCompletedBefore
		}
	default:
		h.Streak = rec.StreakBefore
	}
}

// advanceStreak moves lastCompleted forward to at and extends or restarts
// the streak. Completions on or before lastCompleted leave both alone.
func advanceStreak(h *models.Habit, completions []models.Completion, at time.Time) {
	if h.LastCompleted == nil {
		h.Streak = 1
		h.LastCompleted = &at
		return
	}
	gap := utils.DaysBetween(at, *h.LastCompleted)
	if gap <= 0 {
		return
	}
	if gap == 1 || bridged(*h, completions, at, gap) {
		h.Streak++
	} else {
		h.Streak = 1
	}
	h.LastCompleted = &at
}

// bridged reports whether every day strictly between lastCompleted and at
// was unscheduled or skipped.
func bridged(h models.Habit, completions []models.Completion, at time.Time, gap int) bool {
	start := utils.StartOfDay(at).AddDate(0, 0, -gap)
	for i := 1; i < gap; i++ {
		day := start.AddDate(0, 0, i)
		if !h.ScheduledOn(day.Weekday()) {
			continue
		}
		ri := findRecord(completions, h.ID, day)
		if ri < 0 || completions[ri].Status != models.StatusSkipped {
			return false
		}
	}
	return true
}

// progressQuests advances every open quest the habit counts toward and
// returns the deltas, the XP of quests it completed and how many it completed.
func progressQuests(st *State, h models.Habit) ([]models.QuestDelta, int, int) {
	var deltas []models.QuestDelta
	reward, done := 0, 0
	for i := range st.Quests {
		q := &st.Quests[i]
		if q.IsCompleted || !q.Objective.Matches(h) {
			continue
		}
		deltas = append(deltas, models.QuestDelta{QuestID: q.ID, ProgressBefore: q.Progress})

		switch q.Type {
		case models.QuestTypeCount:
			q.Progress++
		case models.QuestTypeStreak:
			q.Progress = bestStreak(st.Habits, q.Objective)
		}
		q.Progress = min(q.Progress, q.Objective.Target)
		if q.Progress >= q.Objective.Target {
			q.IsCompleted = true
			reward += q.XPReward
			done++
		}
	}
	return deltas, reward, done
}

func bestStreak(habits []models.Habit, obj models.QuestObjective) int {
	best := 0
	for _, h := range habits {
		if !h.IsArchived && obj.Matches(h) {
			best = max(best, h.Streak)
		}
	}
	return best
}
