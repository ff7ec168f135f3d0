package engine

import (
	"cmp"
	"errors"
	"slices"
	"strings"

	"github.com/julianstephens/habitquest/internal/constants"
	"github.com/julianstephens/habitquest/internal/logger"
	"github.com/julianstephens/habitquest/internal/models"
	"github.com/julianstephens/habitquest/internal/utils"
	"github.com/julianstephens/habitquest/internal/xp"
)

// NewHabit holds the caller-supplied fields of a habit being created.
// ScheduleDays nil means every day; an empty slice is rejected. Difficulty
// is a preset key or a custom label, and XPReward 0 takes the preset's
// reward.
type NewHabit struct {
	Name             string           `json:"name"`
	Category         models.Category  `json:"category"`
	Type             models.HabitType `json:"type"`
	ScheduleDays     []int            `json:"scheduleDays"`
	ReminderTime     *string          `json:"reminderTime,omitempty"`
	Difficulty       string           `json:"difficulty"`
	XPReward         int              `json:"xpReward"`
	DuplicatedFromID string           `json:"duplicatedFromId,omitempty"`
}

func (nh NewHabit) normalize() (NewHabit, error) {
	nh.Name = strings.TrimSpace(nh.Name)
	if nh.Name == "" {
		return nh, ErrEmptyName
	}
	if !nh.Category.Valid() {
		return nh, ErrInvalidCategory
	}
	if !nh.Type.Valid() {
		return nh, ErrInvalidType
	}

	if nh.ScheduleDays == nil {
		nh.ScheduleDays = slices.Clone(models.AllDays)
	}
	if len(nh.ScheduleDays) == 0 {
		return nh, ErrEmptySchedule
	}
	days := slices.Clone(nh.ScheduleDays)
	for _, d := range days {
		if d < 0 || d > 6 {
			return nh, ErrInvalidScheduleDay
		}
	}
	slices.Sort(days)
	nh.ScheduleDays = slices.Compact(days)

	if nh.ReminderTime != nil {
		rt := strings.TrimSpace(*nh.ReminderTime)
		switch {
		case rt == "":
			nh.ReminderTime = nil
		case !utils.ValidateTimeFormat(rt):
			return nh, ErrInvalidReminder
		default:
			nh.ReminderTime = &rt
		}
	}

	nh.Difficulty = strings.TrimSpace(nh.Difficulty)
	if nh.Difficulty == "" {
		nh.Difficulty = models.DefaultDifficulty
	}
	if nh.XPReward == 0 {
		if d, ok := models.LookupDifficulty(nh.Difficulty); ok {
			nh.XPReward = d.XPReward
		}
	}
	if nh.XPReward < models.MinCustomXPReward || nh.XPReward > models.MaxCustomXPReward {
		return nh, ErrInvalidXPReward
	}
	return nh, nil
}

// limitReached reports whether any weekday in days already holds limit
// active habits.
func limitReached(habits []models.Habit, days []int, limit *int) bool {
	if limit == nil {
		return false
	}
	for _, d := range days {
		n := 0
		for _, h := range habits {
			if !h.IsArchived && slices.Contains(h.ScheduleDays, d) {
				n++
			}
		}
		if n >= *limit {
			return true
		}
	}
	return false
}

// AddHabit validates and appends a habit, then checks badges so a first habit
// can unlock its badge right away.
func (e *Engine) AddHabit(nh NewHabit) (models.Habit, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.addHabit(nh)
}

func (e *Engine) addHabit(nh NewHabit) (models.Habit, error) {
	nh, err := nh.normalize()
	if err != nil {
		return models.Habit{}, err
	}

	t, err := e.begin()
	if err != nil {
		return models.Habit{}, err
	}
	if limitReached(t.state.Habits, nh.ScheduleDays, t.state.Profile.Settings.DailyHabitLimit) {
		return models.Habit{}, ErrDailyLimitReached
	}

	h := models.Habit{
		ID:               e.newID(),
		Name:             nh.Name,
		Type:             nh.Type,
		Category:         nh.Category,
		CreatedAt:        t.now,
		Difficulty:       nh.Difficulty,
		XPReward:         nh.XPReward,
		ScheduleDays:     nh.ScheduleDays,
		ReminderTime:     nh.ReminderTime,
		Order:            len(t.state.Habits),
		DuplicatedFromID: nh.DuplicatedFromID,
	}
	t.state.Habits = renumber(append(t.state.Habits, h))
	h = t.state.Habits[t.state.habitIndex(h.ID)]
	t.touch(constants.SnapshotHabits)
	t.syncRems = true

	if bonus := e.awardBadges(t); bonus > 0 {
		if xp.Grant(&t.state.Profile, bonus) {
			t.levelUp = t.state.Profile.Level
		}
	}

	if err := e.commit(t); err != nil {
		return models.Habit{}, err
	}
	logger.Info("Added habit", "id", h.ID, "name", h.Name)
	return h, nil
}

// DuplicateHabit creates a copy of an existing habit. edit, when non-nil, may
// change any field before validation.
func (e *Engine) DuplicateHabit(id string, edit func(*NewHabit)) (models.Habit, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.refresh(); err != nil {
		return models.Habit{}, err
	}
	i := e.state.habitIndex(id)
	if i < 0 {
		return models.Habit{}, ErrHabitNotFound
	}
	src := e.state.Habits[i]
	nh := NewHabit{
		Name:             src.Name,
		Category:         src.Category,
		Type:             src.Type,
		ScheduleDays:     slices.Clone(src.ScheduleDays),
		ReminderTime:     src.ReminderTime,
		Difficulty:       src.Difficulty,
		XPReward:         src.XPReward,
		DuplicatedFromID: src.ID,
	}
	if edit != nil {
		edit(&nh)
	}
	nh.DuplicatedFromID = src.ID
	return e.addHabit(nh)
}

// Archive hides a habit from the active list. Unknown ids are ignored.
func (e *Engine) Archive(id string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.begin()
	if err != nil {
		return false, err
	}
	i := t.state.habitIndex(id)
	if i < 0 || t.state.Habits[i].IsArchived {
		return false, nil
	}
	t.state.Habits[i].IsArchived = true
	t.state.Habits = renumber(t.state.Habits)
	t.touch(constants.SnapshotHabits)
	t.syncRems = true
	return true, e.commit(t)
}

// Restore un-archives a habit. When an active habit was duplicated from it,
// res decides between deleting the duplicate and keeping both; without one
// a *ConflictError is returned and nothing changes.
func (e *Engine) Restore(id string, res Resolution) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.begin()
	if err != nil {
		return false, err
	}
	i := t.state.habitIndex(id)
	if i < 0 || !t.state.Habits[i].IsArchived {
		return false, nil
	}

	di := slices.IndexFunc(t.state.Habits, func(h models.Habit) bool {
		return !h.IsArchived && h.DuplicatedFromID == id
	})
	if di >= 0 {
		switch res {
		case ResolutionReplace:
			dup := t.state.Habits[di].ID
			removeHabit(&t.state, dup)
			t.touch(constants.SnapshotCompletions)
			logger.Info("Replaced duplicate on restore", "habit", id, "duplicate", dup)
		case ResolutionKeepBoth:
		default:
			return false, &ConflictError{Habit: t.state.Habits[i], Duplicate: t.state.Habits[di]}
		}
		i = t.state.habitIndex(id)
	}

	t.state.Habits[i].IsArchived = false
	t.state.Habits = renumber(t.state.Habits)
	t.touch(constants.SnapshotHabits)
	t.syncRems = true
	return true, e.commit(t)
}

// Delete removes a habit and every completion recorded for it.
func (e *Engine) Delete(id string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.begin()
	if err != nil {
		return false, err
	}
	if t.state.habitIndex(id) < 0 {
		return false, nil
	}
	removeHabit(&t.state, id)
	t.state.Habits = renumber(t.state.Habits)
	t.touch(constants.SnapshotHabits, constants.SnapshotCompletions)
	t.syncRems = true
	return true, e.commit(t)
}

func removeHabit(st *State, id string) {
	st.Habits = slices.DeleteFunc(st.Habits, func(h models.Habit) bool { return h.ID == id })
	st.Completions = slices.DeleteFunc(st.Completions, func(c models.Completion) bool { return c.HabitID == id })
}

// Reorder moves dragged to target's position in the active list.
func (e *Engine) Reorder(draggedID, targetID string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.begin()
	if err != nil {
		return false, err
	}
	active, archived := splitByOrder(t.state.Habits)
	from := slices.IndexFunc(active, func(h models.Habit) bool { return h.ID == draggedID })
	to := slices.IndexFunc(active, func(h models.Habit) bool { return h.ID == targetID })
	if from < 0 || to < 0 || from == to {
		return false, nil
	}
	moved := active[from]
	active = slices.Delete(active, from, from+1)
	active = slices.Insert(active, to, moved)

	t.state.Habits = assignOrder(active, archived)
	t.touch(constants.SnapshotHabits)
	return true, e.commit(t)
}

// renumber gives active habits dense orders and appends archived habits
// after them, each group keeping its relative order.
func renumber(habits []models.Habit) []models.Habit {
	return assignOrder(splitByOrder(habits))
}

func splitByOrder(habits []models.Habit) (active, archived []models.Habit) {
	sorted := slices.Clone(habits)
	slices.SortStableFunc(sorted, func(a, b models.Habit) int { return cmp.Compare(a.Order, b.Order) })
	for _, h := range sorted {
		if h.IsArchived {
			archived = append(archived, h)
		} else {
			active = append(active, h)
		}
	}
	return active, archived
}

func assignOrder(active, archived []models.Habit) []models.Habit {
	out := make([]models.Habit, 0, len(active)+len(archived))
	out = append(out, active...)
	out = append(out, archived...)
	for i := range out {
		out[i].Order = i
	}
	return out
}

// UpdatePlayerSettings replaces the gameplay settings.
func (e *Engine) UpdatePlayerSettings(s models.PlayerSettings) error {
	if s.DailyHabitLimit != nil && *s.DailyHabitLimit < 1 {
		return ErrInvalidLimit
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.begin()
	if err != nil {
		return err
	}
	t.state.Profile.Settings = s
	t.touch(constants.SnapshotProfile)
	return e.commit(t)
}

// Habit returns the habit with the given id.
func (e *Engine) Habit(id string) (models.Habit, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.view()
	i := e.state.habitIndex(id)
	if i < 0 {
		return models.Habit{}, ErrHabitNotFound
	}
	return e.state.Habits[i], nil
}

// ActiveHabits returns non-archived habits sorted by order.
func (e *Engine) ActiveHabits() []models.Habit {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.view()
	active, _ := splitByOrder(e.state.Habits)
	return active
}

// ArchivedHabits returns archived habits sorted by order.
func (e *Engine) ArchivedHabits() []models.Habit {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.view()
	_, archived := splitByOrder(e.state.Habits)
	return archived
}

// IsConflict reports whether err is a restore conflict and returns it.
func IsConflict(err error) (*ConflictError, bool) {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
