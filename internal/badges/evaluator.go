package badges

import (
	"slices"
	"time"

	"github.com/julianstephens/habitquest/internal/models"
	"github.com/julianstephens/habitquest/internal/utils"
)

const (
	earlyBeforeHour = 10
	lateFromHour    = 20
	comebackGapDays = 4
)

// Input is the history snapshot badges are measured against. Hours and
// calendar days are evaluated in Now's location.
type Input struct {
	Profile     models.PlayerProfile
	Habits      []models.Habit
	Completions []models.Completion
	Now         time.Time
}

// Evaluate returns every tier above the player's recorded tier whose
// target is met, in catalog order.
func Evaluate(catalog []Badge, in Input) []Unlock {
	var out []Unlock
	for _, b := range catalog {
		progress := Measure(b.Metric, in)
		held := in.Profile.BadgeTier(b.ID)
		for _, t := range b.Tiers {
			if t.Tier > held && progress >= t.Target {
				out = append(out, Unlock{BadgeID: b.ID, BadgeName: b.Name, Tier: t})
			}
		}
	}
	return out
}

// Measure computes the progress value of m. Unknown kinds measure 0.
func Measure(m Metric, in Input) int {
	loc := in.Now.Location()
	switch m.Kind {
	case MetricHabitCount:
		return len(in.Habits)
	case MetricActiveCategories:
		seen := map[models.Category]bool{}
		for _, h := range in.Habits {
			if !h.IsArchived {
				seen[h.Category] = true
			}
		}
		return len(seen)
	case MetricLevel:
		return in.Profile.Level
	case MetricMaxStreak:
		best := 0
		for _, h := range in.Habits {
			best = max(best, h.Streak)
		}
		return best
	case MetricTotalXP:
		return in.Profile.TotalXP
	case MetricUniqueDays:
		days := map[string]bool{}
		for _, c := range in.Completions {
			days[utils.DateKey(c.Date.In(loc))] = true
		}
		return len(days)
	case MetricQuestsCompleted:
		return in.Profile.TotalQuestsCompleted
	case MetricCategoryCompletions:
		n := 0
		for _, c := range in.Completions {
			if c.Status == models.StatusCompleted && c.HabitCategory == m.Category {
				n++
			}
		}
		return n
	case MetricEarlyCompletions:
		return countCompleted(in.Completions, func(c models.Completion) bool {
			return c.Date.In(loc).Hour() < earlyBeforeHour
		})
	case MetricLateCompletions:
		return countCompleted(in.Completions, func(c models.Completion) bool {
			return c.Date.In(loc).Hour() >= lateFromHour
		})
	case MetricComeback:
		return comeback(in.Completions, loc)
	case MetricRecovery:
		return recoveries(in.Completions, loc)
	case MetricNoFailureDays:
		return noFailureDays(in.Completions, in.Now)
	}
	return 0
}

func countCompleted(cs []models.Completion, pred func(models.Completion) bool) int {
	n := 0
	for _, c := range cs {
		if c.Status == models.StatusCompleted && pred(c) {
			n++
		}
	}
	return n
}

func comeback(cs []models.Completion, loc *time.Location) int {
	byHabit := map[string][]time.Time{}
	for _, c := range cs {
		if c.Status == models.StatusCompleted {
			byHabit[c.HabitID] = append(byHabit[c.HabitID], c.Date.In(loc))
		}
	}
	for _, dates := range byHabit {
		slices.SortFunc(dates, func(a, b time.Time) int { return a.Compare(b) })
		for i := 1; i < len(dates); i++ {
			if utils.DaysBetween(dates[i], dates[i-1]) >= comebackGapDays {
				return 1
			}
		}
	}
	return 0
}

func recoveries(cs []models.Completion, loc *time.Location) int {
	completedDays := map[string]map[string]bool{}
	for _, c := range cs {
		if c.Status != models.StatusCompleted {
			continue
		}
		if completedDays[c.HabitID] == nil {
			completedDays[c.HabitID] = map[string]bool{}
		}
		completedDays[c.HabitID][utils.DateKey(c.Date.In(loc))] = true
	}
	n := 0
	for _, c := range cs {
		if c.Status != models.StatusFailed {
			continue
		}
		next := c.Date.In(loc).AddDate(0, 0, 1)
		if completedDays[c.HabitID][utils.DateKey(next)] {
			n++
		}
	}
	return n
}

func noFailureDays(cs []models.Completion, now time.Time) int {
	if len(cs) == 0 {
		return 0
	}
	var lastFail, earliest time.Time
	for i, c := range cs {
		if i == 0 || c.Date.Before(earliest) {
			earliest = c.Date
		}
		if c.Status == models.StatusFailed && c.Date.After(lastFail) {
			lastFail = c.Date
		}
	}
	if lastFail.IsZero() {
		return utils.DaysBetween(now, earliest) + 1
	}
	return utils.DaysBetween(now, lastFail)
}
