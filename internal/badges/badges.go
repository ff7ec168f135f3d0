// Package badges defines the achievement catalog and derives unlocks from
// player history.
package badges

import "github.com/julianstephens/habitquest/internal/models"

// MetricKind names a progress function over player history
type MetricKind string

const (
	MetricHabitCount          MetricKind = "habit-count"
	MetricActiveCategories    MetricKind = "active-categories"
	MetricLevel               MetricKind = "level"
	MetricMaxStreak           MetricKind = "max-streak"
	MetricTotalXP             MetricKind = "total-xp"
	MetricUniqueDays          MetricKind = "unique-days"
	MetricQuestsCompleted     MetricKind = "quests-completed"
	MetricCategoryCompletions MetricKind = "category-completions"
	MetricEarlyCompletions    MetricKind = "early-completions"
	MetricLateCompletions     MetricKind = "late-completions"
	MetricComeback            MetricKind = "comeback"
	MetricRecovery            MetricKind = "recovery"
	MetricNoFailureDays       MetricKind = "no-failure-days"
)

// Metric selects how badge progress is measured. Category is only read by
// category-completions.
type Metric struct {
	Kind     MetricKind      `json:"kind"`
	Category models.Category `json:"category,omitempty"`
}

// Tier is one unlockable level of a badge
type Tier struct {
	Tier        int    `json:"tier"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Target      int    `json:"target"`
	XPReward    int    `json:"xpReward"`
}

// Badge is a catalog entry with ascending tiers
type Badge struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Metric Metric `json:"metric"`
	Tiers  []Tier `json:"tiers"`
}

// Unlock is a tier newly earned during an evaluation
type Unlock struct {
	BadgeID   string `json:"badgeId"`
	BadgeName string `json:"badgeName"`
	Tier      Tier   `json:"tier"`
}

// HighestTier returns the highest tier number the player holds for b
// and the matching tier definition, if any.
func (b Badge) HighestTier(p models.PlayerProfile) (Tier, bool) {
	held := p.BadgeTier(b.ID)
	for i := len(b.Tiers) - 1; i >= 0; i-- {
		if b.Tiers[i].Tier <= held {
			return b.Tiers[i], true
		}
	}
	return Tier{}, false
}
