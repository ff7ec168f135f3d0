// Package xp converts habit rewards into experience and experience into levels.
package xp

import (
	"math"

	"github.com/julianstephens/habitquest/internal/models"
)

const (
	// StreakBonus is the extra share of base reward earned per prior streak day
	StreakBonus = 0.1

	baseThreshold   = 100
	thresholdGrowth = 1.5
)

// ForCompletion returns the XP earned for completing a habit with the given
// base reward. streak is the value before today's increment, so the first day
// of a streak earns no bonus.
func ForCompletion(baseReward, streak int) int {
	if streak <= 0 {
		return baseReward
	}
	return int(math.Floor(float64(baseReward) * (1 + float64(streak)*StreakBonus)))
}

// Threshold returns the XP needed to advance from level to level+1.
func Threshold(level int) int {
	return int(math.Floor(baseThreshold * math.Pow(thresholdGrowth, float64(level-1))))
}

// NewProfile returns a level 1 profile with no progress.
func NewProfile() models.PlayerProfile {
	return models.PlayerProfile{
		Level:          1,
		XPToNextLevel:  Threshold(1),
		UnlockedBadges: map[string]int{},
	}
}

// Grant adds amount to the profile and levels it up as many times as the
// accumulated XP allows. It reports whether at least one level was gained.
func Grant(p *models.PlayerProfile, amount int) bool {
	if amount <= 0 {
		return false
	}
	p.CurrentXP += amount
	p.TotalXP += amount

	leveledUp := false
	for p.XPToNextLevel > 0 && p.CurrentXP >= p.XPToNextLevel {
		p.Level++
		p.CurrentXP -= p.XPToNextLevel
		p.XPToNextLevel = Threshold(p.Level)
		leveledUp = true
	}
	return leveledUp
}

// Revoke removes amount from the profile, borrowing from prior levels while
// current XP is negative. The profile never drops below level 1 with zero XP.
func Revoke(p *models.PlayerProfile, amount int) {
	if amount <= 0 {
		return
	}
	p.CurrentXP -= amount
	p.TotalXP = max(0, p.TotalXP-amount)

	for p.CurrentXP < 0 {
		p.Level--
		if p.Level < 1 {
			p.Level = 1
			p.CurrentXP = 0
			p.XPToNextLevel = Threshold(1)
			break
		}
		prev := Threshold(p.Level)
		p.CurrentXP += prev
		p.XPToNextLevel = prev
	}
}
