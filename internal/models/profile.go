package models

// PlayerSettings holds player-tunable gameplay settings
type PlayerSettings struct {
	DailyHabitLimit *int `json:"dailyHabitLimit"` // nil means no limit
}

// PlayerProfile is the singleton progression aggregate
type PlayerProfile struct {
	Level                int            `json:"level"`
	TotalXP              int            `json:"totalXP"`
	CurrentXP            int            `json:"currentXP"`
	XPToNextLevel        int            `json:"xpToNextLevel"`
	UnlockedBadges       map[string]int `json:"unlockedBadges"` // badge id -> highest tier
	TotalQuestsCompleted int            `json:"totalQuestsCompleted"`
	Settings             PlayerSettings `json:"settings"`
}

// BadgeTier returns the highest unlocked tier for a badge, 0 if none.
func (p PlayerProfile) BadgeTier(id string) int {
	return p.UnlockedBadges[id]
}
