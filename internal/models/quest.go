package models

// QuestType distinguishes quests that count completions from streak goals
type QuestType string

const (
	QuestTypeCount  QuestType = "count"
	QuestTypeStreak QuestType = "streak"
)

// QuestObjective is the target of a quest with optional habit filters
type QuestObjective struct {
	Target    int       `json:"target"`
	Category  Category  `json:"category,omitempty"`
	HabitType HabitType `json:"habitType,omitempty"`
}

// Matches reports whether a habit satisfies the objective's filters.
func (o QuestObjective) Matches(h Habit) bool {
	if o.Category != "" && o.Category != h.Category {
		return false
	}
	if o.HabitType != "" && o.HabitType != h.Type {
		return false
	}
	return true
}

// Quest is one daily challenge instance
type Quest struct {
	ID          string         `json:"id"`
	Type        QuestType      `json:"type"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Objective   QuestObjective `json:"objective"`
	XPReward    int            `json:"xpReward"`
	Progress    int            `json:"progress"`
	IsCompleted bool           `json:"isCompleted"`
}
