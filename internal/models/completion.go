package models

import "time"

// CompletionStatus is the outcome recorded for a habit on a day
type CompletionStatus string

const (
	StatusCompleted CompletionStatus = "completed"
	StatusFailed    CompletionStatus = "failed"
	StatusSkipped   CompletionStatus = "skipped"
)

func (s CompletionStatus) Valid() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusSkipped:
		return true
	}
	return false
}

// QuestDelta captures a quest's state before a completion touched it
type QuestDelta struct {
	QuestID        string `json:"questId"`
	ProgressBefore int    `json:"progressBefore"`
	WasCompleted   bool   `json:"wasCompleted"`
}

// Completion records one outcome for one habit on one calendar day
type Completion struct {
	ID             string           `json:"id"`
	HabitID        string           `json:"habitId"`
	Date           time.Time        `json:"date"`
	HabitCategory  Category         `json:"habitCategory"` // snapshotted at record time
	Status         CompletionStatus `json:"status"`
	XPGained       int              `json:"xpGained,omitempty"`
	QuestsAffected []QuestDelta     `json:"questsAffected,omitempty"`
	StreakBefore   int              `json:"streakBefore"`

	// LastCompletedBefore lets a same-day replacement put lastCompleted back.
	LastCompletedBefore *time.Time `json:"lastCompletedBefore,omitempty"`
}
