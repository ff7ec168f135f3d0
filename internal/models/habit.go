package models

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Category groups habits for quests, badges and reporting
type Category string

// HabitType describes the direction of a habit
type HabitType string

const (
	CategoryHealth       Category = "Health"
	CategoryWellness     Category = "Wellness"
	CategoryProductivity Category = "Productivity"
	CategoryLifestyle    Category = "Lifestyle"

	HabitTypeBuild    HabitType = "build"
	HabitTypeReduce   HabitType = "reduce"
	HabitTypeMaintain HabitType = "maintain"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryHealth, CategoryWellness, CategoryProductivity, CategoryLifestyle}

// HabitTypes lists every habit type.
var HabitTypes = []HabitType{HabitTypeBuild, HabitTypeReduce, HabitTypeMaintain}

// AllDays is the default schedule: every weekday, Sunday first.
var AllDays = []int{0, 1, 2, 3, 4, 5, 6}

func (c Category) Valid() bool {
	return slices.Contains(Categories, c)
}

func (t HabitType) Valid() bool {
	return slices.Contains(HabitTypes, t)
}

// ParseCategory matches a category name case-insensitively.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", fmt.Errorf("invalid category: %s", s)
}

// ParseHabitType matches a habit type case-insensitively.
func ParseHabitType(s string) (HabitType, error) {
	for _, t := range HabitTypes {
		if strings.EqualFold(string(t), s) {
			return t, nil
		}
	}
	return "", fmt.Errorf("invalid habit type: %s", s)
}

// Habit represents a recurring task the player tracks
type Habit struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Type             HabitType  `json:"type"`
	Category         Category   `json:"category"`
	Streak           int        `json:"streak"`
	LastCompleted    *time.Time `json:"lastCompleted"` // last successful completion
	CreatedAt        time.Time  `json:"createdAt"`
	Difficulty       string     `json:"difficulty"`
	XPReward         int        `json:"xpReward"`
	CompletionCount  int        `json:"completionCount"`
	ScheduleDays     []int      `json:"scheduleDays"` // 0=Sunday ... 6=Saturday
	ReminderTime     *string    `json:"reminderTime,omitempty"`
	IsArchived       bool       `json:"isArchived"`
	Order            int        `json:"order"`
	DuplicatedFromID string     `json:"duplicatedFromId,omitempty"`
}

// ScheduledOn reports whether the habit is scheduled on the given weekday.
func (h Habit) ScheduledOn(day time.Weekday) bool {
	return slices.Contains(h.ScheduleDays, int(day))
}

// HasReminder reports whether a reminder time is set.
func (h Habit) HasReminder() bool {
	return h.ReminderTime != nil && *h.ReminderTime != ""
}

// Reminder is the tuple registered with the notification relay
type Reminder struct {
	HabitID      string `json:"habitId"`
	HabitName    string `json:"habitName"`
	ReminderTime string `json:"reminderTime"`
}
