package engine

import (
	"time"

	"github.com/julianstephens/habitquest/internal/constants"
	"github.com/julianstephens/habitquest/internal/models"
)

func reminders(habits []models.Habit) []models.Reminder {
	out := []models.Reminder{}
	for _, h := range habits {
		if h.IsArchived || !h.HasReminder() {
			continue
		}
		out = append(out, models.Reminder{HabitID: h.ID, HabitName: h.Name, ReminderTime: *h.ReminderTime})
	}
	return out
}

// Reminders lists the reminder of every active habit that has one.
func (e *Engine) Reminders() []models.Reminder {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.view()
	return reminders(e.state.Habits)
}

// DueReminders returns reminders set for at's HH:MM on habits scheduled that
// weekday and not yet logged that day.
func (e *Engine) DueReminders(at time.Time) []models.Reminder {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.view()

	at = at.In(e.clock.Now().Location())
	hhmm := at.Format(constants.TimeFormat)
	var due []models.Reminder
	for _, h := range e.state.Habits {
		if h.IsArchived || !h.HasReminder() || *h.ReminderTime != hhmm {
			continue
		}
		if !h.ScheduledOn(at.Weekday()) || findRecord(e.state.Completions, h.ID, at) >= 0 {
			continue
		}
		due = append(due, models.Reminder{HabitID: h.ID, HabitName: h.Name, ReminderTime: hhmm})
	}
	return due
}
