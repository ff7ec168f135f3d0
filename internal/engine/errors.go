package engine

import (
	"errors"
	"fmt"

	"github.com/julianstephens/habitquest/internal/models"
)

var (
	ErrEmptyName          = errors.New("habit name is required")
	ErrInvalidCategory    = errors.New("invalid habit category")
	ErrInvalidType        = errors.New("invalid habit type")
	ErrEmptySchedule      = errors.New("habit must be scheduled on at least one day")
	ErrInvalidScheduleDay = errors.New("schedule days must be between 0 (Sunday) and 6 (Saturday)")
	ErrInvalidXPReward    = fmt.Errorf("xp reward must be between %d and %d", models.MinCustomXPReward, models.MaxCustomXPReward)
	ErrInvalidReminder    = errors.New("reminder time must be HH:MM")
	ErrDailyLimitReached  = errors.New("daily habit limit reached")
	ErrInvalidLimit       = errors.New("daily habit limit must be at least 1")
	ErrInvalidStatus      = errors.New("invalid completion status")
	ErrHabitNotFound      = errors.New("habit not found")

	ErrInvalidBundle      = errors.New("invalid backup file format")
	ErrUnsupportedVersion = errors.New("unsupported backup version")
)

// Resolution decides what happens to an active duplicate when its source
// habit is restored from the archive.
type Resolution string

const (
	ResolutionNone     Resolution = ""
	ResolutionReplace  Resolution = "replace"
	ResolutionKeepBoth Resolution = "keep-both"
)

func ParseResolution(s string) (Resolution, error) {
	switch r := Resolution(s); r {
	case ResolutionNone, ResolutionReplace, ResolutionKeepBoth:
		return r, nil
	}
	return "", fmt.Errorf("invalid resolution %q (want replace or keep-both)", s)
}

// ConflictError is returned by Restore when an active duplicate of the
// archived habit exists and no resolution was given.
type ConflictError struct {
	Habit     models.Habit
	Duplicate models.Habit
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("habit %q has an active duplicate %q; choose replace or keep-both", e.Habit.Name, e.Duplicate.Name)
}

// IsValidation reports whether err is caused by bad caller input.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrEmptyName, ErrInvalidCategory, ErrInvalidType, ErrEmptySchedule,
		ErrInvalidScheduleDay, ErrInvalidXPReward, ErrInvalidReminder,
		ErrDailyLimitReached, ErrInvalidLimit, ErrInvalidStatus,
		ErrInvalidBundle, ErrUnsupportedVersion,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
