package insights

import (
	"testing"
	"time"

	"github.com/julianstephens/habitquest/internal/models"
)

var loc = time.FixedZone("EST", -5*60*60)

// day returns noon on a January 2026 date. The 4th is a Sunday.
func day(d int) time.Time {
	return time.Date(2026, 1, d, 12, 0, 0, 0, loc)
}

func done(d int, cat models.Category) models.Completion {
	return models.Completion{Date: day(d), HabitCategory: cat, Status: models.StatusCompleted}
}

func TestProductiveDay(t *testing.T) {
	tests := []struct {
		name string
		in   []models.Completion
		want string
	}{
		{"empty", nil, NoData},
		{"single", []models.Completion{done(6, models.CategoryHealth)}, "Tuesday"},
		{"clear winner", []models.Completion{done(5, ""), done(7, ""), done(14, "")}, "Wednesday"},
		{"tie goes to earlier day", []models.Completion{done(10, ""), done(4, "")}, "Sunday"},
		{"tie midweek", []models.Completion{done(8, ""), done(6, "")}, "Tuesday"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ProductiveDay(tt.in); got != tt.want {
				t.Errorf("ProductiveDay() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAverageStreak(t *testing.T) {
	tests := []struct {
		name    string
		streaks []int
		want    float64
	}{
		{"no habits", nil, 0},
		{"all zero", []int{0, 0}, 0},
		{"ignores zero streaks", []int{0, 2, 4}, 3},
		{"rounds to one decimal", []int{1, 1, 2}, 1.3},
		{"rounds half up", []int{1, 2, 2, 2}, 1.8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var habits []models.Habit
			for _, s := range tt.streaks {
				habits = append(habits, models.Habit{Streak: s})
			}
			if got := AverageStreak(habits); got != tt.want {
				t.Errorf("AverageStreak() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWeekdayPercent(t *testing.T) {
	in := []models.Completion{done(4, ""), done(5, ""), done(6, "")}
	if got := WeekdayPercent(in); got != 67 {
		t.Errorf("WeekdayPercent() = %d, want 67", got)
	}
	if got := WeekdayPercent(nil); got != 0 {
		t.Errorf("WeekdayPercent(nil) = %d, want 0", got)
	}
}

func TestLastSevenDays(t *testing.T) {
	in := []models.Completion{done(1, ""), done(2, ""), done(8, ""), done(8, ""), done(9, "")}
	got := LastSevenDays(in, day(8))

	if len(got) != 7 {
		t.Fatalf("len = %d, want 7", len(got))
	}
	want := []int{1, 0, 0, 0, 0, 0, 2}
	for i, d := range got {
		if d.Completions != want[i] {
			t.Errorf("day %d (%s) = %d completions, want %d", i, d.Date.Format("2006-01-02"), d.Completions, want[i])
		}
	}
	if got[0].Label != "Fri" || got[6].Label != "Thu" {
		t.Errorf("labels = %s..%s, want Fri..Thu", got[0].Label, got[6].Label)
	}
}

func TestCategories(t *testing.T) {
	in := []models.Completion{
		done(5, models.CategoryWellness),
		done(5, models.CategoryHealth),
		done(6, models.CategoryHealth),
		done(6, models.CategoryHealth),
	}
	got := Categories(in)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Category != models.CategoryHealth || got[0].Count != 3 || got[0].Percent != 75 {
		t.Errorf("first = %+v", got[0])
	}
	if got[1].Category != models.CategoryWellness || got[1].Percent != 25 {
		t.Errorf("second = %+v", got[1])
	}
}

func TestComputeCountsOnlyCompleted(t *testing.T) {
	completions := []models.Completion{
		done(5, models.CategoryHealth),
		{Date: day(4), HabitCategory: models.CategoryHealth, Status: models.StatusFailed},
		{Date: day(4), HabitCategory: models.CategoryHealth, Status: models.StatusSkipped},
	}
	s := Compute([]models.Habit{{Streak: 1}}, completions, day(5))

	if s.ProductiveDay != "Monday" {
		t.Errorf("ProductiveDay = %q, want Monday", s.ProductiveDay)
	}
	if s.WeekdayPercent != 100 {
		t.Errorf("WeekdayPercent = %d, want 100", s.WeekdayPercent)
	}
	if s.AverageStreak != 1 {
		t.Errorf("AverageStreak = %v, want 1", s.AverageStreak)
	}
	if len(s.Categories) != 1 || s.Categories[0].Count != 1 {
		t.Errorf("Categories = %+v", s.Categories)
	}
	if s.LastSevenDays[5].Completions != 0 || s.LastSevenDays[6].Completions != 1 {
		t.Errorf("LastSevenDays = %+v", s.LastSevenDays)
	}
}

func TestComputeEmpty(t *testing.T) {
	s := Compute(nil, nil, day(5))
	if s.ProductiveDay != NoData || s.AverageStreak != 0 || s.WeekdayPercent != 0 {
		t.Errorf("Compute(nil) = %+v", s)
	}
	if len(s.Categories) != 0 {
		t.Errorf("Categories = %+v, want none", s.Categories)
	}
}
