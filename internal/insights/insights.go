// Package insights summarizes completion history for the progress views.
package insights

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/julianstephens/habitquest/internal/models"
	"github.com/julianstephens/habitquest/internal/utils"
)

// NoData is reported as the productive day when nothing has been completed.
const NoData = "N/A"

// DayActivity is the number of completions on one calendar day
type DayActivity struct {
	Date        time.Time `json:"date"`
	Label       string    `json:"label"`
	Completions int       `json:"completions"`
}

// CategoryShare is one category's slice of all completions
type CategoryShare struct {
	Category models.Category `json:"category"`
	Count    int             `json:"count"`
	Percent  float64         `json:"percent"`
}

// Summary is the full insights report
type Summary struct {
	ProductiveDay  string          `json:"productiveDay"`
	AverageStreak  float64         `json:"averageStreak"`
	WeekdayPercent int             `json:"weekdayPercent"`
	LastSevenDays  []DayActivity   `json:"lastSevenDays"`
	Categories     []CategoryShare `json:"categories"`
}

// Compute builds the report for now's calendar day. Only completed records
// count toward activity.
func Compute(habits []models.Habit, completions []models.Completion, now time.Time) Summary {
	done := completedIn(completions, now.Location())
	return Summary{
		ProductiveDay:  ProductiveDay(done),
		AverageStreak:  AverageStreak(habits),
		WeekdayPercent: WeekdayPercent(done),
		LastSevenDays:  LastSevenDays(done, now),
		Categories:     Categories(done),
	}
}

func completedIn(completions []models.Completion, loc *time.Location) []models.Completion {
	var out []models.Completion
	for _, c := range completions {
		if c.Status == models.StatusCompleted {
			c.Date = c.Date.In(loc)
			out = append(out, c)
		}
	}
	return out
}

// ProductiveDay names the weekday with the most completions. Ties go to the
// earliest day counting from Sunday.
func ProductiveDay(completions []models.Completion) string {
	if len(completions) == 0 {
		return NoData
	}
	var counts [7]int
	for _, c := range completions {
		counts[c.Date.Weekday()]++
	}
	best := 0
	for d := 1; d < len(counts); d++ {
		if counts[d] > counts[best] {
			best = d
		}
	}
	return time.Weekday(best).String()
}

// AverageStreak is the mean streak of habits with a running streak, rounded
// to one decimal place.
func AverageStreak(habits []models.Habit) float64 {
	sum, n := 0, 0
	for _, h := range habits {
		if h.Streak > 0 {
			sum += h.Streak
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return math.Round(float64(sum)/float64(n)*10) / 10
}

// WeekdayPercent is the rounded share of completions logged Monday to Friday.
func WeekdayPercent(completions []models.Completion) int {
	if len(completions) == 0 {
		return 0
	}
	weekday := 0
	for _, c := range completions {
		if !utils.IsWeekend(c.Date) {
			weekday++
		}
	}
	return int(math.Round(float64(weekday) / float64(len(completions)) * 100))
}

// LastSevenDays counts completions for each of the six days before now and
// now's own day, oldest first.
func LastSevenDays(completions []models.Completion, now time.Time) []DayActivity {
	today := utils.StartOfDay(now)
	out := make([]DayActivity, 7)
	for i := range out {
		day := today.AddDate(0, 0, i-6)
		n := 0
		for _, c := range completions {
			if utils.SameDay(day, c.Date) {
				n++
			}
		}
		out[i] = DayActivity{Date: day, Label: day.Format("Mon"), Completions: n}
	}
	return out
}

// Categories breaks completions down by the category recorded with them,
// largest first. Categories without completions are left out.
func Categories(completions []models.Completion) []CategoryShare {
	counts := map[models.Category]int{}
	for _, c := range completions {
		counts[c.HabitCategory]++
	}
	var out []CategoryShare
	for _, cat := range models.Categories {
		if n := counts[cat]; n > 0 {
			out = append(out, CategoryShare{
				Category: cat,
				Count:    n,
				Percent:  math.Round(float64(n)/float64(len(completions))*1000) / 10,
			})
		}
	}
	slices.SortStableFunc(out, func(a, b CategoryShare) int { return cmp.Compare(b.Count, a.Count) })
	return out
}
