package models

// Difficulty is a named XP reward preset for new habits
type Difficulty struct {
	Key      string
	Name     string
	XPReward int
}

const (
	MinCustomXPReward = 1
	MaxCustomXPReward = 100
	DefaultDifficulty = "medium"
)

// Difficulties lists the reward presets offered when creating a habit.
var Difficulties = []Difficulty{
	{Key: "easy", Name: "Easy", XPReward: 5},
	{Key: "medium", Name: "Medium", XPReward: 10},
	{Key: "hard", Name: "Hard", XPReward: 20},
}

// LookupDifficulty returns the preset with the given key.
func LookupDifficulty(key string) (Difficulty, bool) {
	for _, d := range Difficulties {
		if d.Key == key {
			return d, true
		}
	}
	return Difficulty{}, false
}

// HabitTemplate is a suggested habit the player can add in one step
type HabitTemplate struct {
	Name         string
	Category     Category
	Type         HabitType
	ScheduleDays []int // nil means every day
}

// PreconfiguredHabits are the everyday presets.
var PreconfiguredHabits = []HabitTemplate{
	{Name: "Run", Category: CategoryHealth, Type: HabitTypeBuild},
	{Name: "Workout", Category: CategoryHealth, Type: HabitTypeBuild},
	{Name: "Daily Walk", Category: CategoryHealth, Type: HabitTypeMaintain},
	{Name: "Stretch / Yoga", Category: CategoryHealth, Type: HabitTypeBuild},
	{Name: "Stay Hydrated", Category: CategoryHealth, Type: HabitTypeMaintain},

	{Name: "Reduce Smoking", Category: CategoryWellness, Type: HabitTypeReduce},
	{Name: "No Alcohol", Category: CategoryWellness, Type: HabitTypeReduce},
	{Name: "Meditate", Category: CategoryWellness, Type: HabitTypeBuild},
	{Name: "Consistent Sleep", Category: CategoryWellness, Type: HabitTypeMaintain},

	{Name: "Focused Work (Pomodoro)", Category: CategoryProductivity, Type: HabitTypeBuild},
	{Name: "Limit Screen Time", Category: CategoryProductivity, Type: HabitTypeReduce},
	{Name: "Read", Category: CategoryProductivity, Type: HabitTypeBuild},
	{Name: "Study / Learn", Category: CategoryProductivity, Type: HabitTypeBuild},

	{Name: "Cook a Meal", Category: CategoryLifestyle, Type: HabitTypeBuild},
	{Name: "Tidy Up", Category: CategoryLifestyle, Type: HabitTypeMaintain},
	{Name: "Social Contact", Category: CategoryLifestyle, Type: HabitTypeBuild},
}

// ScheduledTemplates are presets that come with a weekday schedule.
var ScheduledTemplates = []HabitTemplate{
	{Name: "Weekend Workout", Category: CategoryHealth, Type: HabitTypeBuild, ScheduleDays: []int{0, 6}},
	{Name: "Sunday Cooking Prep", Category: CategoryLifestyle, Type: HabitTypeBuild, ScheduleDays: []int{0}},
	{Name: "No Alcohol Weekdays", Category: CategoryWellness, Type: HabitTypeReduce, ScheduleDays: []int{1, 2, 3, 4, 5}},
	{Name: "Non Smoking Weekdays", Category: CategoryWellness, Type: HabitTypeReduce, ScheduleDays: []int{1, 2, 3, 4, 5}},
	{Name: "Daily Morning Stretch", Category: CategoryHealth, Type: HabitTypeBuild, ScheduleDays: []int{0, 1, 2, 3, 4, 5, 6}},
	{Name: "Tidy Up Before Bed", Category: CategoryLifestyle, Type: HabitTypeMaintain, ScheduleDays: []int{0, 1, 2, 3, 4, 5, 6}},
}
