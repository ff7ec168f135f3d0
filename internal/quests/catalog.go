package quests

import "github.com/julianstephens/habitquest/internal/models"

// Context restricts the days a template is offered on
type Context string

const (
	ContextAny     Context = "any"
	ContextWeekday Context = "weekday"
	ContextWeekend Context = "weekend"
)

// Template is a catalog entry quests are instantiated from
type Template struct {
	Type        models.QuestType
	Title       string
	Description string
	Objective   models.QuestObjective
	XPReward    int
	Context     Context
}

func count(title, desc string, obj models.QuestObjective, reward int, ctx Context) Template {
	return Template{Type: models.QuestTypeCount, Title: title, Description: desc, Objective: obj, XPReward: reward, Context: ctx}
}

func streak(title, desc string, obj models.QuestObjective, reward int) Template {
	return Template{Type: models.QuestTypeStreak, Title: title, Description: desc, Objective: obj, XPReward: reward, Context: ContextAny}
}

// Catalog is the built-in quest pool.
var Catalog = []Template{
	// Generic count quests
	count("First Step of the Day", "Momentum is key. Complete any 1 habit.",
		models.QuestObjective{Target: 1}, 20, ContextAny),
	count("Double Down", "Two is better than one. Complete any 2 habits.",
		models.QuestObjective{Target: 2}, 40, ContextAny),
	count("Trifecta", "A trio of success! Complete any 3 habits.",
		models.QuestObjective{Target: 3}, 60, ContextAny),
	count("Power Through", "Show your dedication. Complete 5 habits today.",
		models.QuestObjective{Target: 5}, 100, ContextAny),
	count("Habit Spree", "An incredible display of commitment. Complete 7 habits today.",
		models.QuestObjective{Target: 7}, 150, ContextAny),

	// Category count quests
	count("Healthy Start", "Focus on your physical health. Complete 1 Health habit.",
		models.QuestObjective{Target: 1, Category: models.CategoryHealth}, 30, ContextAny),
	count("Healthy Habits", "A healthy routine in action. Complete 2 Health habits.",
		models.QuestObjective{Target: 2, Category: models.CategoryHealth}, 50, ContextAny),
	count("Mindful Moment", "Take care of your mental state. Complete 1 Wellness habit.",
		models.QuestObjective{Target: 1, Category: models.CategoryWellness}, 30, ContextAny),
	count("Self-Care Session", "Invest in your well-being. Complete 2 Wellness habits.",
		models.QuestObjective{Target: 2, Category: models.CategoryWellness}, 50, ContextAny),
	count("Productivity Boost", "Get the ball rolling. Complete 1 Productivity habit.",
		models.QuestObjective{Target: 1, Category: models.CategoryProductivity}, 35, ContextWeekday),
	count("Workday Hustle", "Boost your professional life. Complete 2 Productivity habits.",
		models.QuestObjective{Target: 2, Category: models.CategoryProductivity}, 55, ContextWeekday),
	count("Focused Day", "A truly productive day. Complete 3 Productivity habits.",
		models.QuestObjective{Target: 3, Category: models.CategoryProductivity}, 75, ContextWeekday),
	count("Tidy Life", "A place for everything... Complete 1 Lifestyle habit.",
		models.QuestObjective{Target: 1, Category: models.CategoryLifestyle}, 30, ContextAny),
	count("Home Improvement", "Tidy space, tidy mind. Complete 2 Lifestyle habits.",
		models.QuestObjective{Target: 2, Category: models.CategoryLifestyle}, 50, ContextAny),
	count("Weekend Warrior", "Time for action! Complete 2 Health habits this weekend.",
		models.QuestObjective{Target: 2, Category: models.CategoryHealth}, 50, ContextWeekend),
	count("Weekend Project", "Make the most of your downtime. Complete 2 Lifestyle habits.",
		models.QuestObjective{Target: 2, Category: models.CategoryLifestyle}, 50, ContextWeekend),

	// Habit type quests
	count("The Builder", `Create something positive. Complete 2 "Build" type habits.`,
		models.QuestObjective{Target: 2, HabitType: models.HabitTypeBuild}, 50, ContextAny),
	count("The Maintainer", `Consistency is everything. Complete 2 "Maintain" type habits.`,
		models.QuestObjective{Target: 2, HabitType: models.HabitTypeMaintain}, 50, ContextAny),
	count("The Reducer", `Discipline and control. Complete 1 "Reduce" type habit.`,
		models.QuestObjective{Target: 1, HabitType: models.HabitTypeReduce}, 60, ContextAny),

	// Streak quests
	streak("Getting Warmed Up", "Keep it going! Achieve a 3-day streak on any habit.",
		models.QuestObjective{Target: 3}, 75),
	streak("Health Streak", "Consistency is the key to health. Achieve a 3-day streak on a Health habit.",
		models.QuestObjective{Target: 3, Category: models.CategoryHealth}, 90),
	streak("Productivity Machine", "Build a productive routine. Achieve a 3-day streak on a Productivity habit.",
		models.QuestObjective{Target: 3, Category: models.CategoryProductivity}, 90),
	streak("Wellness Week", "A full week of self-care. Achieve a 7-day streak on a Wellness habit.",
		models.QuestObjective{Target: 7, Category: models.CategoryWellness}, 180),
	streak("Lifestyle Consistency", "Making it a part of your life. Reach a 5-day streak on a Lifestyle habit.",
		models.QuestObjective{Target: 5, Category: models.CategoryLifestyle}, 120),
	streak("The Fire Within", "You are unstoppable! Reach a 5-day streak on any habit.",
		models.QuestObjective{Target: 5}, 150),
	streak("Chain of Success", "Nothing can stop you now. Reach a 7-day streak on any habit.",
		models.QuestObjective{Target: 7}, 200),
	streak("Unbreakable", "A truly impressive run. Reach a 10-day streak on any habit.",
		models.QuestObjective{Target: 10}, 250),
}
