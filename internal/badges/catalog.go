package badges

import "github.com/julianstephens/habitquest/internal/models"

// Catalog is the built-in achievement list.
var Catalog = []Badge{
	{
		ID:     "first-step",
		Name:   "First Step",
		Metric: Metric{Kind: MetricHabitCount},
		Tiers: []Tier{
			{Tier: 1, Name: "First Step", Description: "Create your first habit! The journey begins.", Target: 1, XPReward: 25},
		},
	},
	{
		ID:     "habit-collector",
		Name:   "Habit Collector",
		Metric: Metric{Kind: MetricHabitCount},
		Tiers: []Tier{
			{Tier: 1, Name: "Collector (Bronze)", Description: "Create 5 different habits.", Target: 5, XPReward: 50},
			{Tier: 2, Name: "Collector (Silver)", Description: "Create 10 different habits.", Target: 10, XPReward: 100},
			{Tier: 3, Name: "Collector (Gold)", Description: "Create 20 different habits.", Target: 20, XPReward: 200},
		},
	},
	{
		ID:     "player-level",
		Name:   "Player Level",
		Metric: Metric{Kind: MetricLevel},
		Tiers: []Tier{
			{Tier: 1, Name: "Novice Adventurer", Description: "Congratulations on reaching Level 5!", Target: 5, XPReward: 50},
			{Tier: 2, Name: "Seasoned Explorer", Description: "You have reached Level 10. Impressive!", Target: 10, XPReward: 100},
			{Tier: 3, Name: "Elite Champion", Description: "You have reached Level 20. A true legend!", Target: 20, XPReward: 250},
		},
	},
	{
		ID:     "streak-master",
		Name:   "Streak Master",
		Metric: Metric{Kind: MetricMaxStreak},
		Tiers: []Tier{
			{Tier: 1, Name: "On Fire (Bronze)", Description: "Achieve a 3-day streak.", Target: 3, XPReward: 50},
			{Tier: 2, Name: "On Fire (Silver)", Description: "Achieve a 7-day streak.", Target: 7, XPReward: 100},
			{Tier: 3, Name: "On Fire (Gold)", Description: "Achieve a 30-day streak.", Target: 30, XPReward: 300},
			{Tier: 4, Name: "On Fire (Platinum)", Description: "Achieve a 100-day streak.", Target: 100, XPReward: 1000},
		},
	},
	{
		ID:     "xp-collector",
		Name:   "XP Collector",
		Metric: Metric{Kind: MetricTotalXP},
		Tiers: []Tier{
			{Tier: 1, Name: "Apprentice (Bronze)", Description: "Earn 1,000 total XP.", Target: 1000, XPReward: 50},
			{Tier: 2, Name: "Journeyman (Silver)", Description: "Earn 5,000 total XP.", Target: 5000, XPReward: 150},
			{Tier: 3, Name: "Master (Gold)", Description: "Earn 20,000 total XP.", Target: 20000, XPReward: 500},
		},
	},
	{
		ID:     "dedicated-player",
		Name:   "Dedicated Player",
		Metric: Metric{Kind: MetricUniqueDays},
		Tiers: []Tier{
			{Tier: 1, Name: "Consistent (Bronze)", Description: "Log activity on 7 unique days.", Target: 7, XPReward: 75},
			{Tier: 2, Name: "Devoted (Silver)", Description: "Log activity on 30 unique days.", Target: 30, XPReward: 200},
			{Tier: 3, Name: "Veteran (Gold)", Description: "Log activity on 100 unique days.", Target: 100, XPReward: 600},
		},
	},
	{
		ID:     "quest-master",
		Name:   "Quest Master",
		Metric: Metric{Kind: MetricQuestsCompleted},
		Tiers: []Tier{
			{Tier: 1, Name: "Quest Novice", Description: "Complete 10 daily quests.", Target: 10, XPReward: 50},
			{Tier: 2, Name: "Quest Conqueror", Description: "Complete 50 daily quests.", Target: 50, XPReward: 150},
			{Tier: 3, Name: "Quest Legend", Description: "Complete 150 daily quests.", Target: 150, XPReward: 400},
		},
	},
	categoryBadge("health-master", "Health Master", models.CategoryHealth, "Health Novice", "Health Enthusiast", "Health Guru"),
	categoryBadge("wellness-master", "Wellness Master", models.CategoryWellness, "Wellness Novice", "Wellness Enthusiast", "Wellness Guru"),
	categoryBadge("productivity-pro", "Productivity Pro", models.CategoryProductivity, "Productivity Novice", "Productivity Pro", "Productivity Sensei"),
	categoryBadge("lifestyle-master", "Lifestyle Master", models.CategoryLifestyle, "Lifestyle Novice", "Lifestyle Enthusiast", "Lifestyle Guru"),
	{
		ID:     "generalist",
		Name:   "Generalist",
		Metric: Metric{Kind: MetricActiveCategories},
		Tiers: []Tier{
			{Tier: 1, Name: "Generalist", Description: "Have at least one active habit in all 4 categories.", Target: 4, XPReward: 150},
		},
	},
	{
		ID:     "early-bird",
		Name:   "Early Bird",
		Metric: Metric{Kind: MetricEarlyCompletions},
		Tiers: []Tier{
			{Tier: 1, Name: "Early Bird", Description: "Complete 25 habits before 10 AM.", Target: 25, XPReward: 100},
		},
	},
	{
		ID:     "night-owl",
		Name:   "Night Owl",
		Metric: Metric{Kind: MetricLateCompletions},
		Tiers: []Tier{
			{Tier: 1, Name: "Night Owl", Description: "Complete 25 habits after 8 PM.", Target: 25, XPReward: 100},
		},
	},
	{
		ID:     "comeback-king",
		Name:   "Comeback King",
		Metric: Metric{Kind: MetricComeback},
		Tiers: []Tier{
			{Tier: 1, Name: "Comeback King", Description: "Resume a habit after a 3+ day break.", Target: 1, XPReward: 120},
		},
	},
	{
		ID:     "resilience",
		Name:   "Resilience",
		Metric: Metric{Kind: MetricRecovery},
		Tiers: []Tier{
			{Tier: 1, Name: "Resilient (Bronze)", Description: "Recover a streak the day after missing a habit 1 time.", Target: 1, XPReward: 75},
			{Tier: 2, Name: "Resilient (Silver)", Description: "Recover a streak the day after missing a habit 5 times.", Target: 5, XPReward: 150},
			{Tier: 3, Name: "Resilient (Gold)", Description: "Recover a streak the day after missing a habit 15 times.", Target: 15, XPReward: 300},
		},
	},
	{
		ID:     "perfectionist",
		Name:   "Perfectionist",
		Metric: Metric{Kind: MetricNoFailureDays},
		Tiers: []Tier{
			{Tier: 1, Name: "Perfectionist", Description: "Go a full 7 days without missing any scheduled habits.", Target: 7, XPReward: 200},
		},
	},
}

func categoryBadge(id, name string, cat models.Category, bronze, silver, gold string) Badge {
	return Badge{
		ID:     id,
		Name:   name,
		Metric: Metric{Kind: MetricCategoryCompletions, Category: cat},
		Tiers: []Tier{
			{Tier: 1, Name: bronze, Description: "Complete 10 " + string(cat) + " habits.", Target: 10, XPReward: 50},
			{Tier: 2, Name: silver, Description: "Complete 50 " + string(cat) + " habits.", Target: 50, XPReward: 150},
			{Tier: 3, Name: gold, Description: "Complete 200 " + string(cat) + " habits.", Target: 200, XPReward: 400},
		},
	}
}

// Lookup returns the catalog badge with the given id.
func Lookup(id string) (Badge, bool) {
	for _, b := range Catalog {
		if b.ID == id {
			return b, true
		}
	}
	return Badge{}, false
}
