// Package progress holds the read-only commands: profile, quests, badges
// and insights.
package progress

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitquest/internal/cli"
	"github.com/julianstephens/habitquest/internal/insights"
)

type ProfileCmd struct{}

func (c *ProfileCmd) Run(ctx *cli.Context) error {
	st := ctx.Engine.Snapshot()
	p := st.Profile

	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Level %d", p.Level)))
	fmt.Printf("%s %d / %d XP\n", cli.ProgressBar(p.CurrentXP, p.XPToNextLevel, 30), p.CurrentXP, p.XPToNextLevel)
	fmt.Printf("Total XP:          %d\n", p.TotalXP)
	fmt.Printf("Quests completed:  %d\n", p.TotalQuestsCompleted)
	fmt.Printf("Badges unlocked:   %d\n", len(p.UnlockedBadges))
	if p.Settings.DailyHabitLimit != nil {
		fmt.Printf("Daily habit limit: %d\n", *p.Settings.DailyHabitLimit)
	}
	return nil
}

type QuestsCmd struct{}

func (c *QuestsCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.Engine.EnsureDailyQuests(); err != nil {
		return err
	}
	qs := ctx.Engine.Snapshot().Quests
	if len(qs) == 0 {
		fmt.Println("No quests today. Add a habit to get daily quests.")
		return nil
	}

	fmt.Println(cli.TitleStyle.Render("Daily quests"))
	for _, q := range qs {
		mark := "○"
		if q.IsCompleted {
			mark = cli.SuccessStyle.Render("✓")
		}
		fmt.Printf("%s %s %s\n", mark, q.Title, cli.XPStyle.Render(fmt.Sprintf("+%d XP", q.XPReward)))
		fmt.Printf("  %s %d/%d  %s\n", cli.ProgressBar(q.Progress, q.Objective.Target, 20), q.Progress, q.Objective.Target, cli.MutedStyle.Render(q.Description))
	}
	return nil
}

type BadgesCmd struct {
	All bool `help:"Include badges with no progress yet."`
}

func (c *BadgesCmd) Run(ctx *cli.Context) error {
	fmt.Println(cli.TitleStyle.Render("Badges"))
	for _, b := range ctx.Engine.Badges() {
		if !c.All && b.Tier == 0 && b.Progress == 0 {
			continue
		}
		tiers := make([]string, 0, len(b.Badge.Tiers))
		for _, t := range b.Badge.Tiers {
			if t.Tier <= b.Tier {
				tiers = append(tiers, cli.SuccessStyle.Render("★"))
			} else {
				tiers = append(tiers, cli.MutedStyle.Render("☆"))
			}
		}
		line := fmt.Sprintf("%s %s", strings.Join(tiers, ""), b.Badge.Name)
		if b.Next != nil {
			line += cli.MutedStyle.Render(fmt.Sprintf("  %d/%d: %s", b.Progress, b.Next.Target, b.Next.Description))
		}
		fmt.Println(line)
	}
	return nil
}

type InsightsCmd struct{}

func (c *InsightsCmd) Run(ctx *cli.Context) error {
	st := ctx.Engine.Snapshot()
	s := insights.Compute(st.Habits, st.Completions, ctx.Engine.Now())

	fmt.Println(cli.TitleStyle.Render("Insights"))
	fmt.Printf("Most productive day: %s\n", s.ProductiveDay)
	fmt.Printf("Average streak:      %.1f days\n", s.AverageStreak)
	fmt.Printf("Weekday share:       %d%%\n", s.WeekdayPercent)

	fmt.Println()
	fmt.Println(cli.TitleStyle.Render("Last 7 days"))
	peak := 0
	for _, d := range s.LastSevenDays {
		peak = max(peak, d.Completions)
	}
	for _, d := range s.LastSevenDays {
		fmt.Printf("  %s %s %d\n", d.Label, cli.ProgressBar(d.Completions, peak, 20), d.Completions)
	}

	if len(s.Categories) > 0 {
		fmt.Println()
		fmt.Println(cli.TitleStyle.Render("Categories"))
		for _, cat := range s.Categories {
			fmt.Printf("  %-13s %3d  %5.1f%%\n", cat.Category, cat.Count, cat.Percent)
		}
	}
	return nil
}
