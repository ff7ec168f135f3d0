package engine

import "github.com/julianstephens/habitquest/internal/badges"

// BadgeStatus is a catalog badge with the player's progress toward it.
type BadgeStatus struct {
	Badge    badges.Badge `json:"badge"`
	Tier     int          `json:"tier"`
	Progress int          `json:"progress"`
	Next     *badges.Tier `json:"next,omitempty"`
}

// Badges reports progress on every catalog badge.
func (e *Engine) Badges() []BadgeStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.view()

	in := badges.Input{
		Profile:     e.state.Profile,
		Habits:      e.state.Habits,
		Completions: e.state.Completions,
		Now:         e.clock.Now(),
	}
	out := make([]BadgeStatus, 0, len(e.catalog))
	for _, b := range e.catalog {
		st := BadgeStatus{Badge: b, Tier: in.Profile.BadgeTier(b.ID), Progress: badges.Measure(b.Metric, in)}
		for _, t := range b.Tiers {
			if t.Tier > st.Tier {
				st.Next = &t
				break
			}
		}
		out = append(out, st)
	}
	return out
}
