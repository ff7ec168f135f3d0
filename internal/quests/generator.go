// Package quests selects the daily quest set from the template catalog.
package quests

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitquest/internal/constants"
	"github.com/julianstephens/habitquest/internal/models"
	"github.com/julianstephens/habitquest/internal/utils"
)

// Generator draws daily quests from a catalog using its own random source
type Generator struct {
	catalog []Template
	rng     *rand.Rand
	newID   func() string
}

// NewGenerator creates a generator over the built-in catalog.
// A nil rng is replaced with one seeded from the current time.
func NewGenerator(rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{
		catalog: Catalog,
		rng:     rng,
		newID:   uuid.NewString,
	}
}

// WithCatalog returns a generator that draws from a custom catalog.
func (g *Generator) WithCatalog(catalog []Template) *Generator {
	return &Generator{catalog: catalog, rng: g.rng, newID: g.newID}
}

// Eligible returns the templates achievable on day with the given habits.
func Eligible(catalog []Template, habits []models.Habit, day time.Time) []Template {
	weekend := utils.IsWeekend(day)

	var active []models.Habit
	for _, h := range habits {
		if !h.IsArchived {
			active = append(active, h)
		}
	}

	var out []Template
	for _, tpl := range catalog {
		if tpl.Context == ContextWeekday && weekend {
			continue
		}
		if tpl.Context == ContextWeekend && !weekend {
			continue
		}

		matching := 0
		for _, h := range active {
			if tpl.Objective.Matches(h) {
				matching++
			}
		}

		switch tpl.Type {
		case models.QuestTypeCount:
			if matching < tpl.Objective.Target {
				continue
			}
		case models.QuestTypeStreak:
			if matching == 0 {
				continue
			}
		}
		out = append(out, tpl)
	}
	return out
}

// Generate picks up to count quests for day. count <= 0 uses the default.
func (g *Generator) Generate(count int, habits []models.Habit, day time.Time) []models.Quest {
	if count <= 0 {
		count = constants.DefaultDailyQuestCount
	}

	pool := Eligible(g.catalog, habits, day)
	g.rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	if len(pool) > count {
		pool = pool[:count]
	}

	out := make([]models.Quest, 0, len(pool))
	for _, tpl := range pool {
		out = append(out, models.Quest{
			ID:          g.newID(),
			Type:        tpl.Type,
			Title:       tpl.Title,
			Description: tpl.Description,
			Objective:   tpl.Objective,
			XPReward:    tpl.XPReward,
		})
	}
	return out
}
