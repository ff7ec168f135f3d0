package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/julianstephens/habitquest/internal/constants"
	"github.com/julianstephens/habitquest/internal/models"
	"github.com/julianstephens/habitquest/internal/storage"
	"github.com/julianstephens/habitquest/internal/xp"
)

// State is everything the engine persists, one snapshot per field.
type State struct {
	Habits              []models.Habit       `json:"habits"`
	Completions         []models.Completion  `json:"completions"`
	Profile             models.PlayerProfile `json:"profile"`
	Quests              []models.Quest       `json:"quests"`
	QuestsLastGenerated *time.Time           `json:"questsLastGenerated"`
}

func emptyState() State {
	return State{
		Habits:      []models.Habit{},
		Completions: []models.Completion{},
		Profile:     xp.NewProfile(),
		Quests:      []models.Quest{},
	}
}

// clone copies everything the engine mutates in place. Pointer fields on
// habits and completions are only ever replaced, never written through.
func (s State) clone() State {
	out := s
	out.Habits = slices.Clone(s.Habits)
	out.Completions = slices.Clone(s.Completions)
	out.Quests = slices.Clone(s.Quests)
	out.Profile.UnlockedBadges = maps.Clone(s.Profile.UnlockedBadges)
	if out.Profile.UnlockedBadges == nil {
		out.Profile.UnlockedBadges = map[string]int{}
	}
	return out
}

func (s State) habitIndex(id string) int {
	return slices.IndexFunc(s.Habits, func(h models.Habit) bool { return h.ID == id })
}

// storedHabit detects records written before order existed.
type storedHabit struct {
	models.Habit
	Order *int `json:"order"`
}

func decodeHabits(data []byte) ([]models.Habit, bool, error) {
	var stored []storedHabit
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, false, err
	}
	habits := make([]models.Habit, len(stored))
	changed := false
	for i, sh := range stored {
		h := sh.Habit
		if sh.Order == nil {
			h.Order = i
			changed = true
		} else {
			h.Order = *sh.Order
		}
		if len(h.ScheduleDays) == 0 {
			h.ScheduleDays = slices.Clone(models.AllDays)
			changed = true
		}
		habits[i] = h
	}
	return habits, changed, nil
}

// normalizeProfile fills fields missing from older or hand-edited profiles.
func normalizeProfile(p *models.PlayerProfile) bool {
	changed := false
	if p.Level < 1 {
		p.Level = 1
		changed = true
	}
	if p.XPToNextLevel <= 0 {
		p.XPToNextLevel = xp.Threshold(p.Level)
		changed = true
	}
	if p.UnlockedBadges == nil {
		p.UnlockedBadges = map[string]int{}
		changed = true
	}
	return changed
}

// readState loads every snapshot from the store. The returned key set lists
// snapshots that were normalized and should be written back.
func readState(store storage.Provider) (State, map[string]bool, error) {
	st := emptyState()
	dirty := map[string]bool{}

	read := func(key string) ([]byte, bool, error) {
		data, err := store.ReadSnapshot(key)
		if errors.Is(err, storage.ErrSnapshotNotFound) {
			return nil, false, nil
		}
		if err != nil {
			return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
		}
		return data, true, nil
	}

	if data, ok, err := read(constants.SnapshotHabits); err != nil {
		return State{}, nil, err
	} else if ok {
		habits, changed, err := decodeHabits(data)
		if err != nil {
			return State{}, nil, fmt.Errorf("failed to decode habits: %w", err)
		}
		st.Habits = habits
		dirty[constants.SnapshotHabits] = changed
	}

	if data, ok, err := read(constants.SnapshotCompletions); err != nil {
		return State{}, nil, err
	} else if ok {
		if err := json.Unmarshal(data, &st.Completions); err != nil {
			return State{}, nil, fmt.Errorf("failed to decode completions: %w", err)
		}
	}

	profileData, ok, err := read(constants.SnapshotProfile)
	if err != nil {
		return State{}, nil, err
	}
	if !ok {
		if profileData, ok, err = read(constants.LegacySnapshotProfile); err != nil {
			return State{}, nil, err
		}
		dirty[constants.SnapshotProfile] = ok
	}
	if ok {
		st.Profile = models.PlayerProfile{}
		if err := json.Unmarshal(profileData, &st.Profile); err != nil {
			return State{}, nil, fmt.Errorf("failed to decode profile: %w", err)
		}
		if normalizeProfile(&st.Profile) {
			dirty[constants.SnapshotProfile] = true
		}
	}

	if data, ok, err := read(constants.SnapshotQuests); err != nil {
		return State{}, nil, err
	} else if ok {
		if err := json.Unmarshal(data, &st.Quests); err != nil {
			return State{}, nil, fmt.Errorf("failed to decode quests: %w", err)
		}
	}

	if data, ok, err := read(constants.SnapshotQuestsLastGenerated); err != nil {
		return State{}, nil, err
	} else if ok {
		if err := json.Unmarshal(data, &st.QuestsLastGenerated); err != nil {
			return State{}, nil, fmt.Errorf("failed to decode quest marker: %w", err)
		}
	}

	if st.Habits == nil {
		st.Habits = []models.Habit{}
	}
	if st.Completions == nil {
		st.Completions = []models.Completion{}
	}
	if st.Quests == nil {
		st.Quests = []models.Quest{}
	}
	for k, v := range dirty {
		if !v {
			delete(dirty, k)
		}
	}
	return st, dirty, nil
}

// encode marshals the snapshots named by keys.
func (s State) encode(keys map[string]bool) (map[string][]byte, error) {
	out := make(map[string][]byte, len(keys))
	for key := range keys {
		var v any
		switch key {
		case constants.SnapshotHabits:
			v = s.Habits
		case constants.SnapshotCompletions:
			v = s.Completions
		case constants.SnapshotProfile:
			v = s.Profile
		case constants.SnapshotQuests:
			v = s.Quests
		case constants.SnapshotQuestsLastGenerated:
			v = s.QuestsLastGenerated
		default:
			return nil, fmt.Errorf("unknown snapshot %q", key)
		}
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", key, err)
		}
		out[key] = data
	}
	return out, nil
}

var allSnapshots = []string{
	constants.SnapshotHabits,
	constants.SnapshotCompletions,
	constants.SnapshotProfile,
	constants.SnapshotQuests,
	constants.SnapshotQuestsLastGenerated,
}
