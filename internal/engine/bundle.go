package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/julianstephens/habitquest/internal/constants"
	"github.com/julianstephens/habitquest/internal/logger"
	"github.com/julianstephens/habitquest/internal/models"
)

// BundleVersion is the export format version written by Export.
const BundleVersion = 1

// Bundle is the portable export of the whole game state.
type Bundle struct {
	Version    int       `json:"version"`
	ExportedAt time.Time `json:"exportedAt"`
	Data       State     `json:"data"`
}

// Export returns the current state wrapped in a bundle.
func (e *Engine) Export() Bundle {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.view()
	return Bundle{
		Version:    BundleVersion,
		ExportedAt: e.clock.Now(),
		Data:       e.state.clone(),
	}
}

type rawBundle struct {
	Version int                        `json:"version"`
	Data    map[string]json.RawMessage `json:"data"`
}

func present(raw map[string]json.RawMessage, key string) bool {
	v, ok := raw[key]
	return ok && !bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

// ValidateBundle checks that data is an importable bundle without touching
// any state.
func ValidateBundle(data []byte) error {
	_, err := parseBundle(data)
	return err
}

func parseBundle(data []byte) (State, error) {
	var raw rawBundle
	if err := json.Unmarshal(data, &raw); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrInvalidBundle, err)
	}
	if raw.Version > BundleVersion {
		return State{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, raw.Version)
	}
	if !present(raw.Data, constants.SnapshotHabits) || !present(raw.Data, constants.SnapshotProfile) {
		return State{}, fmt.Errorf("%w: missing habits or profile", ErrInvalidBundle)
	}
	st, err := decodeBundle(raw.Data)
	if err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrInvalidBundle, err)
	}
	return st, nil
}

// Import validates an exported bundle and replaces all state with it in a
// single batch write. A bundle without habits or a profile is rejected
// before anything is written.
func (e *Engine) Import(data []byte) error {
	st, err := parseBundle(data)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	t := &txn{state: st, now: e.clock.Now(), dirty: map[string]bool{}, syncRems: true}
	t.touch(allSnapshots...)
	if err := e.commit(t); err != nil {
		return err
	}
	e.pending = nil
	logger.Info("Imported bundle", "habits", len(st.Habits), "completions", len(st.Completions))
	return nil
}

func decodeBundle(raw map[string]json.RawMessage) (State, error) {
	st := emptyState()

	habits, _, err := decodeHabits(raw[constants.SnapshotHabits])
	if err != nil {
		return State{}, fmt.Errorf("habits: %w", err)
	}
	st.Habits = habits

	st.Profile = models.PlayerProfile{}
	if err := json.Unmarshal(raw[constants.SnapshotProfile], &st.Profile); err != nil {
		return State{}, fmt.Errorf("profile: %w", err)
	}
	normalizeProfile(&st.Profile)

	if v, ok := raw[constants.SnapshotCompletions]; ok {
		if err := json.Unmarshal(v, &st.Completions); err != nil {
			return State{}, fmt.Errorf("completions: %w", err)
		}
	}
	if v, ok := raw[constants.SnapshotQuests]; ok {
		if err := json.Unmarshal(v, &st.Quests); err != nil {
			return State{}, fmt.Errorf("quests: %w", err)
		}
	}
	if v, ok := raw[constants.SnapshotQuestsLastGenerated]; ok {
		if err := json.Unmarshal(v, &st.QuestsLastGenerated); err != nil {
			return State{}, fmt.Errorf("questsLastGenerated: %w", err)
		}
	}

	if st.Completions == nil {
		st.Completions = []models.Completion{}
	}
	if st.Quests == nil {
		st.Quests = []models.Quest{}
	}
	return st, nil
}
