package models

import (
	"testing"
	"time"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input   string
		want    Category
		wantErr bool
	}{
		{"Health", CategoryHealth, false},
		{"wellness", CategoryWellness, false},
		{"PRODUCTIVITY", CategoryProductivity, false},
		{"lifestyle", CategoryLifestyle, false},
		{"sports", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCategory(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCategory(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseCategory(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseHabitType(t *testing.T) {
	if got, err := ParseHabitType("Reduce"); err != nil || got != HabitTypeReduce {
		t.Errorf("ParseHabitType(Reduce) = %q, %v", got, err)
	}
	if _, err := ParseHabitType("quit"); err == nil {
		t.Error("expected error for unknown habit type")
	}
}

func TestHabitScheduledOn(t *testing.T) {
	h := Habit{ScheduleDays: []int{1, 3, 5}}
	if !h.ScheduledOn(time.Monday) {
		t.Error("expected Monday to be scheduled")
	}
	if h.ScheduledOn(time.Tuesday) {
		t.Error("expected Tuesday to be unscheduled")
	}
}

func TestQuestObjectiveMatches(t *testing.T) {
	habit := Habit{Category: CategoryHealth, Type: HabitTypeBuild}

	tests := []struct {
		name string
		obj  QuestObjective
		want bool
	}{
		{"no filter", QuestObjective{Target: 1}, true},
		{"category match", QuestObjective{Target: 1, Category: CategoryHealth}, true},
		{"category mismatch", QuestObjective{Target: 1, Category: CategoryWellness}, false},
		{"type match", QuestObjective{Target: 1, HabitType: HabitTypeBuild}, true},
		{"type mismatch", QuestObjective{Target: 1, HabitType: HabitTypeReduce}, false},
		{"both match", QuestObjective{Target: 1, Category: CategoryHealth, HabitType: HabitTypeBuild}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.obj.Matches(habit); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLookupDifficulty(t *testing.T) {
	d, ok := LookupDifficulty("hard")
	if !ok || d.XPReward != 20 {
		t.Errorf("LookupDifficulty(hard) = %+v, %v", d, ok)
	}
	if _, ok := LookupDifficulty("legendary"); ok {
		t.Error("expected unknown difficulty to be missing")
	}
}
