package models

import (
	"errors"
	"math"
	"testing"
)

func TestPreferencesValidate(t *testing.T) {
	tests := []struct {
		name    string
		prefs   Preferences
		wantErr bool
	}{
		{"baseline", Preferences{Difficulty: 1.0}, false},
		{"with equipment", Preferences{Difficulty: 1.2, Equipment: map[string]bool{"gantere": true}}, false},
		{"utc timezone", Preferences{Difficulty: 1, Timezone: "UTC"}, false},
		{"local timezone", Preferences{Difficulty: 1, Timezone: "Local"}, false},
		{"zero difficulty", Preferences{Difficulty: 0}, true},
		{"negative difficulty", Preferences{Difficulty: -0.5}, true},
		{"nan difficulty", Preferences{Difficulty: math.NaN()}, true},
		{"infinite difficulty", Preferences{Difficulty: math.Inf(1)}, true},
		{"blank equipment tag", Preferences{Difficulty: 1, Equipment: map[string]bool{" ": true}}, true},
		{"unknown timezone", Preferences{Difficulty: 1, Timezone: "Mars/Olympus"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.prefs.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidPreferences) {
				t.Errorf("Validate() error = %v, want ErrInvalidPreferences", err)
			}
		})
	}
}

func TestAvailableEquipment(t *testing.T) {
	prefs := Preferences{Equipment: map[string]bool{"bara": true, "gantere": true, "banca": false}}
	got := prefs.AvailableEquipment()
	if len(got) != 2 || got[0] != "bara" || got[1] != "gantere" {
		t.Errorf("AvailableEquipment() = %v, want [bara gantere]", got)
	}
}

func TestUserValidate(t *testing.T) {
	if err := (User{Name: "", Preferences: Preferences{Difficulty: 1}}).Validate(); err == nil {
		t.Error("Validate() expected error for empty name")
	}
	if err := (User{Name: "ana", Preferences: Preferences{Difficulty: 1}}).Validate(); err != nil {
		t.Errorf("Validate() unexpected error: %v", err)
	}
}

func TestCurrentPlanIndex(t *testing.T) {
	user := User{Plans: []Plan{
		{StartDate: "2024-01-01", EndDate: "2024-01-30"},
		{StartDate: "2024-01-31", EndDate: "2024-02-29"},
	}}

	tests := []struct {
		today string
		want  int
	}{
		{"2024-01-15", 1}, // most recent non-expired wins
		{"2024-02-29", 1}, // end date is inclusive
		{"2024-03-01", -1},
	}

	for _, tt := range tests {
		if got := user.CurrentPlanIndex(tt.today); got != tt.want {
			t.Errorf("CurrentPlanIndex(%s) = %d, want %d", tt.today, got, tt.want)
		}
	}

	if got := (User{}).CurrentPlanIndex("2024-01-01"); got != -1 {
		t.Errorf("CurrentPlanIndex() on empty history = %d, want -1", got)
	}
}

func TestPlanDayIndexFor(t *testing.T) {
	plan := Plan{StartDate: "2024-01-01", EndDate: "2024-01-30", Days: make([]Day, 30)}

	idx, err := plan.DayIndexFor("2024-01-30")
	if err != nil {
		t.Fatalf("DayIndexFor() error = %v", err)
	}
	if idx != 29 {
		t.Errorf("DayIndexFor() = %d, want 29", idx)
	}

	if _, err := plan.DayIndexFor("2023-12-31"); err == nil {
		t.Error("DayIndexFor() expected error before start date")
	}
	if _, err := plan.DayIndexFor("2024-01-31"); err == nil {
		t.Error("DayIndexFor() expected error after end date")
	}
}

func TestUserClone(t *testing.T) {
	orig := User{
		Name:        "ana",
		Preferences: Preferences{Difficulty: 1, Equipment: map[string]bool{"gantere": true}},
		Plans: []Plan{{Days: []Day{{Exercises: []Exercise{
			{Name: "Flotări", Target: 10, RequiredEquipment: []string{"banca"}},
		}}}}},
	}

	clone := orig.Clone()
	clone.Preferences.Equipment["gantere"] = false
	clone.Plans[0].Days[0].Exercises[0].Completed = 5
	clone.Plans[0].Days[0].Exercises[0].RequiredEquipment[0] = "bara"
	clone.Plans[0].Days[0].Feedback = "greu"

	if !orig.Preferences.Equipment["gantere"] {
		t.Error("Clone() shares the equipment map")
	}
	ex := orig.Plans[0].Days[0].Exercises[0]
	if ex.Completed != 0 || ex.RequiredEquipment[0] != "banca" {
		t.Errorf("Clone() shares exercise memory: %+v", ex)
	}
	if orig.Plans[0].Days[0].Feedback != "" {
		t.Error("Clone() shares day memory")
	}
}

func TestUserValidate_WrapsPreferenceErrors(t *testing.T) {
	err := (User{Name: "ana", Preferences: Preferences{Difficulty: 0}}).Validate()
	if !errors.Is(err, ErrInvalidPreferences) {
		t.Errorf("Validate() error = %v, want ErrInvalidPreferences", err)
	}
}
