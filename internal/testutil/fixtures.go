package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/cyclefit/internal/catalog"
	"github.com/julianstephens/cyclefit/internal/generator"
	"github.com/julianstephens/cyclefit/internal/models"
)

// NewUser returns a user with full equipment and one generated plan starting at startDate.
func NewUser(t *testing.T, name, startDate string) models.User {
	t.Helper()

	prefs := models.Preferences{Difficulty: 1, Equipment: catalog.FullEquipment(), Timezone: "UTC"}
	plan, err := generator.Generate(startDate, prefs.Difficulty, prefs)
	if err != nil {
		t.Fatalf("generating plan: %v", err)
	}

	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	return models.User{
		ID:          uuid.New().String(),
		Name:        name,
		Preferences: prefs,
		Plans:       []models.Plan{plan},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// AssertUsersEqual compares two users field by field, treating timestamps by instant.
func AssertUsersEqual(t *testing.T, got, want models.User) {
	t.Helper()

	if got.ID != want.ID || got.Name != want.Name {
		t.Fatalf("user identity = %s/%s, want %s/%s", got.ID, got.Name, want.ID, want.Name)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) || !got.UpdatedAt.Equal(want.UpdatedAt) {
		t.Errorf("timestamps = %v/%v, want %v/%v", got.CreatedAt, got.UpdatedAt, want.CreatedAt, want.UpdatedAt)
	}
	if got.Preferences.Difficulty != want.Preferences.Difficulty || got.Preferences.Timezone != want.Preferences.Timezone {
		t.Errorf("preferences = %+v, want %+v", got.Preferences, want.Preferences)
	}
	if len(got.Preferences.AvailableEquipment()) != len(want.Preferences.AvailableEquipment()) {
		t.Errorf("equipment = %v, want %v", got.Preferences.Equipment, want.Preferences.Equipment)
	}
	if len(got.Plans) != len(want.Plans) {
		t.Fatalf("len(Plans) = %d, want %d", len(got.Plans), len(want.Plans))
	}
	for i := range want.Plans {
		AssertPlansEqual(t, got.Plans[i], want.Plans[i])
	}
}

// AssertPlansEqual compares plans including every day and exercise.
func AssertPlansEqual(t *testing.T, got, want models.Plan) {
	t.Helper()

	if got.ID != want.ID || got.StartDate != want.StartDate || got.EndDate != want.EndDate || got.Difficulty != want.Difficulty {
		t.Errorf("plan header = %s %s..%s x%v, want %s %s..%s x%v",
			got.ID, got.StartDate, got.EndDate, got.Difficulty,
			want.ID, want.StartDate, want.EndDate, want.Difficulty)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("plan created_at = %v, want %v", got.CreatedAt, want.CreatedAt)
	}
	if len(got.Days) != len(want.Days) {
		t.Fatalf("len(Days) = %d, want %d", len(got.Days), len(want.Days))
	}
	for d := range want.Days {
		g, w := got.Days[d], want.Days[d]
		if g.Feedback != w.Feedback || g.Completion != w.Completion {
			t.Errorf("day %d = %q/%v, want %q/%v", d, g.Feedback, g.Completion, w.Feedback, w.Completion)
		}
		if len(g.Exercises) != len(w.Exercises) {
			t.Errorf("day %d has %d exercises, want %d", d, len(g.Exercises), len(w.Exercises))
			continue
		}
		for e := range w.Exercises {
			ge, we := g.Exercises[e], w.Exercises[e]
			if ge.Name != we.Name || ge.Target != we.Target || ge.Unit != we.Unit ||
				ge.Description != we.Description || ge.Completed != we.Completed ||
				len(ge.RequiredEquipment) != len(we.RequiredEquipment) {
				t.Errorf("day %d exercise %d = %+v, want %+v", d, e, ge, we)
			}
		}
	}
}
