package cycle

import (
	"errors"
	"math"
	"testing"

	"github.com/julianstephens/cyclefit/internal/catalog"
	"github.com/julianstephens/cyclefit/internal/constants"
	"github.com/julianstephens/cyclefit/internal/generator"
	"github.com/julianstephens/cyclefit/internal/models"
	"github.com/julianstephens/cyclefit/internal/tracker"
)

// planWithRatio builds a plan where every day has the given completion ratio.
func planWithRatio(ratio float64) models.Plan {
	plan := models.Plan{ID: "p1", StartDate: "2024-01-01", EndDate: "2024-01-30", Difficulty: 1, Days: make([]models.Day, constants.CycleLength)}
	for i := range plan.Days {
		plan.Days[i] = models.Day{Exercises: []models.Exercise{
			{Name: "Ex", Target: 100, Unit: models.UnitReps, Completed: ratio * 100},
		}}
	}
	return plan
}

func TestStepFor(t *testing.T) {
	tests := []struct {
		avg  float64
		want float64
	}{
		{1.0, 1.1},
		{0.9, 1.1},
		{0.8, 1.1},
		{0.79, 1.0},
		{0.5, 1.0},
		{0.49, 0.8},
		{0, 0.8},
	}

	for _, tt := range tests {
		if got := StepFor(tt.avg); got != tt.want {
			t.Errorf("StepFor(%v) = %v, want %v", tt.avg, got, tt.want)
		}
	}
}

func TestNextDifficulty(t *testing.T) {
	tests := []struct {
		name  string
		ratio float64
		want  float64
	}{
		{"perfect", 1, 1.1},
		{"strong", 0.9, 1.1},
		{"harden boundary", 0.8, 1.1},
		{"steady", 0.65, 1.0},
		{"ease boundary is steady", 0.5, 1.0},
		{"ease", 0.3, 0.8},
		{"nothing", 0, 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextDifficulty(planWithRatio(tt.ratio)); got != tt.want {
				t.Errorf("NextDifficulty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAverageCompletion(t *testing.T) {
	plan := planWithRatio(0)
	for i := 0; i < 15; i++ {
		plan.Days[i].Exercises[0].Completed = 100
	}
	if got := AverageCompletion(plan); got != 0.5 {
		t.Errorf("AverageCompletion() = %v, want 0.5", got)
	}
	if got := AverageCompletion(models.Plan{}); got != 0 {
		t.Errorf("AverageCompletion(empty) = %v, want 0", got)
	}
}

func TestNextPlan(t *testing.T) {
	prefs := models.Preferences{Difficulty: 1.2, Equipment: catalog.FullEquipment()}
	next, err := NextPlan(planWithRatio(1), prefs)
	if err != nil {
		t.Fatalf("NextPlan() error = %v", err)
	}

	if next.StartDate != "2024-01-31" || next.EndDate != "2024-02-29" {
		t.Errorf("dates = %s..%s, want 2024-01-31..2024-02-29", next.StartDate, next.EndDate)
	}
	if math.Abs(next.Difficulty-1.32) > 1e-9 {
		t.Errorf("Difficulty = %v, want 1.32", next.Difficulty)
	}
	if len(next.Days) != constants.CycleLength {
		t.Errorf("len(Days) = %d", len(next.Days))
	}
}

func TestNextPlan_InvalidBaseline(t *testing.T) {
	_, err := NextPlan(planWithRatio(1), models.Preferences{Difficulty: 0})
	if !errors.Is(err, generator.ErrInvalidDifficulty) {
		t.Errorf("NextPlan() error = %v, want ErrInvalidDifficulty", err)
	}
}

func TestAdvance_LastDayOfCycle(t *testing.T) {
	prefs := models.Preferences{Difficulty: 1, Equipment: catalog.FullEquipment()}
	first, err := generator.Generate("2024-01-01", 1, prefs)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	user := models.User{Name: "ana", Preferences: prefs, Plans: []models.Plan{first}}

	last := first.LastDayIndex()
	if _, err := tracker.RecordCompletion(&user.Plans[0], last, nil, ""); err != nil {
		t.Fatalf("RecordCompletion() error = %v", err)
	}

	next, err := Advance(&user, 0)
	if err != nil {
		t.Fatalf("Advance() error = %v", err)
	}
	if len(user.Plans) != 2 {
		t.Fatalf("len(Plans) = %d, want 2", len(user.Plans))
	}
	if user.Plans[0].ID != first.ID {
		t.Error("old plan was replaced")
	}
	if next.StartDate != "2024-01-31" || next.EndDate != "2024-02-29" {
		t.Errorf("next plan dates = %s..%s", next.StartDate, next.EndDate)
	}
	// Nothing was completed, so the cycle eases off.
	if next.Difficulty != constants.EaseFactor {
		t.Errorf("next difficulty = %v, want %v", next.Difficulty, constants.EaseFactor)
	}
}

func TestAdvance_BadIndex(t *testing.T) {
	user := models.User{Preferences: models.Preferences{Difficulty: 1}}
	if _, err := Advance(&user, 0); err == nil {
		t.Error("Advance() expected error for empty history")
	}
	if _, err := Advance(nil, 0); err == nil {
		t.Error("Advance(nil) expected error")
	}
}

func TestSummarize(t *testing.T) {
	plan := planWithRatio(0)
	plan.Days[0].Exercises[0].Completed = 100
	plan.Days[1].Feedback = "obosit"

	got := Summarize(plan)
	if got.PlanID != "p1" || got.StartDate != "2024-01-01" || got.EndDate != "2024-01-30" {
		t.Errorf("Summarize() header = %+v", got)
	}
	if got.DaysRecorded != 2 {
		t.Errorf("DaysRecorded = %d, want 2", got.DaysRecorded)
	}
	if math.Abs(got.AverageCompletion-1.0/30) > 1e-9 {
		t.Errorf("AverageCompletion = %v, want 1/30", got.AverageCompletion)
	}
}
