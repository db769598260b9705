package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/julianstephens/cyclefit/internal/catalog"
	"github.com/julianstephens/cyclefit/internal/generator"
	"github.com/julianstephens/cyclefit/internal/models"
	"github.com/julianstephens/cyclefit/internal/tracker"
	"github.com/julianstephens/cyclefit/internal/workout"
)

func newPlan(t *testing.T) models.Plan {
	t.Helper()
	plan, err := generator.Generate("2024-01-01", 1.0, models.Preferences{Difficulty: 1, Equipment: catalog.FullEquipment()})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	return plan
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{0, "░░░░░░░░░░   0%"},
		{0.5, "█████░░░░░  50%"},
		{1, "██████████ 100%"},
		{1.7, "██████████ 100%"},
		{-1, "░░░░░░░░░░   0%"},
	}
	for _, tt := range tests {
		if got := ProgressBar(tt.ratio); got != tt.want {
			t.Errorf("ProgressBar(%v) = %q, want %q", tt.ratio, got, tt.want)
		}
	}
}

func TestRenderPlan(t *testing.T) {
	plan := newPlan(t)
	out := RenderPlan(plan, 3)

	for _, want := range []string{"2024-01-01..2024-01-30", "2024-01-04", "3 *", "Completion"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderPlan() missing %q", want)
		}
	}
}

func TestRenderDay(t *testing.T) {
	plan := newPlan(t)
	if _, err := tracker.RecordCompletion(&plan, 0, []float64{20}, "greu"); err != nil {
		t.Fatalf("RecordCompletion() error = %v", err)
	}

	out, err := RenderDay(plan, 0)
	if err != nil {
		t.Fatalf("RenderDay() error = %v", err)
	}
	for _, want := range []string{"Day 0", "Genuflexiuni cu gantere", "20/30 reps", "gantere", "greu"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderDay() missing %q in:\n%s", want, out)
		}
	}

	rest, err := RenderDay(plan, 6)
	if err != nil {
		t.Fatalf("RenderDay(6) error = %v", err)
	}
	if !strings.Contains(rest, "rest") {
		t.Errorf("rest day output = %q", rest)
	}

	if _, err := RenderDay(plan, 30); !errors.Is(err, tracker.ErrDayIndexOutOfRange) {
		t.Errorf("RenderDay(30) error = %v", err)
	}
}

func TestRenderHistory(t *testing.T) {
	if got := RenderHistory(nil); !strings.Contains(got, "No plans yet") {
		t.Errorf("RenderHistory(nil) = %q", got)
	}

	out := RenderHistory([]models.PlanSummary{
		{StartDate: "2024-01-01", EndDate: "2024-01-30", Difficulty: 1, DaysRecorded: 30, AverageCompletion: 0.9},
		{StartDate: "2024-01-31", EndDate: "2024-02-29", Difficulty: 1.1, Current: true},
	})
	for _, want := range []string{"2024-01-01..2024-01-30", "1.10", "30/30", "current"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderHistory() missing %q", want)
		}
	}
}

func TestRenderRecordResult(t *testing.T) {
	plan := newPlan(t)
	next := newPlan(t)
	result := workout.RecordResult{
		DayIndex:   0,
		Plan:       plan,
		Completion: 0.5,
		CarryOver:  []models.Exercise{{Name: "Flotări (recuperare)", Target: 5, Unit: models.UnitReps}},
	}
	out := RenderRecordResult(result)
	if !strings.Contains(out, "carried over to day 1") || !strings.Contains(out, "Flotări (recuperare) 5 reps") {
		t.Errorf("RenderRecordResult() = %q", out)
	}

	result.DayIndex = 29
	result.NextPlan = &next
	out = RenderRecordResult(result)
	if strings.Contains(out, "carried over") {
		t.Error("last day output mentions carry-over")
	}
	if !strings.Contains(out, "Cycle complete") {
		t.Errorf("RenderRecordResult() = %q", out)
	}
}

func TestRenderUser(t *testing.T) {
	out := RenderUser(models.User{
		ID:          "u1",
		Name:        "ana",
		Preferences: models.Preferences{Difficulty: 1.2, Equipment: map[string]bool{"gantere": true, "bara": false}},
	})
	for _, want := range []string{"ana", "1.20", "gantere", "Local"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderUser() missing %q", want)
		}
	}
	if strings.Contains(out, "bara") {
		t.Error("RenderUser() lists unavailable equipment")
	}
}
