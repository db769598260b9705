package tracker

import (
	"testing"

	"github.com/julianstephens/cyclefit/internal/models"
)

func TestCompletionRatio(t *testing.T) {
	tests := []struct {
		name string
		day  models.Day
		want float64
	}{
		{"empty day", models.Day{}, 0},
		{
			"nothing done",
			models.Day{Exercises: []models.Exercise{{Target: 20, Unit: models.UnitReps}, {Target: 60, Unit: models.UnitSec}}},
			0,
		},
		{
			"everything done",
			models.Day{Exercises: []models.Exercise{{Target: 20, Unit: models.UnitReps, Completed: 20}, {Target: 60, Unit: models.UnitSec, Completed: 60}}},
			1,
		},
		{
			"overachievement is capped",
			models.Day{Exercises: []models.Exercise{{Target: 10, Unit: models.UnitReps, Completed: 50}, {Target: 10, Unit: models.UnitReps}}},
			0.5,
		},
		{
			"weighted by target",
			models.Day{Exercises: []models.Exercise{{Target: 30, Unit: models.UnitReps, Completed: 20}, {Target: 10, Unit: models.UnitReps, Completed: 10}}},
			0.75,
		},
		{"rest done", models.Day{Exercises: []models.Exercise{{Target: 1, Unit: models.UnitRest, Completed: 0.5}}}, 1},
		{"rest not done", models.Day{Exercises: []models.Exercise{{Target: 1, Unit: models.UnitRest}}}, 0},
		{"zero targets only", models.Day{Exercises: []models.Exercise{{Target: 0, Unit: models.UnitReps, Completed: 3}}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompletionRatio(tt.day)
			if got != tt.want {
				t.Errorf("CompletionRatio() = %v, want %v", got, tt.want)
			}
			if got < 0 || got > 1 {
				t.Errorf("CompletionRatio() = %v out of [0,1]", got)
			}
		})
	}
}
