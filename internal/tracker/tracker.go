// Package tracker records per-exercise completion for a plan day and moves
// unmet volume onto the following day.
package tracker

import (
	"errors"
	"fmt"
	"math"

	"github.com/julianstephens/cyclefit/internal/constants"
	"github.com/julianstephens/cyclefit/internal/models"
)

// ErrDayIndexOutOfRange is returned when the day index does not address a day of the plan
var ErrDayIndexOutOfRange = errors.New("day index out of range")

// RecordCompletion stores the completed amounts and feedback for the day at
// dayIndex, then appends carry-over for unmet targets to the next day.
// values[i] belongs to the i-th exercise; missing, negative and non-finite
// values count as 0. Carry-over from the last day of the plan is dropped.
// It reports whether carry-over was appended.
func RecordCompletion(plan *models.Plan, dayIndex int, values []float64, feedback string) (bool, error) {
	if plan == nil {
		return false, fmt.Errorf("%w: no plan", ErrDayIndexOutOfRange)
	}
	if dayIndex < 0 || dayIndex >= len(plan.Days) {
		return false, fmt.Errorf("%w: %d not in [0,%d)", ErrDayIndexOutOfRange, dayIndex, len(plan.Days))
	}

	day := &plan.Days[dayIndex]
	for i := range day.Exercises {
		var v float64
		if i < len(values) {
			v = values[i]
		}
		day.Exercises[i].Completed = sanitize(v)
	}

	carry := CarryOver(*day)
	appended := false
	if len(carry) > 0 && dayIndex < plan.LastDayIndex() {
		next := &plan.Days[dayIndex+1]
		next.Exercises = AppendCarryOver(next.Exercises, carry)
		next.Completion = CompletionRatio(*next)
		appended = true
	}

	day.Feedback = feedback
	day.Completion = CompletionRatio(*day)
	return appended, nil
}

// CarryOver derives the carry-over exercises of an already recorded day, in
// the order of the exercises they come from.
func CarryOver(day models.Day) []models.Exercise {
	var carry []models.Exercise
	for _, ex := range day.Exercises {
		remaining := float64(ex.Target) - sanitize(ex.Completed)
		if remaining <= 0 {
			continue
		}
		carry = append(carry, models.Exercise{
			Name:              ex.Name + constants.CarryOverNameMarker,
			Target:            int(math.Ceil(remaining)),
			Unit:              ex.Unit,
			Description:       constants.CarryOverDescription,
			RequiredEquipment: cloneTags(ex.RequiredEquipment),
		})
	}
	return carry
}

// AppendCarryOver returns a new slice with the existing exercises followed by
// carry. Neither input is modified.
func AppendCarryOver(existing, carry []models.Exercise) []models.Exercise {
	out := make([]models.Exercise, 0, len(existing)+len(carry))
	for _, ex := range existing {
		out = append(out, ex.Clone())
	}
	for _, ex := range carry {
		out = append(out, ex.Clone())
	}
	return out
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func cloneTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	return append([]string(nil), tags...)
}
