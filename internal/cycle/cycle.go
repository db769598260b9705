// Package cycle decides the difficulty of the next training cycle from how
// much of the current one was completed.
package cycle

import (
	"fmt"

	"github.com/julianstephens/cyclefit/internal/constants"
	"github.com/julianstephens/cyclefit/internal/generator"
	"github.com/julianstephens/cyclefit/internal/models"
	"github.com/julianstephens/cyclefit/internal/tracker"
	"github.com/julianstephens/cyclefit/internal/utils"
)

// AverageCompletion returns the mean completion ratio over every day of the plan.
func AverageCompletion(plan models.Plan) float64 {
	if len(plan.Days) == 0 {
		return 0
	}
	var sum float64
	for _, day := range plan.Days {
		sum += tracker.CompletionRatio(day)
	}
	return sum / float64(len(plan.Days))
}

// Summarize digests a plan for history views. A day counts as recorded once it
// has feedback or any completed volume.
func Summarize(plan models.Plan) models.PlanSummary {
	recorded := 0
	for _, day := range plan.Days {
		if isRecorded(day) {
			recorded++
		}
	}
	return models.PlanSummary{
		PlanID:            plan.ID,
		StartDate:         plan.StartDate,
		EndDate:           plan.EndDate,
		Difficulty:        plan.Difficulty,
		AverageCompletion: AverageCompletion(plan),
		DaysRecorded:      recorded,
	}
}

func isRecorded(day models.Day) bool {
	if day.Feedback != "" {
		return true
	}
	for _, ex := range day.Exercises {
		if ex.Completed > 0 {
			return true
		}
	}
	return false
}

// NextDifficulty returns the multiplier step for the cycle after plan.
func NextDifficulty(plan models.Plan) float64 {
	return StepFor(AverageCompletion(plan))
}

// StepFor maps an average completion to a difficulty factor.
func StepFor(avg float64) float64 {
	switch {
	case avg >= constants.HardenThreshold:
		return constants.HardenFactor
	case avg < constants.EaseThreshold:
		return constants.EaseFactor
	default:
		return constants.SteadyFactor
	}
}

// NextPlan generates the plan that follows plan, starting the day after it ends.
// The difficulty is the baseline from prefs times the step earned by plan.
func NextPlan(plan models.Plan, prefs models.Preferences) (models.Plan, error) {
	start, err := utils.AddDays(plan.EndDate, 1)
	if err != nil {
		return models.Plan{}, fmt.Errorf("invalid end date on plan %s: %w", plan.ID, err)
	}
	return generator.Generate(start, prefs.Difficulty*NextDifficulty(plan), prefs)
}

// Advance appends the successor of user.Plans[planIndex] to the user's history
// and returns it. Existing plans are left in place.
func Advance(user *models.User, planIndex int) (models.Plan, error) {
	if user == nil {
		return models.Plan{}, fmt.Errorf("no user")
	}
	if planIndex < 0 || planIndex >= len(user.Plans) {
		return models.Plan{}, fmt.Errorf("plan index %d out of range", planIndex)
	}

	next, err := NextPlan(user.Plans[planIndex], user.Preferences)
	if err != nil {
		return models.Plan{}, err
	}
	user.Plans = append(user.Plans, next)
	return next, nil
}
