// Package generator builds 30-day plans from the catalog, adapted to the
// available equipment and scaled by difficulty.
package generator

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/cyclefit/internal/catalog"
	"github.com/julianstephens/cyclefit/internal/constants"
	"github.com/julianstephens/cyclefit/internal/equipment"
	"github.com/julianstephens/cyclefit/internal/models"
	"github.com/julianstephens/cyclefit/internal/utils"
)

// ErrInvalidDifficulty is returned for a difficulty that is not a positive finite number
var ErrInvalidDifficulty = errors.New("difficulty must be a positive finite number")

// Generate creates a plan of constants.CycleLength days starting at startDate.
// Each day takes the catalog templates for its weekday slot, adapts them to the
// equipment in prefs and scales the targets by difficulty.
func Generate(startDate string, difficulty float64, prefs models.Preferences) (models.Plan, error) {
	if math.IsNaN(difficulty) || math.IsInf(difficulty, 0) || difficulty <= 0 {
		return models.Plan{}, fmt.Errorf("%w: got %v", ErrInvalidDifficulty, difficulty)
	}

	if _, err := utils.ParseDate(startDate); err != nil {
		return models.Plan{}, fmt.Errorf("invalid start date: %w", err)
	}
	endDate, err := utils.AddDays(startDate, constants.CycleLength-1)
	if err != nil {
		return models.Plan{}, fmt.Errorf("failed to compute end date: %w", err)
	}

	plan := models.Plan{
		ID:         uuid.New().String(),
		StartDate:  startDate,
		EndDate:    endDate,
		Difficulty: difficulty,
		Days:       make([]models.Day, constants.CycleLength),
		CreatedAt:  time.Now().UTC(),
	}

	for i := range plan.Days {
		templates := catalog.TemplatesFor(i % constants.DaysPerWeek)
		exercises := make([]models.Exercise, 0, len(templates))
		for _, tmpl := range templates {
			ex := equipment.Adapt(tmpl, prefs.Equipment)
			ex.Target = Scale(ex.Target, ex.Unit, difficulty)
			exercises = append(exercises, ex)
		}
		plan.Days[i] = models.Day{Exercises: exercises}
	}

	return plan, nil
}

// Scale multiplies a target by difficulty, rounding half away from zero and
// keeping positive targets at 1 or more. Rest and zero targets are returned as is.
func Scale(target int, unit models.Unit, difficulty float64) int {
	if unit == models.UnitRest || target == 0 {
		return target
	}
	scaled := int(math.Round(float64(target) * difficulty))
	if scaled < 1 {
		return 1
	}
	return scaled
}
