package tracker

import (
	"math"

	"github.com/julianstephens/cyclefit/internal/models"
)

// CompletionRatio returns the fraction of a day's volume that was done, in [0,1].
// A rest exercise counts as one unit, done when anything was recorded for it.
// Other exercises contribute their target to the total and at most their target
// to the done amount.
func CompletionRatio(day models.Day) float64 {
	if len(day.Exercises) == 0 {
		return 0
	}

	var total, done float64
	for _, ex := range day.Exercises {
		if ex.Unit == models.UnitRest {
			total++
			if ex.Completed > 0 {
				done++
			}
			continue
		}
		target := float64(ex.Target)
		total += target
		done += math.Min(math.Max(ex.Completed, 0), target)
	}

	if total <= 0 {
		return 0
	}
	return done / total
}
