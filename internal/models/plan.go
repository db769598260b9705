package models

import (
	"fmt"
	"time"

	"github.com/julianstephens/cyclefit/internal/utils"
)

type Day struct {
	Exercises  []Exercise `json:"exercises"`
	Feedback   string     `json:"feedback"`
	Completion float64    `json:"completion"` // cached ratio in [0,1], recomputed on every recording
}

// Clone returns a deep copy of the day
func (d Day) Clone() Day {
	if d.Exercises != nil {
		exercises := make([]Exercise, len(d.Exercises))
		for i, ex := range d.Exercises {
			exercises[i] = ex.Clone()
		}
		d.Exercises = exercises
	}
	return d
}

// Plan is one training cycle. Only the contents of its days change after generation.
type Plan struct {
	ID         string    `json:"id"`
	StartDate  string    `json:"start_date"` // YYYY-MM-DD format
	EndDate    string    `json:"end_date"`   // YYYY-MM-DD format, inclusive
	Difficulty float64   `json:"difficulty"` // multiplier applied at generation time
	Days       []Day     `json:"days"`
	CreatedAt  time.Time `json:"created_at"`
}

// Clone returns a deep copy of the plan
func (p Plan) Clone() Plan {
	if p.Days != nil {
		days := make([]Day, len(p.Days))
		for i, d := range p.Days {
			days[i] = d.Clone()
		}
		p.Days = days
	}
	return p
}

// LastDayIndex returns the index of the final day of the cycle
func (p Plan) LastDayIndex() int {
	return len(p.Days) - 1
}

// IsExpired reports whether today is past the plan's end date.
// Dates are YYYY-MM-DD so lexical order is chronological order.
func (p Plan) IsExpired(today string) bool {
	return today > p.EndDate
}

// DayIndexFor returns the offset of date into the plan.
func (p Plan) DayIndexFor(date string) (int, error) {
	offset, err := utils.DaysBetween(p.StartDate, date)
	if err != nil {
		return 0, err
	}
	if offset < 0 || offset >= len(p.Days) {
		return 0, fmt.Errorf("date %s is outside plan %s..%s", date, p.StartDate, p.EndDate)
	}
	return offset, nil
}

// DateForDay returns the calendar date of the day at index
func (p Plan) DateForDay(index int) (string, error) {
	return utils.AddDays(p.StartDate, index)
}

// PlanSummary is a read-only digest of a plan used by history views and exports
type PlanSummary struct {
	PlanID            string  `json:"plan_id"`
	StartDate         string  `json:"start_date"`
	EndDate           string  `json:"end_date"`
	Difficulty        float64 `json:"difficulty"`
	AverageCompletion float64 `json:"average_completion"`
	DaysRecorded      int     `json:"days_recorded"`
	Current           bool    `json:"current"`
}
