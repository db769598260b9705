package workout

import (
	"time"

	"github.com/julianstephens/cyclefit/internal/utils"
)

// Clock supplies today's calendar date as YYYY-MM-DD
type Clock interface {
	Today() string
}

// zonedClock is implemented by clocks that can answer for a specific timezone.
type zonedClock interface {
	TodayIn(timezone string) (string, error)
}

// SystemClock reads the wall clock. A nil Location defers to the user's
// timezone preference, then to the system timezone.
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Today() string {
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	return utils.FormatDate(time.Now().In(loc))
}

// TodayIn returns today in timezone unless the clock has a fixed Location.
func (c SystemClock) TodayIn(timezone string) (string, error) {
	if c.Location != nil || timezone == "" {
		return c.Today(), nil
	}
	return utils.GetTodayInTimezone(timezone)
}

// FixedClock always reports the same date
type FixedClock string

func (c FixedClock) Today() string {
	return string(c)
}
