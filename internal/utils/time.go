package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/cyclefit/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == constants.DefaultTimezone {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// NowInTimezone returns the current time in the specified timezone.
func NowInTimezone(timezone string) (time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return time.Now().In(loc), nil
}

// GetTodayInTimezone returns today's date string (YYYY-MM-DD) in the specified timezone.
func GetTodayInTimezone(timezone string) (string, error) {
	now, err := NowInTimezone(timezone)
	if err != nil {
		return "", err
	}
	return FormatDate(now), nil
}

// ParseDate parses a YYYY-MM-DD string into midnight UTC of that day.
func ParseDate(dateStr string) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", dateStr, err)
	}
	return t, nil
}

// FormatDate truncates t to its calendar date in t's own location.
func FormatDate(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// AddDays returns the date n calendar days after dateStr (n may be negative).
func AddDays(dateStr string, n int) (string, error) {
	t, err := ParseDate(dateStr)
	if err != nil {
		return "", err
	}
	return FormatDate(t.AddDate(0, 0, n)), nil
}

// DaysBetween returns the number of calendar days from start to end.
// The result is negative when end is before start.
func DaysBetween(start, end string) (int, error) {
	s, err := ParseDate(start)
	if err != nil {
		return 0, err
	}
	e, err := ParseDate(end)
	if err != nil {
		return 0, err
	}
	// Both values are midnight UTC so the division is exact.
	return int(e.Sub(s).Hours() / 24), nil
}

// ResolveDate turns "today" or an empty string into today's date and
// validates anything else as YYYY-MM-DD.
func ResolveDate(input, today string) (string, error) {
	if input == "" || input == "today" {
		return today, nil
	}
	if _, err := ParseDate(input); err != nil {
		return "", err
	}
	return input, nil
}
