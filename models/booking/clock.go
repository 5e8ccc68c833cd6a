package booking

import (
	"fmt"
	"time"
)

const (
	DateLayout    = "2006-01-02"
	ClockLayout   = "15:04"
	minutesPerDay = 24 * 60
)

// ParseClock converts "HH:MM" to minutes after midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// NormalizeClock parses a start time and returns it zero-padded, so "9:00"
// and "09:00" name the same slot.
func NormalizeClock(s string) (string, error) {
	m, err := ParseClock(s)
	if err != nil {
		return "", err
	}
	return FormatClock(m), nil
}

// FormatClock renders minutes after midnight as "HH:MM", wrapping past midnight.
func FormatClock(minutes int) string {
	m := ((minutes % minutesPerDay) + minutesPerDay) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// EndTime adds duration to an "HH:MM" start. The result wraps at midnight and
// nextDay reports that the end falls on the following calendar day.
func EndTime(start string, durationMinutes int) (end string, nextDay bool, err error) {
	s, err := ParseClock(start)
	if err != nil {
		return "", false, err
	}
	total := s + durationMinutes
	return FormatClock(total), total >= minutesPerDay, nil
}

// ParseDate parses a "YYYY-MM-DD" date in the given location.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return d, nil
}
