package calendar

import (
	"fmt"
	"time"
)

// Date is a calendar date in ISO YYYY-MM-DD form.
//
// Dates are ordered and bucketed by their literal value, so two dates compare
// the same way their strings do.
type Date string

// Parse validates s as a YYYY-MM-DD date.
func Parse(s string) (Date, error) {
	if _, err := time.Parse(time.DateOnly, s); err != nil {
		return "", fmt.Errorf("parsing date %q: %w", s, err)
	}

	return Date(s), nil
}

// FromTime returns the calendar date of t in its own location.
func FromTime(t time.Time) Date {
	return Date(t.Format(time.DateOnly))
}

// Today returns the current local date.
func Today() Date {
	return FromTime(time.Now())
}

func (d Date) String() string {
	return string(d)
}

// Time returns midnight UTC of the date. The zero time is returned for malformed values.
func (d Date) Time() time.Time {
	t, err := time.Parse(time.DateOnly, string(d))
	if err != nil {
		return time.Time{}
	}

	return t
}

// Valid reports whether d holds a well-formed date.
func (d Date) Valid() bool {
	_, err := time.Parse(time.DateOnly, string(d))
	return err == nil
}

// Month returns the YYYY-MM bucket of the date.
func (d Date) Month() string {
	if len(d) < 7 {
		return string(d)
	}

	return string(d[:7])
}

func (d Date) Before(other Date) bool { return d < other }
func (d Date) After(other Date) bool  { return d > other }

// AddDays returns the date n days after d.
func (d Date) AddDays(n int) Date {
	return FromTime(d.Time().AddDate(0, 0, n))
}

const secondsPerDay = 24 * 60 * 60

// DaysBetween returns the number of whole days from start to end.
// The result is negative for inverted ranges and 0 when either date is malformed.
func DaysBetween(start, end Date) int {
	s, err := time.Parse(time.DateOnly, string(start))
	if err != nil {
		return 0
	}

	e, err := time.Parse(time.DateOnly, string(end))
	if err != nil {
		return 0
	}

	return int((e.Unix() - s.Unix()) / secondsPerDay)
}

// FirstOfMonth returns the first day of d's month, shifted by the given number of months.
func FirstOfMonth(d Date, monthOffset int) Date {
	t := d.Time()
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)

	return FromTime(first.AddDate(0, monthOffset, 0))
}
