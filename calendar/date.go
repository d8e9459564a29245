/*
Package calendar provides the date primitives for the scheduling engine.

PURPOSE:
  This package contains the naive calendar types everything else builds on:
  dates without time-of-day or timezone, a Monday-based weekday enum, the
  static holiday table, and the incomplete-week analyzer.

KEY CONCEPTS IN THIS FILE (date.go):
  - Date: A naive calendar date (no clock, no zone)
  - Weekday: Monday=0 .. Sunday=6 (NOT Go's Sunday=0 convention)
  - Month helpers: first/last day, days-in-month

DESIGN PRINCIPLES:
  1. Naive dates only: the engine never reasons about timezones. A Date is
     a (year, month, day) triple; midnight UTC is an internal encoding.
  2. Monday-based weekdays: the scheduling domain numbers weekdays from
     Monday, so Weekday owns the conversion from time.Weekday exactly once.
  3. Value semantics: Date and Weekday are small comparable values.

USAGE:
  d := calendar.NewDate(2025, time.June, 15)
  d.Weekday()        // calendar.Sunday
  d.IsBusinessDay()  // false

SEE ALSO:
  - holiday.go: Holiday table keyed by year and month
  - weeks.go: Incomplete-week analysis
*/
package calendar

import (
	"fmt"
	"time"
)

// =============================================================================
// WEEKDAY - Monday-based weekday enum
// =============================================================================

// Weekday numbers days from Monday=0 through Sunday=6.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [...]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

func (w Weekday) String() string {
	if w < Monday || w > Sunday {
		return fmt.Sprintf("Weekday(%d)", int(w))
	}
	return weekdayNames[w]
}

// IsBusinessDay reports whether the weekday is Monday through Friday.
func (w Weekday) IsBusinessDay() bool { return w >= Monday && w <= Friday }

// Valid reports whether the weekday is in [Monday, Sunday].
func (w Weekday) Valid() bool { return w >= Monday && w <= Sunday }

// WeekdayFromTime converts Go's Sunday=0 numbering to Monday=0.
func WeekdayFromTime(w time.Weekday) Weekday {
	return Weekday((int(w) + 6) % 7)
}

// =============================================================================
// DATE - Naive calendar date
// =============================================================================

// Date is a naive calendar date. The zero value is the zero date.
type Date struct {
	t time.Time
}

// NewDate builds a date. Out-of-range days normalize per time.Date rules;
// callers that need strict validation use ValidDay first.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t: t}, nil
}

// Today returns the current date.
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), now.Month(), now.Day())
}

// Comparison
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }
func (d Date) After(other Date) bool  { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool  { return d.t.Equal(other.t) }

// Arithmetic
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

// Properties
func (d Date) Year() int         { return d.t.Year() }
func (d Date) Month() time.Month { return d.t.Month() }
func (d Date) Day() int          { return d.t.Day() }
func (d Date) Weekday() Weekday  { return WeekdayFromTime(d.t.Weekday()) }
func (d Date) IsZero() bool      { return d.t.IsZero() }

// InMonth reports whether the date falls in the given year and month.
func (d Date) InMonth(year int, month time.Month) bool {
	return d.Year() == year && d.Month() == month
}

// IsBusinessDay reports whether the date is Monday through Friday.
func (d Date) IsBusinessDay() bool { return d.Weekday().IsBusinessDay() }

func (d Date) String() string { return d.t.Format("2006-01-02") }

// MarshalJSON encodes the date as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a "YYYY-MM-DD" string.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date literal %s", s)
	}
	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// =============================================================================
// MONTH HELPERS
// =============================================================================

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this month.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstOfMonth returns day 1 of the month.
func FirstOfMonth(year int, month time.Month) Date {
	return NewDate(year, month, 1)
}

// LastOfMonth returns the final day of the month.
func LastOfMonth(year int, month time.Month) Date {
	return NewDate(year, month, DaysInMonth(year, month))
}

// ValidDay reports whether day exists in the given month.
func ValidDay(year int, month time.Month, day int) bool {
	return day >= 1 && day <= DaysInMonth(year, month)
}
