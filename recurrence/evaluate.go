/*
evaluate.go - Pure rule evaluation

PURPOSE:
  Turns (rule, year) into the ordered sequence of calendar dates the rule
  produces in that year. No side effects, no hidden state: identical inputs
  always yield identical output.

SEMANTICS:
  nth_weekday:
    For each month, locate the first occurrence of the rule's weekday, then
    step forward (n-1) weeks per requested occurrence. An occurrence that
    overflows the month (no 5th Monday) is silently omitted - a valid empty
    outcome, not an error.

  specific_days:
    For each month and each day, produce the exact date when it exists.
    A day that does not exist in the month is substituted with the month's
    last day ONLY when the day is above 28. Days 1-28 exist in every month,
    so the clamp branch is reachable solely for 29-31; the asymmetry is part
    of the contract.

  Output is sorted ascending. Duplicate dates (a clamped day landing on
  another requested day) are preserved, not deduplicated.

SEE ALSO:
  - types.go: Rule definition and validation
*/
package recurrence

import (
	"sort"
	"time"

	"github.com/warp/schedule-engine/calendar"
)

// Evaluate produces the rule's dates for a year, ascending.
// Invalid or unknown rules are rejected; an empty result is a valid outcome.
func Evaluate(rule Rule, year int) ([]calendar.Date, error) {
	if err := rule.Validate(); err != nil {
		return nil, err
	}

	var dates []calendar.Date
	switch rule.Type {
	case TypeNthWeekday:
		dates = evaluateNthWeekday(rule, year)
	case TypeSpecificDays:
		dates = evaluateSpecificDays(rule, year)
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

func evaluateNthWeekday(rule Rule, year int) []calendar.Date {
	var dates []calendar.Date
	for month := time.January; month <= time.December; month++ {
		first := calendar.FirstOfMonth(year, month)
		offset := (int(rule.Weekday) - int(first.Weekday()) + 7) % 7
		firstOccurrence := 1 + offset

		for _, n := range rule.Occurrences {
			day := firstOccurrence + (n-1)*7
			if day > calendar.DaysInMonth(year, month) {
				continue // no such occurrence this month
			}
			dates = append(dates, calendar.NewDate(year, month, day))
		}
	}
	return dates
}

func evaluateSpecificDays(rule Rule, year int) []calendar.Date {
	var dates []calendar.Date
	for month := time.January; month <= time.December; month++ {
		last := calendar.DaysInMonth(year, month)
		for _, day := range rule.Days {
			switch {
			case day <= last:
				dates = append(dates, calendar.NewDate(year, month, day))
			case day > 28:
				// 29-31 in a shorter month clamp to the last day.
				dates = append(dates, calendar.NewDate(year, month, last))
			}
		}
	}
	return dates
}
