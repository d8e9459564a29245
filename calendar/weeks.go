/*
weeks.go - Incomplete-week analysis at month boundaries

PURPOSE:
  A month rarely starts on Monday or ends on Sunday, so its first and last
  calendar weeks are usually truncated. Weekdays that land inside a
  truncated week get fewer total occurrences that month than weekdays that
  do not - a client whose rule targets such a weekday may be short a
  scheduling slot. This file derives which business weekdays are affected.

POLICY:
  "Affected" means PRESENT in a truncated week, not missing from it. A
  weekday missing from the first week simply occurs later; a weekday present
  in the truncated week is the one whose occurrence count is reduced
  relative to an untruncated weekday. Only Monday-Friday are considered;
  Saturday and Sunday never appear in any list.

SEE ALSO:
  - anomaly/detector.go: consumes AffectedWeekdays
*/
package calendar

import "time"

// =============================================================================
// INCOMPLETE WEEK INFO
// =============================================================================

// IncompleteWeekInfo describes month-boundary week truncation for business
// weekdays. Derived on demand, never persisted.
type IncompleteWeekInfo struct {
	Year  int
	Month time.Month

	FirstWeekMissing []Weekday
	FirstWeekPresent []Weekday
	LastWeekMissing  []Weekday
	LastWeekPresent  []Weekday

	// AffectedWeekdays is the union of both present sets: the business
	// weekdays with reduced occurrence counts this month.
	AffectedWeekdays map[Weekday]bool
}

// IsAffected reports whether the weekday sits in a truncated week.
func (info IncompleteWeekInfo) IsAffected(w Weekday) bool {
	return info.AffectedWeekdays[w]
}

// HasAffected reports whether any business weekday is affected.
func (info IncompleteWeekInfo) HasAffected() bool {
	return len(info.AffectedWeekdays) > 0
}

// =============================================================================
// ANALYSIS
// =============================================================================

// AnalyzeMonth computes the incomplete-week info for a month.
//
// First week: if day 1 is not a Monday, business weekdays before the first
// day are missing and business weekdays from it onward are present.
// Last week: mirror logic - if the final day is not a Sunday, business
// weekdays up to and including it are present, the rest missing.
func AnalyzeMonth(year int, month time.Month) IncompleteWeekInfo {
	info := IncompleteWeekInfo{
		Year:             year,
		Month:            month,
		AffectedWeekdays: make(map[Weekday]bool),
	}

	firstWD := FirstOfMonth(year, month).Weekday()
	if firstWD > Monday {
		cut := firstWD
		if cut > Friday+1 {
			cut = Friday + 1
		}
		for w := Monday; w < cut; w++ {
			info.FirstWeekMissing = append(info.FirstWeekMissing, w)
		}
		for w := firstWD; w <= Friday; w++ {
			info.FirstWeekPresent = append(info.FirstWeekPresent, w)
			info.AffectedWeekdays[w] = true
		}
	}

	lastWD := LastOfMonth(year, month).Weekday()
	if lastWD < Sunday {
		cut := lastWD + 1
		if cut > Friday+1 {
			cut = Friday + 1
		}
		for w := Monday; w < cut; w++ {
			info.LastWeekPresent = append(info.LastWeekPresent, w)
			info.AffectedWeekdays[w] = true
		}
		for w := cut; w <= Friday; w++ {
			info.LastWeekMissing = append(info.LastWeekMissing, w)
		}
	}

	return info
}
