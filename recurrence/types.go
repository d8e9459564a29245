/*
Package recurrence defines recurrence rules and their evaluation.

PURPOSE:
  A recurrence rule describes when a recurring logistics activity (purchase
  order issuance, delivery receipt, invoicing) happens for a client: "2nd
  and 4th Wednesday" or "the 10th and 25th of every month". Evaluation turns
  a rule and a year into the ordered set of calendar dates satisfying it.

KEY CONCEPTS IN THIS FILE (types.go):
  - Type: the fixed rule vocabulary (nth_weekday, specific_days)
  - Rule: immutable value carrying one payload per type
  - Constructors validate eagerly; malformed rules never circulate

DESIGN PRINCIPLES:
  1. Fail fast: NewNthWeekday/NewSpecificDays reject bad payloads at
     construction. No silent defaulting, ever.
  2. Enum-keyed identity: the rule's weekday is an explicit field, not
     something inferred from a display name. Legacy name parsing lives in
     legacy.go and only at the ingestion boundary.
  3. Purity: a valid Rule plus a year fully determines the output.

USAGE:
  rule, err := recurrence.NewNthWeekday(calendar.Wednesday, 2, 4)
  dates, err := recurrence.Evaluate(rule, 2025)

SEE ALSO:
  - evaluate.go: the evaluator
  - legacy.go: legacy frequency-name translation
  - errors.go: validation errors
*/
package recurrence

import (
	"sort"

	"github.com/warp/schedule-engine/calendar"
)

// =============================================================================
// RULE TYPE - Fixed vocabulary
// =============================================================================

type Type string

const (
	// TypeNthWeekday schedules the n-th occurrence(s) of a weekday each month.
	TypeNthWeekday Type = "nth_weekday"

	// TypeSpecificDays schedules fixed days of the month, clamping days
	// 29-31 to the month's last day when the month is shorter.
	TypeSpecificDays Type = "specific_days"
)

// =============================================================================
// RULE - Immutable tagged value
// =============================================================================

// Rule is a recurrence rule. Exactly one payload is meaningful per Type:
// Weekday+Occurrences for nth_weekday, Days for specific_days. Construct
// through NewNthWeekday / NewSpecificDays; a zero Rule is invalid.
type Rule struct {
	Type        Type             `json:"type"`
	Weekday     calendar.Weekday `json:"weekday,omitempty"`
	Occurrences []int            `json:"occurrences,omitempty"`
	Days        []int            `json:"days,omitempty"`
}

// NewNthWeekday builds a validated nth-weekday rule.
// Occurrences are stored sorted ascending.
func NewNthWeekday(weekday calendar.Weekday, occurrences ...int) (Rule, error) {
	r := Rule{
		Type:        TypeNthWeekday,
		Weekday:     weekday,
		Occurrences: sortedCopy(occurrences),
	}
	if err := r.Validate(); err != nil {
		return Rule{}, err
	}
	return r, nil
}

// NewSpecificDays builds a validated specific-days rule.
// Days are stored sorted ascending.
func NewSpecificDays(days ...int) (Rule, error) {
	r := Rule{
		Type: TypeSpecificDays,
		Days: sortedCopy(days),
	}
	if err := r.Validate(); err != nil {
		return Rule{}, err
	}
	return r, nil
}

func sortedCopy(vals []int) []int {
	out := make([]int, len(vals))
	copy(out, vals)
	sort.Ints(out)
	return out
}

// Validate checks the rule payload against its type's invariants.
func (r Rule) Validate() error {
	switch r.Type {
	case TypeNthWeekday:
		if !r.Weekday.Valid() {
			return &RuleError{Type: r.Type, Field: "weekday", Reason: "out of range"}
		}
		if len(r.Occurrences) == 0 {
			return &RuleError{Type: r.Type, Field: "occurrences", Reason: "must not be empty"}
		}
		seen := make(map[int]bool, len(r.Occurrences))
		for _, n := range r.Occurrences {
			if n < 1 || n > 5 {
				return &RuleError{Type: r.Type, Field: "occurrences", Reason: "must be in [1,5]"}
			}
			if seen[n] {
				return &RuleError{Type: r.Type, Field: "occurrences", Reason: "contains duplicates"}
			}
			seen[n] = true
		}
		return nil

	case TypeSpecificDays:
		if len(r.Days) == 0 {
			return &RuleError{Type: r.Type, Field: "days", Reason: "must not be empty"}
		}
		seen := make(map[int]bool, len(r.Days))
		for _, d := range r.Days {
			if d < 1 || d > 31 {
				return &RuleError{Type: r.Type, Field: "days", Reason: "must be in [1,31]"}
			}
			if seen[d] {
				return &RuleError{Type: r.Type, Field: "days", Reason: "contains duplicates"}
			}
			seen[d] = true
		}
		return nil

	default:
		return &UnsupportedTypeError{Type: r.Type}
	}
}

// HasWeekday reports whether the rule carries a weekday identity.
// Only nth-weekday rules do; specific-days rules target month days.
func (r Rule) HasWeekday() bool { return r.Type == TypeNthWeekday }
