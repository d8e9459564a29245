/*
errors.go - Error types for rule construction and evaluation

PURPOSE:
  All recurrence errors in one place. Rules fail fast at construction or
  validation time; evaluation of a valid rule never fails. Callers match
  with errors.Is / errors.As.

ERROR CATEGORIES:
  1. ErrInvalidRule - malformed payload (empty sets, out-of-range values)
  2. ErrUnsupportedRuleType - rule type outside the fixed vocabulary

FALLBACK POLICY:
  The evaluator rejects unknown rule types rather than guessing. Any
  default-to-monthly fallback is a product decision that belongs to the
  orchestration layer, not here.

SEE ALSO:
  - types.go: Validate produces these errors
  - evaluate.go: Evaluate rejects unknown types
*/
package recurrence

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidRule is returned for malformed rule payloads. Rules are
	// never silently defaulted.
	ErrInvalidRule = errors.New("invalid recurrence rule")

	// ErrUnsupportedRuleType is returned for rule types outside
	// {nth_weekday, specific_days}.
	ErrUnsupportedRuleType = errors.New("unsupported rule type")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// RuleError carries the field and reason of a validation failure.
type RuleError struct {
	Type   Type
	Field  string
	Reason string
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("invalid %s rule: %s %s", e.Type, e.Field, e.Reason)
}

func (e *RuleError) Unwrap() error { return ErrInvalidRule }

// UnsupportedTypeError names the unknown rule type.
type UnsupportedTypeError struct {
	Type Type
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported rule type %q", string(e.Type))
}

func (e *UnsupportedTypeError) Unwrap() error { return ErrUnsupportedRuleType }
