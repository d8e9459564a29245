/*
Package factory converts JSON rule configurations into recurrence rules.

PURPOSE:
  Client recurrence rules are stored and transported as JSON so operators
  can configure them without code changes. The factory validates those
  configs and produces proper recurrence.Rule values. It is also the one
  place that understands legacy records: configs carrying only a free-text
  frequency label are translated through the legacy-name adapter here, at
  the ingestion boundary, so the engine never parses names.

JSON SCHEMA:
  {
    "type": "nth_weekday",
    "weekday": 2,
    "occurrences": [2, 4]
  }
  {
    "type": "specific_days",
    "days": [10, 25]
  }
  {
    "legacy_name": "2º y 4º miércoles",
    "occurrences": [2, 4]
  }

USAGE:
  f := factory.New()
  rule, err := f.ParseRule(configJSON)

SEE ALSO:
  - recurrence/types.go: Rule definition
  - recurrence/legacy.go: the name-to-weekday translation
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/warp/schedule-engine/calendar"
	"github.com/warp/schedule-engine/recurrence"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// RuleJSON is the JSON representation of a recurrence rule config.
type RuleJSON struct {
	Type        string `json:"type,omitempty"`
	Weekday     *int   `json:"weekday,omitempty"`
	Occurrences []int  `json:"occurrences,omitempty"`
	Days        []int  `json:"days,omitempty"`

	// LegacyName is a free-text frequency label from pre-migration
	// records, e.g. "2º y 4º miércoles". Used only when Type is empty.
	LegacyName string `json:"legacy_name,omitempty"`
}

// =============================================================================
// FACTORY
// =============================================================================

type Factory struct{}

func New() *Factory { return &Factory{} }

// ParseRule converts a JSON config into a validated rule.
func (f *Factory) ParseRule(configJSON string) (recurrence.Rule, error) {
	var cfg RuleJSON
	if err := json.Unmarshal([]byte(configJSON), &cfg); err != nil {
		return recurrence.Rule{}, fmt.Errorf("parse rule config: %w", err)
	}
	return f.FromConfig(cfg)
}

// FromConfig builds a rule from a decoded config.
func (f *Factory) FromConfig(cfg RuleJSON) (recurrence.Rule, error) {
	if cfg.Type == "" && cfg.LegacyName != "" {
		return f.fromLegacy(cfg)
	}

	switch recurrence.Type(cfg.Type) {
	case recurrence.TypeNthWeekday:
		if cfg.Weekday == nil {
			return recurrence.Rule{}, fmt.Errorf("%w: nth_weekday config missing weekday", recurrence.ErrInvalidRule)
		}
		return recurrence.NewNthWeekday(calendar.Weekday(*cfg.Weekday), cfg.Occurrences...)

	case recurrence.TypeSpecificDays:
		return recurrence.NewSpecificDays(cfg.Days...)

	default:
		return recurrence.Rule{}, &recurrence.UnsupportedTypeError{Type: recurrence.Type(cfg.Type)}
	}
}

// fromLegacy translates a free-text frequency label into an nth-weekday
// rule. Labels without a recognizable business-weekday token are rejected
// rather than defaulted.
func (f *Factory) fromLegacy(cfg RuleJSON) (recurrence.Rule, error) {
	weekday, ok := recurrence.WeekdayFromLegacyName(cfg.LegacyName)
	if !ok {
		return recurrence.Rule{}, fmt.Errorf("%w: unrecognized legacy frequency %q",
			recurrence.ErrInvalidRule, cfg.LegacyName)
	}
	occurrences := cfg.Occurrences
	if len(occurrences) == 0 {
		return recurrence.Rule{}, fmt.Errorf("%w: legacy config %q missing occurrences",
			recurrence.ErrInvalidRule, cfg.LegacyName)
	}
	return recurrence.NewNthWeekday(weekday, occurrences...)
}

// EncodeRule serializes a rule back to its JSON config form.
func EncodeRule(rule recurrence.Rule) (string, error) {
	cfg := RuleJSON{Type: string(rule.Type)}
	switch rule.Type {
	case recurrence.TypeNthWeekday:
		wd := int(rule.Weekday)
		cfg.Weekday = &wd
		cfg.Occurrences = rule.Occurrences
	case recurrence.TypeSpecificDays:
		cfg.Days = rule.Days
	default:
		return "", &recurrence.UnsupportedTypeError{Type: rule.Type}
	}
	raw, err := json.Marshal(cfg)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
