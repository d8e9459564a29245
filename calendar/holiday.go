/*
holiday.go - Static holiday table

PURPOSE:
  Holds the non-working dates the anomaly detector checks schedules against.
  The table is configuration data loaded once at startup and read-only at
  runtime, organized year -> month for cheap monthly lookup.

LOOKUP SEMANTICS:
  - InMonth(year, month): the month's holidays in insertion order.
    A year missing from the table yields an empty slice, never an error.
  - On(date): exact-date match.

CONFIGURATION FORMAT (YAML):
  holidays:
    2025:
      - date: 2025-01-01
        description: "New Year's Day"
      - date: 2025-05-01
        description: "Labor Day"

SEE ALSO:
  - weeks.go: the other calendar input to anomaly detection
  - anomaly/detector.go: consumes InMonth
*/
package calendar

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// HOLIDAY TABLE
// =============================================================================

// Holiday is a single non-working date.
type Holiday struct {
	Date        Date
	Description string
}

// Table is a read-only holiday lookup keyed by year then month.
type Table struct {
	byMonth map[int]map[time.Month][]Holiday
}

// NewTable builds a table from a flat holiday list. Insertion order within
// a month is preserved.
func NewTable(holidays []Holiday) *Table {
	t := &Table{byMonth: make(map[int]map[time.Month][]Holiday)}
	for _, h := range holidays {
		year := h.Date.Year()
		if t.byMonth[year] == nil {
			t.byMonth[year] = make(map[time.Month][]Holiday)
		}
		t.byMonth[year][h.Date.Month()] = append(t.byMonth[year][h.Date.Month()], h)
	}
	return t
}

// EmptyTable returns a table with no holidays.
func EmptyTable() *Table { return NewTable(nil) }

// InMonth returns the holidays falling in the given month.
// Unknown years and months yield an empty slice.
func (t *Table) InMonth(year int, month time.Month) []Holiday {
	months, ok := t.byMonth[year]
	if !ok {
		return nil
	}
	out := make([]Holiday, len(months[month]))
	copy(out, months[month])
	return out
}

// On returns the holiday on the exact date, if any.
func (t *Table) On(date Date) (Holiday, bool) {
	for _, h := range t.InMonth(date.Year(), date.Month()) {
		if h.Date.Equal(date) {
			return h, true
		}
	}
	return Holiday{}, false
}

// Years returns the years present in the table.
func (t *Table) Years() []int {
	years := make([]int, 0, len(t.byMonth))
	for y := range t.byMonth {
		years = append(years, y)
	}
	return years
}

// =============================================================================
// YAML LOADING
// =============================================================================

type holidayFile struct {
	Holidays map[int][]holidayEntry `yaml:"holidays"`
}

type holidayEntry struct {
	Date        string `yaml:"date"`
	Description string `yaml:"description"`
}

// LoadTable reads a holiday table from a YAML file.
// Entries filed under the wrong year are rejected rather than silently
// re-filed, so config mistakes surface at startup.
func LoadTable(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read holiday table: %w", err)
	}
	return ParseTable(raw)
}

// ParseTable parses YAML holiday table content.
func ParseTable(raw []byte) (*Table, error) {
	var file holidayFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse holiday table: %w", err)
	}

	var holidays []Holiday
	for year, entries := range file.Holidays {
		for _, e := range entries {
			d, err := ParseDate(e.Date)
			if err != nil {
				return nil, fmt.Errorf("holiday table year %d: %w", year, err)
			}
			if d.Year() != year {
				return nil, fmt.Errorf("holiday %s filed under year %d", d, year)
			}
			holidays = append(holidays, Holiday{Date: d, Description: e.Description})
		}
	}
	return NewTable(holidays), nil
}
