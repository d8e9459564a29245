/*
legacy.go - Legacy frequency-name translation

PURPOSE:
  Older client records carry free-text frequency labels like "2º y 4º
  miércoles" instead of structured rules. This adapter maps such labels to
  a canonical weekday by substring search, case-insensitively and tolerant
  of accented characters. It exists ONLY for the ingestion boundary; inside
  the engine a rule's weekday is always the explicit enum field.

MATCHING:
  - Input is lowercased and accent-folded before matching.
  - Spanish and English weekday names are recognized.
  - Saturday and Sunday tokens never match: legacy data scheduling on
    weekends is treated as unrecognized.

SEE ALSO:
  - factory/rule.go: the only caller
*/
package recurrence

import (
	"strings"

	"github.com/warp/schedule-engine/calendar"
)

var accentFolder = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u",
)

// Business weekday tokens only. Order matters: "martes" must be probed
// before any token it could contain (none today, but keep it explicit).
var legacyWeekdayTokens = []struct {
	token   string
	weekday calendar.Weekday
}{
	{"lunes", calendar.Monday},
	{"monday", calendar.Monday},
	{"martes", calendar.Tuesday},
	{"tuesday", calendar.Tuesday},
	{"miercoles", calendar.Wednesday},
	{"wednesday", calendar.Wednesday},
	{"jueves", calendar.Thursday},
	{"thursday", calendar.Thursday},
	{"viernes", calendar.Friday},
	{"friday", calendar.Friday},
}

// WeekdayFromLegacyName extracts a business weekday from a legacy
// frequency label. Returns false when no business-weekday token appears.
func WeekdayFromLegacyName(name string) (calendar.Weekday, bool) {
	folded := accentFolder.Replace(strings.ToLower(name))
	for _, entry := range legacyWeekdayTokens {
		if strings.Contains(folded, entry.token) {
			return entry.weekday, true
		}
	}
	return 0, false
}
