/*
Package anomaly detects structural risks in populated schedules.

PURPOSE:
  Given a month's worth of stored schedules, the holiday table, and the
  incomplete-week analysis, this package finds three anomaly classes that
  threaten on-time compliance:
    1. Ordering:        dispatch-complete after the paired delivery
    2. Incomplete week: rule weekday sits in a truncated boundary week
    3. Holiday:         dispatch-complete lands on a non-working date

KEY CONCEPTS IN THIS FILE (types.go):
  - One record type per anomaly class, each carrying enough client
    identity to render a report row
  - Report: the aggregate the reporting/UI collaborators consume

AFFECTED-CLIENT COUNT:
  Report.TotalAffectedClients counts the union of clients with
  incomplete-week or holiday anomalies. Ordering-anomaly clients are
  intentionally excluded from that union.

SEE ALSO:
  - detector.go: the three checks
*/
package anomaly

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/schedule-engine/calendar"
	"github.com/warp/schedule-engine/schedule"
)

// =============================================================================
// ANOMALY RECORDS
// =============================================================================

// OrderAnomaly flags a position whose dispatch-complete date falls after
// its paired delivery date.
type OrderAnomaly struct {
	ClientID     schedule.ClientID
	ClientName   string
	Position     int
	DispatchDate calendar.Date
	DeliveryDate calendar.Date
}

// IncompleteWeekAnomaly flags a dispatch-complete date whose rule weekday
// is under-represented this month.
type IncompleteWeekAnomaly struct {
	ClientID   schedule.ClientID
	ClientName string
	Date       calendar.Date
	Weekday    calendar.Weekday
	Reason     string
}

// HolidayAnomaly flags a dispatch-complete date landing on a holiday.
type HolidayAnomaly struct {
	ClientID           schedule.ClientID
	ClientName         string
	Date               calendar.Date
	HolidayDescription string
	Reason             string
}

// =============================================================================
// REPORT
// =============================================================================

// Report aggregates one month's anomaly detection.
type Report struct {
	Year  int
	Month time.Month

	Ordering        []OrderAnomaly
	IncompleteWeeks []IncompleteWeekAnomaly
	Holidays        []HolidayAnomaly

	// TotalAffectedClients counts distinct clients across the
	// incomplete-week and holiday lists only.
	TotalAffectedClients int

	// AffectedShare is TotalAffectedClients over the number of clients
	// examined, rounded to four places. Zero when no clients exist.
	AffectedShare decimal.Decimal
}

// Empty reports whether no anomaly of any class was found.
func (r *Report) Empty() bool {
	return len(r.Ordering) == 0 && len(r.IncompleteWeeks) == 0 && len(r.Holidays) == 0
}
