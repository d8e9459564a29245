/*
detector.go - The three anomaly checks

PURPOSE:
  Composes the holiday table, the incomplete-week analyzer, and stored
  schedules into a monthly anomaly report. Each check is independent and
  returns an empty collection on empty input - "no anomalies" is success,
  not an error. Store failures propagate unchanged.

CHECK SCOPES:
  - Ordering: pairs dispatch-complete and delivery dates by position;
    flags dispatch > delivery where either date is inside the month.
  - Incomplete week: skipped unless the month has affected weekdays; then
    every in-month dispatch date of a client whose rule weekday is
    affected is flagged.
  - Holiday: skipped unless the month has holidays; exact-date matches.

ORDERING OF RESULTS:
  Clients are walked in directory order (name ascending), positions
  ascending, so report rows are deterministic.

SEE ALSO:
  - types.go: record and report definitions
  - calendar/weeks.go: AnalyzeMonth
*/
package anomaly

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/schedule-engine/calendar"
	"github.com/warp/schedule-engine/schedule"
)

// =============================================================================
// DETECTOR
// =============================================================================

// Detector runs the monthly anomaly checks against stored schedules.
type Detector struct {
	Store     schedule.Store
	Directory schedule.ClientDirectory
	Holidays  *calendar.Table
}

// Detect builds the anomaly report for a month. Empty findings yield an
// empty report; data-source failures are returned as-is.
func (d *Detector) Detect(ctx context.Context, year int, month time.Month) (*Report, error) {
	clients, err := d.Directory.ListClients(ctx, schedule.ClientFilter{})
	if err != nil {
		return nil, err
	}

	weekInfo := calendar.AnalyzeMonth(year, month)
	holidays := d.Holidays.InMonth(year, month)

	report := &Report{Year: year, Month: month}
	affected := make(map[schedule.ClientID]bool)

	for _, client := range clients {
		dispatch, err := d.Store.GetDates(ctx, client.ID, schedule.ActivityDispatchComplete)
		if err != nil {
			return nil, err
		}
		delivery, err := d.Store.GetDates(ctx, client.ID, schedule.ActivityDelivery)
		if err != nil {
			return nil, err
		}

		report.Ordering = append(report.Ordering,
			CheckOrdering(client, dispatch, delivery, year, month)...)

		weeks := CheckIncompleteWeeks(client, dispatch, weekInfo)
		report.IncompleteWeeks = append(report.IncompleteWeeks, weeks...)

		hols := CheckHolidays(client, dispatch, holidays, year, month)
		report.Holidays = append(report.Holidays, hols...)

		// Ordering-anomaly clients do not count toward the affected union.
		if len(weeks) > 0 || len(hols) > 0 {
			affected[client.ID] = true
		}
	}

	report.TotalAffectedClients = len(affected)
	if len(clients) > 0 {
		report.AffectedShare = decimal.NewFromInt(int64(report.TotalAffectedClients)).
			Div(decimal.NewFromInt(int64(len(clients)))).
			Round(4)
	}
	return report, nil
}

// =============================================================================
// ORDERING CHECK
// =============================================================================

// CheckOrdering joins dispatch-complete and delivery dates by position and
// flags pairs where dispatch falls after delivery, restricted to pairs
// where either date is inside the target month. Results are ordered by
// position.
func CheckOrdering(client schedule.Client, dispatch, delivery []schedule.ScheduledDate, year int, month time.Month) []OrderAnomaly {
	deliveryByPos := make(map[int]schedule.ScheduledDate, len(delivery))
	for _, d := range delivery {
		if d.Date.Year() == year {
			deliveryByPos[d.Position] = d
		}
	}

	var anomalies []OrderAnomaly
	for _, disp := range dispatch {
		if disp.Date.Year() != year {
			continue
		}
		del, ok := deliveryByPos[disp.Position]
		if !ok {
			continue
		}
		if !disp.Date.InMonth(year, month) && !del.Date.InMonth(year, month) {
			continue
		}
		if disp.Date.After(del.Date) {
			anomalies = append(anomalies, OrderAnomaly{
				ClientID:     client.ID,
				ClientName:   client.Name,
				Position:     disp.Position,
				DispatchDate: disp.Date,
				DeliveryDate: del.Date,
			})
		}
	}

	sort.Slice(anomalies, func(i, j int) bool { return anomalies[i].Position < anomalies[j].Position })
	return anomalies
}

// =============================================================================
// INCOMPLETE WEEK CHECK
// =============================================================================

// CheckIncompleteWeeks flags the client's in-month dispatch-complete dates
// when the client's rule weekday sits in a truncated boundary week.
// Rules without a weekday identity (specific-days) are skipped.
func CheckIncompleteWeeks(client schedule.Client, dispatch []schedule.ScheduledDate, info calendar.IncompleteWeekInfo) []IncompleteWeekAnomaly {
	if !info.HasAffected() {
		return nil
	}

	rule, ok := client.RuleFor(schedule.ActivityDispatchComplete)
	if !ok || !rule.HasWeekday() {
		return nil
	}
	if !info.IsAffected(rule.Weekday) {
		return nil
	}

	var anomalies []IncompleteWeekAnomaly
	for _, d := range dispatch {
		if !d.Date.InMonth(info.Year, info.Month) {
			continue
		}
		anomalies = append(anomalies, IncompleteWeekAnomaly{
			ClientID:   client.ID,
			ClientName: client.Name,
			Date:       d.Date,
			Weekday:    rule.Weekday,
			Reason:     "Incomplete week affects " + rule.Weekday.String(),
		})
	}
	return anomalies
}

// =============================================================================
// HOLIDAY CHECK
// =============================================================================

// CheckHolidays flags the client's in-month dispatch-complete dates that
// land exactly on a holiday.
func CheckHolidays(client schedule.Client, dispatch []schedule.ScheduledDate, holidays []calendar.Holiday, year int, month time.Month) []HolidayAnomaly {
	if len(holidays) == 0 {
		return nil
	}

	byDate := make(map[string]calendar.Holiday, len(holidays))
	for _, h := range holidays {
		byDate[h.Date.String()] = h
	}

	var anomalies []HolidayAnomaly
	for _, d := range dispatch {
		if !d.Date.InMonth(year, month) {
			continue
		}
		h, ok := byDate[d.Date.String()]
		if !ok {
			continue
		}
		anomalies = append(anomalies, HolidayAnomaly{
			ClientID:           client.ID,
			ClientName:         client.Name,
			Date:               d.Date,
			HolidayDescription: h.Description,
			Reason:             "Falls on holiday: " + h.Description,
		})
	}
	return anomalies
}
