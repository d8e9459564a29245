package anomaly_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/schedule-engine/anomaly"
	"github.com/warp/schedule-engine/calendar"
	"github.com/warp/schedule-engine/recurrence"
	"github.com/warp/schedule-engine/schedule"
	memstore "github.com/warp/schedule-engine/schedule/store"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func date(year int, month time.Month, day int) calendar.Date {
	return calendar.NewDate(year, month, day)
}

func mustRule(t *testing.T, w calendar.Weekday, occurrences ...int) recurrence.Rule {
	t.Helper()
	rule, err := recurrence.NewNthWeekday(w, occurrences...)
	require.NoError(t, err)
	return rule
}

func seedClient(t *testing.T, mem *memstore.Memory, c schedule.Client) schedule.Client {
	t.Helper()
	created, err := mem.CreateClient(context.Background(), c)
	require.NoError(t, err)
	return *created
}

func seedDates(t *testing.T, mem *memstore.Memory, id schedule.ClientID, activity schedule.Activity, year int, dates ...calendar.Date) {
	t.Helper()
	inputs := make([]schedule.ScheduledDateInput, len(dates))
	for i, d := range dates {
		inputs[i] = schedule.ScheduledDateInput{Date: d}
	}
	_, err := mem.ReplaceYear(context.Background(), id, activity, year, inputs)
	require.NoError(t, err)
}

func newDetector(mem *memstore.Memory, holidays *calendar.Table) *anomaly.Detector {
	if holidays == nil {
		holidays = calendar.EmptyTable()
	}
	return &anomaly.Detector{Store: mem, Directory: mem, Holidays: holidays}
}

// =============================================================================
// ORDERING CHECK
// =============================================================================

func TestDetect_OrderingAnomaly(t *testing.T) {
	// GIVEN: dispatch at position 3 on June 15 but delivery at position 3
	//        on June 10
	// THEN: position 3 is flagged for June

	mem := memstore.NewMemory()
	client := seedClient(t, mem, schedule.Client{ID: "c1", Name: "Acme"})

	seedDates(t, mem, client.ID, schedule.ActivityDispatchComplete, 2025,
		date(2025, time.April, 10), date(2025, time.May, 10), date(2025, time.June, 15))
	seedDates(t, mem, client.ID, schedule.ActivityDelivery, 2025,
		date(2025, time.April, 12), date(2025, time.May, 12), date(2025, time.June, 10))

	report, err := newDetector(mem, nil).Detect(context.Background(), 2025, time.June)
	require.NoError(t, err)

	require.Len(t, report.Ordering, 1)
	a := report.Ordering[0]
	assert.Equal(t, schedule.ClientID("c1"), a.ClientID)
	assert.Equal(t, 3, a.Position)
	assert.Equal(t, date(2025, time.June, 15), a.DispatchDate)
	assert.Equal(t, date(2025, time.June, 10), a.DeliveryDate)

	// Ordering anomalies do not count toward the affected-client union.
	assert.Equal(t, 0, report.TotalAffectedClients)
}

func TestDetect_OrderingIgnoresPairsOutsideMonth(t *testing.T) {
	mem := memstore.NewMemory()
	client := seedClient(t, mem, schedule.Client{ID: "c1", Name: "Acme"})

	// Dispatch after delivery, but both dates in March.
	seedDates(t, mem, client.ID, schedule.ActivityDispatchComplete, 2025, date(2025, time.March, 20))
	seedDates(t, mem, client.ID, schedule.ActivityDelivery, 2025, date(2025, time.March, 10))

	report, err := newDetector(mem, nil).Detect(context.Background(), 2025, time.June)
	require.NoError(t, err)
	assert.Empty(t, report.Ordering)

	marchReport, err := newDetector(mem, nil).Detect(context.Background(), 2025, time.March)
	require.NoError(t, err)
	assert.Len(t, marchReport.Ordering, 1)
}

func TestCheckOrdering_SortedByPosition(t *testing.T) {
	client := schedule.Client{ID: "c1", Name: "Acme"}
	dispatch := []schedule.ScheduledDate{
		{ClientID: "c1", Position: 2, Date: date(2025, time.June, 25)},
		{ClientID: "c1", Position: 1, Date: date(2025, time.June, 20)},
	}
	delivery := []schedule.ScheduledDate{
		{ClientID: "c1", Position: 1, Date: date(2025, time.June, 5)},
		{ClientID: "c1", Position: 2, Date: date(2025, time.June, 6)},
	}

	anomalies := anomaly.CheckOrdering(client, dispatch, delivery, 2025, time.June)
	require.Len(t, anomalies, 2)
	assert.Equal(t, 1, anomalies[0].Position)
	assert.Equal(t, 2, anomalies[1].Position)
}

// =============================================================================
// INCOMPLETE WEEK CHECK
// =============================================================================

func TestDetect_IncompleteWeekAnomaly(t *testing.T) {
	// March 2025 starts Saturday and ends Monday: only Monday is affected.
	mem := memstore.NewMemory()
	monClient := seedClient(t, mem, schedule.Client{
		ID: "mon", Name: "Monday Corp",
		Rules: map[schedule.Activity]recurrence.Rule{
			schedule.ActivityDispatchComplete: mustRule(t, calendar.Monday, 1, 3),
		},
	})
	wedClient := seedClient(t, mem, schedule.Client{
		ID: "wed", Name: "Wednesday Corp",
		Rules: map[schedule.Activity]recurrence.Rule{
			schedule.ActivityDispatchComplete: mustRule(t, calendar.Wednesday, 1),
		},
	})

	seedDates(t, mem, monClient.ID, schedule.ActivityDispatchComplete, 2025,
		date(2025, time.March, 3), date(2025, time.March, 17))
	seedDates(t, mem, wedClient.ID, schedule.ActivityDispatchComplete, 2025,
		date(2025, time.March, 5))

	report, err := newDetector(mem, nil).Detect(context.Background(), 2025, time.March)
	require.NoError(t, err)

	require.Len(t, report.IncompleteWeeks, 2)
	for _, a := range report.IncompleteWeeks {
		assert.Equal(t, schedule.ClientID("mon"), a.ClientID)
		assert.Equal(t, calendar.Monday, a.Weekday)
		assert.Equal(t, "Incomplete week affects Monday", a.Reason)
	}
	assert.Equal(t, 1, report.TotalAffectedClients)
}

func TestDetect_IncompleteWeekEmptyWhenNoAffectedWeekdays(t *testing.T) {
	// February 2021 has no truncated weeks.
	mem := memstore.NewMemory()
	client := seedClient(t, mem, schedule.Client{
		ID: "c1", Name: "Acme",
		Rules: map[schedule.Activity]recurrence.Rule{
			schedule.ActivityDispatchComplete: mustRule(t, calendar.Monday, 1),
		},
	})
	seedDates(t, mem, client.ID, schedule.ActivityDispatchComplete, 2021,
		date(2021, time.February, 1))

	report, err := newDetector(mem, nil).Detect(context.Background(), 2021, time.February)
	require.NoError(t, err)
	assert.Empty(t, report.IncompleteWeeks)
}

func TestDetect_IncompleteWeekSkipsSpecificDayRules(t *testing.T) {
	mem := memstore.NewMemory()
	rule, err := recurrence.NewSpecificDays(10, 25)
	require.NoError(t, err)

	client := seedClient(t, mem, schedule.Client{
		ID: "c1", Name: "Acme",
		Rules: map[schedule.Activity]recurrence.Rule{
			schedule.ActivityDispatchComplete: rule,
		},
	})
	seedDates(t, mem, client.ID, schedule.ActivityDispatchComplete, 2025,
		date(2025, time.March, 10))

	report, err := newDetector(mem, nil).Detect(context.Background(), 2025, time.March)
	require.NoError(t, err)
	assert.Empty(t, report.IncompleteWeeks, "rules without a weekday identity are skipped")
}

// =============================================================================
// HOLIDAY CHECK
// =============================================================================

func TestDetect_HolidayAnomaly(t *testing.T) {
	table := calendar.NewTable([]calendar.Holiday{
		{Date: date(2025, time.May, 1), Description: "Labor Day"},
	})

	mem := memstore.NewMemory()
	hit := seedClient(t, mem, schedule.Client{ID: "hit", Name: "Hit SA"})
	miss := seedClient(t, mem, schedule.Client{ID: "miss", Name: "Miss SA"})

	seedDates(t, mem, hit.ID, schedule.ActivityDispatchComplete, 2025, date(2025, time.May, 1))
	seedDates(t, mem, miss.ID, schedule.ActivityDispatchComplete, 2025, date(2025, time.May, 2))

	report, err := newDetector(mem, table).Detect(context.Background(), 2025, time.May)
	require.NoError(t, err)

	require.Len(t, report.Holidays, 1)
	a := report.Holidays[0]
	assert.Equal(t, schedule.ClientID("hit"), a.ClientID)
	assert.Equal(t, "Labor Day", a.HolidayDescription)
	assert.Equal(t, "Falls on holiday: Labor Day", a.Reason)
	assert.Equal(t, 1, report.TotalAffectedClients)
}

func TestDetect_HolidayEmptyWhenMonthHasNone(t *testing.T) {
	mem := memstore.NewMemory()
	client := seedClient(t, mem, schedule.Client{ID: "c1", Name: "Acme"})
	seedDates(t, mem, client.ID, schedule.ActivityDispatchComplete, 2025, date(2025, time.June, 2))

	report, err := newDetector(mem, calendar.EmptyTable()).Detect(context.Background(), 2025, time.June)
	require.NoError(t, err)
	assert.Empty(t, report.Holidays)
}

// =============================================================================
// AGGREGATE REPORT
// =============================================================================

func TestDetect_AffectedClientUnionAndShare(t *testing.T) {
	table := calendar.NewTable([]calendar.Holiday{
		{Date: date(2025, time.March, 19), Description: "San José"},
	})

	mem := memstore.NewMemory()

	// Client A: incomplete-week AND holiday anomalies - counted once.
	a := seedClient(t, mem, schedule.Client{
		ID: "a", Name: "Alpha",
		Rules: map[schedule.Activity]recurrence.Rule{
			schedule.ActivityDispatchComplete: mustRule(t, calendar.Monday, 1),
		},
	})
	seedDates(t, mem, a.ID, schedule.ActivityDispatchComplete, 2025,
		date(2025, time.March, 3), date(2025, time.March, 19))

	// Client B: ordering anomaly only - excluded from the union.
	b := seedClient(t, mem, schedule.Client{ID: "b", Name: "Beta"})
	seedDates(t, mem, b.ID, schedule.ActivityDispatchComplete, 2025, date(2025, time.March, 20))
	seedDates(t, mem, b.ID, schedule.ActivityDelivery, 2025, date(2025, time.March, 10))

	// Client C: clean.
	seedClient(t, mem, schedule.Client{ID: "c", Name: "Gamma"})

	report, err := newDetector(mem, table).Detect(context.Background(), 2025, time.March)
	require.NoError(t, err)

	assert.NotEmpty(t, report.Ordering)
	assert.NotEmpty(t, report.IncompleteWeeks)
	assert.NotEmpty(t, report.Holidays)
	assert.Equal(t, 1, report.TotalAffectedClients)
	assert.Equal(t, "0.3333", report.AffectedShare.String())
}

func TestDetect_EmptyDirectory(t *testing.T) {
	mem := memstore.NewMemory()
	report, err := newDetector(mem, nil).Detect(context.Background(), 2025, time.June)
	require.NoError(t, err)
	assert.True(t, report.Empty())
	assert.Equal(t, 0, report.TotalAffectedClients)
	assert.True(t, report.AffectedShare.IsZero())
}
