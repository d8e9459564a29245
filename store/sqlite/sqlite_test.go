package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/schedule-engine/calendar"
	"github.com/warp/schedule-engine/recurrence"
	"github.com/warp/schedule-engine/schedule"
	"github.com/warp/schedule-engine/store/sqlite"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func inputs(dates ...calendar.Date) []schedule.ScheduledDateInput {
	out := make([]schedule.ScheduledDateInput, len(dates))
	for i, d := range dates {
		out[i] = schedule.ScheduledDateInput{Date: d}
	}
	return out
}

func TestSQLite_ClientRoundTrip(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	rule, err := recurrence.NewNthWeekday(calendar.Wednesday, 2, 4)
	require.NoError(t, err)
	days, err := recurrence.NewSpecificDays(10, 25)
	require.NoError(t, err)

	created, err := store.CreateClient(ctx, schedule.Client{
		Name: "Acme", Country: "ES", Type: "retail", Region: "north",
		Rules: map[schedule.Activity]recurrence.Rule{
			schedule.ActivityDispatchComplete: rule,
			schedule.ActivityInvoicing:        days,
		},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID, "ID is minted when absent")

	got, err := store.GetClient(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Name)
	assert.Equal(t, "ES", got.Country)
	require.Len(t, got.Rules, 2)
	assert.Equal(t, rule, got.Rules[schedule.ActivityDispatchComplete], "rule configs survive storage")
	assert.Equal(t, days, got.Rules[schedule.ActivityInvoicing])
}

func TestSQLite_GetClient_NotFound(t *testing.T) {
	store := newStore(t)

	_, err := store.GetClient(context.Background(), "ghost")
	assert.ErrorIs(t, err, schedule.ErrClientNotFound)
}

func TestSQLite_ListClients_Filtered(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	_, err := store.CreateClient(ctx, schedule.Client{ID: "b", Name: "Beta", Country: "ES"})
	require.NoError(t, err)
	_, err = store.CreateClient(ctx, schedule.Client{ID: "a", Name: "Alpha", Country: "PT"})
	require.NoError(t, err)

	all, err := store.ListClients(ctx, schedule.ClientFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Alpha", all[0].Name, "ordered by name")

	es, err := store.ListClients(ctx, schedule.ClientFilter{Country: "ES"})
	require.NoError(t, err)
	require.Len(t, es, 1)
	assert.Equal(t, schedule.ClientID("b"), es[0].ID)
}

func TestSQLite_ReplaceYear(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	_, err := store.CreateClient(ctx, schedule.Client{ID: "c1", Name: "Acme"})
	require.NoError(t, err)

	// Unsorted input: positions follow date order, not input order.
	n, err := store.ReplaceYear(ctx, "c1", schedule.ActivityDispatchComplete, 2025, inputs(
		calendar.NewDate(2025, time.March, 5),
		calendar.NewDate(2025, time.January, 8),
		calendar.NewDate(2025, time.February, 12),
	))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	dates, err := store.GetDates(ctx, "c1", schedule.ActivityDispatchComplete)
	require.NoError(t, err)
	require.Len(t, dates, 3)
	assert.Equal(t, calendar.NewDate(2025, time.January, 8), dates[0].Date)
	assert.Equal(t, 1, dates[0].Position)
	assert.Equal(t, 3, dates[2].Position)
}

func TestSQLite_ReplaceYear_PreservesOtherYearsAndActivities(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	_, err := store.CreateClient(ctx, schedule.Client{ID: "c1", Name: "Acme"})
	require.NoError(t, err)

	_, err = store.ReplaceYear(ctx, "c1", schedule.ActivityDispatchComplete, 2024,
		inputs(calendar.NewDate(2024, time.June, 3)))
	require.NoError(t, err)
	_, err = store.ReplaceYear(ctx, "c1", schedule.ActivityDelivery, 2025,
		inputs(calendar.NewDate(2025, time.June, 5)))
	require.NoError(t, err)

	_, err = store.ReplaceYear(ctx, "c1", schedule.ActivityDispatchComplete, 2025,
		inputs(calendar.NewDate(2025, time.June, 2), calendar.NewDate(2025, time.July, 7)))
	require.NoError(t, err)

	all, err := store.GetDates(ctx, "c1", "")
	require.NoError(t, err)
	assert.Len(t, all, 4, "2024 dispatch and 2025 delivery rows survive")

	dispatch, err := store.GetDates(ctx, "c1", schedule.ActivityDispatchComplete)
	require.NoError(t, err)
	assert.Len(t, dispatch, 3)
	assert.Equal(t, calendar.NewDate(2024, time.June, 3), dispatch[0].Date)
}

func TestSQLite_ReplaceYear_EmptyClearsYear(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	_, err := store.CreateClient(ctx, schedule.Client{ID: "c1", Name: "Acme"})
	require.NoError(t, err)

	_, err = store.ReplaceYear(ctx, "c1", schedule.ActivityDispatchComplete, 2025,
		inputs(calendar.NewDate(2025, time.June, 2)))
	require.NoError(t, err)

	n, err := store.ReplaceYear(ctx, "c1", schedule.ActivityDispatchComplete, 2025, nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	dates, err := store.GetDates(ctx, "c1", schedule.ActivityDispatchComplete)
	require.NoError(t, err)
	assert.Empty(t, dates)
}
