package calendar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/warp/schedule-engine/calendar"
)

func TestAnalyzeMonth_FirstDayWednesday(t *testing.T) {
	// October 2025 starts on a Wednesday.
	info := calendar.AnalyzeMonth(2025, time.October)

	assert.Equal(t, []calendar.Weekday{calendar.Monday, calendar.Tuesday}, info.FirstWeekMissing)
	assert.Equal(t, []calendar.Weekday{calendar.Wednesday, calendar.Thursday, calendar.Friday}, info.FirstWeekPresent)

	assert.True(t, info.IsAffected(calendar.Wednesday))
	assert.True(t, info.IsAffected(calendar.Thursday))
	assert.True(t, info.IsAffected(calendar.Friday))
}

func TestAnalyzeMonth_FirstDaySaturday(t *testing.T) {
	// March 2025 starts on a Saturday: the first week holds no business
	// day at all, and it ends on a Monday.
	info := calendar.AnalyzeMonth(2025, time.March)

	assert.Equal(t, []calendar.Weekday{
		calendar.Monday, calendar.Tuesday, calendar.Wednesday, calendar.Thursday, calendar.Friday,
	}, info.FirstWeekMissing)
	assert.Empty(t, info.FirstWeekPresent)

	assert.Equal(t, []calendar.Weekday{calendar.Monday}, info.LastWeekPresent)
	assert.Equal(t, []calendar.Weekday{
		calendar.Tuesday, calendar.Wednesday, calendar.Thursday, calendar.Friday,
	}, info.LastWeekMissing)

	// Only Monday sits in a truncated week.
	assert.True(t, info.IsAffected(calendar.Monday))
	assert.False(t, info.IsAffected(calendar.Tuesday))
	assert.False(t, info.IsAffected(calendar.Friday))
}

func TestAnalyzeMonth_CompleteMonth(t *testing.T) {
	// February 2021: starts Monday, ends Sunday - no truncation at all.
	info := calendar.AnalyzeMonth(2021, time.February)

	assert.Empty(t, info.FirstWeekMissing)
	assert.Empty(t, info.FirstWeekPresent)
	assert.Empty(t, info.LastWeekMissing)
	assert.Empty(t, info.LastWeekPresent)
	assert.False(t, info.HasAffected())
}

func TestAnalyzeMonth_NeverIncludesWeekends(t *testing.T) {
	for year := 2020; year <= 2026; year++ {
		for month := time.January; month <= time.December; month++ {
			info := calendar.AnalyzeMonth(year, month)

			all := append([]calendar.Weekday{}, info.FirstWeekMissing...)
			all = append(all, info.FirstWeekPresent...)
			all = append(all, info.LastWeekMissing...)
			all = append(all, info.LastWeekPresent...)
			for w := range info.AffectedWeekdays {
				all = append(all, w)
			}

			for _, w := range all {
				assert.True(t, w.IsBusinessDay(), "%d-%s leaked %s", year, month, w)
			}
		}
	}
}

func TestAnalyzeMonth_AffectedIsUnionOfPresent(t *testing.T) {
	info := calendar.AnalyzeMonth(2025, time.October)

	expected := make(map[calendar.Weekday]bool)
	for _, w := range info.FirstWeekPresent {
		expected[w] = true
	}
	for _, w := range info.LastWeekPresent {
		expected[w] = true
	}
	assert.Equal(t, expected, info.AffectedWeekdays)
}
