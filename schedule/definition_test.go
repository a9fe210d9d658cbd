package schedule

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParsePayload_WeeklySingleTime(t *testing.T) {
	payload := []byte(`{
		"pattern": "weekly",
		"startDate": "2025-01-06",
		"selectedDays": ["friday", "monday", "wednesday"],
		"timeData": {"mode": "single", "startTime": "09:00", "endTime": "12:00"}
	}`)

	def, err := ParsePayload(payload)
	require.NoError(t, err)

	assert.Equal(t, PatternWeekly, def.Pattern)
	assert.Equal(t, MustParseDate("2025-01-06"), def.Start)
	// Weekday set is normalized to ascending order.
	assert.Equal(t, []time.Weekday{time.Monday, time.Wednesday, time.Friday}, def.Weekdays)
	assert.Equal(t, TimeModeSingle, def.TimeMode)
	assert.Equal(t, 3.0, def.SingleTime.Hours())
}

func TestParsePayload_PerDayTimes(t *testing.T) {
	payload := []byte(`{
		"pattern": "biweekly",
		"startDate": "2025-01-06",
		"selectedDays": ["monday", "thursday"],
		"timeData": {
			"mode": "per-day",
			"perDayTimes": {
				"monday": {"startTime": "09:00", "endTime": "11:00"},
				"thursday": {"startTime": "14:00", "endTime": "17:30"}
			}
		}
	}`)

	def, err := ParsePayload(payload)
	require.NoError(t, err)

	assert.Equal(t, PatternBiweekly, def.Pattern)
	require.Contains(t, def.PerDayTimes, time.Monday)
	require.Contains(t, def.PerDayTimes, time.Thursday)
	assert.Equal(t, 2.0, def.PerDayTimes[time.Monday].Hours())
	assert.Equal(t, 3.5, def.PerDayTimes[time.Thursday].Hours())
}

func TestParsePayload_MonthlyDayOfMonth(t *testing.T) {
	numeric := []byte(`{
		"pattern": "monthly",
		"startDate": "2025-01-01",
		"dayOfMonth": 31,
		"timeData": {"mode": "single", "startTime": "10:00", "endTime": "12:00"}
	}`)

	def, err := ParsePayload(numeric)
	require.NoError(t, err)
	assert.Equal(t, 31, def.MonthDay)

	last := []byte(`{
		"pattern": "monthly",
		"startDate": "2025-01-01",
		"dayOfMonth": "last",
		"timeData": {"mode": "single", "startTime": "10:00", "endTime": "12:00"}
	}`)

	def, err = ParsePayload(last)
	require.NoError(t, err)
	assert.Equal(t, MonthDayLast, def.MonthDay)
}

func TestParsePayload_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{
			name: "weekly without weekdays",
			payload: `{"pattern": "weekly", "startDate": "2025-01-06",
				"timeData": {"mode": "single", "startTime": "09:00", "endTime": "12:00"}}`,
		},
		{
			name: "monthly without day of month",
			payload: `{"pattern": "monthly", "startDate": "2025-01-06",
				"timeData": {"mode": "single", "startTime": "09:00", "endTime": "12:00"}}`,
		},
		{
			name: "end time before start time",
			payload: `{"pattern": "weekly", "startDate": "2025-01-06", "selectedDays": ["monday"],
				"timeData": {"mode": "single", "startTime": "12:00", "endTime": "09:00"}}`,
		},
		{
			name: "per-day mode missing selected weekday",
			payload: `{"pattern": "weekly", "startDate": "2025-01-06", "selectedDays": ["monday", "friday"],
				"timeData": {"mode": "per-day", "perDayTimes": {"monday": {"startTime": "09:00", "endTime": "12:00"}}}}`,
		},
		{
			name: "unknown pattern",
			payload: `{"pattern": "fortnightly", "startDate": "2025-01-06", "selectedDays": ["monday"],
				"timeData": {"mode": "single", "startTime": "09:00", "endTime": "12:00"}}`,
		},
		{
			name: "malformed start date",
			payload: `{"pattern": "weekly", "startDate": "Jan 6 2025", "selectedDays": ["monday"],
				"timeData": {"mode": "single", "startTime": "09:00", "endTime": "12:00"}}`,
		},
		{
			name: "custom without dates",
			payload: `{"pattern": "custom", "startDate": "2025-01-06",
				"timeData": {"mode": "single", "startTime": "09:00", "endTime": "12:00"}}`,
		},
		{
			name: "custom with stray weekday set",
			payload: `{"pattern": "custom", "startDate": "2025-01-06", "selectedDays": ["monday"],
				"customDates": ["2025-01-10"],
				"timeData": {"mode": "single", "startTime": "09:00", "endTime": "12:00"}}`,
		},
		{
			name: "custom with stray day of month",
			payload: `{"pattern": "custom", "startDate": "2025-01-06", "dayOfMonth": 15,
				"customDates": ["2025-01-10"],
				"timeData": {"mode": "single", "startTime": "09:00", "endTime": "12:00"}}`,
		},
		{
			name: "weekly with stray custom dates",
			payload: `{"pattern": "weekly", "startDate": "2025-01-06", "selectedDays": ["monday"],
				"customDates": ["2025-01-10"],
				"timeData": {"mode": "single", "startTime": "09:00", "endTime": "12:00"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePayload([]byte(tt.payload))
			require.Error(t, err)

			var schedErr *Error
			require.ErrorAs(t, err, &schedErr)
			assert.Equal(t, ErrInvalidDefinition, schedErr.Type)
		})
	}
}

func TestParsePayload_CustomDatesSortedAndDeduped(t *testing.T) {
	payload := []byte(`{
		"pattern": "custom",
		"startDate": "2025-01-06",
		"customDates": ["2025-01-24", "2025-01-10", "2025-01-24", "2025-01-10"],
		"timeData": {"mode": "single", "startTime": "09:00", "endTime": "10:00"}
	}`)

	def, err := ParsePayload(payload)
	require.NoError(t, err)

	assert.Equal(t, []Date{
		MustParseDate("2025-01-10"),
		MustParseDate("2025-01-24"),
	}, def.CustomDates)
}

func TestParseExceptions(t *testing.T) {
	dates := []string{"2025-01-17", "not-a-date", "2025-01-17", "2025-01-03"}
	reasons := []string{"trainer away", "bad row", "duplicate", "venue closed"}

	out := ParseExceptions(dates, reasons, discardLogger())

	// Malformed and duplicate rows dropped, result sorted by date.
	require.Len(t, out, 2)
	assert.Equal(t, MustParseDate("2025-01-03"), out[0].Date)
	assert.Equal(t, "venue closed", out[0].Reason)
	assert.Equal(t, MustParseDate("2025-01-17"), out[1].Date)
	assert.Equal(t, "trainer away", out[1].Reason)
}

func TestParseStopPeriods(t *testing.T) {
	rows := []StopPeriodPayload{
		{StopDate: "2025-02-03", RestartDate: "2025-02-09"},
		{StopDate: "2025-03-10", RestartDate: "2025-03-01"}, // restart before stop
		{StopDate: "garbage", RestartDate: "2025-04-01"},
		{StopDate: "2025-01-20", RestartDate: "2025-01-20"}, // single-day period is fine
	}

	out := ParseStopPeriods(rows, discardLogger())

	require.Len(t, out, 2)
	assert.Equal(t, MustParseDate("2025-01-20"), out[0].Stop)
	assert.Equal(t, MustParseDate("2025-01-20"), out[0].Restart)
	assert.Equal(t, MustParseDate("2025-02-03"), out[1].Stop)
}

func TestParseHolidayOverrides(t *testing.T) {
	out := ParseHolidayOverrides(map[string]bool{
		"2025-01-29": true,
		"2025-01-01": false,
		"bogus":      true,
	}, discardLogger())

	require.Len(t, out, 2)
	assert.True(t, out[MustParseDate("2025-01-29")])
	assert.False(t, out[MustParseDate("2025-01-01")])
}
