package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-01-06")
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2025, Month: time.January, Day: 6}, d)
	assert.Equal(t, "2025-01-06", d.String())
	assert.Equal(t, time.Monday, d.Weekday())

	_, err = ParseDate("06/01/2025")
	assert.Error(t, err)

	_, err = ParseDate("2025-13-40")
	assert.Error(t, err)
}

func TestDateArithmetic(t *testing.T) {
	d := MustParseDate("2025-01-30")

	assert.Equal(t, MustParseDate("2025-02-01"), d.AddDays(2))
	assert.Equal(t, MustParseDate("2025-01-28"), d.AddDays(-2))
	assert.Equal(t, MustParseDate("2026-01-30"), d.AddYears(1))

	assert.Equal(t, 2, d.DaysUntil(MustParseDate("2025-02-01")))
	assert.Equal(t, -1, d.DaysUntil(MustParseDate("2025-01-29")))

	assert.True(t, d.Before(MustParseDate("2025-01-31")))
	assert.True(t, d.After(MustParseDate("2024-12-31")))
	assert.Equal(t, 0, d.Compare(MustParseDate("2025-01-30")))
}

func TestTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("09:30")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay(9*60+30), tod)
	assert.Equal(t, "09:30", tod.String())

	_, err = ParseTimeOfDay("9:30pm")
	assert.Error(t, err)
}

func TestTimePairHours(t *testing.T) {
	pair := TimePair{Start: 9 * 60, End: 12 * 60}
	assert.True(t, pair.Valid())
	assert.Equal(t, 3.0, pair.Hours())

	// 100 minutes is 1.666... hours unrounded, 1.7 for display.
	short := TimePair{Start: 10 * 60, End: 11*60 + 40}
	assert.InDelta(t, 1.6666, short.Hours(), 0.001)
	assert.Equal(t, 1.7, RoundHours(short.Hours()))

	assert.False(t, TimePair{Start: 12 * 60, End: 9 * 60}.Valid())
	assert.False(t, TimePair{Start: 9 * 60, End: 9 * 60}.Valid())
}

func TestStopPeriodContains(t *testing.T) {
	p := StopPeriod{Stop: MustParseDate("2025-02-03"), Restart: MustParseDate("2025-02-09")}

	assert.True(t, p.Contains(MustParseDate("2025-02-03")))
	assert.True(t, p.Contains(MustParseDate("2025-02-09")))
	assert.True(t, p.Contains(MustParseDate("2025-02-05")))
	assert.False(t, p.Contains(MustParseDate("2025-02-02")))
	assert.False(t, p.Contains(MustParseDate("2025-02-10")))
}
