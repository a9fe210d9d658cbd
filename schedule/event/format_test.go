package event

import (
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyp0633/courseplan/schedule"
)

func sampleEvents() []schedule.ResolvedEvent {
	return []schedule.ResolvedEvent{
		{
			Date:  schedule.MustParseDate("2025-01-06"),
			Times: mo.Some(schedule.TimePair{Start: 9 * 60, End: 12 * 60}),
			Type:  schedule.EventClassSession,
		},
		{
			Date:              schedule.MustParseDate("2025-01-08"),
			Times:             mo.None[schedule.TimePair](),
			Type:              schedule.EventPublicHoliday,
			AllDay:            true,
			Label:             "New Year Holiday",
			SuppressedSession: true,
		},
		{
			Date:              schedule.MustParseDate("2025-01-10"),
			Times:             mo.None[schedule.TimePair](),
			Type:              schedule.EventException,
			AllDay:            true,
			Label:             "trainer away",
			SuppressedSession: true,
		},
		{
			Date:   schedule.MustParseDate("2025-01-19"),
			Times:  mo.None[schedule.TimePair](),
			Type:   schedule.EventStopDate,
			AllDay: true,
		},
	}
}

func TestFormat_SessionShape(t *testing.T) {
	out := Format(sampleEvents())
	require.Len(t, out, 4)

	session := out[0]
	assert.Equal(t, "Class Session", session.Title)
	assert.Equal(t, "2025-01-06T09:00:00", session.Start)
	assert.Equal(t, "2025-01-06T12:00:00", session.End)
	assert.False(t, session.AllDay)
	assert.Equal(t, "class_session", session.Type)
	assert.Equal(t, "3.0", session.ExtendedProps["hours"])
}

func TestFormat_MarkerShapes(t *testing.T) {
	out := Format(sampleEvents())

	holiday := out[1]
	assert.Equal(t, "Public Holiday: New Year Holiday", holiday.Title)
	assert.Equal(t, "2025-01-08", holiday.Start)
	assert.Empty(t, holiday.End)
	assert.True(t, holiday.AllDay)
	assert.Equal(t, "New Year Holiday", holiday.ExtendedProps["holiday"])
	assert.Equal(t, "true", holiday.ExtendedProps["suppressedSession"])

	exception := out[2]
	assert.Equal(t, "Exception: trainer away", exception.Title)
	assert.Equal(t, "trainer away", exception.ExtendedProps["reason"])

	stop := out[3]
	assert.Equal(t, "Class Stopped", stop.Title)
	assert.True(t, stop.AllDay)
	assert.Nil(t, stop.ExtendedProps)
}

func TestFormat_StableIDs(t *testing.T) {
	first := Format(sampleEvents())
	second := Format(sampleEvents())

	// Formatting is idempotent: identical input yields identical output,
	// IDs included.
	assert.Equal(t, first, second)

	// IDs are distinct across dates and across types on the same date.
	ids := make(map[string]bool)
	for _, e := range first {
		assert.False(t, ids[e.ID], "duplicate id %s", e.ID)
		ids[e.ID] = true
	}

	sameDateOtherType := Format([]schedule.ResolvedEvent{{
		Date:   schedule.MustParseDate("2025-01-06"),
		Times:  mo.None[schedule.TimePair](),
		Type:   schedule.EventException,
		AllDay: true,
	}})
	assert.NotEqual(t, first[0].ID, sameDateOtherType[0].ID)
}
