package event

import (
	"io"
	"time"

	"github.com/emersion/go-ical"

	"github.com/cyp0633/courseplan/schedule"
)

// ICalendar builds a VCALENDAR from resolved events: timed VEVENTs for
// class sessions, all-day VEVENTs for markers. UIDs reuse the
// formatter's stable IDs and DTSTAMP derives from the event date, so the
// export is deterministic.
func ICalendar(events []schedule.ResolvedEvent) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//courseplan//Go Schedule Engine//EN")

	for _, e := range events {
		comp := ical.NewComponent(ical.CompEvent)
		comp.Props.SetText(ical.PropUID, eventID(e))
		comp.Props.SetText(ical.PropSummary, eventTitle(e))
		comp.Props.SetDateTime(ical.PropDateTimeStamp, e.Date.Time())

		if times, ok := e.Times.Get(); ok {
			comp.Props.SetDateTime(ical.PropDateTimeStart, atTime(e.Date, times.Start))
			comp.Props.SetDateTime(ical.PropDateTimeEnd, atTime(e.Date, times.End))
		} else {
			// All-day marker: midnight to midnight of the next day.
			comp.Props.SetDateTime(ical.PropDateTimeStart, e.Date.Time())
			comp.Props.SetDateTime(ical.PropDateTimeEnd, e.Date.AddDays(1).Time())
		}

		if e.Label != "" {
			comp.Props.SetText(ical.PropDescription, e.Label)
		}

		cal.Children = append(cal.Children, comp)
	}

	return cal
}

// EncodeICS writes the events as an ICS document.
func EncodeICS(w io.Writer, events []schedule.ResolvedEvent) error {
	return ical.NewEncoder(w).Encode(ICalendar(events))
}

// atTime anchors a date plus time-of-day in UTC, the engine's fixed
// policy for the ICS boundary.
func atTime(d schedule.Date, t schedule.TimeOfDay) time.Time {
	return d.Time().Add(time.Duration(t) * time.Minute)
}
