// Package event maps resolved schedule events into the uniform,
// UI-agnostic calendar-event shape that display layers render directly,
// and exports them as iCalendar data.
package event

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/cyp0633/courseplan/schedule"
)

// CalendarEvent is the external event contract. A calendar UI renders
// this record as-is; no further transformation is required.
type CalendarEvent struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	Start         string            `json:"start"`
	End           string            `json:"end,omitempty"`
	AllDay        bool              `json:"allDay"`
	Type          string            `json:"type"`
	ExtendedProps map[string]string `json:"extendedProps,omitempty"`
}

// eventNamespace seeds the SHA-1 UUIDs for event IDs. IDs are a pure
// function of date and type, so re-formatting identical input yields
// byte-identical output.
var eventNamespace = uuid.MustParse("b62703f4-6cf9-44d0-9a5c-7e3cc8e12a61")

// Format maps resolved events into calendar events, preserving order.
func Format(events []schedule.ResolvedEvent) []CalendarEvent {
	out := make([]CalendarEvent, 0, len(events))
	for _, e := range events {
		out = append(out, formatOne(e))
	}
	return out
}

func formatOne(e schedule.ResolvedEvent) CalendarEvent {
	ce := CalendarEvent{
		ID:     eventID(e),
		Title:  eventTitle(e),
		Start:  e.Date.String(),
		AllDay: true,
		Type:   string(e.Type),
	}

	if times, ok := e.Times.Get(); ok {
		ce.AllDay = false
		ce.Start = e.Date.String() + "T" + times.Start.String() + ":00"
		ce.End = e.Date.String() + "T" + times.End.String() + ":00"
		setProp(&ce, "hours", strconv.FormatFloat(schedule.RoundHours(times.Hours()), 'f', 1, 64))
	}

	switch e.Type {
	case schedule.EventPublicHoliday:
		setProp(&ce, "holiday", e.Label)
	case schedule.EventException:
		setProp(&ce, "reason", e.Label)
	}
	if e.SuppressedSession {
		setProp(&ce, "suppressedSession", "true")
	}

	return ce
}

func setProp(ce *CalendarEvent, key, value string) {
	if value == "" {
		return
	}
	if ce.ExtendedProps == nil {
		ce.ExtendedProps = make(map[string]string)
	}
	ce.ExtendedProps[key] = value
}

func eventID(e schedule.ResolvedEvent) string {
	return uuid.NewSHA1(eventNamespace, []byte(string(e.Type)+"/"+e.Date.String())).String()
}

func eventTitle(e schedule.ResolvedEvent) string {
	switch e.Type {
	case schedule.EventClassSession:
		return "Class Session"
	case schedule.EventPublicHoliday:
		return withLabel("Public Holiday", e.Label)
	case schedule.EventException:
		return withLabel("Exception", e.Label)
	case schedule.EventStopDate:
		return "Class Stopped"
	case schedule.EventRestartDate:
		return "Class Restarted"
	case schedule.EventStopPeriod:
		return "Class Suspended"
	default:
		return string(e.Type)
	}
}

func withLabel(title, label string) string {
	if label == "" {
		return title
	}
	return title + ": " + label
}
