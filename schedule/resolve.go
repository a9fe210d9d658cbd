package schedule

import (
	"sort"

	"github.com/samber/mo"
)

// Resolve applies override precedence to a raw occurrence sequence and
// produces the final event set: kept class sessions plus marker events
// for holidays, exceptions and stop/restart periods.
//
// Precedence per date: stop period, then exception, then public holiday.
// A holiday override of true reinstates the session; the holiday marker
// is still emitted as informational. Markers are emitted for every
// supplied holiday and exception date whether or not a session was
// scheduled there, and each stop period contributes a stop_date and a
// restart_date marker regardless of session count.
//
// Resolve is a pure function of its five inputs: no clock reads, no
// ambient state, so the same inputs always yield the same output.
func Resolve(
	occurrences []Occurrence,
	exceptions []ExceptionDate,
	stopPeriods []StopPeriod,
	holidays []Holiday,
	overrides HolidayOverrides,
) []ResolvedEvent {
	exceptionByDate := make(map[Date]string, len(exceptions))
	for _, ex := range exceptions {
		if _, ok := exceptionByDate[ex.Date]; !ok {
			exceptionByDate[ex.Date] = ex.Reason
		}
	}

	holidayByDate := make(map[Date]string, len(holidays))
	for _, h := range holidays {
		if _, ok := holidayByDate[h.Date]; !ok {
			holidayByDate[h.Date] = h.Name
		}
	}

	inStop := func(d Date) bool {
		for _, p := range stopPeriods {
			if p.Contains(d) {
				return true
			}
		}
		return false
	}

	var events []ResolvedEvent

	// Per-date suppression outcomes, consumed by the marker passes below.
	// Overlapping stop periods collapse to one suppression per date.
	stopSuppressed := make(map[Date]bool)
	exceptionSuppressed := make(map[Date]bool)
	holidayCandidate := make(map[Date]bool) // occurrence survived stop+exception on a holiday date

	for _, occ := range occurrences {
		d := occ.Date
		switch {
		case inStop(d):
			stopSuppressed[d] = true
		case hasKey(exceptionByDate, d):
			exceptionSuppressed[d] = true
		case hasKey(holidayByDate, d):
			holidayCandidate[d] = true
			if !overrides[d] {
				continue
			}
			fallthrough
		default:
			events = append(events, ResolvedEvent{
				Date:  d,
				Times: mo.Some(occ.Times),
				Type:  EventClassSession,
			})
		}
	}

	for d := range stopSuppressed {
		events = append(events, ResolvedEvent{
			Date:              d,
			Times:             mo.None[TimePair](),
			Type:              EventStopPeriod,
			AllDay:            true,
			SuppressedSession: true,
		})
	}

	// Exceptions and holidays are unique by date; duplicate rows that
	// slipped past the parse boundary collapse to one marker here.
	emittedException := make(map[Date]bool, len(exceptions))
	for _, ex := range exceptions {
		if emittedException[ex.Date] {
			continue
		}
		emittedException[ex.Date] = true
		events = append(events, ResolvedEvent{
			Date:              ex.Date,
			Times:             mo.None[TimePair](),
			Type:              EventException,
			AllDay:            true,
			Label:             ex.Reason,
			SuppressedSession: exceptionSuppressed[ex.Date],
		})
	}

	emittedHoliday := make(map[Date]bool, len(holidays))
	for _, h := range holidays {
		if emittedHoliday[h.Date] {
			continue
		}
		emittedHoliday[h.Date] = true
		suppressed := holidayCandidate[h.Date] && !overrides[h.Date]
		events = append(events, ResolvedEvent{
			Date:              h.Date,
			Times:             mo.None[TimePair](),
			Type:              EventPublicHoliday,
			AllDay:            true,
			Label:             h.Name,
			SuppressedSession: suppressed,
		})
	}

	for _, p := range dedupePeriods(stopPeriods) {
		events = append(events,
			ResolvedEvent{Date: p.Stop, Times: mo.None[TimePair](), Type: EventStopDate, AllDay: true},
			ResolvedEvent{Date: p.Restart, Times: mo.None[TimePair](), Type: EventRestartDate, AllDay: true},
		)
	}

	sort.SliceStable(events, func(i, j int) bool {
		if c := events[i].Date.Compare(events[j].Date); c != 0 {
			return c < 0
		}
		return eventTypeOrder(events[i].Type) < eventTypeOrder(events[j].Type)
	})
	return events
}

func hasKey(m map[Date]string, d Date) bool {
	_, ok := m[d]
	return ok
}

func dedupePeriods(periods []StopPeriod) []StopPeriod {
	seen := make(map[StopPeriod]bool, len(periods))
	out := make([]StopPeriod, 0, len(periods))
	for _, p := range periods {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// eventTypeOrder fixes the within-date ordering so resolution output is
// byte-stable across calls.
func eventTypeOrder(t EventType) int {
	switch t {
	case EventClassSession:
		return 0
	case EventPublicHoliday:
		return 1
	case EventException:
		return 2
	case EventStopPeriod:
		return 3
	case EventStopDate:
		return 4
	case EventRestartDate:
		return 5
	default:
		return 6
	}
}

// Sessions filters a resolved event list down to the kept class
// sessions, preserving order.
func Sessions(events []ResolvedEvent) []ResolvedEvent {
	var out []ResolvedEvent
	for _, e := range events {
		if e.Type == EventClassSession {
			out = append(out, e)
		}
	}
	return out
}
