/*
Package schedule computes recurring training-class schedules: it expands
a recurrence definition into dated occurrences, resolves public-holiday,
exception and stop/restart overrides, and reverse-solves an end date
from a target number of training hours.

# Basic Usage

Parse the caller's schedule payload, build a planner over a holiday
source, and compute:

	def, err := schedule.ParsePayload(payload)
	if err != nil {
		log.Fatal(err)
	}
	planner := schedule.NewPlanner(holidayStore, nil)
	computed, err := planner.Solve(ctx, def, 30, schedule.Overrides{})

For a calendar view, expand a fixed window instead:

	events, err := planner.Events(ctx, def, from, until, overrides)

The resolved events feed the stats and event subpackages for statistics
aggregation and UI-ready formatting.

# Determinism

Every entry point is a pure function of its explicit arguments: no clock
reads, no ambient state. The same inputs always produce the same output,
so creation-time duration targets, calendar display, list views and
statistics panels can all re-run the same computation independently.

# Holiday Sources

Holiday data comes through the HolidayCalendar interface:

	type HolidayCalendar interface {
		HolidaysForYear(ctx context.Context, year int) ([]Holiday, error)
	}

The holiday subpackage provides an in-memory implementation and a
caching decorator. Provider failure is non-fatal: affected years degrade
to "no holidays" and the call proceeds.
*/
package schedule
