package schedule

import (
	"context"
	"fmt"
)

// Solve derives a schedule's end date from a target total duration. It
// expands and resolves occurrences in forward-growing yearly windows
// from the definition's start date, walking the kept class sessions in
// date order and summing their unrounded hours. The end date is the date
// of the session that meets or exceeds the target; no partial-day
// interpolation is performed.
//
// Each window growth is a fresh, independent computation over the larger
// window, never an incremental mutation of prior state, so Solve is
// re-entrant and safe to retry.
//
// A target that cannot be reached within the configured horizon (because
// every candidate date is suppressed, or the sessions are too sparse) is
// reported as an unsatisfiable_schedule error.
func (p *Planner) Solve(ctx context.Context, def *Definition, targetHours float64, ovr Overrides) (ComputedSchedule, error) {
	if err := def.Validate(); err != nil {
		return ComputedSchedule{}, err
	}
	if targetHours <= 0 {
		return ComputedSchedule{}, invalidDefinition(
			fmt.Sprintf("target hours must be positive, got %g", targetHours), nil)
	}

	start := def.Start
	horizon := start.AddYears(p.config.HorizonYears)

	windowEnd := start.AddYears(p.config.WindowStepYears)
	for {
		if windowEnd.After(horizon) {
			windowEnd = horizon
		}

		events, err := p.Events(ctx, def, start, windowEnd, ovr)
		if err != nil {
			return ComputedSchedule{}, err
		}

		var consumed []ResolvedEvent
		total := 0.0
		for _, session := range Sessions(events) {
			consumed = append(consumed, session)
			total += session.Hours()
			if total >= targetHours {
				return ComputedSchedule{
					Occurrences: consumed,
					EndDate:     session.Date,
					TotalHours:  total,
				}, nil
			}
		}

		if windowEnd == horizon {
			return ComputedSchedule{}, &Error{
				Type: ErrUnsatisfiableSchedule,
				Message: fmt.Sprintf("target of %g hours not reached within %d-year horizon from %s",
					targetHours, p.config.HorizonYears, start),
			}
		}
		windowEnd = windowEnd.AddYears(p.config.WindowStepYears)
	}
}
