package schedule

import (
	"context"
	"log/slog"
)

// Planner ties the expander, the override resolver and a holiday source
// together behind one entry point. Every method is a deterministic
// function of its arguments plus the holiday data; the planner itself
// holds no mutable state and is safe for concurrent use.
type Planner struct {
	calendar HolidayCalendar
	expander *Expander
	config   Config
	logger   *slog.Logger
}

// NewPlanner creates a planner with default configuration. The holiday
// calendar may be nil, in which case no holidays apply. A nil logger
// falls back to slog.Default().
func NewPlanner(calendar HolidayCalendar, logger *slog.Logger) *Planner {
	return NewPlannerWithConfig(calendar, DefaultConfig, logger)
}

// NewPlannerWithConfig creates a planner with custom configuration.
func NewPlannerWithConfig(calendar HolidayCalendar, config Config, logger *slog.Logger) *Planner {
	config = config.withDefaults()
	logger = ensureLogger(logger)
	return &Planner{
		calendar: calendar,
		expander: NewExpanderWithConfig(config, logger),
		config:   config,
		logger:   logger,
	}
}

// Events expands the definition over [windowStart, windowEnd], resolves
// overrides against it and returns the final event set restricted to the
// window. This is the sequence a calendar view renders (after
// formatting) and the statistics aggregator consumes.
func (p *Planner) Events(ctx context.Context, def *Definition, windowStart, windowEnd Date, ovr Overrides) ([]ResolvedEvent, error) {
	occurrences, err := p.expander.Expand(def, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}

	holidays := p.holidaysForWindow(ctx, windowStart, windowEnd)
	events := Resolve(occurrences, ovr.Exceptions, ovr.StopPeriods, holidays, ovr.HolidayOverrides)

	// Stop periods and exception lists may reach outside the window;
	// their markers are clipped here so output stays window-scoped.
	out := events[:0]
	for _, e := range events {
		if e.Date.Before(windowStart) || e.Date.After(windowEnd) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// holidaysForWindow queries the holiday calendar for every year the
// window touches. Provider failure is non-fatal: holidays are an
// enrichment, so an unavailable year degrades to "no holidays" with a
// warning.
func (p *Planner) holidaysForWindow(ctx context.Context, windowStart, windowEnd Date) []Holiday {
	if p.calendar == nil {
		return nil
	}

	var holidays []Holiday
	for year := windowStart.Year; year <= windowEnd.Year; year++ {
		hs, err := p.calendar.HolidaysForYear(ctx, year)
		if err != nil {
			p.logger.Warn("holiday calendar unavailable, proceeding without holidays for year",
				"year", year,
				"error", err)
			continue
		}
		holidays = append(holidays, hs...)
	}
	return holidays
}
