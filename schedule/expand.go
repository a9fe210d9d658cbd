package schedule

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/teambition/rrule-go"
)

// Expander turns a Definition into the raw, unfiltered occurrence
// sequence for a date window. Holidays, exceptions and stop periods are
// applied later by Resolve; the expander only knows the pattern.
type Expander struct {
	config Config
	logger *slog.Logger
}

// NewExpander creates an expander with default configuration.
func NewExpander() *Expander {
	return NewExpanderWithConfig(DefaultConfig, nil)
}

// NewExpanderWithConfig creates an expander with custom configuration.
// A nil logger falls back to slog.Default().
func NewExpanderWithConfig(config Config, logger *slog.Logger) *Expander {
	return &Expander{
		config: config.withDefaults(),
		logger: ensureLogger(logger),
	}
}

// Expand produces one occurrence per raw calendar hit of the pattern
// within [windowStart, windowEnd], both bounds inclusive, ordered
// ascending by date. Nothing before the definition's start date is ever
// produced, even when the window reaches further back.
func (e *Expander) Expand(def *Definition, windowStart, windowEnd Date) ([]Occurrence, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	if windowEnd.Before(windowStart) {
		return nil, invalidDefinition(
			fmt.Sprintf("window end %s is before window start %s", windowEnd, windowStart), nil)
	}

	var dates []Date
	switch def.Pattern {
	case PatternWeekly, PatternBiweekly, PatternMonthly:
		rule, err := e.buildRule(def)
		if err != nil {
			return nil, err
		}
		// rrule's Between is inclusive of both bounds with inc=true, and
		// never yields anything before DTSTART.
		for _, t := range rule.Between(windowStart.Time(), windowEnd.Time(), true) {
			dates = append(dates, DateOf(t))
		}
	case PatternCustom:
		// The parse boundary sorts and dedupes; directly constructed
		// definitions get the same treatment here so a duplicate date
		// never yields two occurrences.
		seen := make(map[Date]bool, len(def.CustomDates))
		for _, d := range def.CustomDates {
			if d.Before(windowStart) || d.After(windowEnd) || d.Before(def.Start) || seen[d] {
				continue
			}
			seen[d] = true
			dates = append(dates, d)
		}
		sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	}

	if len(dates) > e.config.MaxOccurrences {
		e.logger.Warn("truncating expansion at occurrence cap",
			"pattern", string(def.Pattern),
			"cap", e.config.MaxOccurrences,
			"window_start", windowStart.String(),
			"window_end", windowEnd.String())
		dates = dates[:e.config.MaxOccurrences]
	}

	occurrences := make([]Occurrence, 0, len(dates))
	for _, d := range dates {
		times, ok := def.timesFor(d.Weekday())
		if !ok {
			return nil, invalidDefinition(
				fmt.Sprintf("no time pair configured for %s (occurrence on %s)", d.Weekday(), d), nil)
		}
		occurrences = append(occurrences, Occurrence{Date: d, Times: times})
	}
	return occurrences, nil
}

// buildRule compiles the definition into an rrule. DTSTART anchors at
// the start date's midnight UTC, so biweekly intervals are measured from
// the start date's week.
func (e *Expander) buildRule(def *Definition) (*rrule.RRule, error) {
	opt := rrule.ROption{Dtstart: def.Start.Time()}

	switch def.Pattern {
	case PatternWeekly, PatternBiweekly:
		opt.Freq = rrule.WEEKLY
		opt.Interval = 1
		if def.Pattern == PatternBiweekly {
			opt.Interval = 2
		}
		for _, wd := range def.Weekdays {
			opt.Byweekday = append(opt.Byweekday, rruleWeekday(wd))
		}
	case PatternMonthly:
		opt.Freq = rrule.MONTHLY
		// BYMONTHDAY skips months that lack the configured day rather
		// than clamping; -1 resolves to the last calendar day.
		opt.Bymonthday = []int{def.MonthDay}
	}

	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, invalidDefinition("failed to build recurrence rule", err)
	}
	return rule, nil
}

func rruleWeekday(wd time.Weekday) rrule.Weekday {
	switch wd {
	case time.Monday:
		return rrule.MO
	case time.Tuesday:
		return rrule.TU
	case time.Wednesday:
		return rrule.WE
	case time.Thursday:
		return rrule.TH
	case time.Friday:
		return rrule.FR
	case time.Saturday:
		return rrule.SA
	default:
		return rrule.SU
	}
}
