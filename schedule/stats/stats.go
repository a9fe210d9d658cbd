// Package stats buckets resolved schedule events into monthly and
// yearly statistics for planning and reporting panels.
package stats

import (
	"sort"
	"time"

	"github.com/cyp0633/courseplan/schedule"
)

// MonthlyStatistic summarizes one calendar month of a schedule.
//
// PotentialSessions is counted directly from the raw occurrence
// sequence, and the removal counters from the resolved events, so the
// accounting identity
//
//	PotentialSessions = ActualSessions + RemovedForHoliday +
//	    RemovedForException + RemovedForStopPeriod − AddedByHolidayOverride
//
// is a checkable invariant of the two inputs, not a definition.
// RemovedForHoliday counts every holiday coinciding with a raw
// occurrence (the default-skip outcome) and AddedByHolidayOverride
// counts the subset reinstated by an explicit override.
type MonthlyStatistic struct {
	Year                   int
	Month                  time.Month
	PotentialSessions      int
	RemovedForHoliday      int
	RemovedForException    int
	RemovedForStopPeriod   int
	AddedByHolidayOverride int
	ActualSessions         int
	Hours                  float64
}

// Summary is the rolled-up view over the whole [start, end] range.
type Summary struct {
	CalendarDays int // end − start + 1
	Weeks        int // ceil(days / 7)
	Months       int // inclusive month span

	TotalSessions        int
	TotalHours           float64
	AverageHoursPerMonth float64

	// HolidayCollisions counts holiday markers that coincided with a
	// would-have-been session date, whether skipped or reinstated.
	HolidayCollisions int
	ExceptionCount    int

	// TrainingDays equals TotalSessions: one session per training day.
	TrainingDays int
}

type monthKey struct {
	year  int
	month time.Month
}

// Aggregate buckets raw occurrences and their resolved events by
// calendar month over the inclusive [start, end] range and computes the
// rolled-up summary. Months inside the range with no activity still get
// a zeroed bucket so display tables stay contiguous. A range whose end
// precedes its start yields no buckets and a zero summary.
func Aggregate(occurrences []schedule.Occurrence, events []schedule.ResolvedEvent, start, end schedule.Date) ([]MonthlyStatistic, Summary) {
	if end.Before(start) {
		return nil, Summary{}
	}

	buckets := make(map[monthKey]*MonthlyStatistic)
	for cursor := (monthKey{start.Year, start.Month}); ; {
		buckets[cursor] = &MonthlyStatistic{Year: cursor.year, Month: cursor.month}
		if cursor.year == end.Year && cursor.month == end.Month {
			break
		}
		cursor.month++
		if cursor.month > time.December {
			cursor.month = time.January
			cursor.year++
		}
	}

	for _, occ := range occurrences {
		if occ.Date.Before(start) || occ.Date.After(end) {
			continue
		}
		buckets[monthKey{occ.Date.Year, occ.Date.Month}].PotentialSessions++
	}

	sessionDates := make(map[schedule.Date]bool)
	for _, e := range events {
		if e.Type == schedule.EventClassSession {
			sessionDates[e.Date] = true
		}
	}

	summary := Summary{
		CalendarDays: start.DaysUntil(end) + 1,
		Months:       monthSpan(start, end),
	}
	summary.Weeks = (summary.CalendarDays + 6) / 7

	for _, e := range events {
		b, ok := buckets[monthKey{e.Date.Year, e.Date.Month}]
		if !ok {
			continue // event outside the aggregation range
		}

		switch e.Type {
		case schedule.EventClassSession:
			b.ActualSessions++
			b.Hours += e.Hours()
			summary.TotalSessions++
			summary.TotalHours += e.Hours()
		case schedule.EventException:
			summary.ExceptionCount++
			if e.SuppressedSession {
				b.RemovedForException++
			}
		case schedule.EventStopPeriod:
			if e.SuppressedSession {
				b.RemovedForStopPeriod++
			}
		case schedule.EventPublicHoliday:
			switch {
			case e.SuppressedSession:
				b.RemovedForHoliday++
				summary.HolidayCollisions++
			case sessionDates[e.Date]:
				// Holiday kept by an explicit override: counted as a
				// default-skip removal plus a reinstatement so the
				// accounting identity holds.
				b.RemovedForHoliday++
				b.AddedByHolidayOverride++
				summary.HolidayCollisions++
			}
		}
	}

	months := make([]MonthlyStatistic, 0, len(buckets))
	for _, b := range buckets {
		months = append(months, *b)
	}
	sort.Slice(months, func(i, j int) bool {
		if months[i].Year != months[j].Year {
			return months[i].Year < months[j].Year
		}
		return months[i].Month < months[j].Month
	})

	if summary.Months > 0 {
		summary.AverageHoursPerMonth = summary.TotalHours / float64(summary.Months)
	}
	summary.TrainingDays = summary.TotalSessions

	return months, summary
}

func monthSpan(start, end schedule.Date) int {
	return (end.Year-start.Year)*12 + int(end.Month) - int(start.Month) + 1
}

// YearGroup groups monthly statistics under their year for display.
type YearGroup struct {
	Year   int
	Months []MonthlyStatistic
}

// GroupByYear splits a sorted monthly statistic list into per-year
// groups, preserving order.
func GroupByYear(months []MonthlyStatistic) []YearGroup {
	var groups []YearGroup
	for _, m := range months {
		if len(groups) == 0 || groups[len(groups)-1].Year != m.Year {
			groups = append(groups, YearGroup{Year: m.Year})
		}
		g := &groups[len(groups)-1]
		g.Months = append(g.Months, m)
	}
	return groups
}
