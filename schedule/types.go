package schedule

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/samber/mo"
)

// Error types
type ErrorType string

const (
	ErrInvalidDefinition     ErrorType = "invalid_definition"
	ErrUnsatisfiableSchedule ErrorType = "unsatisfiable_schedule"
)

// Error represents a schedule computation error
type Error struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Date layouts used at the parse/format boundary. Calendar dates are
// timezone-naive; time.Time only appears inside the rrule expansion and
// the ICS export, anchored to UTC.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Date is a civil calendar date without timezone or time-of-day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses a date in 2006-01-02 form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// MustParseDate is like ParseDate but panics on error. Intended for
// fixtures and tests.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// DateOf extracts the calendar date from a time.Time, discarding the
// time-of-day and location.
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

func (d Date) String() string {
	return d.Time().Format(DateLayout)
}

// Time returns the date at midnight UTC. This is the only bridge into
// time.Time arithmetic.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) Before(o Date) bool {
	return d.Compare(o) < 0
}

func (d Date) After(o Date) bool {
	return d.Compare(o) > 0
}

// Compare returns -1, 0 or 1 depending on whether d is before, equal to
// or after o.
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return cmpInt(d.Year, o.Year)
	case d.Month != o.Month:
		return cmpInt(int(d.Month), int(o.Month))
	default:
		return cmpInt(d.Day, o.Day)
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// AddDays returns the date n days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// AddYears returns the date n years after d.
func (d Date) AddYears(n int) Date {
	return DateOf(d.Time().AddDate(n, 0, 0))
}

// DaysUntil returns the number of calendar days from d to o, negative if
// o is before d.
func (d Date) DaysUntil(o Date) int {
	return int(o.Time().Sub(d.Time()) / (24 * time.Hour))
}

// TimeOfDay is a naive local time of day with minute precision, stored as
// minutes since midnight.
type TimeOfDay int

// ParseTimeOfDay parses a time of day in 15:04 form.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return 0, err
	}
	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// TimePair is a start/end time-of-day pair for a single session. End must
// be strictly after Start on the same day; overnight wrap is not allowed.
type TimePair struct {
	Start TimeOfDay
	End   TimeOfDay
}

func (p TimePair) Valid() bool {
	return p.End > p.Start
}

// Hours returns the unrounded duration in fractional hours. Rounding to
// one decimal happens only at display time, so accumulation never
// compounds rounding error.
func (p TimePair) Hours() float64 {
	return float64(p.End-p.Start) / 60
}

// RoundHours rounds a fractional-hours value to one decimal place for
// display.
func RoundHours(h float64) float64 {
	return math.Round(h*10) / 10
}

// Occurrence is a single raw calendar hit of a recurrence pattern before
// any override is applied. Immutable once produced by the expander.
type Occurrence struct {
	Date  Date
	Times TimePair
}

// Hours returns the unrounded session duration in fractional hours.
func (o Occurrence) Hours() float64 {
	return o.Times.Hours()
}

// EventType tags a resolved event.
type EventType string

const (
	EventClassSession  EventType = "class_session"
	EventPublicHoliday EventType = "public_holiday"
	EventException     EventType = "exception"
	EventStopDate      EventType = "stop_date"
	EventRestartDate   EventType = "restart_date"
	EventStopPeriod    EventType = "stop_period"
)

// ResolvedEvent is a dated record after override resolution: either a
// kept class session or a marker (holiday, exception, stop/restart
// boundary, suppressed-by-stop date). SuppressedSession records that a
// raw occurrence on this date was removed by this marker; the statistics
// accounting identity is derived from it.
type ResolvedEvent struct {
	Date              Date
	Times             mo.Option[TimePair]
	Type              EventType
	AllDay            bool
	Label             string
	SuppressedSession bool
}

// Hours returns the unrounded duration for class sessions, 0 for all-day
// markers.
func (e ResolvedEvent) Hours() float64 {
	if times, ok := e.Times.Get(); ok {
		return times.Hours()
	}
	return 0
}

// ExceptionDate is an ad-hoc cancellation of a single date. Unique by
// date; duplicates are dropped at the parse boundary.
type ExceptionDate struct {
	Date   Date
	Reason string
}

// StopPeriod is a contiguous stop/restart suspension range, inclusive on
// both ends. Periods may overlap; resolution treats them as a union.
type StopPeriod struct {
	Stop    Date
	Restart Date
}

// Contains reports whether d falls within the period, bounds included.
func (p StopPeriod) Contains(d Date) bool {
	return !d.Before(p.Stop) && !d.After(p.Restart)
}

// HolidayOverrides maps a date to an explicit keep/skip decision for a
// public holiday. A true value keeps the session; absence means the
// default skip.
type HolidayOverrides map[Date]bool

// Holiday is a public holiday reported by a HolidayCalendar.
type Holiday struct {
	Date Date
	Name string
}

// HolidayCalendar provides public-holiday dates for a year. Implemented
// by external data sources; the engine only reads through it. Any
// schedule spanning a year boundary requires querying consecutive years.
type HolidayCalendar interface {
	HolidaysForYear(ctx context.Context, year int) ([]Holiday, error)
}

// Overrides bundles the per-call override inputs applied on top of a raw
// occurrence sequence.
type Overrides struct {
	Exceptions       []ExceptionDate
	StopPeriods      []StopPeriod
	HolidayOverrides HolidayOverrides
}

// ComputedSchedule is the result of solving an end date from a target
// total duration: the class sessions consumed, the date of the session
// that met or exceeded the target, and the unrounded hours accumulated.
type ComputedSchedule struct {
	Occurrences []ResolvedEvent
	EndDate     Date
	TotalHours  float64
}
