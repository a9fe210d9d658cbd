package schedule

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
)

// Pattern is the recurrence pattern of a class schedule.
type Pattern string

const (
	PatternWeekly   Pattern = "weekly"
	PatternBiweekly Pattern = "biweekly"
	PatternMonthly  Pattern = "monthly"
	// PatternCustom carries no generative rule: the caller supplies the
	// already-materialized occurrence dates.
	PatternCustom Pattern = "custom"
)

// TimeMode selects between a single time pair for every occurrence and a
// per-weekday mapping.
type TimeMode string

const (
	TimeModeSingle TimeMode = "single"
	TimeModePerDay TimeMode = "per-day"
)

// MonthDayLast is the sentinel day-of-month meaning "last calendar day
// of the month".
const MonthDayLast = -1

// Definition is a validated, normalized recurrence definition. Exactly
// one of Weekdays/MonthDay/CustomDates is populated, consistent with
// Pattern.
type Definition struct {
	Pattern Pattern
	Start   Date

	// Weekdays is the selected weekday set for weekly/biweekly patterns,
	// sorted ascending, non-empty.
	Weekdays []time.Weekday

	// MonthDay is the day-of-month for monthly patterns, 1..31 or
	// MonthDayLast.
	MonthDay int

	TimeMode    TimeMode
	SingleTime  TimePair
	PerDayTimes map[time.Weekday]TimePair

	// CustomDates is the explicit occurrence list for the custom pattern.
	CustomDates []Date
}

// Validate checks the definition's structural invariants. It is called
// by the expander; callers constructing definitions directly can use it
// to fail early.
func (d *Definition) Validate() error {
	if d.Start.IsZero() {
		return invalidDefinition("start date is required", nil)
	}

	switch d.Pattern {
	case PatternWeekly, PatternBiweekly:
		if len(d.Weekdays) == 0 {
			return invalidDefinition(fmt.Sprintf("%s pattern requires a non-empty weekday set", d.Pattern), nil)
		}
		if d.MonthDay != 0 {
			return invalidDefinition("day-of-month must not be set for a weekday pattern", nil)
		}
		if len(d.CustomDates) != 0 {
			return invalidDefinition("custom dates must not be set for a weekday pattern", nil)
		}
	case PatternMonthly:
		if d.MonthDay != MonthDayLast && (d.MonthDay < 1 || d.MonthDay > 31) {
			return invalidDefinition(fmt.Sprintf("monthly pattern requires day-of-month 1..31 or last, got %d", d.MonthDay), nil)
		}
		if len(d.Weekdays) != 0 {
			return invalidDefinition("weekday set must not be set for a monthly pattern", nil)
		}
		if len(d.CustomDates) != 0 {
			return invalidDefinition("custom dates must not be set for a monthly pattern", nil)
		}
	case PatternCustom:
		if len(d.CustomDates) == 0 {
			return invalidDefinition("custom pattern requires an explicit occurrence date list", nil)
		}
		if len(d.Weekdays) != 0 {
			return invalidDefinition("weekday set must not be set for a custom pattern", nil)
		}
		if d.MonthDay != 0 {
			return invalidDefinition("day-of-month must not be set for a custom pattern", nil)
		}
	default:
		return invalidDefinition(fmt.Sprintf("unknown pattern %q", d.Pattern), nil)
	}

	switch d.TimeMode {
	case TimeModeSingle:
		if !d.SingleTime.Valid() {
			return invalidDefinition("single time pair must have end after start", nil)
		}
	case TimeModePerDay:
		if len(d.PerDayTimes) == 0 {
			return invalidDefinition("per-day time mode requires at least one weekday time pair", nil)
		}
		for wd, pair := range d.PerDayTimes {
			if !pair.Valid() {
				return invalidDefinition(fmt.Sprintf("time pair for %s must have end after start", wd), nil)
			}
		}
		// Every selected weekday must carry a time pair.
		for _, wd := range d.Weekdays {
			if _, ok := d.PerDayTimes[wd]; !ok {
				return invalidDefinition(fmt.Sprintf("missing time pair for selected weekday %s", wd), nil)
			}
		}
	default:
		return invalidDefinition(fmt.Sprintf("unknown time mode %q", d.TimeMode), nil)
	}

	return nil
}

// timesFor returns the time pair for an occurrence on the given weekday.
func (d *Definition) timesFor(wd time.Weekday) (TimePair, bool) {
	if d.TimeMode == TimeModeSingle {
		return d.SingleTime, true
	}
	pair, ok := d.PerDayTimes[wd]
	return pair, ok
}

func invalidDefinition(msg string, err error) *Error {
	return &Error{Type: ErrInvalidDefinition, Message: msg, Err: err}
}

// Payload is the raw JSON schedule input as submitted by a caller.
type Payload struct {
	Pattern      string   `json:"pattern"`
	StartDate    string   `json:"startDate"`
	SelectedDays []string `json:"selectedDays,omitempty"`
	DayOfMonth   MonthDay `json:"dayOfMonth,omitempty"`
	TimeData     TimeData `json:"timeData"`
	CustomDates  []string `json:"customDates,omitempty"`
}

// TimeData is the time-of-day portion of a schedule payload.
type TimeData struct {
	Mode        string             `json:"mode"`
	StartTime   string             `json:"startTime,omitempty"`
	EndTime     string             `json:"endTime,omitempty"`
	PerDayTimes map[string]DayTime `json:"perDayTimes,omitempty"`
}

// DayTime is a single weekday's start/end time pair in a payload.
type DayTime struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// MonthDay accepts either a JSON number 1..31 or the string "last".
type MonthDay int

func (m *MonthDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if strings.EqualFold(s, "last") {
			*m = MonthDayLast
			return nil
		}
		return fmt.Errorf("invalid day-of-month %q", s)
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid day-of-month: %w", err)
	}
	*m = MonthDay(n)
	return nil
}

// ParsePayload decodes and normalizes a JSON schedule payload into a
// validated Definition. This is the single string-to-value boundary for
// schedule input; everything downstream works on typed records.
func ParsePayload(data []byte) (*Definition, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, invalidDefinition("malformed schedule payload", err)
	}
	return p.Definition()
}

// Definition normalizes the payload into a validated Definition.
func (p *Payload) Definition() (*Definition, error) {
	start, err := ParseDate(p.StartDate)
	if err != nil {
		return nil, invalidDefinition(fmt.Sprintf("invalid start date %q", p.StartDate), err)
	}

	def := &Definition{
		Pattern:  Pattern(strings.ToLower(p.Pattern)),
		Start:    start,
		MonthDay: int(p.DayOfMonth),
	}

	for _, name := range p.SelectedDays {
		wd, err := parseWeekday(name)
		if err != nil {
			return nil, invalidDefinition("invalid selected day", err)
		}
		def.Weekdays = append(def.Weekdays, wd)
	}
	sort.Slice(def.Weekdays, func(i, j int) bool { return def.Weekdays[i] < def.Weekdays[j] })

	for _, s := range p.CustomDates {
		d, err := ParseDate(s)
		if err != nil {
			return nil, invalidDefinition(fmt.Sprintf("invalid custom date %q", s), err)
		}
		def.CustomDates = append(def.CustomDates, d)
	}
	sort.Slice(def.CustomDates, func(i, j int) bool { return def.CustomDates[i].Before(def.CustomDates[j]) })
	def.CustomDates = dedupeDates(def.CustomDates)

	switch TimeMode(p.TimeData.Mode) {
	case TimeModeSingle:
		def.TimeMode = TimeModeSingle
		def.SingleTime, err = parseTimePair(p.TimeData.StartTime, p.TimeData.EndTime)
		if err != nil {
			return nil, err
		}
	case TimeModePerDay:
		def.TimeMode = TimeModePerDay
		def.PerDayTimes = make(map[time.Weekday]TimePair, len(p.TimeData.PerDayTimes))
		for name, dt := range p.TimeData.PerDayTimes {
			wd, err := parseWeekday(name)
			if err != nil {
				return nil, invalidDefinition("invalid weekday in per-day times", err)
			}
			pair, err := parseTimePair(dt.StartTime, dt.EndTime)
			if err != nil {
				return nil, err
			}
			def.PerDayTimes[wd] = pair
		}
	default:
		return nil, invalidDefinition(fmt.Sprintf("unknown time mode %q", p.TimeData.Mode), nil)
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}
	return def, nil
}

func parseTimePair(start, end string) (TimePair, error) {
	s, err := ParseTimeOfDay(start)
	if err != nil {
		return TimePair{}, invalidDefinition(fmt.Sprintf("invalid start time %q", start), err)
	}
	e, err := ParseTimeOfDay(end)
	if err != nil {
		return TimePair{}, invalidDefinition(fmt.Sprintf("invalid end time %q", end), err)
	}
	pair := TimePair{Start: s, End: e}
	if !pair.Valid() {
		return TimePair{}, invalidDefinition(fmt.Sprintf("end time %s must be after start time %s", e, s), nil)
	}
	return pair, nil
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// dedupeDates collapses duplicates in a sorted date list, in place.
func dedupeDates(dates []Date) []Date {
	out := dates[:0]
	var prev Date
	for i, d := range dates {
		if i > 0 && d == prev {
			continue
		}
		prev = d
		out = append(out, d)
	}
	return out
}

func parseWeekday(name string) (time.Weekday, error) {
	wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unknown weekday %q", name)
	}
	return wd, nil
}

// ParseExceptions converts the index-aligned exceptionDates and
// exceptionReasons arrays into typed exception records. Malformed rows
// are dropped with a warning rather than failing the call; a date may
// appear at most once, first occurrence wins. The result is sorted by
// date.
func ParseExceptions(dates, reasons []string, logger *slog.Logger) []ExceptionDate {
	logger = ensureLogger(logger)

	seen := make(map[Date]bool, len(dates))
	out := make([]ExceptionDate, 0, len(dates))
	for i, raw := range dates {
		d, err := ParseDate(raw)
		if err != nil {
			logger.Warn("skipping malformed exception date",
				"date", raw,
				"index", i)
			continue
		}
		if seen[d] {
			logger.Warn("skipping duplicate exception date", "date", raw)
			continue
		}
		seen[d] = true
		reason := ""
		if i < len(reasons) {
			reason = reasons[i]
		}
		out = append(out, ExceptionDate{Date: d, Reason: reason})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// StopPeriodPayload is a raw stop/restart row.
type StopPeriodPayload struct {
	StopDate    string `json:"stopDate"`
	RestartDate string `json:"restartDate"`
}

// ParseStopPeriods converts raw stop/restart rows into typed periods.
// Rows with malformed dates or restart before stop are dropped with a
// warning. The result is sorted by stop date.
func ParseStopPeriods(rows []StopPeriodPayload, logger *slog.Logger) []StopPeriod {
	logger = ensureLogger(logger)

	out := make([]StopPeriod, 0, len(rows))
	for i, row := range rows {
		stop, err := ParseDate(row.StopDate)
		if err != nil {
			logger.Warn("skipping malformed stop date", "date", row.StopDate, "index", i)
			continue
		}
		restart, err := ParseDate(row.RestartDate)
		if err != nil {
			logger.Warn("skipping malformed restart date", "date", row.RestartDate, "index", i)
			continue
		}
		if restart.Before(stop) {
			logger.Warn("skipping stop period with restart before stop",
				"stop", row.StopDate,
				"restart", row.RestartDate)
			continue
		}
		out = append(out, StopPeriod{Stop: stop, Restart: restart})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Stop.Before(out[j].Stop) })
	return out
}

// ParseHolidayOverrides converts a raw date-to-included mapping into
// typed overrides, dropping malformed dates with a warning.
func ParseHolidayOverrides(raw map[string]bool, logger *slog.Logger) HolidayOverrides {
	logger = ensureLogger(logger)

	out := make(HolidayOverrides, len(raw))
	for k, v := range raw {
		d, err := ParseDate(k)
		if err != nil {
			logger.Warn("skipping malformed holiday override date", "date", k)
			continue
		}
		out[d] = v
	}
	return out
}

func ensureLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
