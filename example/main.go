// Command example runs the schedule engine over a YAML fixture and
// prints the computed calendar, statistics and optional exports.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cyp0633/courseplan/schedule"
	"github.com/cyp0633/courseplan/schedule/event"
	"github.com/cyp0633/courseplan/schedule/holiday"
	"github.com/cyp0633/courseplan/schedule/stats"
)

type fixture struct {
	Schedule struct {
		Pattern      string   `yaml:"pattern"`
		StartDate    string   `yaml:"startDate"`
		SelectedDays []string `yaml:"selectedDays"`
		DayOfMonth   string   `yaml:"dayOfMonth"`
		CustomDates  []string `yaml:"customDates"`
		Time         struct {
			Mode        string `yaml:"mode"`
			StartTime   string `yaml:"startTime"`
			EndTime     string `yaml:"endTime"`
			PerDayTimes map[string]struct {
				StartTime string `yaml:"startTime"`
				EndTime   string `yaml:"endTime"`
			} `yaml:"perDayTimes"`
		} `yaml:"time"`
	} `yaml:"schedule"`

	TargetHours float64 `yaml:"targetHours"`

	Exceptions []struct {
		Date   string `yaml:"date"`
		Reason string `yaml:"reason"`
	} `yaml:"exceptions"`

	StopPeriods []struct {
		StopDate    string `yaml:"stopDate"`
		RestartDate string `yaml:"restartDate"`
	} `yaml:"stopPeriods"`

	Holidays []struct {
		Date string `yaml:"date"`
		Name string `yaml:"name"`
	} `yaml:"holidays"`

	HolidayOverrides map[string]bool `yaml:"holidayOverrides"`
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML schedule fixture")
	emitICS := flag.Bool("ics", false, "write the resolved events as ICS to stdout")
	emitXML := flag.Bool("xml", false, "write the statistics report as XML to stdout")
	flag.Parse()

	data, err := os.ReadFile(*configPath)
	if err != nil {
		log.Fatalf("failed to read fixture: %v", err)
	}

	var fx fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		log.Fatalf("failed to parse fixture: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	def, err := definitionFromFixture(&fx)
	if err != nil {
		log.Fatalf("invalid schedule definition: %v", err)
	}

	overrides := overridesFromFixture(&fx, logger)

	store := holiday.NewStore()
	for _, h := range fx.Holidays {
		d, err := schedule.ParseDate(h.Date)
		if err != nil {
			logger.Warn("skipping malformed holiday date", "date", h.Date)
			continue
		}
		store.Add(schedule.Holiday{Date: d, Name: h.Name})
	}

	cache := holiday.NewCache(store, holiday.DefaultCacheConfig)
	defer cache.Close()

	planner := schedule.NewPlanner(cache, logger)
	ctx := context.Background()

	computed, err := planner.Solve(ctx, def, fx.TargetHours, overrides)
	if err != nil {
		log.Fatalf("end-date computation failed: %v", err)
	}

	fmt.Printf("Start date:  %s\n", def.Start)
	fmt.Printf("End date:    %s\n", computed.EndDate)
	fmt.Printf("Sessions:    %d\n", len(computed.Occurrences))
	fmt.Printf("Total hours: %.1f (target %.1f)\n\n", computed.TotalHours, fx.TargetHours)

	events, err := planner.Events(ctx, def, def.Start, computed.EndDate, overrides)
	if err != nil {
		log.Fatalf("calendar expansion failed: %v", err)
	}

	if *emitICS {
		if err := event.EncodeICS(os.Stdout, events); err != nil {
			log.Fatalf("ICS export failed: %v", err)
		}
		return
	}

	occurrences, err := schedule.NewExpander().Expand(def, def.Start, computed.EndDate)
	if err != nil {
		log.Fatalf("occurrence expansion failed: %v", err)
	}

	months, summary := stats.Aggregate(occurrences, events, def.Start, computed.EndDate)

	if *emitXML {
		if err := stats.WriteReportXML(os.Stdout, stats.GroupByYear(months), summary); err != nil {
			log.Fatalf("XML report failed: %v", err)
		}
		return
	}

	fmt.Println("Calendar events:")
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(event.Format(events)); err != nil {
		log.Fatalf("event encoding failed: %v", err)
	}

	fmt.Println("\nMonthly statistics:")
	for _, g := range stats.GroupByYear(months) {
		fmt.Printf("  %d\n", g.Year)
		for _, m := range g.Months {
			fmt.Printf("    %-9s potential=%d actual=%d holiday=%d exception=%d stop=%d override=%d hours=%.1f\n",
				m.Month, m.PotentialSessions, m.ActualSessions,
				m.RemovedForHoliday, m.RemovedForException, m.RemovedForStopPeriod,
				m.AddedByHolidayOverride, schedule.RoundHours(m.Hours))
		}
	}

	fmt.Printf("\nSummary: %d days, %d weeks, %d months, %d sessions, %.1f hours (avg %.1f h/month)\n",
		summary.CalendarDays, summary.Weeks, summary.Months,
		summary.TotalSessions, schedule.RoundHours(summary.TotalHours),
		schedule.RoundHours(summary.AverageHoursPerMonth))
}

func definitionFromFixture(fx *fixture) (*schedule.Definition, error) {
	p := schedule.Payload{
		Pattern:      fx.Schedule.Pattern,
		StartDate:    fx.Schedule.StartDate,
		SelectedDays: fx.Schedule.SelectedDays,
		CustomDates:  fx.Schedule.CustomDates,
		TimeData: schedule.TimeData{
			Mode:      fx.Schedule.Time.Mode,
			StartTime: fx.Schedule.Time.StartTime,
			EndTime:   fx.Schedule.Time.EndTime,
		},
	}

	switch fx.Schedule.DayOfMonth {
	case "":
	case "last":
		p.DayOfMonth = schedule.MonthDayLast
	default:
		var n int
		if _, err := fmt.Sscanf(fx.Schedule.DayOfMonth, "%d", &n); err != nil {
			return nil, fmt.Errorf("invalid dayOfMonth %q", fx.Schedule.DayOfMonth)
		}
		p.DayOfMonth = schedule.MonthDay(n)
	}

	if len(fx.Schedule.Time.PerDayTimes) > 0 {
		p.TimeData.PerDayTimes = make(map[string]schedule.DayTime)
		for day, dt := range fx.Schedule.Time.PerDayTimes {
			p.TimeData.PerDayTimes[day] = schedule.DayTime{StartTime: dt.StartTime, EndTime: dt.EndTime}
		}
	}

	return p.Definition()
}

func overridesFromFixture(fx *fixture, logger *slog.Logger) schedule.Overrides {
	dates := make([]string, 0, len(fx.Exceptions))
	reasons := make([]string, 0, len(fx.Exceptions))
	for _, ex := range fx.Exceptions {
		dates = append(dates, ex.Date)
		reasons = append(reasons, ex.Reason)
	}

	stops := make([]schedule.StopPeriodPayload, 0, len(fx.StopPeriods))
	for _, sp := range fx.StopPeriods {
		stops = append(stops, schedule.StopPeriodPayload{
			StopDate:    sp.StopDate,
			RestartDate: sp.RestartDate,
		})
	}

	return schedule.Overrides{
		Exceptions:       schedule.ParseExceptions(dates, reasons, logger),
		StopPeriods:      schedule.ParseStopPeriods(stops, logger),
		HolidayOverrides: schedule.ParseHolidayOverrides(fx.HolidayOverrides, logger),
	}
}
