package stats

import (
	"io"
	"strconv"

	"github.com/beevik/etree"

	"github.com/cyp0633/courseplan/schedule"
)

// WriteReportXML renders year-grouped statistics as an XML document for
// export to external reporting tools. The output carries no timestamps,
// so identical inputs produce identical documents.
func WriteReportXML(w io.Writer, years []YearGroup, summary Summary) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("schedule-report")

	sum := root.CreateElement("summary")
	sum.CreateAttr("calendar-days", strconv.Itoa(summary.CalendarDays))
	sum.CreateAttr("weeks", strconv.Itoa(summary.Weeks))
	sum.CreateAttr("months", strconv.Itoa(summary.Months))
	sum.CreateAttr("total-sessions", strconv.Itoa(summary.TotalSessions))
	sum.CreateAttr("total-hours", formatHours(summary.TotalHours))
	sum.CreateAttr("average-hours-per-month", formatHours(summary.AverageHoursPerMonth))
	sum.CreateAttr("holiday-collisions", strconv.Itoa(summary.HolidayCollisions))
	sum.CreateAttr("exceptions", strconv.Itoa(summary.ExceptionCount))
	sum.CreateAttr("training-days", strconv.Itoa(summary.TrainingDays))

	for _, yg := range years {
		yearEl := root.CreateElement("year")
		yearEl.CreateAttr("value", strconv.Itoa(yg.Year))

		for _, m := range yg.Months {
			monthEl := yearEl.CreateElement("month")
			monthEl.CreateAttr("value", strconv.Itoa(int(m.Month)))
			monthEl.CreateAttr("potential-sessions", strconv.Itoa(m.PotentialSessions))
			monthEl.CreateAttr("actual-sessions", strconv.Itoa(m.ActualSessions))
			monthEl.CreateAttr("removed-holiday", strconv.Itoa(m.RemovedForHoliday))
			monthEl.CreateAttr("removed-exception", strconv.Itoa(m.RemovedForException))
			monthEl.CreateAttr("removed-stop-period", strconv.Itoa(m.RemovedForStopPeriod))
			monthEl.CreateAttr("added-by-override", strconv.Itoa(m.AddedByHolidayOverride))
			monthEl.CreateAttr("hours", formatHours(m.Hours))
		}
	}

	doc.Indent(2)
	_, err := doc.WriteTo(w)
	return err
}

// formatHours renders fractional hours rounded to one decimal place,
// the display convention for durations.
func formatHours(h float64) string {
	return strconv.FormatFloat(schedule.RoundHours(h), 'f', 1, 64)
}
