// Package forecast projects future months from pay schedules, baseline
// budgets and per-month adjustments, and writes adjustments back to the
// plan sheet.
package forecast

import (
	"time"

	"github.com/theirongolddev/hbudget/internal/model"
)

// Holidays is a set of observed holiday dates keyed by calendar day.
type Holidays map[time.Time]string

// FederalHolidays returns the observed US federal holidays for the given
// years. Fixed-date holidays falling on Saturday are observed the Friday
// before and on Sunday the Monday after, so New Year's Day can be observed
// on December 31 of the prior year.
func FederalHolidays(years ...int) Holidays {
	h := make(Holidays)
	for _, y := range years {
		h.addObserved(model.Day(y, time.January, 1), "New Year's Day")
		h[nthWeekday(y, time.January, time.Monday, 3)] = "Martin Luther King Jr. Day"
		h[nthWeekday(y, time.February, time.Monday, 3)] = "Presidents' Day"
		h[lastWeekday(y, time.May, time.Monday)] = "Memorial Day"
		h.addObserved(model.Day(y, time.June, 19), "Juneteenth")
		h.addObserved(model.Day(y, time.July, 4), "Independence Day")
		h[nthWeekday(y, time.September, time.Monday, 1)] = "Labor Day"
		h[nthWeekday(y, time.October, time.Monday, 2)] = "Columbus Day"
		h.addObserved(model.Day(y, time.November, 11), "Veterans Day")
		h[nthWeekday(y, time.November, time.Thursday, 4)] = "Thanksgiving Day"
		h.addObserved(model.Day(y, time.December, 25), "Christmas Day")
	}
	return h
}

func (h Holidays) addObserved(day time.Time, name string) {
	switch day.Weekday() {
	case time.Saturday:
		day = day.AddDate(0, 0, -1)
	case time.Sunday:
		day = day.AddDate(0, 0, 1)
	}
	h[day] = name
}

// Contains reports whether day is an observed holiday. A nil set has none.
func (h Holidays) Contains(day time.Time) bool {
	_, ok := h[model.DayOf(day)]
	return ok
}

// IsBusinessDay reports whether day is a weekday and not a holiday.
func IsBusinessDay(day time.Time, h Holidays) bool {
	switch day.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return !h.Contains(day)
}

// PrevBusinessDay returns day itself when it is a business day, otherwise
// the nearest earlier business day.
func PrevBusinessDay(day time.Time, h Holidays) time.Time {
	d := model.DayOf(day)
	for !IsBusinessDay(d, h) {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// nthWeekday returns the nth (1-based) occurrence of wd in the month.
func nthWeekday(year int, month time.Month, wd time.Weekday, n int) time.Time {
	first := model.Day(year, month, 1)
	offset := (int(wd) - int(first.Weekday()) + 7) % 7
	return first.AddDate(0, 0, offset+7*(n-1))
}

// lastWeekday returns the final occurrence of wd in the month.
func lastWeekday(year int, month time.Month, wd time.Weekday) time.Time {
	last := model.Day(year, month, 1).AddDate(0, 1, -1)
	offset := (int(last.Weekday()) - int(wd) + 7) % 7
	return last.AddDate(0, 0, -offset)
}
