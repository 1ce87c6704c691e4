package forecast

import (
	"math"
	"time"

	"github.com/theirongolddev/hbudget/internal/model"
)

// DefaultBiweeklyAnchor is a known past payday for the biweekly earner.
var DefaultBiweeklyAnchor = model.Day(2025, time.January, 3)

// shiftMargin is how far outside a month candidate paydays are considered.
// A holiday shift moves a payday back at most a few days, so a payday in
// the first days of the next month can land in this one.
const shiftMargin = 7

// CountWeekday returns how many times wd occurs in the month.
func CountWeekday(m model.Month, wd time.Weekday) int {
	first := nthWeekday(m.Year, m.Month, wd, 1)
	return (m.Days()-first.Day())/7 + 1
}

// WeeklyPaychecks counts weekly paydays on wd that land in m after being
// moved back to the previous business day.
func WeeklyPaychecks(m model.Month, wd time.Weekday, h Holidays) int {
	lo := m.Start().AddDate(0, 0, -shiftMargin)
	d := lo.AddDate(0, 0, (int(wd)-int(lo.Weekday())+7)%7)
	return countShifted(m, d, 7, h)
}

// BiweeklyPaychecks counts paydays anchor+14k (any integer k) that land in
// m after the holiday shift.
func BiweeklyPaychecks(m model.Month, anchor time.Time, h Holidays) int {
	anchor = model.DayOf(anchor)
	lo := m.Start().AddDate(0, 0, -shiftMargin)
	days := int(lo.Sub(anchor).Hours() / 24)
	k := floorDiv(days, 14)
	d := anchor.AddDate(0, 0, 14*k)
	for d.Before(lo) {
		d = d.AddDate(0, 0, 14)
	}
	return countShifted(m, d, 14, h)
}

func countShifted(m model.Month, first time.Time, step int, h Holidays) int {
	hi := m.End().AddDate(0, 0, shiftMargin)
	n := 0
	for d := first; d.Before(hi); d = d.AddDate(0, 0, step) {
		if m.Contains(PrevBusinessDay(d, h)) {
			n++
		}
	}
	return n
}

// FallbackBiweeklyPaychecks approximates the biweekly paycheck count as
// half the Mondays in the month, rounded up.
func FallbackBiweeklyPaychecks(m model.Month) int {
	return (CountWeekday(m, time.Monday) + 1) / 2
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Payroll describes the two earners' pay schedules. Earner A is paid
// weekly on EarnerAWeekday; earner B is paid biweekly from EarnerBAnchor
// at twice the weekly rate.
type Payroll struct {
	EarnerAWeekly  float64
	EarnerBWeekly  float64
	EarnerAWeekday time.Weekday
	EarnerBAnchor  time.Time
	HolidayAware   bool
}

// DefaultPayroll returns the household schedule: Thursday weekly pay and
// Friday biweekly pay, both holiday-shifted.
func DefaultPayroll(weeklyA, weeklyB float64) Payroll {
	return Payroll{
		EarnerAWeekly:  weeklyA,
		EarnerBWeekly:  weeklyB,
		EarnerAWeekday: time.Thursday,
		EarnerBAnchor:  DefaultBiweeklyAnchor,
		HolidayAware:   true,
	}
}

// holidayAware reports whether the holiday-shifted schedule applies. Without
// an anchor the biweekly count has nothing to step from.
func (p Payroll) holidayAware() bool {
	return p.HolidayAware && !p.EarnerBAnchor.IsZero()
}

func holidaysAround(m model.Month) Holidays {
	return FederalHolidays(m.Year-1, m.Year, m.Year+1)
}

// EarnerAChecks returns earner A's paycheck count in m.
func (p Payroll) EarnerAChecks(m model.Month) int {
	if !p.holidayAware() {
		return CountWeekday(m, p.EarnerAWeekday)
	}
	return WeeklyPaychecks(m, p.EarnerAWeekday, holidaysAround(m))
}

// EarnerBChecks returns earner B's paycheck count in m.
func (p Payroll) EarnerBChecks(m model.Month) int {
	if !p.holidayAware() {
		return FallbackBiweeklyPaychecks(m)
	}
	return BiweeklyPaychecks(m, p.EarnerBAnchor, holidaysAround(m))
}

// EarnerAPay is checks × weekly rate.
func (p Payroll) EarnerAPay(m model.Month) float64 {
	return float64(p.EarnerAChecks(m)) * finite(p.EarnerAWeekly)
}

// EarnerBPay is checks × weekly rate × 2.
func (p Payroll) EarnerBPay(m model.Month) float64 {
	return float64(p.EarnerBChecks(m)) * finite(p.EarnerBWeekly) * 2
}

// finite maps NaN and ±Inf to zero.
func finite(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}
