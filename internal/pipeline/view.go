package pipeline

import (
	"time"

	"github.com/theirongolddev/hbudget/internal/forecast"
	"github.com/theirongolddev/hbudget/internal/ledger"
	"github.com/theirongolddev/hbudget/internal/model"
	"github.com/theirongolddev/hbudget/internal/plan"
)

// Chart lengths used by the dashboard.
const (
	HistorySeriesMonths = 24
	SparklineMonths     = 6
)

// View is the derived dashboard state for one load: effective budgets,
// month summaries and the default selected month. Every figure is
// recomputed from the load.
type View struct {
	*LoadResult

	Budgets   model.Budgets
	Current   model.Month // calendar month containing now
	Latest    model.Month // default selected month
	Summaries []model.MonthSummary
}

// NewView derives the dashboard state from res using defaults where the
// plan is unusable.
func NewView(res *LoadResult, defaults model.Budgets, now time.Time) *View {
	return &View{
		LoadResult: res,
		Budgets:    plan.Effective(res.Plan, defaults),
		Current:    model.CurrentMonth(now),
		Latest:     ledger.LatestMonth(res.Months, now),
		Summaries:  SummarizeMonths(res.Index, res.Months),
	}
}

// Report builds the month report for m; a zero m selects Latest.
func (v *View) Report(m model.Month, trailing int) MonthReport {
	if m.IsZero() {
		m = v.Latest
	}
	return BuildReport(ReportInput{
		Index:          v.Index,
		Months:         v.Months,
		Month:          m,
		Current:        v.Current,
		Plan:           v.Plan,
		Budgets:        v.Budgets,
		TrailingMonths: trailing,
	})
}

// History returns the year-grouped history rows.
func (v *View) History() []model.HistoryRow {
	return History(v.Summaries, v.Current)
}

// Summary returns the summary for m, or a zero summary for a month with no
// transactions.
func (v *View) Summary(m model.Month) model.MonthSummary {
	for _, s := range v.Summaries {
		if s.Month == m {
			return s
		}
	}
	return model.MonthSummary{Month: m}
}

// ForecastBase returns the monthly fixed total and controlled discretionary
// budget the forecast starts from.
func (v *View) ForecastBase() (fixed, discControlled float64) {
	return v.Budgets.FixedTotal(), v.Budgets.ControlledTotal()
}

// Payroll fills schedule with the plan's weekly pay rates.
func (v *View) Payroll(schedule forecast.Payroll) forecast.Payroll {
	schedule.EarnerAWeekly = v.Plan.EarnerAWeekly
	schedule.EarnerBWeekly = v.Plan.EarnerBWeekly
	return schedule
}

// ForecastInputs builds projector inputs that start after base (Latest
// when zero) using s.
func (v *View) ForecastInputs(base model.Month, s forecast.Settings, schedule forecast.Payroll) forecast.Inputs {
	if base.IsZero() {
		base = v.Latest
	}
	fixed, disc := v.ForecastBase()
	return s.Inputs(base, fixed, disc, v.Payroll(schedule))
}
