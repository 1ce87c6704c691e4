package forecast

import (
	"github.com/theirongolddev/hbudget/internal/model"
)

const (
	DefaultMonthsAhead = 12
	MinMonthsAhead     = 3
	MaxMonthsAhead     = 36
)

// ClampMonthsAhead bounds n to [MinMonthsAhead, MaxMonthsAhead]; zero
// selects DefaultMonthsAhead.
func ClampMonthsAhead(n int) int {
	if n == 0 {
		return DefaultMonthsAhead
	}
	return max(MinMonthsAhead, min(MaxMonthsAhead, n))
}

// Inputs is everything one projection needs.
type Inputs struct {
	// BaseMonth is the month the projection starts after.
	BaseMonth   model.Month
	MonthsAhead int

	BaseFixed          float64
	BaseDiscControlled float64
	Payroll            Payroll

	StartOverflow float64
	StartHYS      float64

	// Adjustments are keyed by month key; a missing month is all zero.
	Adjustments map[string]model.Adjustment
}

// Project returns one row per month from BaseMonth+1, with running
// overflow and HYS balances seeded from the start values.
func Project(in Inputs) []model.ForecastRow {
	n := ClampMonthsAhead(in.MonthsAhead)
	rows := make([]model.ForecastRow, 0, n)

	fixedBase := finite(in.BaseFixed)
	discBase := finite(in.BaseDiscControlled)
	runningOverflow := finite(in.StartOverflow)
	runningHYS := finite(in.StartHYS)

	for i := 1; i <= n; i++ {
		m := in.BaseMonth.AddMonths(i)
		adj := in.Adjustments[m.Key()]

		row := model.ForecastRow{
			Month:       m,
			EarnerAPay:  in.Payroll.EarnerAPay(m),
			EarnerBPay:  in.Payroll.EarnerBPay(m),
			IncomeAdd:   finite(adj.IncomeAdd),
			FixedBase:   fixedBase,
			FixedAdd:    finite(adj.AddFixed),
			DiscBase:    discBase,
			DiscAdd:     finite(adj.AddDisc),
			HYSTransfer: finite(adj.HYSTransfer),
		}
		row.IncomeBase = row.EarnerAPay + row.EarnerBPay
		row.IncomeTotal = row.IncomeBase + row.IncomeAdd
		row.FixedTotal = row.FixedBase + row.FixedAdd
		row.DiscTotal = row.DiscBase + row.DiscAdd
		row.MonthOverflow = row.IncomeTotal - row.FixedTotal - row.DiscTotal - row.HYSTransfer

		runningOverflow += row.MonthOverflow
		runningHYS += row.HYSTransfer
		row.EndOverflow = runningOverflow
		row.EndHYS = runningHYS

		rows = append(rows, row)
	}
	return rows
}
