package pipeline

import (
	"github.com/theirongolddev/hbudget/internal/model"
)

// Controlled summarizes the controlled discretionary budget (Food, Gas and
// General Merchandise).
type Controlled struct {
	Budget    float64            `json:"budget"`
	Spent     float64            `json:"spent"`
	Remaining float64            `json:"remaining"`
	Status    model.BudgetStatus `json:"status"`
}

// MonthReport is everything the dashboard shows for one selected month.
type MonthReport struct {
	Month      model.Month           `json:"month"`
	IsCurrent  bool                  `json:"isCurrent"`
	Summary    model.MonthSummary    `json:"summary"`
	Controlled Controlled            `json:"controlled"`
	Buckets    []model.BudgetLine    `json:"buckets"`
	Fixed      []model.BudgetLine    `json:"fixed"`
	Utilities  []model.BudgetLine    `json:"utilities"`
	FixedTotal model.BudgetTotals    `json:"fixedTotals"`
	UtilTotal  model.BudgetTotals    `json:"utilitiesTotals"`
	Health     model.Health          `json:"fixedHealth"`
	Projection model.MonthProjection `json:"projection"`
	Window     []model.Month         `json:"window"`
}

// ReportInput selects the month to report on.
type ReportInput struct {
	Index          map[model.Month][]model.Transaction
	Months         []model.Month // ascending
	Month          model.Month
	Current        model.Month
	Plan           model.Plan
	Budgets        model.Budgets
	TrailingMonths int
}

// BuildReport assembles the month report.
func BuildReport(in ReportInput) MonthReport {
	txs := in.Index[in.Month]
	b := in.Budgets

	n := in.TrailingMonths
	if n <= 0 {
		n = DefaultTrailingMonths
	}
	window := TrailingWindow(in.Months, in.Month, n)
	avg := TrailingAverage(in.Index, window, b.UtilityOrder)

	buckets := SpendByBucket(txs)
	var controlledSpent float64
	for _, k := range model.ControlledBuckets {
		controlledSpent += buckets[k]
	}
	remaining := b.ControlledTotal() - controlledSpent

	fixed := FixedLines(b, FixedByLine(txs), avg.Fixed)
	utils := UtilityLines(b, UtilitiesByLine(txs, b.UtilityOrder), avg.Utilities)

	return MonthReport{
		Month:     in.Month,
		IsCurrent: in.Month == in.Current,
		Summary:   SummarizeMonth(in.Month, txs),
		Controlled: Controlled{
			Budget:    b.ControlledTotal(),
			Spent:     controlledSpent,
			Remaining: remaining,
			Status:    RemainingStatus(remaining),
		},
		Buckets:    BucketLines(b, buckets, avg.Buckets),
		Fixed:      fixed,
		Utilities:  utils,
		FixedTotal: Totals(fixed),
		UtilTotal:  Totals(utils),
		Health:     FixedHealth(fixed),
		Projection: ProjectMonth(ProjectionInput{
			Month:        in.Month,
			IsCurrent:    in.Month == in.Current,
			Plan:         in.Plan,
			Budgets:      b,
			Transactions: txs,
		}),
		Window: window,
	}
}
