package pipeline

import (
	"github.com/theirongolddev/hbudget/internal/model"
)

// ProjectionInput is everything needed to reconcile one month.
type ProjectionInput struct {
	Month        model.Month
	IsCurrent    bool
	Plan         model.Plan
	Budgets      model.Budgets
	Transactions []model.Transaction
}

// ProjectMonth compares budget, actual and projected figures for a month.
//
// The current month projects from the plan: income from the plan's income
// projection, fixed as the larger of actual and budget plus the plan's ad hoc
// fixed add, discretionary as the larger of controlled spend and controlled
// budget plus Other spend and the ad hoc discretionary add, and savings as
// the actual transfer or, if none yet, the planned one. Past months project
// their actuals.
func ProjectMonth(in ProjectionInput) model.MonthProjection {
	p := in.Plan
	b := in.Budgets

	summary := SummarizeMonth(in.Month, in.Transactions)
	buckets := SpendByBucket(in.Transactions)

	actualIncome := summary.Income
	actualFixed := FixedTotal(FixedByLine(in.Transactions), b.FixedOrder)
	var actualDisc, controlledSpent float64
	for _, k := range model.Buckets {
		actualDisc += buckets[k]
	}
	for _, k := range model.ControlledBuckets {
		controlledSpent += buckets[k]
	}
	actualSavings := SavingsTransfer(in.Transactions)

	budgetIncome := p.IncomeBudgetBase
	if in.IsCurrent {
		budgetIncome = p.IncomeProjection
	}
	budgetFixed := b.FixedTotal()
	budgetDisc := b.DiscretionaryTotal()
	budgetSavings := p.PlannedHYSTransfer

	projIncome, projFixed, projDisc, projSavings := actualIncome, actualFixed, actualDisc, actualSavings
	if in.IsCurrent {
		projIncome = budgetIncome
		projFixed = max(actualFixed, budgetFixed) + p.AddFix
		projDisc = max(controlledSpent, b.ControlledTotal()) + buckets[model.BucketOther] + p.AddDesc
		if actualSavings <= 0 {
			projSavings = budgetSavings
		}
	}
	projOverflow := projIncome - projFixed - projDisc - projSavings

	out := model.MonthProjection{
		Month:        in.Month,
		IsCurrent:    in.IsCurrent,
		PlanMismatch: p.MismatchedWith(in.Month),
		Income: model.ProjectionRow{
			Label: "Income", Budget: budgetIncome, Actual: actualIncome,
			Projected: projIncome, Delta: projIncome - budgetIncome,
		},
		Fixed: model.ProjectionRow{
			Label: "Fixed", Budget: budgetFixed, Actual: actualFixed,
			Projected: projFixed, Delta: budgetFixed - projFixed,
		},
		Discretionary: model.ProjectionRow{
			Label: "Discretionary", Budget: budgetDisc, Actual: actualDisc,
			Projected: projDisc, Delta: budgetDisc - projDisc,
		},
		Savings: model.ProjectionRow{
			Label: "Savings transfer", Budget: budgetSavings, Actual: actualSavings,
			Projected: projSavings, Delta: budgetSavings - projSavings,
		},
		Overflow: model.ProjectionRow{
			Label:     "Overflow",
			Actual:    actualIncome - actualFixed - actualDisc - actualSavings,
			Projected: projOverflow,
		},
	}

	if in.IsCurrent {
		endOverflow := p.OverflowBalance + projOverflow
		endHYS := p.HYSBalance + projSavings
		out.EndOverflowBal = &endOverflow
		out.EndHYSBal = &endHYS
	}
	return out
}
