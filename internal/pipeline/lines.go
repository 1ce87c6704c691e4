package pipeline

import (
	"github.com/theirongolddev/hbudget/internal/model"
)

// warnRatio is the share of a budget above which spend is flagged.
const warnRatio = 0.83

// Status grades spend against a budget. A missing or non-positive budget is
// always a warning.
func Status(spent, budget float64) model.BudgetStatus {
	switch {
	case budget <= 0:
		return model.StatusWarn
	case spent > budget:
		return model.StatusBad
	case spent > budget*warnRatio:
		return model.StatusWarn
	default:
		return model.StatusGood
	}
}

// RemainingStatus grades the controlled discretionary budget left.
func RemainingStatus(remaining float64) model.BudgetStatus {
	switch {
	case remaining > 500:
		return model.StatusGood
	case remaining >= 0:
		return model.StatusWarn
	default:
		return model.StatusBad
	}
}

func line(name string, budget, actual, avg float64) model.BudgetLine {
	return model.BudgetLine{
		Name:     name,
		Budget:   budget,
		Actual:   actual,
		Avg:      avg,
		Variance: budget - actual,
		Status:   Status(actual, budget),
	}
}

// BucketLines builds one budget line per discretionary bucket.
func BucketLines(budgets model.Budgets, spent, avg map[model.Bucket]float64) []model.BudgetLine {
	out := make([]model.BudgetLine, 0, len(model.Buckets))
	for _, b := range model.Buckets {
		out = append(out, line(b.String(), budgets.Discretionary[b], spent[b], avg[b]))
	}
	return out
}

// FixedLines builds one budget line per fixed line, in budget order.
func FixedLines(budgets model.Budgets, spent, avg map[model.FixedLine]float64) []model.BudgetLine {
	out := make([]model.BudgetLine, 0, len(budgets.FixedOrder))
	for _, l := range budgets.FixedOrder {
		out = append(out, line(string(l), budgets.Fixed[l], spent[l], avg[l]))
	}
	return out
}

// UtilityLines builds one budget line per utility sub-line, in budget order.
func UtilityLines(budgets model.Budgets, spent, avg map[string]float64) []model.BudgetLine {
	out := make([]model.BudgetLine, 0, len(budgets.UtilityOrder))
	for _, u := range budgets.UtilityOrder {
		out = append(out, line(u, budgets.Utilities[u], spent[u], avg[u]))
	}
	return out
}

// Totals sums a set of budget lines.
func Totals(lines []model.BudgetLine) model.BudgetTotals {
	var t model.BudgetTotals
	for _, l := range lines {
		t.Budget += l.Budget
		t.Actual += l.Actual
		t.Avg += l.Avg
	}
	t.Variance = t.Budget - t.Actual
	return t
}

// FixedHealth counts fixed lines with a positive budget and how many of them
// stayed within it.
func FixedHealth(lines []model.BudgetLine) model.Health {
	var h model.Health
	for _, l := range lines {
		if l.Budget <= 0 {
			continue
		}
		h.Total++
		if l.Actual <= l.Budget {
			h.OnTrack++
		}
	}
	return h
}
