// Package pipeline loads the ledger and plan and aggregates transactions into
// monthly actuals, budget comparisons, projections and history.
package pipeline

import (
	"github.com/theirongolddev/hbudget/internal/classify"
	"github.com/theirongolddev/hbudget/internal/model"
)

// SpendFromNet converts a net signed amount into spend. Refunds offset spend
// but a group never reports negative spend.
func SpendFromNet(net float64) float64 {
	return max(0, -net)
}

// countsAsDiscretionary reports whether tx belongs to discretionary totals.
// The forced categories win over the row's own type.
func countsAsDiscretionary(tx model.Transaction) bool {
	return tx.Type == model.TypeDiscretionary || classify.ForceDiscretionary(tx.Category)
}

// fixedRoute returns the fixed line for a fixed-type transaction, or false
// when the row is not fixed or has been forced to discretionary.
func fixedRoute(tx model.Transaction) (model.FixedLine, bool) {
	if tx.Type != model.TypeFixed || classify.ForceDiscretionary(tx.Category) {
		return "", false
	}
	return classify.FixedLine(tx.Category), true
}

// SummarizeMonth computes income, fixed, discretionary and savings figures
// for one month's transactions.
func SummarizeMonth(month model.Month, txs []model.Transaction) model.MonthSummary {
	var income, fixedNet, savingsNet, discNet float64

	for _, tx := range txs {
		if tx.Type == model.TypeIncome {
			income += tx.Amount
		}
		if countsAsDiscretionary(tx) {
			discNet += tx.Amount
		}
		line, ok := fixedRoute(tx)
		if !ok {
			continue
		}
		switch line {
		case model.LineIgnore:
		case model.LineSavings:
			savingsNet += tx.Amount
		default:
			fixedNet += tx.Amount
		}
	}

	s := model.MonthSummary{
		Month:           month,
		Income:          income,
		FixedSpend:      SpendFromNet(fixedNet),
		DiscSpend:       SpendFromNet(discNet),
		SavingsTransfer: SpendFromNet(savingsNet),
	}
	s.Overflow = s.Income - s.FixedSpend - s.DiscSpend - s.SavingsTransfer
	return s
}

// SummarizeMonths summarizes every listed month, newest first.
func SummarizeMonths(idx map[model.Month][]model.Transaction, months []model.Month) []model.MonthSummary {
	out := make([]model.MonthSummary, 0, len(months))
	for i := len(months) - 1; i >= 0; i-- {
		m := months[i]
		out = append(out, SummarizeMonth(m, idx[m]))
	}
	return out
}

// SpendByBucket returns net-to-spend per discretionary bucket.
func SpendByBucket(txs []model.Transaction) map[model.Bucket]float64 {
	net := make(map[model.Bucket]float64, len(model.Buckets))
	for _, tx := range txs {
		if countsAsDiscretionary(tx) {
			net[tx.Bucket] += tx.Amount
		}
	}
	out := make(map[model.Bucket]float64, len(model.Buckets))
	for _, b := range model.Buckets {
		out[b] = SpendFromNet(net[b])
	}
	return out
}

// FixedByLine returns net-to-spend per fixed line. Savings and ignored rows
// are excluded; every line in model.FixedOrder is present.
func FixedByLine(txs []model.Transaction) map[model.FixedLine]float64 {
	net := make(map[model.FixedLine]float64, len(model.FixedOrder))
	for _, l := range model.FixedOrder {
		net[l] = 0
	}
	for _, tx := range txs {
		line, ok := fixedRoute(tx)
		if !ok || line == model.LineIgnore || line == model.LineSavings {
			continue
		}
		net[line] += tx.Amount
	}
	out := make(map[model.FixedLine]float64, len(net))
	for l, v := range net {
		out[l] = SpendFromNet(v)
	}
	return out
}

// UtilitiesByLine returns net-to-spend per utility sub-line for rows routed
// to the Utiities fixed line. Every name in lines is present.
func UtilitiesByLine(txs []model.Transaction, lines []string) map[string]float64 {
	net := make(map[string]float64, len(lines))
	for _, l := range lines {
		net[l] = 0
	}
	for _, tx := range txs {
		if line, ok := fixedRoute(tx); !ok || line != model.LineUtilities {
			continue
		}
		net[classify.UtilityLine(tx.Description)] += tx.Amount
	}
	out := make(map[string]float64, len(net))
	for l, v := range net {
		out[l] = SpendFromNet(v)
	}
	return out
}

// SavingsTransfer returns the month's transfer into savings.
func SavingsTransfer(txs []model.Transaction) float64 {
	var net float64
	for _, tx := range txs {
		if line, ok := fixedRoute(tx); ok && line == model.LineSavings {
			net += tx.Amount
		}
	}
	return SpendFromNet(net)
}

// FixedTotal sums fixed spend over the ordered lines.
func FixedTotal(byLine map[model.FixedLine]float64, order []model.FixedLine) float64 {
	var total float64
	for _, l := range order {
		total += byLine[l]
	}
	return total
}
