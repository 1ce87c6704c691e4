package ledger

import (
	"slices"
	"time"

	"github.com/theirongolddev/hbudget/internal/model"
)

// DefaultTableStart is the first month shown in month pickers.
var DefaultTableStart = model.Month{Year: 2023, Month: time.December}

// Index groups transactions by month, preserving their order.
func Index(txs []model.Transaction) map[model.Month][]model.Transaction {
	idx := make(map[model.Month][]model.Transaction)
	for _, tx := range txs {
		m := tx.Month()
		idx[m] = append(idx[m], tx)
	}
	return idx
}

// Months returns the distinct months with transactions on or after since,
// oldest first.
func Months(txs []model.Transaction, since model.Month) []model.Month {
	set := make(map[model.Month]struct{})
	for _, tx := range txs {
		m := tx.Month()
		if m.Before(since) {
			continue
		}
		set[m] = struct{}{}
	}
	months := make([]model.Month, 0, len(set))
	for m := range set {
		months = append(months, m)
	}
	slices.SortFunc(months, func(a, b model.Month) int {
		switch {
		case a.Before(b):
			return -1
		case b.Before(a):
			return 1
		}
		return 0
	})
	return months
}

// LatestMonth picks the default selected month: the newest month with data,
// or the month containing now when there is none.
func LatestMonth(months []model.Month, now time.Time) model.Month {
	if len(months) == 0 {
		return model.CurrentMonth(now)
	}
	return months[len(months)-1]
}
