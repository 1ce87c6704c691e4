package pipeline

import (
	"github.com/theirongolddev/hbudget/internal/model"
)

// DefaultTrailingMonths is the rolling-average window.
const DefaultTrailingMonths = 3

// TrailingWindow returns selected plus up to n-1 preceding months from the
// ascending month list. It is empty when selected is not in the list.
func TrailingWindow(months []model.Month, selected model.Month, n int) []model.Month {
	if n < 1 {
		n = 1
	}
	idx := -1
	for i, m := range months {
		if m == selected {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	return months[max(0, idx-n+1) : idx+1]
}

// Trailing holds per-dimension averages of monthly spend across a window.
type Trailing struct {
	Months    int
	Buckets   map[model.Bucket]float64
	Fixed     map[model.FixedLine]float64
	Utilities map[string]float64
}

// TrailingAverage averages each month's bucket, fixed-line and utility-line
// spend over the window. An empty window yields zero averages.
func TrailingAverage(idx map[model.Month][]model.Transaction, window []model.Month, utilityLines []string) Trailing {
	t := Trailing{
		Months:    len(window),
		Buckets:   make(map[model.Bucket]float64, len(model.Buckets)),
		Fixed:     make(map[model.FixedLine]float64, len(model.FixedOrder)),
		Utilities: make(map[string]float64, len(utilityLines)),
	}
	for _, b := range model.Buckets {
		t.Buckets[b] = 0
	}
	for _, l := range model.FixedOrder {
		t.Fixed[l] = 0
	}
	for _, u := range utilityLines {
		t.Utilities[u] = 0
	}
	if len(window) == 0 {
		return t
	}

	for _, m := range window {
		txs := idx[m]
		for b, v := range SpendByBucket(txs) {
			t.Buckets[b] += v
		}
		for l, v := range FixedByLine(txs) {
			t.Fixed[l] += v
		}
		for u, v := range UtilitiesByLine(txs, utilityLines) {
			t.Utilities[u] += v
		}
	}

	n := float64(len(window))
	for b := range t.Buckets {
		t.Buckets[b] /= n
	}
	for l := range t.Fixed {
		t.Fixed[l] /= n
	}
	for u := range t.Utilities {
		t.Utilities[u] /= n
	}
	return t
}
