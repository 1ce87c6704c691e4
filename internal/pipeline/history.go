package pipeline

import (
	"github.com/theirongolddev/hbudget/internal/model"
)

// History groups month summaries (newest first) by year, newest year first,
// each year row followed by its months. The current month is excluded.
func History(summaries []model.MonthSummary, current model.Month) []model.HistoryRow {
	prior := Completed(summaries, current)

	var (
		years  []int
		byYear = make(map[int]*model.YearSummary)
	)
	for _, s := range prior {
		y, ok := byYear[s.Month.Year]
		if !ok {
			y = &model.YearSummary{Year: s.Month.Year}
			byYear[s.Month.Year] = y
			years = append(years, s.Month.Year)
		}
		y.Months++
		y.Income += s.Income
		y.FixedSpend += s.FixedSpend
		y.DiscSpend += s.DiscSpend
		y.SavingsTransfer += s.SavingsTransfer
		y.Overflow += s.Overflow
	}

	// prior is newest first, so years are already descending.
	rows := make([]model.HistoryRow, 0, len(prior)+len(years))
	for _, year := range years {
		rows = append(rows, model.HistoryRow{Year: byYear[year]})
		for i := range prior {
			if prior[i].Month.Year == year {
				rows = append(rows, model.HistoryRow{Month: &prior[i]})
			}
		}
	}
	return rows
}

// Completed drops the current month from newest-first summaries.
func Completed(summaries []model.MonthSummary, current model.Month) []model.MonthSummary {
	out := make([]model.MonthSummary, 0, len(summaries))
	for _, s := range summaries {
		if s.Month != current {
			out = append(out, s)
		}
	}
	return out
}

// Series is chart data ordered oldest to newest.
type Series struct {
	Months []model.Month `json:"months"`
	Values []float64     `json:"values"`
}

// OverflowSeries returns overflow for the last n completed months.
func OverflowSeries(summaries []model.MonthSummary, current model.Month, n int) Series {
	return lastN(Completed(summaries, current), n, func(s model.MonthSummary) float64 { return s.Overflow })
}

// SavingsSeries returns savings transfers for the last n completed months.
func SavingsSeries(summaries []model.MonthSummary, current model.Month, n int) Series {
	return lastN(Completed(summaries, current), n, func(s model.MonthSummary) float64 { return s.SavingsTransfer })
}

// RecentOverflow returns overflow for the newest n months including the
// current one.
func RecentOverflow(summaries []model.MonthSummary, n int) Series {
	return lastN(summaries, n, func(s model.MonthSummary) float64 { return s.Overflow })
}

func lastN(newestFirst []model.MonthSummary, n int, value func(model.MonthSummary) float64) Series {
	k := min(n, len(newestFirst))
	s := Series{Months: make([]model.Month, k), Values: make([]float64, k)}
	for i := 0; i < k; i++ {
		src := newestFirst[k-1-i]
		s.Months[i] = src.Month
		s.Values[i] = value(src)
	}
	return s
}

// BucketSparklines returns per-bucket spend for the last n months of the
// ascending month list.
func BucketSparklines(idx map[model.Month][]model.Transaction, months []model.Month, n int) map[model.Bucket][]float64 {
	start := max(0, len(months)-n)
	out := make(map[model.Bucket][]float64, len(model.Buckets))
	for _, m := range months[start:] {
		spend := SpendByBucket(idx[m])
		for _, b := range model.Buckets {
			out[b] = append(out[b], spend[b])
		}
	}
	return out
}
