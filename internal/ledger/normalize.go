// Package ledger turns raw ledger rows into classified, deduplicated
// transactions and indexes them by month.
package ledger

import (
	"sort"
	"strconv"
	"strings"

	"github.com/theirongolddev/hbudget/internal/classify"
	"github.com/theirongolddev/hbudget/internal/model"
)

// Ledger column headers, matched exactly.
const (
	ColDate        = "Date"
	ColTransaction = "Transaction"
	ColCategory    = "Category"
	ColType        = "Type"
	ColAmount      = "Amount"
	ColIgnore      = "Ignore"
)

// Result holds the output of one normalization pass.
type Result struct {
	Transactions []model.Transaction

	Rows       int // raw rows seen
	BadDates   int // dropped for an unparseable date
	Filtered   int // dropped as empty, ignored, transfer or IGNORE bucket
	Duplicates int // dropped by the dedup key
}

// columns maps header name to index. When a header repeats, the first
// non-empty cell under any of its columns is used.
type columns map[string][]int

func resolveColumns(headers []string) columns {
	cols := make(columns, len(headers))
	for i, h := range headers {
		cols[h] = append(cols[h], i)
	}
	return cols
}

func (c columns) pick(row []string, name string) string {
	for _, i := range c[name] {
		if i < len(row) && row[i] != "" {
			return row[i]
		}
	}
	return ""
}

// Normalize converts a raw ledger table into transactions sorted newest
// first. Malformed rows are skipped and counted, never returned as errors.
func Normalize(t model.Table) *Result {
	cols := resolveColumns(t.Headers)
	res := &Result{Rows: len(t.Rows)}

	seen := make(map[string]struct{}, len(t.Rows))
	out := make([]model.Transaction, 0, len(t.Rows))

	for _, row := range t.Rows {
		date, ok := ParseDate(cols.pick(row, ColDate))
		if !ok {
			res.BadDates++
			continue
		}

		category := strings.TrimSpace(cols.pick(row, ColCategory))
		tx := model.Transaction{
			Date:        date,
			Description: strings.TrimSpace(cols.pick(row, ColTransaction)),
			Category:    category,
			Type:        model.ParseTxType(cols.pick(row, ColType)),
			Amount:      ParseAmount(cols.pick(row, ColAmount)),
			Bucket:      classify.Bucket(category),
		}

		if tx.Description == "" ||
			IsTruthy(cols.pick(row, ColIgnore)) ||
			tx.Type == model.TypeTransfer ||
			tx.Bucket == model.BucketIgnore {
			res.Filtered++
			continue
		}

		key := dedupKey(tx)
		if _, dup := seen[key]; dup {
			res.Duplicates++
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tx)
	}

	// Stable so same-day rows keep their input order across passes.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})

	res.Transactions = out
	return res
}

func dedupKey(tx model.Transaction) string {
	return model.DayKey(tx.Date) + "|" +
		strings.ToLower(tx.Description) + "|" +
		strconv.FormatFloat(tx.Amount, 'f', -1, 64)
}
