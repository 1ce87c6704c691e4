package pipeline

import (
	"github.com/theirongolddev/hbudget/internal/model"
)

// FilterByBucket returns the rows counted in discretionary
// totals, optionally narrowed to one bucket.
func FilterByBucket(txs []model.Transaction, bucket *model.Bucket) []model.Transaction {
	var out []model.Transaction
	for _, tx := range txs {
		if !countsAsDiscretionary(tx) {
			continue
		}
		if bucket != nil && tx.Bucket != *bucket {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// NetSpend is the running spend of a transaction list: debits add, credits
// subtract. It is not floored.
func NetSpend(txs []model.Transaction) float64 {
	var total float64
	for _, tx := range txs {
		total -= tx.Amount
	}
	return total
}
