package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/theirongolddev/hbudget/internal/grid"
	"github.com/theirongolddev/hbudget/internal/ledger"
	"github.com/theirongolddev/hbudget/internal/model"
	"github.com/theirongolddev/hbudget/internal/plan"
)

// TableReader reads one named sheet from the tabular store.
type TableReader interface {
	ReadTable(ctx context.Context, sheet string) (model.Table, error)
}

// LoadOptions names the sheets to read and how to interpret them.
type LoadOptions struct {
	LedgerSheet string
	PlanSheet   string
	Layout      plan.Layout
	TableStart  model.Month

	// Logger, when set, receives snapshot cache failures.
	Logger *zerolog.Logger
}

// LoadResult holds the output of one load of the ledger and plan.
type LoadResult struct {
	Transactions []model.Transaction
	Index        map[model.Month][]model.Transaction
	Months       []model.Month // ascending, from TableStart on
	Ledger       *ledger.Result
	Plan         model.Plan

	FetchedAt time.Time
	FromCache bool
	// SnapshotErr is set when the fetched tables could not be cached; the
	// offline fallback may then be stale.
	SnapshotErr error
}

// ProgressFunc reports load progress as a short stage name.
type ProgressFunc func(stage string)

// Load reads the ledger and plan concurrently. A ledger failure is the single
// error returned; a plan failure degrades to a plan carrying the error.
func Load(ctx context.Context, r TableReader, opts LoadOptions, progressFn ProgressFunc) (*LoadResult, error) {
	ledgerTable, planTable, ledgerErr, planErr := fetch(ctx, r, opts, progressFn)
	if ledgerErr != nil {
		return nil, fmt.Errorf("reading %s: %w", opts.LedgerSheet, ledgerErr)
	}
	res := Build(ledgerTable, planTable, planErr, opts)
	res.FetchedAt = time.Now()
	return res, nil
}

func fetch(ctx context.Context, r TableReader, opts LoadOptions, progressFn ProgressFunc) (ledgerTable, planTable model.Table, ledgerErr, planErr error) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		ledgerTable, ledgerErr = r.ReadTable(ctx, opts.LedgerSheet)
		if progressFn != nil {
			progressFn("ledger")
		}
	}()
	go func() {
		defer wg.Done()
		planTable, planErr = r.ReadTable(ctx, opts.PlanSheet)
		if progressFn != nil {
			progressFn("plan")
		}
	}()
	wg.Wait()
	return
}

// Build normalizes already-fetched tables. planErr, when set, marks the plan
// as failed instead of extracting it.
func Build(ledgerTable, planTable model.Table, planErr error, opts LoadOptions) *LoadResult {
	norm := ledger.Normalize(ledgerTable)

	var p model.Plan
	switch {
	case planErr != nil:
		p = plan.Failed(planErr)
	case len(planTable.Headers) == 0 && len(planTable.Rows) == 0:
		p = plan.Failed(fmt.Errorf("plan sheet %s is empty", opts.PlanSheet))
	default:
		p = plan.Extract(grid.FromTable(planTable), opts.Layout)
	}

	since := opts.TableStart
	if since.IsZero() {
		since = ledger.DefaultTableStart
	}

	return &LoadResult{
		Transactions: norm.Transactions,
		Index:        ledger.Index(norm.Transactions),
		Months:       ledger.Months(norm.Transactions, since),
		Ledger:       norm,
		Plan:         p,
	}
}
