package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/hbudget/internal/model"
)

// SnapshotCache keeps the last raw tables fetched from the store.
type SnapshotCache interface {
	SaveSnapshot(sheet string, t model.Table, fetchedAt time.Time) error
	LoadSnapshot(sheet string) (model.Table, time.Time, error)
}

// LoadWithCache loads from the store and saves what it fetched. When the
// ledger cannot be read it falls back to the cached snapshots and flags the
// result FromCache; with no snapshot the original error is returned.
func LoadWithCache(ctx context.Context, r TableReader, cache SnapshotCache, opts LoadOptions, progressFn ProgressFunc) (*LoadResult, error) {
	ledgerTable, planTable, ledgerErr, planErr := fetch(ctx, r, opts, progressFn)

	if ledgerErr == nil {
		now := time.Now()
		snapErr := cache.SaveSnapshot(opts.LedgerSheet, ledgerTable, now)
		if planErr == nil {
			snapErr = errors.Join(snapErr, cache.SaveSnapshot(opts.PlanSheet, planTable, now))
		}
		res := Build(ledgerTable, planTable, planErr, opts)
		res.FetchedAt = now
		if snapErr != nil {
			res.SnapshotErr = fmt.Errorf("saving snapshot: %w", snapErr)
			if opts.Logger != nil {
				opts.Logger.Warn().Err(snapErr).Msg("snapshot cache write failed")
			}
		}
		return res, nil
	}

	cachedLedger, at, err := cache.LoadSnapshot(opts.LedgerSheet)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", opts.LedgerSheet, ledgerErr)
	}
	if planErr != nil {
		if cachedPlan, _, err := cache.LoadSnapshot(opts.PlanSheet); err == nil {
			planTable, planErr = cachedPlan, nil
		}
	}

	res := Build(cachedLedger, planTable, planErr, opts)
	res.FetchedAt = at
	res.FromCache = true
	return res, nil
}

// CacheDir returns the platform-appropriate cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "hbudget")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "hbudget")
}

// CachePath returns the full path to the cache database.
func CachePath() string {
	return filepath.Join(CacheDir(), "hbudget.db")
}
