package forecast

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/theirongolddev/hbudget/internal/model"
	"github.com/theirongolddev/hbudget/internal/sheets"
)

var (
	// ErrStale is returned by a Reload that was superseded by a newer one
	// before its read completed. Its result is discarded.
	ErrStale = errors.New("reload superseded by a newer request")

	// ErrWriteFailed wraps store failures while saving a month. The local
	// edit is kept.
	ErrWriteFailed = errors.New("forecast write failed")
)

// Editor owns the forecast settings for one plan sheet. Edits are applied
// locally and persisted to the settings store at once; SaveMonth pushes a
// month's adjustments to the sheet. Failed remote writes never roll back
// local edits.
type Editor struct {
	store  sheets.Store
	kv     SettingsStore
	sheet  string
	layout SheetLayout

	mu       sync.Mutex
	settings Settings
	sheetMap SheetMap
	stamp    uint64
	loaded   bool
}

// NewEditor loads persisted settings. A corrupt settings value is replaced
// by defaults and its decode error returned alongside the usable editor.
func NewEditor(store sheets.Store, kv SettingsStore, sheet string, layout SheetLayout) (*Editor, error) {
	s, err := LoadSettings(kv)
	e := &Editor{
		store:    store,
		kv:       kv,
		sheet:    sheet,
		layout:   layout,
		settings: s,
		sheetMap: SheetMap{MonthCols: map[model.Month]int{}},
	}
	return e, err
}

// Settings returns a copy of the current settings.
func (e *Editor) Settings() Settings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settings.Clone()
}

// Map returns the sheet map from the last successful reload.
func (e *Editor) Map() SheetMap {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sheetMap
}

// Loaded reports whether a reload has completed.
func (e *Editor) Loaded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loaded
}

// Reload re-reads the plan sheet, rebuilds the sheet map, merges sheet
// adjustments over local ones and applies the plan's balances as the
// automatic start values. A reload overtaken by a later one returns
// ErrStale without touching state.
func (e *Editor) Reload(ctx context.Context, autoOverflow, autoHYS float64) error {
	e.mu.Lock()
	e.stamp++
	stamp := e.stamp
	e.mu.Unlock()

	t, err := e.store.ReadTable(ctx, e.sheet)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stamp != stamp {
		return ErrStale
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", e.sheet, err)
	}

	e.sheetMap = BuildSheetMap(t, e.layout)
	if e.sheetMap.Ready() {
		e.settings.MergeSheet(ReadAdjustments(t, e.sheetMap))
	}
	e.settings.ApplyAutoStart(autoOverflow, autoHYS)
	e.loaded = true
	return SaveSettings(e.kv, e.settings)
}

// update applies fn to the settings and persists the result. The local
// change survives a persistence failure.
func (e *Editor) update(fn func(*Settings)) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(&e.settings)
	return SaveSettings(e.kv, e.settings)
}

// SetField edits one adjustment field for m.
func (e *Editor) SetField(m model.Month, f Field, v float64) error {
	return e.update(func(s *Settings) { s.SetField(m, f, v) })
}

// SetAdjustment replaces m's adjustment.
func (e *Editor) SetAdjustment(m model.Month, adj model.Adjustment) error {
	return e.update(func(s *Settings) { s.SetAdjustment(m, adj) })
}

// SetMonthsAhead changes the projection horizon.
func (e *Editor) SetMonthsAhead(n int) error {
	return e.update(func(s *Settings) { s.SetMonthsAhead(n) })
}

// SetStartOverflow pins the starting overflow balance.
func (e *Editor) SetStartOverflow(v float64) error {
	return e.update(func(s *Settings) { s.SetStartOverflow(v) })
}

// SetStartHYS pins the starting HYS balance.
func (e *Editor) SetStartHYS(v float64) error {
	return e.update(func(s *Settings) { s.SetStartHYS(v) })
}

// ResetStart returns to plan-derived starting balances.
func (e *Editor) ResetStart() error {
	return e.update(func(s *Settings) { s.ResetStart() })
}

// SaveMonth writes m's four adjustment cells in one batch. Address
// failures wrap ErrUnresolvable and nothing is written; store failures
// wrap ErrWriteFailed. There is no retry.
func (e *Editor) SaveMonth(ctx context.Context, m model.Month) error {
	e.mu.Lock()
	updates, err := e.sheetMap.Updates(m, e.settings.Adjustment(m))
	e.mu.Unlock()
	if err != nil {
		return err
	}

	if err := e.store.BatchUpdate(ctx, e.sheet, updates); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	return nil
}

// Forecast projects from base using the current settings.
func (e *Editor) Forecast(base model.Month, baseFixed, baseDiscControlled float64, payroll Payroll) []model.ForecastRow {
	return Project(e.Settings().Inputs(base, baseFixed, baseDiscControlled, payroll))
}
