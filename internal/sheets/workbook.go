package sheets

import (
	"context"
	"errors"
	"os"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/theirongolddev/hbudget/internal/grid"
	"github.com/theirongolddev/hbudget/internal/model"
)

// Workbook is a local .xlsx file standing in for the spreadsheet. Each
// call opens the file fresh so edits made in a spreadsheet app are seen.
type Workbook struct {
	path string
	mu   sync.Mutex
}

// NewWorkbook returns a store backed by the workbook at path. The file is
// created on first write if it does not exist.
func NewWorkbook(path string) *Workbook {
	return &Workbook{path: path}
}

// Path returns the workbook location.
func (w *Workbook) Path() string { return w.path }

func (w *Workbook) ReadTable(ctx context.Context, sheet string) (model.Table, error) {
	if err := ctx.Err(); err != nil {
		return model.Table{}, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := excelize.OpenFile(w.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.Table{}, &Error{Code: "NOT_FOUND", Message: "workbook not found: " + w.path, Err: ErrNotFound}
		}
		return model.Table{}, pkgerrors.Wrap(err, "opening workbook")
	}
	defer f.Close()

	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		return model.Table{}, &Error{Code: "NOT_FOUND", Message: "sheet not found: " + sheet, Err: ErrNotFound}
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return model.Table{}, pkgerrors.Wrapf(err, "reading %s", sheet)
	}
	return grid.ToTable(grid.Pad(rows)), nil
}

func (w *Workbook) BatchUpdate(ctx context.Context, sheet string, updates []CellUpdate) error {
	if err := ValidateUpdates(updates); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := excelize.OpenFile(w.path)
	if errors.Is(err, os.ErrNotExist) {
		f, err = excelize.NewFile(), nil
	}
	if err != nil {
		return pkgerrors.Wrap(err, "opening workbook")
	}
	defer f.Close()

	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		if _, err := f.NewSheet(sheet); err != nil {
			return pkgerrors.Wrapf(err, "creating sheet %s", sheet)
		}
	}

	for _, u := range updates {
		cell, err := excelize.CoordinatesToCellName(u.Col, u.Row)
		if err != nil {
			return &Error{Code: "BAD_UPDATE_SHAPE", Message: err.Error(), Err: ErrInvalidUpdate}
		}
		if err := f.SetCellValue(sheet, cell, cellValue(u.Value)); err != nil {
			return pkgerrors.Wrapf(err, "setting %s", A1(sheet, u.Row, u.Col))
		}
	}

	if err := f.SaveAs(w.path); err != nil {
		return pkgerrors.Wrap(err, "saving workbook")
	}
	return nil
}
