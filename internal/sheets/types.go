// Package sheets is the tabular store adapter: named sheets read as
// header+rows tables and written as batches of single-cell updates.
package sheets

import (
	"context"
	"fmt"
	"strconv"

	"github.com/theirongolddev/hbudget/internal/model"
)

// CellUpdate addresses one cell with 1-based row and column.
type CellUpdate struct {
	Row   int `json:"row"`
	Col   int `json:"col"`
	Value any `json:"value"`
}

// Reader reads a whole sheet. A sheet with fewer than two rows yields an
// empty table.
type Reader interface {
	ReadTable(ctx context.Context, sheet string) (model.Table, error)
}

// Writer applies a batch of cell updates in one call.
type Writer interface {
	BatchUpdate(ctx context.Context, sheet string, updates []CellUpdate) error
}

// Store reads and writes.
type Store interface {
	Reader
	Writer
}

// ValidateUpdates rejects empty batches and non-positive addresses.
func ValidateUpdates(updates []CellUpdate) error {
	if len(updates) == 0 {
		return &Error{Code: "MISSING_UPDATES", Message: "missing_updates", Err: ErrInvalidUpdate}
	}
	for i, u := range updates {
		if u.Row < 1 || u.Col < 1 {
			return &Error{
				Code:    "BAD_UPDATE_SHAPE",
				Message: fmt.Sprintf("bad_update_shape: update %d has row %d col %d", i, u.Row, u.Col),
				Err:     ErrInvalidUpdate,
			}
		}
	}
	return nil
}

// cellValue renders a nil value as an empty cell.
func cellValue(v any) any {
	if v == nil {
		return ""
	}
	return v
}

// formatValue renders a written value the way a sheet would display it.
func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
