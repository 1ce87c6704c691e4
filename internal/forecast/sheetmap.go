package forecast

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/hbudget/internal/model"
	"github.com/theirongolddev/hbudget/internal/plan"
	"github.com/theirongolddev/hbudget/internal/sheets"
)

var (
	// ErrUnresolvable is the parent of every address-resolution failure.
	ErrUnresolvable = errors.New("forecast cell address unresolvable")

	ErrMapNotReady    = fmt.Errorf("%w: sheet map not ready yet", ErrUnresolvable)
	ErrMonthNotMapped = fmt.Errorf("%w: could not find month column", ErrUnresolvable)
	ErrRowsNotMapped  = fmt.Errorf("%w: could not find forecast rows", ErrUnresolvable)
)

// SheetLayout names the labels, matched case-insensitively in the first
// column, that locate forecast adjustments on the plan sheet.
type SheetLayout struct {
	MonthLabel  string   `toml:"month_label" yaml:"month_label"`
	IncomeLabel string   `toml:"income_label" yaml:"income_label"`
	FixedLabels []string `toml:"fixed_labels" yaml:"fixed_labels"`
	DiscLabel   string   `toml:"disc_label" yaml:"disc_label"`
	HYSLabel    string   `toml:"hys_label" yaml:"hys_label"`
}

// DefaultSheetLayout matches the household plan sheet, including its
// misspelled fixed row.
func DefaultSheetLayout() SheetLayout {
	return SheetLayout{
		MonthLabel:  "Month",
		IncomeLabel: "FORECAST INCOME",
		FixedLabels: []string{"FORECAT FIXED", "FORECAST FIXED"},
		DiscLabel:   "FORECAST DES",
		HYSLabel:    "FORECAST HYS",
	}
}

// SheetMap holds resolved 1-based sheet coordinates. A zero row means the
// label was not found.
type SheetMap struct {
	MonthCols map[model.Month]int `json:"monthCols"`
	IncomeRow int                 `json:"incomeRow"`
	FixedRow  int                 `json:"fixedRow"`
	DiscRow   int                 `json:"discRow"`
	HYSRow    int                 `json:"hysRow"`
}

// Ready reports whether at least one month column was found.
func (m SheetMap) Ready() bool {
	return len(m.MonthCols) > 0
}

// RowsMapped reports whether all four adjustment rows were found.
func (m SheetMap) RowsMapped() bool {
	return m.IncomeRow > 0 && m.FixedRow > 0 && m.DiscRow > 0 && m.HYSRow > 0
}

// firstDataRow is the sheet row of table row 0; sheet row 1 is the header.
const firstDataRow = 2

// BuildSheetMap scans the table's data rows for the month header row and
// the four label rows.
func BuildSheetMap(t model.Table, layout SheetLayout) SheetMap {
	m := SheetMap{MonthCols: make(map[model.Month]int)}

	for _, row := range t.Rows {
		if len(row) == 0 || !labelMatch(row[0], layout.MonthLabel) {
			continue
		}
		for c := 1; c < len(row); c++ {
			if month := plan.ParseMonthCell(row[c]); month != nil {
				m.MonthCols[*month] = c + 1
			}
		}
		break
	}

	m.IncomeRow = findRow(t, layout.IncomeLabel)
	for _, label := range layout.FixedLabels {
		if m.FixedRow = findRow(t, label); m.FixedRow > 0 {
			break
		}
	}
	m.DiscRow = findRow(t, layout.DiscLabel)
	m.HYSRow = findRow(t, layout.HYSLabel)
	return m
}

func labelMatch(cell, want string) bool {
	return want != "" && strings.EqualFold(strings.TrimSpace(cell), strings.TrimSpace(want))
}

func findRow(t model.Table, label string) int {
	for i, row := range t.Rows {
		if len(row) > 0 && labelMatch(row[0], label) {
			return i + firstDataRow
		}
	}
	return 0
}

// ReadAdjustments reads the four adjustment cells for every mapped month.
// Unmapped rows and unparsable cells read as zero.
func ReadAdjustments(t model.Table, m SheetMap) map[string]model.Adjustment {
	out := make(map[string]model.Adjustment, len(m.MonthCols))
	cell := func(sheetRow, col int) float64 {
		if sheetRow == 0 {
			return 0
		}
		return sheetNumber(t.Cell(sheetRow-firstDataRow, col-1))
	}
	for month, col := range m.MonthCols {
		out[month.Key()] = model.Adjustment{
			IncomeAdd:   cell(m.IncomeRow, col),
			AddFixed:    cell(m.FixedRow, col),
			AddDisc:     cell(m.DiscRow, col),
			HYSTransfer: cell(m.HYSRow, col),
		}
	}
	return out
}

var numberCleaner = strings.NewReplacer("$", "", ",", "")

// sheetNumber parses a displayed cell number; anything else is zero.
func sheetNumber(s string) float64 {
	s = strings.TrimSpace(numberCleaner.Replace(s))
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return finite(v)
}

// Updates returns the four cell writes for month's adjustment, in
// income, fixed, discretionary, HYS order.
func (m SheetMap) Updates(month model.Month, adj model.Adjustment) ([]sheets.CellUpdate, error) {
	if !m.Ready() {
		return nil, ErrMapNotReady
	}
	col, ok := m.MonthCols[month]
	if !ok {
		return nil, fmt.Errorf("%w for %s", ErrMonthNotMapped, month.Key())
	}
	if !m.RowsMapped() {
		return nil, ErrRowsNotMapped
	}
	return []sheets.CellUpdate{
		{Row: m.IncomeRow, Col: col, Value: finite(adj.IncomeAdd)},
		{Row: m.FixedRow, Col: col, Value: finite(adj.AddFixed)},
		{Row: m.DiscRow, Col: col, Value: finite(adj.AddDisc)},
		{Row: m.HYSRow, Col: col, Value: finite(adj.HYSTransfer)},
	}, nil
}
