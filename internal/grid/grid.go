// Package grid converts delimited text and store tables into rectangular
// string grids for label-driven extraction.
package grid

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/theirongolddev/hbudget/internal/model"
)

// Parse reads RFC 4180 CSV (quoted delimiters, embedded newlines and doubled
// quotes) and pads ragged rows to a rectangle. Blank lines carry no cells and
// are skipped; spreadsheet exports write empty rows as bare commas.
func Parse(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing csv: %w", err)
	}
	return Pad(rows), nil
}

// ParseString is Parse over an in-memory string.
func ParseString(s string) ([][]string, error) {
	return Parse(strings.NewReader(s))
}

// Pad extends every row to the width of the widest one.
func Pad(rows [][]string) [][]string {
	width := 0
	for _, r := range rows {
		width = max(width, len(r))
	}
	for i, r := range rows {
		if len(r) < width {
			padded := make([]string, width)
			copy(padded, r)
			rows[i] = padded
		}
	}
	return rows
}

// FromTable turns a store table into a grid whose row 0 is the header row, so
// grid coordinates match sheet coordinates (row r is sheet row r+1).
func FromTable(t model.Table) [][]string {
	rows := make([][]string, 0, len(t.Rows)+1)
	rows = append(rows, append([]string(nil), t.Headers...))
	for _, r := range t.Rows {
		rows = append(rows, append([]string(nil), r...))
	}
	return Pad(rows)
}

// ToTable splits a grid into the {headers, rows} shape. A grid with fewer
// than two rows yields an empty table.
func ToTable(g [][]string) model.Table {
	if len(g) < 2 {
		return model.Table{Headers: []string{}, Rows: [][]string{}}
	}
	headers := make([]string, len(g[0]))
	for i, h := range g[0] {
		headers[i] = strings.TrimSpace(h)
	}
	return model.Table{Headers: headers, Rows: g[1:]}
}

// Cell returns the trimmed cell at (r, c), or "" when out of range.
func Cell(g [][]string, r, c int) string {
	if r < 0 || r >= len(g) || c < 0 || c >= len(g[r]) {
		return ""
	}
	return strings.TrimSpace(g[r][c])
}
