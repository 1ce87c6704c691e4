package sheets

import (
	"fmt"
	"strconv"
	"strings"
)

// ColumnLetters converts a 1-based column number to its letter name
// (1 -> A, 26 -> Z, 27 -> AA). Non-positive input yields "".
func ColumnLetters(col int) string {
	var buf []byte
	for n := col; n > 0; n = (n - 1) / 26 {
		buf = append([]byte{byte('A' + (n-1)%26)}, buf...)
	}
	return string(buf)
}

// A1 renders a sheet-qualified single-cell address, e.g. PLAN!C7.
func A1(sheet string, row, col int) string {
	return sheet + "!" + ColumnLetters(col) + strconv.Itoa(row)
}

// ColumnRange renders the whole-width read range used for every sheet.
func ColumnRange(sheet string) string {
	return sheet + "!A:Z"
}

// ParseCell parses a single-cell reference such as "H2" or "$AA$10" into a
// 1-based row and column.
func ParseCell(ref string) (row, col int, err error) {
	s := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(ref), "$", ""))
	i := 0
	for i < len(s) && s[i] >= 'A' && s[i] <= 'Z' {
		col = col*26 + int(s[i]-'A'+1)
		i++
	}
	if i == 0 || i == len(s) {
		return 0, 0, fmt.Errorf("invalid cell reference %q", ref)
	}
	row, err = strconv.Atoi(s[i:])
	if err != nil || row < 1 {
		return 0, 0, fmt.Errorf("invalid cell reference %q", ref)
	}
	return row, col, nil
}

// ParseRange parses "H2:H6" (or a single cell) into its corner cells.
func ParseRange(ref string) (top, bottom CellUpdate, err error) {
	if i := strings.LastIndex(ref, "!"); i >= 0 {
		ref = ref[i+1:]
	}
	first, last, found := strings.Cut(ref, ":")
	if !found {
		last = first
	}
	if top.Row, top.Col, err = ParseCell(first); err != nil {
		return top, bottom, err
	}
	if bottom.Row, bottom.Col, err = ParseCell(last); err != nil {
		return top, bottom, err
	}
	return top, bottom, nil
}
