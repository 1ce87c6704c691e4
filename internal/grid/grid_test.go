package grid

import (
	"reflect"
	"testing"

	"github.com/theirongolddev/hbudget/internal/model"
)

func TestParse_QuotingAndPadding(t *testing.T) {
	in := "a,b,c\r\n\"x, y\",\"line1\nline2\",\"say \"\"hi\"\"\"\nshort\n"
	g, err := ParseString(in)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	want := [][]string{
		{"a", "b", "c"},
		{"x, y", "line1\nline2", `say "hi"`},
		{"short", "", ""},
	}
	if !reflect.DeepEqual(g, want) {
		t.Fatalf("grid = %q, want %q", g, want)
	}
}

func TestParse_EmptyRowsKeepPosition(t *testing.T) {
	g, err := ParseString("h1,h2\n,\n,\nv1,v2\n")
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if Cell(g, 3, 1) != "v2" {
		t.Fatalf("Cell(3,1) = %q, want v2", Cell(g, 3, 1))
	}
}

func TestFromTableToTable(t *testing.T) {
	tbl := model.Table{
		Headers: []string{"A", "B"},
		Rows:    [][]string{{"1"}, {"2", "3", "4"}},
	}
	g := FromTable(tbl)
	if len(g) != 3 || len(g[0]) != 3 || len(g[1]) != 3 {
		t.Fatalf("grid not rectangular: %q", g)
	}
	if Cell(g, 2, 2) != "4" || Cell(g, 0, 1) != "B" {
		t.Fatalf("unexpected cells: %q", g)
	}
	if Cell(g, 9, 9) != "" || Cell(g, -1, 0) != "" {
		t.Fatal("out-of-range Cell should be empty")
	}

	back := ToTable(g)
	if !reflect.DeepEqual(back.Headers, []string{"A", "B", ""}) {
		t.Fatalf("Headers = %q", back.Headers)
	}
	if len(back.Rows) != 2 {
		t.Fatalf("Rows = %d, want 2", len(back.Rows))
	}

	empty := ToTable([][]string{{"only"}})
	if len(empty.Headers) != 0 || len(empty.Rows) != 0 {
		t.Fatalf("single-row grid should give empty table, got %+v", empty)
	}
}
