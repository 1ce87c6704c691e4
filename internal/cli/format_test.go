package cli

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0"},
		{12.5, "$13"},
		{-12.5, "-$13"},
		{1234.56, "$1,235"},
		{-1234567, "-$1,234,567"},
	}
	for _, tt := range tests {
		if got := FormatMoney(tt.in); got != tt.want {
			t.Errorf("FormatMoney(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatCents(t *testing.T) {
	tests := map[float64]string{
		0:        "$0.00",
		-12.5:    "-$12.50",
		1234.567: "$1,234.57",
	}
	for in, want := range tests {
		if got := FormatCents(in); got != want {
			t.Errorf("FormatCents(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatSigned(t *testing.T) {
	if got := FormatSigned(120); got != "+$120" {
		t.Errorf("FormatSigned(120) = %q", got)
	}
	if got := FormatSigned(-45.2); got != "-$45" {
		t.Errorf("FormatSigned(-45.2) = %q", got)
	}
	if got := FormatSigned(-0.2); got != "+$0" {
		t.Errorf("FormatSigned(-0.2) = %q", got)
	}
}

func TestRenderSparkline(t *testing.T) {
	if got := RenderSparkline(nil); got != "" {
		t.Fatalf("empty sparkline = %q", got)
	}
	got := []rune(RenderSparkline([]float64{0, 50, 100}))
	if len(got) != 3 || got[0] != '▁' || got[2] != '█' {
		t.Fatalf("sparkline = %q", string(got))
	}
	neg := []rune(RenderSparkline([]float64{-100, 100}))
	if neg[0] != '▁' || neg[1] != '█' {
		t.Fatalf("signed sparkline = %q", string(neg))
	}
}

func TestRenderTableAlignsStyledCells(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Line", "Budget"},
		Rows: [][]string{
			{"Food", RenderStatus("good", "$1,200")},
			SeparatorRow,
			{"Total", "$12"},
		},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("got %d lines, want 7:\n%s", len(lines), out)
	}
	w := lipgloss.Width(lines[0])
	for i, l := range lines {
		if lipgloss.Width(l) != w {
			t.Fatalf("line %d width %d, want %d:\n%s", i, lipgloss.Width(l), w, out)
		}
	}
}
