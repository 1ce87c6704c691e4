package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestBarChartKeepsNewestMonths(t *testing.T) {
	values := make([]float64, 30)
	labels := make([]string, 30)
	for i := range values {
		values[i] = float64(100 * (i + 1))
		labels[i] = "m" + string(rune('a'+i%26))
	}
	out := BarChart(values, labels, lipgloss.Color("#00ff00"), 40, 6)
	lines := strings.Split(out, "\n")

	// height rows + axis + labels
	if len(lines) != 8 {
		t.Fatalf("got %d lines, want 8", len(lines))
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w > 40 {
			t.Fatalf("line %d is %d wide, want <= 40", i, w)
		}
	}
	if !strings.Contains(lines[len(lines)-1], labels[29]) {
		t.Fatalf("newest month label missing: %q", lines[len(lines)-1])
	}
	if !strings.Contains(lines[0], "$3k") {
		t.Fatalf("top tick = %q, want the $3k ceiling", lines[0])
	}
}

func TestBarChartAxisFitsWidestTick(t *testing.T) {
	// A $3k ceiling puts $1.5k on the middle tick, wider than the top one.
	out := BarChart([]float64{1000, 2000, 2900}, []string{"a", "b", "c"}, lipgloss.Color("#00ff00"), 30, 6)
	lines := strings.Split(stripANSI(out), "\n")

	axis := strings.IndexRune(lines[0], '│')
	var sawMid bool
	for i, line := range lines[:6] {
		if got := strings.IndexRune(line, '│'); got != axis {
			t.Fatalf("line %d axis at byte %d, want %d: %q", i, got, axis, line)
		}
		if strings.Contains(line, "$1.5k") {
			sawMid = true
		}
	}
	if !sawMid {
		t.Fatalf("middle tick $1.5k missing:\n%s", strings.Join(lines, "\n"))
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w > 30 {
			t.Fatalf("line %d is %d wide, want <= 30", i, w)
		}
	}
}

func TestBarChartFallsBackToSparkline(t *testing.T) {
	got := BarChart([]float64{1, 2, 3}, nil, lipgloss.Color("#fff"), 10, 2)
	if strings.Contains(got, "\n") {
		t.Fatalf("tiny charts should render as a one-line sparkline, got %q", got)
	}
}

func TestSparklineBaselineForDeficits(t *testing.T) {
	got := []rune(stripANSI(Sparkline([]float64{-100, 0, 100}, lipgloss.Color("#fff"))))
	if len(got) != 3 || got[0] != '▁' || got[2] != '█' {
		t.Fatalf("Sparkline = %q", string(got))
	}
	if got[1] == '▁' || got[1] == '█' {
		t.Fatalf("zero should sit between the deficit and the peak, got %q", string(got))
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEsc = true
		case inEsc && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'):
			inEsc = false
		case !inEsc:
			b.WriteRune(r)
		}
	}
	return b.String()
}
