package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/hbudget/internal/tui/theme"
)

// Sparkline renders a unicode sparkline from values. The scale runs from
// min(0, lowest) to the peak so deficits sit below an empty baseline.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	low, peak := 0.0, values[0]
	for _, v := range values {
		low = math.Min(low, v)
		peak = math.Max(peak, v)
	}
	span := peak - low
	if span == 0 {
		span = 1
	}

	style := lipgloss.NewStyle().Foreground(color).Background(t.Surface)

	var buf strings.Builder
	buf.Grow(len(values) * 3)
	for _, v := range values {
		idx := int((v - low) / span * float64(len(blocks)-1))
		idx = max(0, min(idx, len(blocks)-1))
		buf.WriteRune(blocks[idx])
	}

	return style.Render(buf.String())
}

// BarChart renders one column per month with a dollar y-axis. Series that
// do not fit width lose their oldest months. Negative values draw as empty
// columns, and a dotted guide marks the average of the plotted values.
func BarChart(values []float64, labels []string, color lipgloss.Color, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	if width < 15 || height < 3 {
		return Sparkline(values, color)
	}
	if len(labels) != len(values) {
		labels = nil
	}

	t := theme.Active
	surface := lipgloss.NewStyle().Background(t.Surface)
	axisStyle := surface.Foreground(t.TextDim)
	barStyle := surface.Foreground(color)
	peakStyle := surface.Foreground(t.AccentBright)

	peak := 0.0
	for _, v := range values {
		peak = math.Max(peak, v)
	}
	step := chartTickStep(peak)
	ceiling := math.Max(step, math.Ceil(peak/step)*step)

	midRow := (height + 1) / 2
	midLabel := formatChartLabel(ceiling * float64(midRow) / float64(height))
	yLabelW := max(4, len(formatChartLabel(ceiling))+1, len(midLabel)+1)
	chartW := width - yLabelW - 1

	// Columns are barW wide with one space between; keep the newest months.
	const gap = 1
	fit := max(1, (chartW+gap)/(2+gap))
	if len(values) > fit {
		values = values[len(values)-fit:]
		if labels != nil {
			labels = labels[len(labels)-fit:]
		}
	}
	n := len(values)
	barW := max(2, min(6, (chartW+gap)/n-gap))
	axisLen := n*barW + (n-1)*gap

	var sum float64
	for _, v := range values {
		sum += math.Max(v, 0)
	}
	avg := sum / float64(n)
	guideRow := int(math.Ceil(avg / ceiling * float64(height)))

	blocks := []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	var b strings.Builder
	for row := height; row >= 1; row-- {
		top := ceiling * float64(row) / float64(height)
		bottom := ceiling * float64(row-1) / float64(height)

		label := ""
		switch row {
		case height:
			label = formatChartLabel(ceiling)
		case midRow:
			label = midLabel
		}
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s│", yLabelW, label)))

		empty := " "
		if row == guideRow && avg > 0 {
			empty = "┄"
		}
		for i, v := range values {
			if i > 0 {
				b.WriteString(axisStyle.Render(empty))
			}
			style := barStyle
			if v >= peak && peak > 0 {
				style = peakStyle
			}
			switch {
			case v >= top:
				b.WriteString(style.Render(strings.Repeat("█", barW)))
			case v > bottom:
				idx := max(1, min(8, int((v-bottom)/(top-bottom)*8)))
				b.WriteString(style.Render(strings.Repeat(string(blocks[idx]), barW)))
			default:
				b.WriteString(axisStyle.Render(strings.Repeat(empty, barW)))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s└%s", yLabelW, "$0", strings.Repeat("─", axisLen))))

	if labels != nil {
		// Label every k-th column so labels never touch.
		widest := 0
		for _, l := range labels {
			widest = max(widest, len(l))
		}
		k := max(1, (widest+barW)/(barW+gap))
		line := []byte(strings.Repeat(" ", axisLen))
		for i := n - 1; i >= 0; i -= k {
			pos := i * (barW + gap)
			copy(line[pos:], labels[i])
		}
		b.WriteString("\n")
		b.WriteString(surface.Render(strings.Repeat(" ", yLabelW+1)))
		b.WriteString(axisStyle.Render(strings.TrimRight(string(line), " ")))
	}

	return b.String()
}

// chartTickStep computes a nice tick interval targeting ~5 ticks.
func chartTickStep(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	rough := maxVal / 5
	exp := math.Floor(math.Log10(rough))
	base := math.Pow(10, exp)
	frac := rough / base

	switch {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

func formatChartLabel(v float64) string {
	switch {
	case v >= 1e6:
		if v == math.Trunc(v/1e6)*1e6 {
			return fmt.Sprintf("$%.0fM", v/1e6)
		}
		return fmt.Sprintf("$%.1fM", v/1e6)
	case v >= 1e3:
		if v == math.Trunc(v/1e3)*1e3 {
			return fmt.Sprintf("$%.0fk", v/1e3)
		}
		return fmt.Sprintf("$%.1fk", v/1e3)
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}
