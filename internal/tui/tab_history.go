package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/hbudget/internal/cli"
	"github.com/theirongolddev/hbudget/internal/model"
	"github.com/theirongolddev/hbudget/internal/pipeline"
	"github.com/theirongolddev/hbudget/internal/tui/components"
	"github.com/theirongolddev/hbudget/internal/tui/theme"
)

// monthLabels labels a chart series: the month abbreviation, with the
// two-digit year on January and on the first column.
func monthLabels(months []model.Month) []string {
	labels := make([]string, len(months))
	for i, m := range months {
		labels[i] = m.Short()
		if i == 0 || m.Month == 1 {
			labels[i] += " " + strconv.Itoa(m.Year%100)
		}
	}
	return labels
}

func (a App) renderHistoryTab(cw, contentH int) string {
	t := theme.Active
	var b strings.Builder

	n := pipeline.HistorySeriesMonths
	if a.isCompactLayout() {
		n = 12
	}
	savings := pipeline.SavingsSeries(a.view.Summaries, a.view.Current, n)
	if len(savings.Values) > 0 {
		chartH := 8
		if contentH < 30 {
			chartH = 5
		}
		b.WriteString(components.ContentCard(
			fmt.Sprintf("Savings transfers, last %d months", len(savings.Values)),
			components.BarChart(savings.Values, monthLabels(savings.Months), t.Savings, components.CardInnerWidth(cw), chartH),
			cw,
		))
		b.WriteString("\n")
	}

	rows := a.view.History()
	if len(rows) == 0 {
		b.WriteString(components.ContentCard("History", "No completed months yet.", cw))
		return b.String()
	}

	bg := lipgloss.NewStyle().Background(t.Surface)
	head := bg.Foreground(t.TextMuted).Bold(true)
	yearStyle := bg.Foreground(t.AccentBright).Bold(true)
	cell := bg.Foreground(t.TextPrimary)

	format := "%-12s%11s%11s%11s%11s"
	var tb strings.Builder
	tb.WriteString(head.Render(fmt.Sprintf(format+"%11s", "", "Income", "Fixed", "Disc", "Saved", "Overflow")))
	tb.WriteString("\n")
	for _, row := range rows {
		label, style := "", cell
		var s model.MonthSummary
		if row.Year != nil {
			y := row.Year
			label = fmt.Sprintf("%d (%d mo)", y.Year, y.Months)
			style = yearStyle
			s = model.MonthSummary{Income: y.Income, FixedSpend: y.FixedSpend, DiscSpend: y.DiscSpend,
				SavingsTransfer: y.SavingsTransfer, Overflow: y.Overflow}
		} else {
			s = *row.Month
			label = "  " + s.Month.Short()
		}
		tb.WriteString(style.Render(fmt.Sprintf(format, label,
			cli.FormatMoney(s.Income), cli.FormatMoney(s.FixedSpend),
			cli.FormatMoney(s.DiscSpend), cli.FormatMoney(s.SavingsTransfer))))
		tb.WriteString(style.Foreground(t.Signed(s.Overflow)).Render(fmt.Sprintf("%11s", cli.FormatMoney(s.Overflow))))
		tb.WriteString("\n")
	}
	b.WriteString(components.ContentCard("History", strings.TrimRight(tb.String(), "\n"), cw))
	return b.String()
}
