package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/hbudget/internal/cli"
	"github.com/theirongolddev/hbudget/internal/model"
	"github.com/theirongolddev/hbudget/internal/pipeline"
	"github.com/theirongolddev/hbudget/internal/tui/components"
	"github.com/theirongolddev/hbudget/internal/tui/theme"
)

// sparkMonths returns the loaded months up to and including the selection.
func (a App) sparkMonths() []model.Month {
	months := a.view.Months
	if i := slices.Index(months, a.report.Month); i >= 0 {
		return months[:i+1]
	}
	return months
}

func (a App) windowLabel() string {
	w := a.report.Window
	switch len(w) {
	case 0:
		return "no prior months"
	case 1:
		return "avg of " + w[0].Short()
	default:
		return fmt.Sprintf("avg of %s – %s", w[0].Short(), w[len(w)-1].Short())
	}
}

// renderLines renders budget lines as bars with a trailing-average column
// and an optional sparkline per line.
func renderLines(lines []model.BudgetLine, sparks map[string][]float64, labelW, barW int) string {
	t := theme.Active
	bg := lipgloss.NewStyle().Background(t.Surface)
	dim := bg.Foreground(t.TextDim)

	var b strings.Builder
	for _, line := range lines {
		b.WriteString(components.BudgetBar(line, labelW, barW))
		b.WriteString(dim.Render(fmt.Sprintf("  avg %7s", cli.FormatMoney(line.Avg))))
		b.WriteString(bg.Foreground(t.Signed(line.Variance)).Render(fmt.Sprintf("  %7s", cli.FormatSigned(line.Variance))))
		if s, ok := sparks[line.Name]; ok && len(s) > 1 {
			b.WriteString(bg.Render("  "))
			b.WriteString(components.Sparkline(s, t.Trend))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderTotals(label string, tot model.BudgetTotals) string {
	t := theme.Active
	bg := lipgloss.NewStyle().Background(t.Surface)
	return bg.Foreground(t.TextMuted).Bold(true).Render(fmt.Sprintf("%s  %s of %s  ", label,
		cli.FormatMoney(tot.Actual), cli.FormatMoney(tot.Budget))) +
		bg.Foreground(t.Signed(tot.Variance)).Render(cli.FormatSigned(tot.Variance)) +
		bg.Foreground(t.TextDim).Render("  avg "+cli.FormatMoney(tot.Avg))
}

func (a App) barWidth(cw int) int {
	return max(8, min(30, components.CardInnerWidth(cw)-70))
}

func (a App) renderBudgetTab(cw int) string {
	var b strings.Builder
	b.WriteString(a.renderWarnings())

	r := a.report
	c := r.Controlled
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Controlled budget", Value: cli.FormatMoney(c.Budget), Delta: "Food, Gas, General"},
		{Label: "Spent", Value: cli.FormatMoney(c.Spent), Delta: r.Month.String()},
		{Label: "Remaining", Value: cli.FormatMoney(c.Remaining), Delta: cli.FormatStatus(c.Status), Color: theme.Active.Status(c.Status)},
	}, cw))
	b.WriteString("\n")

	raw := pipeline.BucketSparklines(a.view.Index, a.sparkMonths(), pipeline.SparklineMonths)
	sparks := make(map[string][]float64, len(raw))
	for bucket, vals := range raw {
		sparks[bucket.String()] = vals
	}

	barW := a.barWidth(cw)
	b.WriteString(components.ContentCard("Discretionary · "+a.windowLabel(),
		renderLines(r.Buckets, sparks, 20, barW), cw))
	b.WriteString("\n")

	body := renderLines(r.Utilities, nil, 20, barW) + "\n" + renderTotals("Utilities", r.UtilTotal)
	b.WriteString(components.ContentCard("Utilities", body, cw))
	return b.String()
}

func (a App) renderFixedTab(cw int) string {
	t := theme.Active
	var b strings.Builder
	b.WriteString(a.renderWarnings())

	r := a.report
	healthColor := t.Good
	if r.Health.OnTrack < r.Health.Total {
		healthColor = t.Warn
	}
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Fixed budget", Value: cli.FormatMoney(r.FixedTotal.Budget), Delta: r.Month.String()},
		{Label: "Actual", Value: cli.FormatMoney(r.FixedTotal.Actual), Delta: "avg " + cli.FormatMoney(r.FixedTotal.Avg)},
		{Label: "Health", Value: cli.FormatHealth(r.Health), Color: healthColor},
	}, cw))
	b.WriteString("\n")

	body := renderLines(r.Fixed, nil, 24, a.barWidth(cw)) + "\n" + renderTotals("Fixed", r.FixedTotal)
	b.WriteString(components.ContentCard("Fixed lines · "+a.windowLabel(), body, cw))
	return b.String()
}
