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

// planWarnings lists what the user should know about the data behind the
// selected month.
func (a App) planWarnings() []string {
	var out []string
	p := a.view.Plan
	switch {
	case !p.Loaded || p.Error != "":
		msg := "plan unavailable, using default budgets"
		if p.Error != "" {
			msg += ": " + p.Error
		}
		out = append(out, msg)
	case p.MismatchedWith(a.report.Month):
		out = append(out, fmt.Sprintf("plan is for %s (%s); projection uses budgets only",
			p.PlanMonth.String(), p.PlanMonthRaw))
	}
	if a.view.SnapshotErr != nil {
		out = append(out, "offline cache not updated: "+a.view.SnapshotErr.Error())
	}
	if a.view.FromCache {
		out = append(out, "store unreachable, showing cached data from "+a.view.FetchedAt.Format("Jan 02 15:04"))
	}
	return out
}

func (a App) renderWarnings() string {
	t := theme.Active
	style := lipgloss.NewStyle().Foreground(t.Warn).Background(t.Background)
	var b strings.Builder
	for _, w := range a.planWarnings() {
		b.WriteString(style.Render(" ! " + w))
		b.WriteString("\n")
	}
	return b.String()
}

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	r := a.report
	s := r.Summary
	p := r.Projection
	var b strings.Builder

	b.WriteString(a.renderWarnings())

	// Row 1: month totals
	title := r.Month.String()
	if r.IsCurrent {
		title += " (month to date)"
	}
	metrics := []components.Metric{
		{Label: "Income", Value: cli.FormatMoney(s.Income), Delta: "plan " + cli.FormatMoney(p.Income.Budget)},
		{Label: "Fixed", Value: cli.FormatMoney(s.FixedSpend), Delta: "budget " + cli.FormatMoney(r.FixedTotal.Budget)},
		{Label: "Discretionary", Value: cli.FormatMoney(s.DiscSpend), Delta: "budget " + cli.FormatMoney(p.Discretionary.Budget)},
		{Label: "Saved", Value: cli.FormatMoney(s.SavingsTransfer), Delta: "plan " + cli.FormatMoney(p.Savings.Budget)},
		{Label: "Overflow", Value: cli.FormatMoney(s.Overflow), Delta: title, Color: t.Signed(s.Overflow)},
	}
	if a.isCompactLayout() {
		metrics = slices.Delete(metrics, 3, 4)
	}
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")

	// Row 2: controlled budget + projection
	controlled := a.renderControlled()
	projection := renderProjection(p)
	if a.isCompactLayout() {
		b.WriteString(components.ContentCard("Controlled spending", controlled, cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Projection", projection, cw))
	} else {
		halves := components.LayoutRow(cw, 2)
		b.WriteString(components.CardRow([]string{
			components.ContentCard("Controlled spending", controlled, halves[0]),
			components.ContentCard(projectionTitle(p), projection, halves[1]),
		}))
	}
	b.WriteString("\n")

	// Row 3: overflow trend and pay
	series := pipeline.OverflowSeries(a.view.Summaries, a.view.Current, pipeline.SparklineMonths)
	trend := components.Sparkline(series.Values, t.Accent)
	if len(series.Months) > 0 {
		trend += lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).
			Render(fmt.Sprintf("  %s – %s", series.Months[0].Short(), series.Months[len(series.Months)-1].Short()))
	}
	pay := fmt.Sprintf("%s %s/wk · %s %s/wk",
		a.opts.EarnerAName, cli.FormatMoney(a.view.Plan.EarnerAWeekly),
		a.opts.EarnerBName, cli.FormatMoney(a.view.Plan.EarnerBWeekly))
	footer := trend + "\n" + lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render(pay)
	b.WriteString(components.ContentCard("Overflow, last completed months", footer, cw))

	return b.String()
}

func (a App) renderControlled() string {
	t := theme.Active
	r := a.report
	barW := 16
	if a.isCompactLayout() {
		barW = 10
	}

	var b strings.Builder
	for _, line := range r.Buckets {
		bucket, ok := model.ParseBucket(line.Name)
		if !ok || !slices.Contains(model.ControlledBuckets, bucket) {
			continue
		}
		b.WriteString(components.BudgetBar(line, 20, barW))
		b.WriteString("\n")
	}

	c := r.Controlled
	style := lipgloss.NewStyle().Foreground(t.Status(c.Status)).Background(t.Surface).Bold(true)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	b.WriteString(muted.Render(fmt.Sprintf("%-20s ", "Remaining")))
	b.WriteString(style.Render(cli.FormatMoney(c.Remaining)))
	b.WriteString(muted.Render(" of " + cli.FormatMoney(c.Budget)))
	return b.String()
}

func projectionTitle(p model.MonthProjection) string {
	if p.IsCurrent {
		return "Month-end projection"
	}
	return "Plan vs actual"
}

func renderProjection(p model.MonthProjection) string {
	t := theme.Active
	bg := lipgloss.NewStyle().Background(t.Surface)
	head := bg.Foreground(t.TextMuted).Bold(true)
	cell := bg.Foreground(t.TextPrimary)
	dim := bg.Foreground(t.TextDim)

	var b strings.Builder
	b.WriteString(head.Render(fmt.Sprintf("%-17s%10s%10s%10s%10s", "", "Plan", "Actual", "Proj.", "Δ")))
	b.WriteString("\n")
	for _, row := range p.Rows() {
		b.WriteString(cell.Render(fmt.Sprintf("%-17s%10s%10s%10s",
			row.Label,
			cli.FormatMoney(row.Budget),
			cli.FormatMoney(row.Actual),
			cli.FormatMoney(row.Projected))))
		b.WriteString(bg.Foreground(t.Signed(row.Delta)).Render(fmt.Sprintf("%10s", cli.FormatSigned(row.Delta))))
		b.WriteString("\n")
	}
	if p.EndOverflowBal != nil && p.EndHYSBal != nil {
		b.WriteString(dim.Render(fmt.Sprintf("End balances: overflow %s · HYS %s",
			cli.FormatMoney(*p.EndOverflowBal), cli.FormatMoney(*p.EndHYSBal))))
	}
	return strings.TrimRight(b.String(), "\n")
}
