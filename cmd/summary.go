package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/hbudget/internal/cli"
	"github.com/theirongolddev/hbudget/internal/pipeline"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Month overview: totals, controlled spending and projection",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

// loadReport is the shared path for month-scoped commands.
func loadReport(ctx context.Context) (*session, *pipeline.View, pipeline.MonthReport, error) {
	m, err := selectedMonth()
	if err != nil {
		return nil, nil, pipeline.MonthReport{}, err
	}
	s, err := openSession(ctx)
	if err != nil {
		return nil, nil, pipeline.MonthReport{}, err
	}
	view, err := s.loadView(ctx)
	if err != nil {
		s.Close()
		return nil, nil, pipeline.MonthReport{}, err
	}
	return s, view, view.Report(m, s.cfg.General.TrailingMonths), nil
}

// printWarnings reports plan and cache problems that affect the figures.
func printWarnings(view *pipeline.View, r pipeline.MonthReport) {
	p := view.Plan
	switch {
	case !p.Loaded || p.Error != "":
		msg := "plan unavailable, using default budgets"
		if p.Error != "" {
			msg += ": " + p.Error
		}
		fmt.Println(cli.RenderWarning(msg))
	case p.MismatchedWith(r.Month):
		fmt.Println(cli.RenderWarning(fmt.Sprintf("plan is for %s; projection uses budgets only", p.PlanMonth.String())))
	}
	if view.SnapshotErr != nil {
		fmt.Println(cli.RenderWarning("offline cache not updated: " + view.SnapshotErr.Error()))
	}
	if view.FromCache {
		fmt.Println(cli.RenderWarning("store unreachable, showing cached data from " + view.FetchedAt.Format("Jan 02 15:04")))
	}
}

func runSummary(cmd *cobra.Command, _ []string) error {
	s, view, r, err := loadReport(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	if len(view.Transactions) == 0 {
		fmt.Println("\n  No transactions found in the ledger.")
		return nil
	}

	title := r.Month.String()
	if r.IsCurrent {
		title += "  (month to date)"
	}
	fmt.Println()
	fmt.Println(cli.RenderTitle("HOUSEHOLD BUDGET  " + title))
	fmt.Println()
	printWarnings(view, r)

	sum := r.Summary
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Month", "Amount"},
		Rows: [][]string{
			{"Income", cli.FormatCents(sum.Income)},
			{"Fixed spend", cli.FormatCents(sum.FixedSpend)},
			{"Discretionary spend", cli.FormatCents(sum.DiscSpend)},
			{"Savings transfer", cli.FormatCents(sum.SavingsTransfer)},
			cli.SeparatorRow,
			{"Overflow", cli.RenderStatus(signedStatus(sum.Overflow), cli.FormatCents(sum.Overflow))},
		},
	}))
	fmt.Println()

	c := r.Controlled
	fmt.Println("  " + cli.RenderMuted("Controlled spending (Food, Gas, General)"))
	fmt.Printf("  %s\n", cli.RenderBudgetBar(c.Spent, c.Budget, c.Status, 30))
	fmt.Printf("  Remaining %s\n\n", cli.RenderStatus(c.Status, cli.FormatMoney(c.Remaining)))

	title = "Plan vs actual"
	if r.Projection.IsCurrent {
		title = "Month-end projection"
	}
	rows := make([][]string, 0, 6)
	for _, row := range r.Projection.Rows() {
		rows = append(rows, []string{
			row.Label,
			cli.FormatMoney(row.Budget),
			cli.FormatMoney(row.Actual),
			cli.FormatMoney(row.Projected),
			cli.RenderStatus(signedStatus(row.Delta), cli.FormatSigned(row.Delta)),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   title,
		Headers: []string{"", "Plan", "Actual", "Projected", "Delta"},
		Rows:    rows,
	}))
	if p := r.Projection; p.EndOverflowBal != nil && p.EndHYSBal != nil {
		fmt.Printf("  End balances: overflow %s, HYS %s\n",
			cli.FormatMoney(*p.EndOverflowBal), cli.FormatMoney(*p.EndHYSBal))
	}

	series := pipeline.OverflowSeries(view.Summaries, view.Current, pipeline.SparklineMonths)
	if len(series.Values) > 1 {
		fmt.Printf("\n  Overflow trend  %s  %s to %s\n",
			cli.RenderSparkline(series.Values),
			series.Months[0].Short(), series.Months[len(series.Months)-1].Short())
	}
	fmt.Println()
	return nil
}
