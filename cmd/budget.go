package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/hbudget/internal/cli"
	"github.com/theirongolddev/hbudget/internal/model"
	"github.com/theirongolddev/hbudget/internal/pipeline"
)

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Discretionary buckets and utilities against budget",
	RunE:  runBudget,
}

var fixedCmd = &cobra.Command{
	Use:   "fixed",
	Short: "Fixed lines against budget with trailing averages",
	RunE:  runFixed,
}

func init() {
	rootCmd.AddCommand(budgetCmd)
	rootCmd.AddCommand(fixedCmd)
}

func signedStatus(v float64) model.BudgetStatus {
	if v < 0 {
		return model.StatusBad
	}
	return model.StatusGood
}

func windowLabel(w []model.Month) string {
	switch len(w) {
	case 0:
		return "no prior months"
	case 1:
		return "avg of " + w[0].Short()
	default:
		return fmt.Sprintf("avg of %s to %s", w[0].Short(), w[len(w)-1].Short())
	}
}

// lineRows renders budget lines as table rows; sparks, when set, adds a
// per-line trend column.
func lineRows(lines []model.BudgetLine, sparks map[string][]float64) [][]string {
	rows := make([][]string, 0, len(lines))
	for _, l := range lines {
		row := []string{
			l.Name,
			cli.RenderBudgetBar(l.Actual, l.Budget, l.Status, 16),
			cli.FormatMoney(l.Avg),
			cli.RenderStatus(signedStatus(l.Variance), cli.FormatSigned(l.Variance)),
		}
		if sparks != nil {
			row = append(row, cli.RenderSparkline(sparks[l.Name]))
		}
		rows = append(rows, row)
	}
	return rows
}

func totalsRow(label string, t model.BudgetTotals) []string {
	return []string{
		label,
		fmt.Sprintf("%s / %s", cli.FormatMoney(t.Actual), cli.FormatMoney(t.Budget)),
		cli.FormatMoney(t.Avg),
		cli.RenderStatus(signedStatus(t.Variance), cli.FormatSigned(t.Variance)),
	}
}

func runBudget(cmd *cobra.Command, _ []string) error {
	s, view, r, err := loadReport(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	fmt.Println()
	fmt.Println(cli.RenderTitle("BUDGET  " + r.Month.String()))
	fmt.Println()
	printWarnings(view, r)

	months := view.Months
	for i, m := range months {
		if m == r.Month {
			months = months[:i+1]
			break
		}
	}
	raw := pipeline.BucketSparklines(view.Index, months, pipeline.SparklineMonths)
	sparks := make(map[string][]float64, len(raw))
	for b, v := range raw {
		sparks[b.String()] = v
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Discretionary, " + windowLabel(r.Window),
		Headers: []string{"Bucket", "Spent / Budget", "Avg", "Left", "Trend"},
		Rows:    lineRows(r.Buckets, sparks),
	}))
	c := r.Controlled
	fmt.Printf("  Controlled remaining: %s of %s\n\n",
		cli.RenderStatus(c.Status, cli.FormatMoney(c.Remaining)), cli.FormatMoney(c.Budget))

	rows := lineRows(r.Utilities, nil)
	rows = append(rows, cli.SeparatorRow, totalsRow("Total", r.UtilTotal))
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Utilities",
		Headers: []string{"Utility", "Spent / Budget", "Avg", "Left"},
		Rows:    rows,
	}))
	fmt.Println()
	return nil
}

func runFixed(cmd *cobra.Command, _ []string) error {
	s, view, r, err := loadReport(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	fmt.Println()
	fmt.Println(cli.RenderTitle("FIXED  " + r.Month.String()))
	fmt.Println()
	printWarnings(view, r)

	rows := lineRows(r.Fixed, nil)
	rows = append(rows, cli.SeparatorRow, totalsRow("Total", r.FixedTotal))
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Fixed lines, " + windowLabel(r.Window),
		Headers: []string{"Line", "Spent / Budget", "Avg", "Left"},
		Rows:    rows,
	}))

	status := model.StatusGood
	if r.Health.OnTrack < r.Health.Total {
		status = model.StatusWarn
	}
	fmt.Printf("  Health: %s\n\n", cli.RenderStatus(status, cli.FormatHealth(r.Health)))
	return nil
}
