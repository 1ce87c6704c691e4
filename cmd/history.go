package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/hbudget/internal/cli"
	"github.com/theirongolddev/hbudget/internal/model"
	"github.com/theirongolddev/hbudget/internal/pipeline"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Completed months grouped by year",
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func summaryRow(label string, s model.MonthSummary) []string {
	return []string{
		label,
		cli.FormatMoney(s.Income),
		cli.FormatMoney(s.FixedSpend),
		cli.FormatMoney(s.DiscSpend),
		cli.FormatMoney(s.SavingsTransfer),
		cli.RenderStatus(signedStatus(s.Overflow), cli.FormatMoney(s.Overflow)),
	}
}

func runHistory(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	view, err := s.loadView(cmd.Context())
	if err != nil {
		return err
	}

	history := view.History()
	if len(history) == 0 {
		fmt.Println("\n  No completed months yet.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("HISTORY"))
	fmt.Println()

	rows := make([][]string, 0, len(history))
	for i, h := range history {
		if h.Year != nil {
			if i > 0 {
				rows = append(rows, cli.SeparatorRow)
			}
			y := h.Year
			rows = append(rows, summaryRow(fmt.Sprintf("%d (%d mo)", y.Year, y.Months), model.MonthSummary{
				Income: y.Income, FixedSpend: y.FixedSpend, DiscSpend: y.DiscSpend,
				SavingsTransfer: y.SavingsTransfer, Overflow: y.Overflow,
			}))
			continue
		}
		rows = append(rows, summaryRow("  "+h.Month.Month.String(), *h.Month))
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"", "Income", "Fixed", "Disc", "Saved", "Overflow"},
		Rows:    rows,
	}))

	savings := pipeline.SavingsSeries(view.Summaries, view.Current, pipeline.HistorySeriesMonths)
	if len(savings.Values) > 1 {
		fmt.Printf("\n  Savings transfers  %s  %s to %s\n",
			cli.RenderSparkline(savings.Values),
			savings.Months[0].Short(), savings.Months[len(savings.Months)-1].Short())
	}
	fmt.Println()
	return nil
}
