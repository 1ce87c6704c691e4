package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/hbudget/internal/cli"
	"github.com/theirongolddev/hbudget/internal/model"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the monthly plan read from the plan sheet",
	RunE:  runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	view, err := s.loadView(cmd.Context())
	if err != nil {
		return err
	}
	p := view.Plan

	fmt.Println()
	fmt.Println(cli.RenderTitle("PLAN  " + s.cfg.Sheets.PlanSheet))
	fmt.Println()
	if !p.HasPlan() {
		msg := "plan unavailable, default budgets apply"
		if p.Error != "" {
			msg += ": " + p.Error
		}
		fmt.Println(cli.RenderWarning(msg))
		fmt.Println()
	}

	month := p.PlanMonthRaw
	if p.PlanMonth != nil {
		month = p.PlanMonth.String()
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Plan", "Value"},
		Rows: [][]string{
			{"Month", month},
			{"Overflow balance", cli.FormatCents(p.OverflowBalance)},
			{"HYS balance", cli.FormatCents(p.HYSBalance)},
			cli.SeparatorRow,
			{"Income projection", cli.FormatCents(p.IncomeProjection)},
			{"Income budget base", cli.FormatCents(p.IncomeBudgetBase)},
			{"Planned HYS transfer", cli.FormatCents(p.PlannedHYSTransfer)},
			{"Additional fixed", cli.FormatCents(p.AddFix)},
			{"Additional discretionary", cli.FormatCents(p.AddDesc)},
			cli.SeparatorRow,
			{s.cfg.Payroll.EarnerAName + " weekly", cli.FormatCents(p.EarnerAWeekly)},
			{s.cfg.Payroll.EarnerBName + " weekly", cli.FormatCents(p.EarnerBWeekly)},
		},
	}))
	fmt.Println()

	b := view.Budgets
	rows := make([][]string, 0, len(b.FixedOrder)+len(model.Buckets)+1)
	for _, k := range model.Buckets {
		rows = append(rows, []string{k.String(), cli.FormatMoney(b.Discretionary[k])})
	}
	rows = append(rows, cli.SeparatorRow)
	for _, line := range b.FixedOrder {
		rows = append(rows, []string{string(line), cli.FormatMoney(b.Fixed[line])})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Effective budgets",
		Headers: []string{"Line", "Budget"},
		Rows:    rows,
	}))

	urows := make([][]string, 0, len(b.UtilityOrder))
	for _, name := range b.UtilityOrder {
		urows = append(urows, []string{name, cli.FormatCents(b.Utilities[name])})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Utilities",
		Headers: []string{"Utility", "Budget"},
		Rows:    urows,
	}))
	fmt.Println()
	return nil
}
