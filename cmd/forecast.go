package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/hbudget/internal/cli"
	"github.com/theirongolddev/hbudget/internal/forecast"
	"github.com/theirongolddev/hbudget/internal/model"
)

var (
	flagForecastMonths     int
	flagForecastSet        []string
	flagForecastSave       bool
	flagForecastOverflow   float64
	flagForecastHYS        float64
	flagForecastResetStart bool
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Project overflow and HYS balances month by month",
	Long: `Project overflow and HYS balances month by month.

Adjustments are kept locally between runs. Use --set to change one, e.g.
  hbudget forecast --set 2024-06:hysTransfer=500 --set 2024-07:income=1200
and --save to write the edited months back to the plan sheet.`,
	RunE: runForecast,
}

func init() {
	forecastCmd.Flags().IntVar(&flagForecastMonths, "months", 0, "Months to project (3-36; 0 keeps the saved setting)")
	forecastCmd.Flags().StringArrayVar(&flagForecastSet, "set", nil, "Set an adjustment: YYYY-MM:field=amount (repeatable)")
	forecastCmd.Flags().BoolVar(&flagForecastSave, "save", false, "Write the months changed by --set to the plan sheet")
	forecastCmd.Flags().Float64Var(&flagForecastOverflow, "start-overflow", 0, "Pin the starting overflow balance")
	forecastCmd.Flags().Float64Var(&flagForecastHYS, "start-hys", 0, "Pin the starting HYS balance")
	forecastCmd.Flags().BoolVar(&flagForecastResetStart, "reset-start", false, "Unpin starting balances and follow the plan again")
	rootCmd.AddCommand(forecastCmd)
}

// adjustmentEdit is one parsed --set value.
type adjustmentEdit struct {
	Month model.Month
	Field forecast.Field
	Value float64
}

// parseAdjustment parses "YYYY-MM:field=amount".
func parseAdjustment(s string) (adjustmentEdit, error) {
	monthPart, rest, ok := strings.Cut(s, ":")
	if !ok {
		return adjustmentEdit{}, fmt.Errorf("invalid --set %q (want YYYY-MM:field=amount)", s)
	}
	fieldPart, valuePart, ok := strings.Cut(rest, "=")
	if !ok {
		return adjustmentEdit{}, fmt.Errorf("invalid --set %q (want YYYY-MM:field=amount)", s)
	}

	m, err := model.ParseMonth(strings.TrimSpace(monthPart))
	if err != nil {
		return adjustmentEdit{}, err
	}
	f, err := forecast.ParseField(fieldPart)
	if err != nil {
		return adjustmentEdit{}, err
	}
	raw := strings.NewReplacer("$", "", ",", "", " ", "").Replace(valuePart)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return adjustmentEdit{}, fmt.Errorf("invalid amount %q in --set %q", valuePart, s)
	}
	return adjustmentEdit{Month: m, Field: f, Value: v}, nil
}

func runForecast(cmd *cobra.Command, _ []string) error {
	edits := make([]adjustmentEdit, 0, len(flagForecastSet))
	for _, s := range flagForecastSet {
		e, err := parseAdjustment(s)
		if err != nil {
			return err
		}
		edits = append(edits, e)
	}
	if flagForecastSave && len(edits) == 0 {
		return errors.New("--save needs at least one --set")
	}

	ctx := cmd.Context()
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	view, err := s.loadView(ctx)
	if err != nil {
		return err
	}
	payroll, err := s.payroll()
	if err != nil {
		return err
	}

	ed, err := s.editor()
	if err != nil {
		fmt.Println(cli.RenderWarning("saved forecast settings were unreadable; starting from defaults"))
		s.log.Warn().Err(err).Msg("forecast settings")
	}
	if err := ed.Reload(ctx, view.Plan.OverflowBalance, view.Plan.HYSBalance); err != nil && !errors.Is(err, forecast.ErrStale) {
		fmt.Println(cli.RenderWarning("forecast rows unavailable, adjustments are local only: " + err.Error()))
	}

	flags := cmd.Flags()
	// Edits apply locally even when they cannot be persisted.
	apply := func(err error) {
		if err != nil {
			s.log.Warn().Err(err).Msg("persisting forecast settings")
		}
	}
	if flagForecastResetStart {
		apply(ed.ResetStart())
	}
	if flags.Changed("start-overflow") {
		apply(ed.SetStartOverflow(flagForecastOverflow))
	}
	if flags.Changed("start-hys") {
		apply(ed.SetStartHYS(flagForecastHYS))
	}
	if flagForecastMonths > 0 {
		apply(ed.SetMonthsAhead(flagForecastMonths))
	}
	for _, e := range edits {
		apply(ed.SetField(e.Month, e.Field, e.Value))
	}

	settings := ed.Settings()
	rows := forecast.Project(view.ForecastInputs(model.Month{}, settings, payroll))
	printForecast(view.Latest, settings, rows, s.cfg.Payroll.EarnerAName, s.cfg.Payroll.EarnerBName)

	if !flagForecastSave {
		return nil
	}
	saved := map[model.Month]bool{}
	var failed []error
	for _, e := range edits {
		if saved[e.Month] {
			continue
		}
		saved[e.Month] = true
		if err := ed.SaveMonth(ctx, e.Month); err != nil {
			failed = append(failed, fmt.Errorf("%s: %w", e.Month.Key(), err))
			continue
		}
		fmt.Printf("  Saved %s to %s\n", e.Month.String(), s.cfg.Sheets.PlanSheet)
	}
	if len(failed) > 0 {
		return fmt.Errorf("saving adjustments (local edits kept): %w", errors.Join(failed...))
	}
	return nil
}

func printForecast(base model.Month, settings forecast.Settings, rows []model.ForecastRow, nameA, nameB string) {
	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("FORECAST  %d months after %s", len(rows), base.String())))
	fmt.Println()

	start := "from plan"
	if settings.StartUserOverride {
		start = "pinned"
	}
	fmt.Printf("  Start balances (%s): overflow %s, HYS %s\n\n",
		start, cli.FormatMoney(settings.StartOverflow), cli.FormatMoney(settings.StartHYS))

	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.Month.Short() + " " + strconv.Itoa(r.Month.Year),
			cli.FormatMoney(r.EarnerAPay),
			cli.FormatMoney(r.EarnerBPay),
			cli.FormatMoney(r.IncomeAdd),
			cli.FormatMoney(r.FixedTotal),
			cli.FormatMoney(r.DiscTotal),
			cli.FormatMoney(r.HYSTransfer),
			cli.RenderStatus(signedStatus(r.MonthOverflow), cli.FormatSigned(r.MonthOverflow)),
			cli.RenderStatus(signedStatus(r.EndOverflow), cli.FormatMoney(r.EndOverflow)),
			cli.FormatMoney(r.EndHYS),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Month", nameA, nameB, "+Income", "Fixed", "Disc", "To HYS", "Net", "Overflow", "HYS"},
		Rows:    out,
	}))
	fmt.Println()
}
