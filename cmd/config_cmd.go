package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/hbudget/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	path := flagConfig
	if path == "" {
		path = config.ConfigPath()
	}
	fmt.Printf("  Config file: %s\n", path)
	if flagConfig != "" || config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("  Problem: %v\n", err)
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Table start:       %s\n", cfg.General.TableStart)
	fmt.Printf("    Trailing months:   %d\n", cfg.General.TrailingMonths)
	fmt.Printf("    Months ahead:      %d\n", cfg.General.MonthsAhead)
	fmt.Printf("    Log level:         %s\n", cfg.General.LogLevel)
	fmt.Println()

	sh := cfg.Sheets
	fmt.Println("  [Sheets]")
	fmt.Printf("    Backend:           %s\n", sh.Backend)
	switch sh.Backend {
	case config.BackendGoogle:
		fmt.Printf("    Spreadsheet ID:    %s\n", valueOr(sh.SpreadsheetID, "not configured"))
		switch {
		case sh.CredentialsJSON != "":
			fmt.Println("    Credentials:       from GOOGLE_SERVICE_ACCOUNT_JSON")
		case sh.CredentialsFile != "":
			fmt.Printf("    Credentials:       %s\n", sh.CredentialsFile)
		default:
			fmt.Println("    Credentials:       not configured")
		}
	case config.BackendWorkbook:
		fmt.Printf("    Workbook:          %s\n", valueOr(sh.WorkbookPath, "not configured"))
	case config.BackendPublished:
		names := make([]string, 0, len(sh.PublishedURLs))
		for name := range sh.PublishedURLs {
			names = append(names, name)
		}
		slices.Sort(names)
		fmt.Printf("    Published sheets:  %s\n", valueOr(strings.Join(names, ", "), "none"))
	}
	fmt.Printf("    Ledger sheet:      %s\n", sh.LedgerSheet)
	fmt.Printf("    Plan sheet:        %s\n", sh.PlanSheet)
	fmt.Printf("    Inputs sheet:      %s\n", sh.InputsSheet)
	fmt.Printf("    Plan write range:  %s\n", sh.PlanWriteRange)
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address:           %s\n", cfg.Server.Addr)
	fmt.Printf("    Refresh interval:  %s\n", cfg.Server.RefreshInterval)
	if cfg.Server.AppKey != "" {
		fmt.Printf("    App key:           %s\n", maskSecret(cfg.Server.AppKey))
	} else {
		fmt.Println("    App key:           not configured")
	}
	fmt.Printf("    Sentry:            %v\n", cfg.Server.SentryDSN != "")
	fmt.Println()

	p := cfg.Payroll
	fmt.Println("  [Payroll]")
	fmt.Printf("    %-18s weekly on %s\n", p.EarnerAName+":", p.EarnerAWeekday)
	fmt.Printf("    %-18s biweekly from %s\n", p.EarnerBName+":", p.EarnerBAnchor)
	fmt.Printf("    Holiday aware:     %v\n", p.HolidayAware)
	fmt.Println()

	b := cfg.Budgets
	fmt.Println("  [Budgets]")
	if len(b.Discretionary)+len(b.Fixed)+len(b.Utilities) == 0 {
		fmt.Println("    Built-in defaults")
	} else {
		fmt.Printf("    Overrides: %d discretionary, %d fixed, %d utilities\n",
			len(b.Discretionary), len(b.Fixed), len(b.Utilities))
	}
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  Run `hbudget setup` to reconfigure.")
	return nil
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
