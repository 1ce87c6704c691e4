package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/hbudget/internal/config"
	"github.com/theirongolddev/hbudget/internal/model"
	"github.com/theirongolddev/hbudget/internal/tui/theme"
)

// SetupValues backs the first-run setup form.
type SetupValues struct {
	Backend         string
	SpreadsheetID   string
	CredentialsFile string
	WorkbookPath    string
	LedgerURL       string
	PlanURL         string
	TableStart      string
	TrailingMonths  string
	Theme           string
}

// NewSetupValues seeds the form from cfg.
func NewSetupValues(cfg config.Config) *SetupValues {
	return &SetupValues{
		Backend:         cfg.Sheets.Backend,
		SpreadsheetID:   cfg.Sheets.SpreadsheetID,
		CredentialsFile: cfg.Sheets.CredentialsFile,
		WorkbookPath:    cfg.Sheets.WorkbookPath,
		LedgerURL:       cfg.Sheets.PublishedURLs[cfg.Sheets.LedgerSheet],
		PlanURL:         cfg.Sheets.PublishedURLs[cfg.Sheets.PlanSheet],
		TableStart:      cfg.General.TableStart,
		TrailingMonths:  strconv.Itoa(cfg.General.TrailingMonths),
		Theme:           cfg.Appearance.Theme,
	}
}

// NewSetupForm builds the setup wizard. Backend-specific groups are hidden
// unless that backend is selected.
func NewSetupForm(v *SetupValues) *huh.Form {
	required := func(name string) func(string) error {
		return func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("%s is required", name)
			}
			return nil
		}
	}
	themes := make([]huh.Option[string], 0, len(theme.All))
	for _, name := range theme.Names() {
		themes = append(themes, huh.NewOption(name, name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("hbudget setup").
				Description("Point hbudget at the spreadsheet that holds your ledger and plan."),
			huh.NewSelect[string]().
				Title("Where does the spreadsheet live?").
				Options(
					huh.NewOption("Google Sheets (service account)", config.BackendGoogle),
					huh.NewOption("Local .xlsx workbook", config.BackendWorkbook),
					huh.NewOption("Published CSV links (read-only)", config.BackendPublished),
				).
				Value(&v.Backend),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Spreadsheet ID").
				Description("The long ID in the sheet URL.").
				Validate(required("spreadsheet ID")).
				Value(&v.SpreadsheetID),
			huh.NewInput().
				Title("Service account JSON file").
				Description("Leave blank to use GOOGLE_SERVICE_ACCOUNT_JSON.").
				Value(&v.CredentialsFile),
		).WithHideFunc(func() bool { return v.Backend != config.BackendGoogle }),
		huh.NewGroup(
			huh.NewInput().
				Title("Workbook path").
				Validate(required("workbook path")).
				Value(&v.WorkbookPath),
		).WithHideFunc(func() bool { return v.Backend != config.BackendWorkbook }),
		huh.NewGroup(
			huh.NewInput().
				Title("Ledger CSV link").
				Validate(required("ledger link")).
				Value(&v.LedgerURL),
			huh.NewInput().
				Title("Plan CSV link").
				Value(&v.PlanURL),
		).WithHideFunc(func() bool { return v.Backend != config.BackendPublished }),
		huh.NewGroup(
			huh.NewInput().
				Title("First month to show (YYYY-MM)").
				Validate(func(s string) error {
					_, err := model.ParseMonth(strings.TrimSpace(s))
					return err
				}).
				Value(&v.TableStart),
			huh.NewInput().
				Title("Trailing average window (months)").
				Validate(func(s string) error {
					n, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil || n < 1 {
						return fmt.Errorf("enter a whole number of months")
					}
					return nil
				}).
				Value(&v.TrailingMonths),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themes...).
				Value(&v.Theme),
		),
	).WithShowHelp(true)
}

// Apply copies the form values into cfg.
func (v *SetupValues) Apply(cfg *config.Config) {
	cfg.Sheets.Backend = v.Backend
	switch v.Backend {
	case config.BackendGoogle:
		cfg.Sheets.SpreadsheetID = strings.TrimSpace(v.SpreadsheetID)
		cfg.Sheets.CredentialsFile = strings.TrimSpace(v.CredentialsFile)
	case config.BackendWorkbook:
		cfg.Sheets.WorkbookPath = strings.TrimSpace(v.WorkbookPath)
	case config.BackendPublished:
		if cfg.Sheets.PublishedURLs == nil {
			cfg.Sheets.PublishedURLs = make(map[string]string)
		}
		cfg.Sheets.PublishedURLs[cfg.Sheets.LedgerSheet] = strings.TrimSpace(v.LedgerURL)
		if u := strings.TrimSpace(v.PlanURL); u != "" {
			cfg.Sheets.PublishedURLs[cfg.Sheets.PlanSheet] = u
		}
	}
	if s := strings.TrimSpace(v.TableStart); s != "" {
		cfg.General.TableStart = s
	}
	if n, err := strconv.Atoi(strings.TrimSpace(v.TrailingMonths)); err == nil && n > 0 {
		cfg.General.TrailingMonths = n
	}
	if v.Theme != "" {
		cfg.Appearance.Theme = v.Theme
		theme.SetActive(v.Theme)
	}
}

// RunSetup runs the setup form in the terminal and applies the answers to
// cfg. It returns huh.ErrUserAborted when the user quits.
func RunSetup(cfg *config.Config) error {
	v := NewSetupValues(*cfg)
	if err := NewSetupForm(v).Run(); err != nil {
		return err
	}
	v.Apply(cfg)
	return nil
}
