// Package config loads hbudget settings from TOML (or YAML) with
// environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/theirongolddev/hbudget/internal/forecast"
	"github.com/theirongolddev/hbudget/internal/ledger"
	"github.com/theirongolddev/hbudget/internal/model"
	"github.com/theirongolddev/hbudget/internal/pipeline"
	"github.com/theirongolddev/hbudget/internal/plan"
)

// Backend names.
const (
	BackendGoogle    = "google"
	BackendWorkbook  = "xlsx"
	BackendPublished = "published"
	BackendMemory    = "memory"
)

// Config holds all hbudget configuration.
type Config struct {
	General        GeneralConfig        `toml:"general" yaml:"general"`
	Sheets         SheetsConfig         `toml:"sheets" yaml:"sheets"`
	Server         ServerConfig         `toml:"server" yaml:"server"`
	Payroll        PayrollConfig        `toml:"payroll" yaml:"payroll"`
	Budgets        BudgetOverrides      `toml:"budgets" yaml:"budgets"`
	PlanLayout     plan.Layout          `toml:"plan_layout" yaml:"plan_layout"`
	ForecastLayout forecast.SheetLayout `toml:"forecast_layout" yaml:"forecast_layout"`
	Appearance     AppearanceConfig     `toml:"appearance" yaml:"appearance"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	// TableStart is the earliest month shown, as YYYY-MM.
	TableStart     string `toml:"table_start" yaml:"table_start"`
	TrailingMonths int    `toml:"trailing_months" yaml:"trailing_months"`
	MonthsAhead    int    `toml:"months_ahead" yaml:"months_ahead"`
	LogLevel       string `toml:"log_level" yaml:"log_level"`
}

// SheetsConfig selects and configures the tabular store.
type SheetsConfig struct {
	Backend         string `toml:"backend" yaml:"backend"`
	SpreadsheetID   string `toml:"spreadsheet_id,omitempty" yaml:"spreadsheet_id,omitempty"`
	CredentialsFile string `toml:"credentials_file,omitempty" yaml:"credentials_file,omitempty"`
	WorkbookPath    string `toml:"workbook_path,omitempty" yaml:"workbook_path,omitempty"`

	// PublishedURLs maps sheet name to a published CSV link.
	PublishedURLs map[string]string `toml:"published_urls,omitempty" yaml:"published_urls,omitempty"`

	LedgerSheet string `toml:"ledger_sheet" yaml:"ledger_sheet"`
	PlanSheet   string `toml:"plan_sheet" yaml:"plan_sheet"`
	InputsSheet string `toml:"inputs_sheet" yaml:"inputs_sheet"`

	// PlanWriteRange is the 5-cell vertical range the plan writer fills.
	PlanWriteRange string `toml:"plan_write_range" yaml:"plan_write_range"`

	// CredentialsJSON comes from the environment only.
	CredentialsJSON string `toml:"-" yaml:"-"`
}

// ServerConfig holds HTTP service settings.
type ServerConfig struct {
	Addr            string        `toml:"addr" yaml:"addr"`
	AppKey          string        `toml:"app_key,omitempty" yaml:"app_key,omitempty"`
	RefreshInterval time.Duration `toml:"refresh_interval" yaml:"refresh_interval"`
	SentryDSN       string        `toml:"sentry_dsn,omitempty" yaml:"sentry_dsn,omitempty"`
}

// PayrollConfig describes the two earners' pay schedules.
type PayrollConfig struct {
	EarnerAName    string `toml:"earner_a_name" yaml:"earner_a_name"`
	EarnerBName    string `toml:"earner_b_name" yaml:"earner_b_name"`
	EarnerAWeekday string `toml:"earner_a_weekday" yaml:"earner_a_weekday"`
	EarnerBAnchor  string `toml:"earner_b_anchor" yaml:"earner_b_anchor"`
	HolidayAware   bool   `toml:"holiday_aware" yaml:"holiday_aware"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme" yaml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			TableStart:     ledger.DefaultTableStart.Key(),
			TrailingMonths: pipeline.DefaultTrailingMonths,
			MonthsAhead:    forecast.DefaultMonthsAhead,
			LogLevel:       "warn",
		},
		Sheets: SheetsConfig{
			Backend:        BackendGoogle,
			LedgerSheet:    "DATA_TRANSACTIONS",
			PlanSheet:      "PLAN",
			InputsSheet:    "BUS_INPUTS",
			PlanWriteRange: "H2:H6",
		},
		Server: ServerConfig{
			Addr:            "127.0.0.1:8787",
			RefreshInterval: 5 * time.Minute,
		},
		Payroll: PayrollConfig{
			EarnerAName:    "Austin",
			EarnerBName:    "Jenna",
			EarnerAWeekday: "Thursday",
			EarnerBAnchor:  model.DayKey(forecast.DefaultBiweeklyAnchor),
			HolidayAware:   true,
		},
		PlanLayout:     plan.DefaultLayout(),
		ForecastLayout: forecast.DefaultSheetLayout(),
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "hbudget")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "hbudget")
}

// ConfigPath returns the full path to the default config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file at path (the default path when empty),
// returning defaults if it doesn't exist, then applies environment
// overrides. Paths ending in .yaml or .yml are decoded as YAML.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	explicit := path != ""
	if !explicit {
		path = ConfigPath()
	}

	data, err := os.ReadFile(path) //nolint:gosec // user-supplied config path
	switch {
	case err == nil:
		if err := decode(path, data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	case os.IsNotExist(err) && !explicit:
	default:
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	ApplyEnv(&cfg)
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	default:
		return toml.Unmarshal(data, cfg)
	}
}

// Save writes the config to the default path as TOML.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// ApplyEnv overlays the deployment environment variables onto cfg. Set
// variables win over file values.
func ApplyEnv(cfg *Config) {
	set := func(dst *string, name string) {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
	set(&cfg.Server.AppKey, "APP_KEY")
	set(&cfg.Sheets.SpreadsheetID, "SHEET_ID")
	set(&cfg.Sheets.CredentialsJSON, "GOOGLE_SERVICE_ACCOUNT_JSON")
	set(&cfg.Sheets.LedgerSheet, "DATA_TRANSACTIONS_SHEET_NAME")
	set(&cfg.Sheets.PlanSheet, "PLAN_SHEET_NAME")
	set(&cfg.Sheets.InputsSheet, "BUS_INPUTS_SHEET_NAME")
	set(&cfg.Server.SentryDSN, "SENTRY_DSN")
}

// Credentials returns the service-account JSON from the environment or
// the configured credentials file.
func (s SheetsConfig) Credentials() ([]byte, error) {
	if s.CredentialsJSON != "" {
		return []byte(s.CredentialsJSON), nil
	}
	if s.CredentialsFile == "" {
		return nil, fmt.Errorf("missing env GOOGLE_SERVICE_ACCOUNT_JSON and no credentials_file configured")
	}
	data, err := os.ReadFile(s.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("reading credentials: %w", err)
	}
	return data, nil
}

// Validate checks the settings the chosen backend depends on.
func (c Config) Validate() error {
	if _, err := c.TableStartMonth(); err != nil {
		return err
	}
	if _, err := c.Payroll.Schedule(0, 0); err != nil {
		return err
	}
	switch c.Sheets.Backend {
	case BackendGoogle:
		if c.Sheets.SpreadsheetID == "" {
			return fmt.Errorf("missing env SHEET_ID (sheets.spreadsheet_id)")
		}
	case BackendWorkbook:
		if c.Sheets.WorkbookPath == "" {
			return fmt.Errorf("sheets.workbook_path is required for the xlsx backend")
		}
	case BackendPublished:
		if c.Sheets.PublishedURLs[c.Sheets.LedgerSheet] == "" {
			return fmt.Errorf("sheets.published_urls has no link for %s", c.Sheets.LedgerSheet)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown sheets backend %q (want google, xlsx, published or memory)", c.Sheets.Backend)
	}
	return nil
}

// TableStartMonth parses General.TableStart.
func (c Config) TableStartMonth() (model.Month, error) {
	if c.General.TableStart == "" {
		return ledger.DefaultTableStart, nil
	}
	return model.ParseMonth(c.General.TableStart)
}

// LoadOptions builds the pipeline options for this configuration.
func (c Config) LoadOptions() (pipeline.LoadOptions, error) {
	start, err := c.TableStartMonth()
	if err != nil {
		return pipeline.LoadOptions{}, err
	}
	return pipeline.LoadOptions{
		LedgerSheet: c.Sheets.LedgerSheet,
		PlanSheet:   c.Sheets.PlanSheet,
		Layout:      c.PlanLayout,
		TableStart:  start,
	}, nil
}

// Schedule converts the payroll settings into a forecast.Payroll with the
// given weekly rates.
func (p PayrollConfig) Schedule(weeklyA, weeklyB float64) (forecast.Payroll, error) {
	out := forecast.DefaultPayroll(weeklyA, weeklyB)
	out.HolidayAware = p.HolidayAware

	if p.EarnerAWeekday != "" {
		wd, err := parseWeekday(p.EarnerAWeekday)
		if err != nil {
			return out, err
		}
		out.EarnerAWeekday = wd
	}
	if p.EarnerBAnchor != "" {
		d, ok := ledger.ParseDate(p.EarnerBAnchor)
		if !ok {
			return out, fmt.Errorf("invalid payroll.earner_b_anchor %q", p.EarnerBAnchor)
		}
		out.EarnerBAnchor = d
	}
	return out, nil
}

func parseWeekday(s string) (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		full := strings.ToLower(wd.String())
		if name == full || name == full[:3] {
			return wd, nil
		}
	}
	return 0, fmt.Errorf("invalid weekday %q", s)
}
