package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/hbudget/internal/model"
)

func TestLoad_MissingDefaultFileGivesDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("DATA_TRANSACTIONS_SHEET_NAME", "")
	t.Setenv("PLAN_SHEET_NAME", "")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Sheets.LedgerSheet != "DATA_TRANSACTIONS" || cfg.Sheets.PlanSheet != "PLAN" {
		t.Fatalf("sheet names = %q/%q", cfg.Sheets.LedgerSheet, cfg.Sheets.PlanSheet)
	}
	if cfg.General.TrailingMonths != 3 || cfg.General.MonthsAhead != 12 {
		t.Fatalf("general = %+v", cfg.General)
	}
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error for a missing explicit config")
	}
}

func TestLoad_TOMLAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[general]
table_start = "2024-01"

[sheets]
backend = "xlsx"
workbook_path = "/tmp/budget.xlsx"
plan_sheet = "PLAN_2024"

[server]
refresh_interval = "90s"

[payroll]
earner_a_weekday = "fri"
holiday_aware = false
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PLAN_SHEET_NAME", "PLAN_ENV")
	t.Setenv("APP_KEY", "secret")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Sheets.PlanSheet != "PLAN_ENV" {
		t.Fatalf("PlanSheet = %q, env should win", cfg.Sheets.PlanSheet)
	}
	if cfg.Server.AppKey != "secret" {
		t.Fatalf("AppKey = %q", cfg.Server.AppKey)
	}
	if cfg.Server.RefreshInterval != 90*time.Second {
		t.Fatalf("RefreshInterval = %v", cfg.Server.RefreshInterval)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	start, _ := cfg.TableStartMonth()
	if start != (model.Month{Year: 2024, Month: time.January}) {
		t.Fatalf("TableStart = %v", start)
	}

	p, err := cfg.Payroll.Schedule(1000, 800)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if p.EarnerAWeekday != time.Friday || p.HolidayAware {
		t.Fatalf("payroll = %+v", p)
	}
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hbudget.yaml")
	data := `
sheets:
  backend: published
  ledger_sheet: LEDGER
  published_urls:
    LEDGER: https://example.com/ledger.csv
budgets:
  discretionary:
    Food: 900
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DATA_TRANSACTIONS_SHEET_NAME", "")
	t.Setenv("PLAN_SHEET_NAME", "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Sheets.Backend != BackendPublished || cfg.Sheets.LedgerSheet != "LEDGER" {
		t.Fatalf("sheets = %+v", cfg.Sheets)
	}
	if cfg.Sheets.PlanSheet != "PLAN" {
		t.Fatalf("unset YAML keys should keep defaults, PlanSheet = %q", cfg.Sheets.PlanSheet)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	b, err := cfg.Budgets.Defaults()
	if err != nil {
		t.Fatalf("Defaults: %v", err)
	}
	if b.Discretionary[model.BucketFood] != 900 || b.Discretionary[model.BucketGas] != 300 {
		t.Fatalf("discretionary = %v", b.Discretionary)
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Fatal("google backend without a spreadsheet id should fail")
	}
	cfg.Sheets.SpreadsheetID = "abc"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	cfg.Sheets.Backend = "ftp"
	if err := cfg.Validate(); err == nil {
		t.Fatal("unknown backend should fail")
	}
	cfg.Sheets.Backend = BackendMemory
	cfg.General.TableStart = "Dec 2023"
	if err := cfg.Validate(); err == nil {
		t.Fatal("bad table_start should fail")
	}
}

func TestBudgetOverrides(t *testing.T) {
	o := BudgetOverrides{
		Fixed:     map[string]float64{"Mortage": 3100},
		Utilities: map[string]float64{"Water": 45, "Trash": 20},
	}
	b, err := o.Defaults()
	if err != nil {
		t.Fatalf("Defaults: %v", err)
	}
	if b.Fixed[model.LineMortgage] != 3100 || b.Fixed[model.LineMedical] != 232 {
		t.Fatalf("fixed = %v", b.Fixed)
	}
	if b.Utilities["Water"] != 45 || b.UtilityOrder[len(b.UtilityOrder)-1] != "Trash" {
		t.Fatalf("utilities = %v order %v", b.Utilities, b.UtilityOrder)
	}

	if _, err := (BudgetOverrides{Fixed: map[string]float64{"Boat": 1}}).Defaults(); err == nil {
		t.Fatal("unknown fixed line should fail")
	}
	if _, err := (BudgetOverrides{Discretionary: map[string]float64{"Travel": 1}}).Defaults(); err == nil {
		t.Fatal("unknown bucket should fail")
	}
}

func TestCredentials(t *testing.T) {
	s := SheetsConfig{CredentialsJSON: `{"client_email":"x"}`}
	got, err := s.Credentials()
	if err != nil || string(got) != `{"client_email":"x"}` {
		t.Fatalf("Credentials = %q, %v", got, err)
	}

	path := filepath.Join(t.TempDir(), "sa.json")
	if err := os.WriteFile(path, []byte(`{}`), 0o600); err != nil {
		t.Fatal(err)
	}
	got, err = SheetsConfig{CredentialsFile: path}.Credentials()
	if err != nil || string(got) != `{}` {
		t.Fatalf("file Credentials = %q, %v", got, err)
	}
	if _, err := (SheetsConfig{}).Credentials(); err == nil {
		t.Fatal("missing credentials should fail")
	}
}
