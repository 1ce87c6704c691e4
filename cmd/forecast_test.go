package cmd

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/theirongolddev/hbudget/internal/config"
	"github.com/theirongolddev/hbudget/internal/forecast"
	"github.com/theirongolddev/hbudget/internal/model"
	"github.com/theirongolddev/hbudget/internal/sheets"
)

func TestParseAdjustment(t *testing.T) {
	got, err := parseAdjustment("2024-06:hysTransfer=$1,500")
	if err != nil {
		t.Fatalf("parseAdjustment: %v", err)
	}
	want := adjustmentEdit{Month: model.Month{Year: 2024, Month: 6}, Field: forecast.FieldHYSTransfer, Value: 1500}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}

	got, err = parseAdjustment("2025-01:income=-40.5")
	if err != nil || got.Field != forecast.FieldIncomeAdd || got.Value != -40.5 {
		t.Fatalf("alias field: %+v, %v", got, err)
	}

	for _, bad := range []string{"", "2024-06", "2024-06:hys", "June:hys=1", "2024-06:bonus=1", "2024-06:hys=lots"} {
		if _, err := parseAdjustment(bad); err == nil {
			t.Errorf("parseAdjustment(%q) should fail", bad)
		}
	}
}

func TestNewStoreByBackend(t *testing.T) {
	cfg := config.DefaultConfig()
	log := zerolog.Nop()

	cfg.Sheets.Backend = config.BackendMemory
	st, err := newStore(context.Background(), cfg, log)
	if err != nil {
		t.Fatalf("memory: %v", err)
	}
	if _, ok := st.(*sheets.Memory); !ok {
		t.Fatalf("memory backend built %T", st)
	}

	cfg.Sheets.Backend = config.BackendWorkbook
	cfg.Sheets.WorkbookPath = "budget.xlsx"
	if st, err = newStore(context.Background(), cfg, log); err != nil {
		t.Fatalf("xlsx: %v", err)
	}
	if w, ok := st.(*sheets.Workbook); !ok || w.Path() != "budget.xlsx" {
		t.Fatalf("xlsx backend built %T", st)
	}

	cfg.Sheets.Backend = config.BackendPublished
	if st, err = newStore(context.Background(), cfg, log); err != nil {
		t.Fatalf("published: %v", err)
	}
	if _, ok := st.(*sheets.Published); !ok {
		t.Fatalf("published backend built %T", st)
	}

	cfg.Sheets.Backend = config.BackendGoogle
	cfg.Sheets.CredentialsJSON = ""
	cfg.Sheets.CredentialsFile = ""
	if _, err := newStore(context.Background(), cfg, log); err == nil {
		t.Fatal("google without credentials should fail")
	}

	cfg.Sheets.Backend = "ftp"
	if _, err := newStore(context.Background(), cfg, log); err == nil {
		t.Fatal("unknown backend should fail")
	}
}

func TestMaskSecret(t *testing.T) {
	tests := map[string]string{
		"abc":                    "****",
		"abcdefgh":               "abcd...",
		"0123456789abcdefghijkl": "01234567...ijkl",
	}
	for in, want := range tests {
		if got := maskSecret(in); got != want {
			t.Errorf("maskSecret(%q) = %q, want %q", in, got, want)
		}
	}
}
