package pipeline

import (
	"errors"
	"testing"
	"time"

	"github.com/theirongolddev/hbudget/internal/forecast"
	"github.com/theirongolddev/hbudget/internal/model"
	"github.com/theirongolddev/hbudget/internal/plan"
)

func TestNewView_FallsBackToDefaults(t *testing.T) {
	res := Build(ledgerTable(), model.Table{}, errors.New("HTTP 500"), loadOpts)
	now := time.Date(2024, time.May, 10, 12, 0, 0, 0, time.UTC)
	v := NewView(res, plan.DefaultBudgets(), now)

	if v.Latest != march {
		t.Fatalf("Latest = %v, want %v", v.Latest, march)
	}
	if v.Current != (model.Month{Year: 2024, Month: time.May}) {
		t.Fatalf("Current = %v, want 2024-05", v.Current)
	}
	if got := v.Budgets.ControlledTotal(); got != 3200 {
		t.Fatalf("ControlledTotal = %.2f, want 3200", got)
	}

	s := v.Summary(march)
	if s.DiscSpend != 12.5 {
		t.Fatalf("March DiscSpend = %.2f, want 12.50", s.DiscSpend)
	}
	if empty := v.Summary(model.Month{Year: 2024, Month: time.April}); empty.Overflow != 0 {
		t.Fatalf("April summary = %+v, want zero", empty)
	}

	r := v.Report(model.Month{}, 3)
	if r.Month != march || r.IsCurrent {
		t.Fatalf("Report month = %v current=%v, want March not current", r.Month, r.IsCurrent)
	}

	rows := v.History()
	if len(rows) != 2 || rows[0].Year == nil || rows[0].Year.Year != 2024 {
		t.Fatalf("History = %+v, want year row then March", rows)
	}
}

func TestView_ForecastInputs(t *testing.T) {
	res := Build(ledgerTable(), model.Table{}, errors.New("no plan"), loadOpts)
	res.Plan.EarnerAWeekly = 1000
	res.Plan.EarnerBWeekly = 800
	v := NewView(res, plan.DefaultBudgets(), time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC))

	s := forecast.DefaultSettings()
	s.StartOverflow = 500
	in := v.ForecastInputs(model.Month{}, s, forecast.DefaultPayroll(0, 0))

	if in.BaseMonth != march {
		t.Fatalf("BaseMonth = %v, want %v", in.BaseMonth, march)
	}
	if in.Payroll.EarnerAWeekly != 1000 || in.Payroll.EarnerBWeekly != 800 {
		t.Fatalf("weekly = %.0f/%.0f, want 1000/800", in.Payroll.EarnerAWeekly, in.Payroll.EarnerBWeekly)
	}
	if in.BaseFixed != v.Budgets.FixedTotal() || in.BaseDiscControlled != 3200 {
		t.Fatalf("base = %.2f/%.2f", in.BaseFixed, in.BaseDiscControlled)
	}
	if in.StartOverflow != 500 || in.MonthsAhead != s.MonthsAhead {
		t.Fatalf("start=%.0f months=%d", in.StartOverflow, in.MonthsAhead)
	}
}
