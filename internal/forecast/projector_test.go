package forecast

import (
	"math"
	"testing"
	"time"

	"github.com/theirongolddev/hbudget/internal/model"
)

func TestClampMonthsAhead(t *testing.T) {
	tests := map[int]int{0: 12, 1: 3, 3: 3, 24: 24, 36: 36, 100: 36, -5: 3}
	for in, want := range tests {
		if got := ClampMonthsAhead(in); got != want {
			t.Errorf("ClampMonthsAhead(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestProject(t *testing.T) {
	base := month(2025, time.February)
	in := Inputs{
		BaseMonth:          base,
		MonthsAhead:        6,
		BaseFixed:          5000,
		BaseDiscControlled: 3200,
		Payroll:            DefaultPayroll(1000, 800),
		StartOverflow:      1000,
		StartHYS:           20000,
		Adjustments: map[string]model.Adjustment{
			"2025-03": {IncomeAdd: 250, AddFixed: 100, AddDisc: 50, HYSTransfer: 500},
			"2025-05": {HYSTransfer: math.NaN()},
		},
	}
	rows := Project(in)
	if len(rows) != 6 {
		t.Fatalf("len(rows) = %d, want 6", len(rows))
	}
	if rows[0].Month != month(2025, time.March) {
		t.Fatalf("first month = %s, want 2025-03", rows[0].Month.Key())
	}

	r := rows[0]
	// March 2025: 4 Thursdays, 2 biweekly Fridays.
	if r.EarnerAPay != 4000 || r.EarnerBPay != 3200 {
		t.Fatalf("pay = %v/%v, want 4000/3200", r.EarnerAPay, r.EarnerBPay)
	}
	if r.IncomeTotal != 7450 || r.FixedTotal != 5100 || r.DiscTotal != 3250 {
		t.Fatalf("totals = %v/%v/%v, want 7450/5100/3250", r.IncomeTotal, r.FixedTotal, r.DiscTotal)
	}
	if want := 7450.0 - 5100 - 3250 - 500; r.MonthOverflow != want {
		t.Fatalf("MonthOverflow = %v, want %v", r.MonthOverflow, want)
	}
	if r.EndOverflow != 1000+r.MonthOverflow || r.EndHYS != 20500 {
		t.Fatalf("end balances = %v/%v", r.EndOverflow, r.EndHYS)
	}

	for i := 1; i < len(rows); i++ {
		if rows[i].Month != rows[i-1].Month.AddMonths(1) {
			t.Fatalf("row %d month %s does not follow %s", i, rows[i].Month.Key(), rows[i-1].Month.Key())
		}
		if rows[i].EndOverflow != rows[i-1].EndOverflow+rows[i].MonthOverflow {
			t.Fatalf("row %d overflow recurrence broken", i)
		}
		if rows[i].EndHYS != rows[i-1].EndHYS+rows[i].HYSTransfer {
			t.Fatalf("row %d HYS recurrence broken", i)
		}
	}
	if rows[2].HYSTransfer != 0 {
		t.Fatalf("NaN HYS transfer = %v, want 0", rows[2].HYSTransfer)
	}
}

func TestProjectNonFiniteInputs(t *testing.T) {
	rows := Project(Inputs{
		BaseMonth:     month(2025, time.January),
		BaseFixed:     math.Inf(1),
		StartOverflow: math.NaN(),
		Payroll:       Payroll{EarnerAWeekly: math.NaN(), HolidayAware: true, EarnerBAnchor: DefaultBiweeklyAnchor},
	})
	if len(rows) != DefaultMonthsAhead {
		t.Fatalf("len(rows) = %d, want %d", len(rows), DefaultMonthsAhead)
	}
	for _, r := range rows {
		if math.IsNaN(r.EndOverflow) || math.IsInf(r.EndOverflow, 0) {
			t.Fatalf("EndOverflow not finite for %s", r.Month.Key())
		}
		if r.FixedBase != 0 || r.EarnerAPay != 0 {
			t.Fatalf("non-finite inputs leaked: %+v", r)
		}
	}
}
