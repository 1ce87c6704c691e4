package plan

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/theirongolddev/hbudget/internal/model"
)

// sheet builds a 13-column grid and sets cells by (row, col).
type sheet [][]string

func newSheet(rows int) sheet {
	s := make(sheet, rows)
	for i := range s {
		s[i] = make([]string, 13)
	}
	return s
}

func (s sheet) set(r, c int, v string) sheet {
	s[r][c] = v
	return s
}

func samplePlan() sheet {
	s := newSheet(20)
	s.set(0, 0, "MONTH").set(0, 1, "March 2024")
	s.set(1, 0, "Overflow Amount").set(1, 1, "$5,000.00")
	s.set(2, 0, "HYS Amount").set(2, 1, "12000")
	s.set(3, 4, "Add. Fix").set(3, 5, "150")
	s.set(4, 4, "Descr Add").set(4, 5, "(25)")
	s.set(5, 2, "7800")
	s.set(6, 4, "Income").set(6, 5, "8100")
	s.set(7, 4, "HYS").set(7, 5, "400")
	s.set(8, 4, "Austin Income").set(8, 5, "4333.33")
	s.set(9, 4, "Jenna Income").set(9, 5, "0")

	s.set(10, 1, "Mortage").set(10, 2, "2969")
	s.set(11, 1, "Utiities").set(11, 2, "791.90")
	s.set(12, 1, "Food").set(12, 2, "1100")
	s.set(13, 1, "Gas Fuel").set(13, 2, "250")
	s.set(14, 1, "Shopping").set(14, 2, "1500")
	s.set(15, 1, "Not A Line").set(15, 2, "99999")

	s.set(10, 11, "Full Utilities")
	s.set(11, 11, "National Grid").set(11, 12, "450")
	s.set(12, 11, "Spectrum").set(12, 12, "109.99")
	s.set(13, 11, "Gym").set(13, 12, "69.95")
	s.set(15, 11, "After Gap").set(15, 12, "1")
	return s
}

func TestExtract_Sample(t *testing.T) {
	p := Extract(samplePlan(), DefaultLayout())

	if !p.Loaded || p.Error != "" {
		t.Fatalf("Loaded=%v Error=%q, want loaded without error", p.Loaded, p.Error)
	}
	if !p.HasPlan() {
		t.Fatal("HasPlan() = false")
	}
	if p.PlanMonth == nil || *p.PlanMonth != (model.Month{Year: 2024, Month: time.March}) {
		t.Fatalf("PlanMonth = %v, want March 2024", p.PlanMonth)
	}
	checks := []struct {
		name      string
		got, want float64
	}{
		{"OverflowBalance", p.OverflowBalance, 5000},
		{"HYSBalance", p.HYSBalance, 12000},
		{"AddFix", p.AddFix, 150},
		{"AddDesc", p.AddDesc, -25},
		{"IncomeBudgetBase", p.IncomeBudgetBase, 7800},
		{"IncomeProjection", p.IncomeProjection, 8100},
		{"PlannedHYSTransfer", p.PlannedHYSTransfer, 400},
		{"EarnerBWeekly", p.EarnerBWeekly, 0},
		{"Mortage", p.FixedBudgets[model.LineMortgage], 2969},
		{"Utiities", p.FixedBudgets[model.LineUtilities], 791.9},
		{"Food", p.DiscretionaryBudgets[model.BucketFood], 1100},
		{"Gas", p.DiscretionaryBudgets[model.BucketGas], 250},
		{"General", p.DiscretionaryBudgets[model.BucketGeneral], 1500},
		{"Other", p.DiscretionaryBudgets[model.BucketOther], 0},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Fatalf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
	if math.Abs(p.EarnerAWeekly-4333.33*12/52) > 1e-9 {
		t.Fatalf("EarnerAWeekly = %v, want %v", p.EarnerAWeekly, 4333.33*12/52)
	}
	if len(p.FixedBudgets) != 2 {
		t.Fatalf("FixedBudgets has %d lines, want 2 (unknown labels ignored)", len(p.FixedBudgets))
	}

	wantOrder := []string{"National Grid", "Spectrum", "Gym"}
	if !reflect.DeepEqual(p.UtilitiesOrder, wantOrder) {
		t.Fatalf("UtilitiesOrder = %v, want %v", p.UtilitiesOrder, wantOrder)
	}
	if _, ok := p.UtilitiesBudgets["After Gap"]; ok {
		t.Fatal("utilities block should stop at the first empty name")
	}
}

func TestExtract_LastLabelWins(t *testing.T) {
	s := samplePlan()
	s.set(16, 6, "overflow amount").set(16, 7, "7500")
	s.set(17, 6, "Overflow Amount").set(17, 7, "")
	p := Extract(s, DefaultLayout())
	if p.OverflowBalance != 7500 {
		t.Fatalf("OverflowBalance = %v, want 7500 (last non-empty match)", p.OverflowBalance)
	}
}

func TestExtract_ZeroBudgets(t *testing.T) {
	s := newSheet(8)
	s.set(0, 0, "MONTH").set(0, 1, "not a month")
	s.set(2, 1, "Food").set(2, 2, "1200")

	p := Extract(s, DefaultLayout())
	if !p.Loaded {
		t.Fatal("Loaded = false, want true")
	}
	if p.Error != ErrBudgetsZero {
		t.Fatalf("Error = %q, want %q", p.Error, ErrBudgetsZero)
	}
	if p.HasPlan() {
		t.Fatal("HasPlan() = true for a zero-budget plan")
	}
	if p.PlanMonth != nil {
		t.Fatalf("PlanMonth = %v, want nil", p.PlanMonth)
	}
	if p.FixedBudgets == nil || p.DiscretionaryBudgets == nil || p.UtilitiesBudgets == nil {
		t.Fatal("budget maps must be allocated")
	}
	if _, ok := p.DiscretionaryBudgets[model.BucketGas]; !ok {
		t.Fatal("every bucket should be present")
	}
}

func TestExtract_TooLargeWins(t *testing.T) {
	s := newSheet(4)
	s.set(1, 1, "Mortage").set(1, 2, "25000")
	p := Extract(s, DefaultLayout())
	if p.Error != ErrBudgetsTooLarge {
		t.Fatalf("Error = %q, want %q", p.Error, ErrBudgetsTooLarge)
	}
}

func TestFailed(t *testing.T) {
	p := Failed(errors.New("PLAN HTTP 500"))
	if !p.Loaded || p.Error != "PLAN HTTP 500" || p.HasPlan() {
		t.Fatalf("Failed() = %+v", p)
	}
	if p.OverflowBalance != 0 || p.FixedBudgets == nil {
		t.Fatalf("Failed() should carry zero values and allocated maps: %+v", p)
	}
}

func TestEffective(t *testing.T) {
	defaults := DefaultBudgets()

	none := Effective(model.EmptyPlan(), defaults)
	if none.Discretionary[model.BucketFood] != 1200 || none.Fixed[model.LineUtilities] != 791.9 {
		t.Fatalf("no-plan budgets should be defaults: %+v", none)
	}
	if !reflect.DeepEqual(none.UtilityOrder, model.UtilityOrder) {
		t.Fatalf("UtilityOrder = %v, want defaults", none.UtilityOrder)
	}

	p := Extract(samplePlan(), DefaultLayout())
	eff := Effective(p, defaults)
	if eff.Discretionary[model.BucketFood] != 1100 {
		t.Fatalf("Food = %v, want plan value 1100", eff.Discretionary[model.BucketFood])
	}
	if eff.Discretionary[model.BucketOther] != 0 {
		t.Fatalf("Other = %v, want 0", eff.Discretionary[model.BucketOther])
	}
	if eff.Fixed[model.LineMedical] != 232 {
		t.Fatalf("Medical = %v, want default 232", eff.Fixed[model.LineMedical])
	}
	if eff.Fixed[model.LineMortgage] != 2969 {
		t.Fatalf("Mortage = %v, want 2969", eff.Fixed[model.LineMortgage])
	}
	if !reflect.DeepEqual(eff.UtilityOrder, []string{"National Grid", "Spectrum", "Gym"}) {
		t.Fatalf("UtilityOrder = %v", eff.UtilityOrder)
	}
	if eff.ControlledTotal() != 1100+250+1500 {
		t.Fatalf("ControlledTotal = %v", eff.ControlledTotal())
	}

	// Mutating the result must not leak into the defaults.
	none.Discretionary[model.BucketFood] = 1
	if defaults.Discretionary[model.BucketFood] != 1200 {
		t.Fatal("Effective returned shared maps")
	}
}
