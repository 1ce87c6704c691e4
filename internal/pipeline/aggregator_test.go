package pipeline

import (
	"math"
	"testing"
	"time"

	"github.com/theirongolddev/hbudget/internal/classify"
	"github.com/theirongolddev/hbudget/internal/model"
)

var march = model.Month{Year: 2024, Month: time.March}

func tx(day int, desc, category string, typ model.TxType, amt float64) model.Transaction {
	return model.Transaction{
		Date:        model.Day(2024, time.March, day),
		Description: desc,
		Category:    category,
		Type:        typ,
		Amount:      amt,
		Bucket:      classify.Bucket(category),
	}
}

func TestSummarizeMonth_CoffeeShop(t *testing.T) {
	txs := []model.Transaction{
		tx(5, "Coffee Shop", "Restaurants/Dining", model.TypeDiscretionary, -12.50),
	}
	s := SummarizeMonth(march, txs)
	if s.DiscSpend != 12.50 {
		t.Fatalf("DiscSpend = %.2f, want 12.50", s.DiscSpend)
	}
	if s.FixedSpend != 0 {
		t.Fatalf("FixedSpend = %.2f, want 0", s.FixedSpend)
	}
	if got := SpendByBucket(txs)[model.BucketFood]; got != 12.50 {
		t.Fatalf("Food spend = %.2f, want 12.50", got)
	}
}

func TestSummarizeMonth_SavingsRouting(t *testing.T) {
	txs := []model.Transaction{
		tx(1, "To HYS", "Savings", model.TypeFixed, -500),
	}
	s := SummarizeMonth(march, txs)
	if s.SavingsTransfer != 500 {
		t.Fatalf("SavingsTransfer = %.2f, want 500", s.SavingsTransfer)
	}
	if s.FixedSpend != 0 {
		t.Fatalf("FixedSpend = %.2f, want 0", s.FixedSpend)
	}
	for l, v := range FixedByLine(txs) {
		if v != 0 {
			t.Fatalf("FixedByLine[%s] = %.2f, want 0", l, v)
		}
	}
	if got := SavingsTransfer(txs); got != 500 {
		t.Fatalf("SavingsTransfer() = %.2f, want 500", got)
	}
}

func TestOverridePrecedence(t *testing.T) {
	rent := tx(1, "Landlord", "Rent", model.TypeFixed, -1800)
	txs := []model.Transaction{rent}

	s := SummarizeMonth(march, txs)
	if s.FixedSpend != 0 || s.DiscSpend != 1800 {
		t.Fatalf("Fixed=%.2f Disc=%.2f, want 0 and 1800", s.FixedSpend, s.DiscSpend)
	}
	if FixedTotal(FixedByLine(txs), model.FixedOrder) != 0 {
		t.Fatal("rent leaked into fixed lines")
	}
	if got := SpendByBucket(txs)[model.BucketGeneral]; got != 1800 {
		t.Fatalf("General spend = %.2f, want 1800", got)
	}

	idx := map[model.Month][]model.Transaction{march: txs}
	avg := TrailingAverage(idx, []model.Month{march}, model.UtilityOrder)
	if avg.Fixed[model.LineUtilities] != 0 || avg.Buckets[model.BucketGeneral] != 1800 {
		t.Fatalf("trailing average routed rent wrong: %+v", avg)
	}
	hist := SummarizeMonths(idx, []model.Month{march})
	if hist[0].FixedSpend != 0 || hist[0].DiscSpend != 1800 {
		t.Fatalf("history routed rent wrong: %+v", hist[0])
	}
}

func TestNetToSpendFloor(t *testing.T) {
	txs := []model.Transaction{
		tx(1, "Store", "General Merchandise", model.TypeDiscretionary, -20),
		tx(2, "Store refund", "General Merchandise", model.TypeDiscretionary, 75),
		tx(3, "Power", "Utilities", model.TypeFixed, 30),
	}
	s := SummarizeMonth(march, txs)
	if s.DiscSpend != 0 {
		t.Fatalf("DiscSpend = %.2f, want 0", s.DiscSpend)
	}
	if s.FixedSpend != 0 {
		t.Fatalf("FixedSpend = %.2f, want 0", s.FixedSpend)
	}
	if got := SpendByBucket(txs)[model.BucketGeneral]; got != 0 {
		t.Fatalf("General spend = %.2f, want 0", got)
	}
	if SpendFromNet(10) != 0 || SpendFromNet(-10) != 10 {
		t.Fatal("SpendFromNet floor broken")
	}
}

func TestSummarizeMonth_Identity(t *testing.T) {
	txs := []model.Transaction{
		tx(1, "Paycheck", "Paychecks", model.TypeIncome, 4123.37),
		tx(2, "Paycheck", "Paychecks", model.TypeIncome, 2999.99),
		tx(3, "Mortgage Co", "Mortgages", model.TypeFixed, -2969.01),
		tx(4, "Interest", "Interest", model.TypeFixed, -42.42),
		tx(5, "HYS", "Savings", model.TypeFixed, -333.33),
		tx(6, "Gas Station", "Other Discretionary", model.TypeDiscretionary, -61.17),
		tx(7, "Diner", "Restaurants/Dining", model.TypeFixed, -18.05),
		tx(8, "Mystery", "Whatever", model.TypeUnknown, -999),
	}
	s := SummarizeMonth(march, txs)
	if s.Overflow != s.Income-s.FixedSpend-s.DiscSpend-s.SavingsTransfer {
		t.Fatalf("overflow identity broken: %+v", s)
	}
	if math.Abs(s.FixedSpend-2969.01) > 1e-9 {
		t.Fatalf("FixedSpend = %v, want 2969.01 (interest ignored)", s.FixedSpend)
	}
	if math.Abs(s.DiscSpend-(61.17+18.05)) > 1e-9 {
		t.Fatalf("DiscSpend = %v, want %v", s.DiscSpend, 61.17+18.05)
	}
}

func TestUtilitiesByLine(t *testing.T) {
	txs := []model.Transaction{
		tx(1, "NATIONAL GRID", "Utilities", model.TypeFixed, -300),
		tx(2, "Netflix.com", "Dues and Subscriptions", model.TypeFixed, -15.49),
		tx(3, "Random", "Insurance", model.TypeFixed, -20),
		tx(4, "Spectrum", "Cable/Satellite Services", model.TypeDiscretionary, -99),
		tx(5, "Mortgage Co", "Mortgages", model.TypeFixed, -2969),
	}
	got := UtilitiesByLine(txs, model.UtilityOrder)
	if got[model.UtilNationalGrid] != 300 || got[model.UtilNetflix] != 15.49 || got[model.UtilOther] != 20 {
		t.Fatalf("UtilitiesByLine = %v", got)
	}
	if got[model.UtilSpectrum] != 0 {
		t.Fatalf("discretionary row leaked into utilities: %v", got)
	}
	if got := FixedByLine(txs)[model.LineUtilities]; math.Abs(got-335.49) > 1e-9 {
		t.Fatalf("Utiities fixed spend = %v, want 335.49", got)
	}
}

func TestTrailingWindowAndAverage(t *testing.T) {
	jan := model.Month{Year: 2024, Month: time.January}
	feb := model.Month{Year: 2024, Month: time.February}
	months := []model.Month{{Year: 2023, Month: time.December}, jan, feb, march}

	if w := TrailingWindow(months, jan, 3); len(w) != 2 || w[0] != months[0] {
		t.Fatalf("TrailingWindow(jan) = %v", w)
	}
	if w := TrailingWindow(months, march, 3); len(w) != 3 || w[0] != jan {
		t.Fatalf("TrailingWindow(march) = %v", w)
	}
	if w := TrailingWindow(months, model.Month{Year: 2030, Month: 1}, 3); w != nil {
		t.Fatalf("TrailingWindow(missing) = %v, want nil", w)
	}

	food := func(m model.Month, amt float64) model.Transaction {
		return model.Transaction{
			Date: m.Start(), Description: "x", Category: "Restaurants/Dining",
			Type: model.TypeDiscretionary, Amount: amt, Bucket: model.BucketFood,
		}
	}
	idx := map[model.Month][]model.Transaction{
		jan:   {food(jan, -100)},
		feb:   {food(feb, 50)}, // refund month floors at 0
		march: {food(march, -200)},
	}
	avg := TrailingAverage(idx, TrailingWindow(months, march, 3), nil)
	if avg.Months != 3 || avg.Buckets[model.BucketFood] != 100 {
		t.Fatalf("Food avg = %v over %d months, want 100 over 3", avg.Buckets[model.BucketFood], avg.Months)
	}

	empty := TrailingAverage(idx, nil, model.UtilityOrder)
	if empty.Months != 0 || empty.Utilities[model.UtilGym] != 0 {
		t.Fatalf("empty window = %+v", empty)
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		spent, budget float64
		want          model.BudgetStatus
	}{
		{10, 0, model.StatusWarn},
		{101, 100, model.StatusBad},
		{84, 100, model.StatusWarn},
		{83, 100, model.StatusGood},
		{0, 100, model.StatusGood},
	}
	for _, tt := range tests {
		if got := Status(tt.spent, tt.budget); got != tt.want {
			t.Fatalf("Status(%v, %v) = %s, want %s", tt.spent, tt.budget, got, tt.want)
		}
	}
	if RemainingStatus(501) != model.StatusGood || RemainingStatus(0) != model.StatusWarn || RemainingStatus(-1) != model.StatusBad {
		t.Fatal("RemainingStatus thresholds broken")
	}
}

func TestFixedHealth(t *testing.T) {
	lines := []model.BudgetLine{
		{Name: "a", Budget: 100, Actual: 100},
		{Name: "b", Budget: 100, Actual: 101},
		{Name: "c", Budget: 0, Actual: 50},
	}
	h := FixedHealth(lines)
	if h.OnTrack != 1 || h.Total != 2 {
		t.Fatalf("FixedHealth = %+v, want 1/2", h)
	}
	tot := Totals(lines)
	if tot.Budget != 200 || tot.Actual != 251 || tot.Variance != -51 {
		t.Fatalf("Totals = %+v", tot)
	}
}

func TestFilterByBucket(t *testing.T) {
	txs := []model.Transaction{
		tx(1, "Diner", "Restaurants/Dining", model.TypeDiscretionary, -20),
		tx(2, "Diner refund", "Restaurants/Dining", model.TypeDiscretionary, 5),
		tx(3, "Shoes", "Clothing/Shoes", model.TypeDiscretionary, -60),
		tx(4, "Mortgage", "Mortgages", model.TypeFixed, -2000),
	}
	if n := len(FilterByBucket(txs, nil)); n != 3 {
		t.Fatalf("FilterByBucket(all) = %d rows, want 3", n)
	}
	food := model.BucketFood
	got := FilterByBucket(txs, &food)
	if len(got) != 2 || NetSpend(got) != 15 {
		t.Fatalf("food rows = %d net %.2f, want 2 and 15", len(got), NetSpend(got))
	}
}
