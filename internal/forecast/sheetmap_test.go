package forecast

import (
	"errors"
	"testing"
	"time"

	"github.com/theirongolddev/hbudget/internal/model"
)

func forecastTable() model.Table {
	return model.Table{
		Headers: []string{"PLAN", "", "", ""},
		Rows: [][]string{
			{"Month", "Jan 2025", "Feb 2025", "2025-03-01"},
			{"FORECAST INCOME", "100", "$1,200", ""},
			{"FORECAT FIXED", "50", "", ""},
			{"forecast des", "", "25", "abc"},
			{"FORECAST HYS", "", "", "300"},
		},
	}
}

func TestBuildSheetMap(t *testing.T) {
	m := BuildSheetMap(forecastTable(), DefaultSheetLayout())
	if !m.Ready() || !m.RowsMapped() {
		t.Fatalf("map not resolved: %+v", m)
	}
	if m.IncomeRow != 3 || m.FixedRow != 4 || m.DiscRow != 5 || m.HYSRow != 6 {
		t.Fatalf("rows = %d/%d/%d/%d, want 3/4/5/6", m.IncomeRow, m.FixedRow, m.DiscRow, m.HYSRow)
	}
	wantCols := map[model.Month]int{
		month(2025, time.January):  2,
		month(2025, time.February): 3,
		month(2025, time.March):    4,
	}
	for mo, col := range wantCols {
		if m.MonthCols[mo] != col {
			t.Errorf("MonthCols[%s] = %d, want %d", mo.Key(), m.MonthCols[mo], col)
		}
	}
}

func TestReadAdjustments(t *testing.T) {
	tbl := forecastTable()
	adj := ReadAdjustments(tbl, BuildSheetMap(tbl, DefaultSheetLayout()))
	if got := adj["2025-02"]; got != (model.Adjustment{IncomeAdd: 1200, AddDisc: 25}) {
		t.Fatalf("2025-02 = %+v", got)
	}
	if got := adj["2025-03"]; got != (model.Adjustment{HYSTransfer: 300}) {
		t.Fatalf("2025-03 = %+v", got)
	}
	if got := adj["2025-01"]; got != (model.Adjustment{IncomeAdd: 100, AddFixed: 50}) {
		t.Fatalf("2025-01 = %+v", got)
	}
}

func TestUpdates(t *testing.T) {
	tbl := forecastTable()
	m := BuildSheetMap(tbl, DefaultSheetLayout())

	ups, err := m.Updates(month(2025, time.February), model.Adjustment{IncomeAdd: 1, AddFixed: 2, AddDisc: 3, HYSTransfer: 4})
	if err != nil {
		t.Fatalf("Updates: %v", err)
	}
	if len(ups) != 4 {
		t.Fatalf("len(updates) = %d, want 4", len(ups))
	}
	for i, u := range ups {
		if u.Col != 3 || u.Row != 3+i || u.Value != float64(i+1) {
			t.Errorf("update %d = %+v", i, u)
		}
	}

	_, err = m.Updates(month(2025, time.June), model.Adjustment{})
	if !errors.Is(err, ErrMonthNotMapped) || !errors.Is(err, ErrUnresolvable) {
		t.Fatalf("unmapped month err = %v", err)
	}

	tbl.Rows = tbl.Rows[:4]
	_, err = BuildSheetMap(tbl, DefaultSheetLayout()).Updates(month(2025, time.February), model.Adjustment{})
	if !errors.Is(err, ErrRowsNotMapped) {
		t.Fatalf("missing HYS row err = %v", err)
	}

	_, err = BuildSheetMap(model.Table{}, DefaultSheetLayout()).Updates(month(2025, time.February), model.Adjustment{})
	if !errors.Is(err, ErrMapNotReady) {
		t.Fatalf("empty table err = %v", err)
	}
}

func TestBuildSheetMapFixedLabelFallback(t *testing.T) {
	tbl := forecastTable()
	tbl.Rows[2][0] = "FORECAST FIXED"
	if got := BuildSheetMap(tbl, DefaultSheetLayout()).FixedRow; got != 4 {
		t.Fatalf("FixedRow = %d, want 4", got)
	}
}
