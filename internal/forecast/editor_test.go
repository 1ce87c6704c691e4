package forecast

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/theirongolddev/hbudget/internal/model"
	"github.com/theirongolddev/hbudget/internal/sheets"
)

func newTestEditor(t *testing.T) (*Editor, *sheets.Memory, *memKV) {
	t.Helper()
	mem := sheets.NewMemory()
	mem.SetTable("PLAN", forecastTable())
	kv := newMemKV()
	e, err := NewEditor(mem, kv, "PLAN", DefaultSheetLayout())
	if err != nil {
		t.Fatalf("NewEditor: %v", err)
	}
	return e, mem, kv
}

func TestEditorReloadAndSave(t *testing.T) {
	ctx := context.Background()
	e, mem, kv := newTestEditor(t)

	if err := e.Reload(ctx, 1500, 20000); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	s := e.Settings()
	if s.StartOverflow != 1500 || s.StartHYS != 20000 {
		t.Fatalf("start = %v/%v", s.StartOverflow, s.StartHYS)
	}
	if s.PerMonth["2025-02"].IncomeAdd != 1200 {
		t.Fatalf("sheet adjustments not merged: %+v", s.PerMonth)
	}
	if _, ok := kv.data[SettingsKey]; !ok {
		t.Fatal("settings not persisted after reload")
	}

	feb := month(2025, time.February)
	if err := e.SetField(feb, FieldAddDisc, 75); err != nil {
		t.Fatalf("SetField: %v", err)
	}
	if err := e.SaveMonth(ctx, feb); err != nil {
		t.Fatalf("SaveMonth: %v", err)
	}
	batches := mem.Batches()
	if len(batches) != 1 || len(batches[0].Updates) != 4 {
		t.Fatalf("batches = %+v, want one batch of 4", batches)
	}
	if got := mem.Grid("PLAN")[4][2]; got != "75" {
		t.Fatalf("disc cell = %q, want 75", got)
	}
}

func TestEditorSaveFailuresKeepLocalEdit(t *testing.T) {
	ctx := context.Background()
	e, mem, _ := newTestEditor(t)
	if err := e.Reload(ctx, 0, 0); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	jun := month(2025, time.June)
	if err := e.SetField(jun, FieldHYSTransfer, 400); err != nil {
		t.Fatalf("SetField: %v", err)
	}
	err := e.SaveMonth(ctx, jun)
	if !errors.Is(err, ErrMonthNotMapped) {
		t.Fatalf("SaveMonth unmapped = %v", err)
	}
	if len(mem.Batches()) != 0 {
		t.Fatal("unresolvable save must not write")
	}

	mar := month(2025, time.March)
	if err := e.SetField(mar, FieldIncomeAdd, 900); err != nil {
		t.Fatalf("SetField: %v", err)
	}
	mem.WriteErr = sheets.ErrTransport
	err = e.SaveMonth(ctx, mar)
	if !errors.Is(err, ErrWriteFailed) || !errors.Is(err, sheets.ErrTransport) {
		t.Fatalf("SaveMonth transport = %v", err)
	}

	s := e.Settings()
	if s.PerMonth["2025-06"].HYSTransfer != 400 || s.PerMonth["2025-03"].IncomeAdd != 900 {
		t.Fatalf("local edits lost: %+v", s.PerMonth)
	}
}

type gatedStore struct {
	*sheets.Memory
	calls   int32
	entered chan struct{}
	release chan struct{}
}

func (g *gatedStore) ReadTable(ctx context.Context, sheet string) (model.Table, error) {
	if atomic.AddInt32(&g.calls, 1) == 1 {
		close(g.entered)
		<-g.release
	}
	return g.Memory.ReadTable(ctx, sheet)
}

func TestEditorDiscardsStaleReload(t *testing.T) {
	mem := sheets.NewMemory()
	mem.SetTable("PLAN", forecastTable())
	store := &gatedStore{Memory: mem, entered: make(chan struct{}), release: make(chan struct{})}
	e, err := NewEditor(store, newMemKV(), "PLAN", DefaultSheetLayout())
	if err != nil {
		t.Fatalf("NewEditor: %v", err)
	}

	ctx := context.Background()
	first := make(chan error, 1)
	go func() { first <- e.Reload(ctx, 111, 0) }()
	<-store.entered

	if err := e.Reload(ctx, 222, 0); err != nil {
		t.Fatalf("second Reload: %v", err)
	}
	close(store.release)

	if err := <-first; !errors.Is(err, ErrStale) {
		t.Fatalf("first Reload = %v, want ErrStale", err)
	}
	if got := e.Settings().StartOverflow; got != 222 {
		t.Fatalf("StartOverflow = %v, want 222 from the newer reload", got)
	}
}

func TestEditorForecast(t *testing.T) {
	e, _, _ := newTestEditor(t)
	if err := e.Reload(context.Background(), 1000, 0); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if err := e.SetMonthsAhead(3); err != nil {
		t.Fatalf("SetMonthsAhead: %v", err)
	}
	rows := e.Forecast(month(2025, time.January), 5000, 3200, DefaultPayroll(1000, 800))
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(rows))
	}
	if rows[0].IncomeAdd != 1200 {
		t.Fatalf("Feb IncomeAdd = %v, want 1200 from sheet", rows[0].IncomeAdd)
	}
	if rows[0].EndOverflow != 1000+rows[0].MonthOverflow {
		t.Fatalf("EndOverflow not seeded from start balance")
	}
}
