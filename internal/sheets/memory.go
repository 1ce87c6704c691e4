package sheets

import (
	"context"
	"sync"

	"github.com/theirongolddev/hbudget/internal/grid"
	"github.com/theirongolddev/hbudget/internal/model"
)

// Batch is one recorded BatchUpdate call.
type Batch struct {
	Sheet   string
	Updates []CellUpdate
}

// Memory is an in-process store. Cells are kept as strings; the first grid
// row is the header row.
type Memory struct {
	mu      sync.Mutex
	sheets  map[string][][]string
	batches []Batch

	// ReadErr and WriteErr, when set, are returned instead of touching data.
	ReadErr  error
	WriteErr error
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{sheets: make(map[string][][]string)}
}

// SetGrid replaces a sheet's contents.
func (m *Memory) SetGrid(sheet string, g [][]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sheets[sheet] = copyGrid(g)
}

// SetTable replaces a sheet's contents with headers plus rows.
func (m *Memory) SetTable(sheet string, t model.Table) {
	m.SetGrid(sheet, grid.FromTable(t))
}

// Grid returns a copy of a sheet's contents.
func (m *Memory) Grid(sheet string) [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyGrid(m.sheets[sheet])
}

// Batches returns every batch written so far.
func (m *Memory) Batches() []Batch {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Batch(nil), m.batches...)
}

func (m *Memory) ReadTable(ctx context.Context, sheet string) (model.Table, error) {
	if err := ctx.Err(); err != nil {
		return model.Table{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadErr != nil {
		return model.Table{}, m.ReadErr
	}
	g, ok := m.sheets[sheet]
	if !ok {
		return model.Table{}, &Error{Code: "NOT_FOUND", Message: "sheet not found: " + sheet, Err: ErrNotFound}
	}
	return grid.ToTable(grid.Pad(copyGrid(g))), nil
}

func (m *Memory) BatchUpdate(ctx context.Context, sheet string, updates []CellUpdate) error {
	if err := ValidateUpdates(updates); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}

	g := m.sheets[sheet]
	for _, u := range updates {
		for len(g) < u.Row {
			g = append(g, nil)
		}
		row := g[u.Row-1]
		for len(row) < u.Col {
			row = append(row, "")
		}
		row[u.Col-1] = formatValue(u.Value)
		g[u.Row-1] = row
	}
	m.sheets[sheet] = g
	m.batches = append(m.batches, Batch{Sheet: sheet, Updates: append([]CellUpdate(nil), updates...)})
	return nil
}

func copyGrid(g [][]string) [][]string {
	if g == nil {
		return nil
	}
	out := make([][]string, len(g))
	for i, r := range g {
		out[i] = append([]string(nil), r...)
	}
	return out
}
