// Package plan extracts the budget plan snapshot from the free-form PLAN
// worksheet and resolves the effective budgets used for comparisons.
package plan

import (
	"slices"
	"strings"
	"time"

	"github.com/theirongolddev/hbudget/internal/grid"
	"github.com/theirongolddev/hbudget/internal/ledger"
	"github.com/theirongolddev/hbudget/internal/model"
)

// Validation messages attached to a plan whose totals look wrong.
const (
	ErrBudgetsZero     = "Plan parsed but budgets came out 0. Check Plan CSV layout."
	ErrBudgetsTooLarge = "Plan parse mismatch. Budgets look too large."
)

// Extract parses a plan grid. The result is always Loaded; Error is set when
// the budget totals fail the layout sanity check.
func Extract(g [][]string, layout Layout) model.Plan {
	p := model.EmptyPlan()
	p.Loaded = true

	p.PlanMonthRaw = findLabelNext(g, layout.MonthLabel)
	p.PlanMonth = ParseMonthCell(p.PlanMonthRaw)

	p.OverflowBalance = ledger.ParseAmount(findLabelNext(g, layout.OverflowBalanceLabel))
	p.HYSBalance = ledger.ParseAmount(findLabelNext(g, layout.HYSBalanceLabel))
	p.AddFix = ledger.ParseAmount(findLabelNext(g, layout.AddFixLabel))
	p.AddDesc = ledger.ParseAmount(findLabelNext(g, layout.AddDescLabel))
	p.IncomeProjection = ledger.ParseAmount(findLabelNext(g, layout.IncomeLabel))
	p.IncomeBudgetBase = ledger.ParseAmount(grid.Cell(g, layout.IncomeBaseRow, layout.IncomeBaseCol))
	p.PlannedHYSTransfer = ledger.ParseAmount(findLabelNext(g, layout.HYSTransferLabel))

	p.EarnerAWeekly = weeklyFromMonthly(g, layout.EarnerALabel)
	p.EarnerBWeekly = weeklyFromMonthly(g, layout.EarnerBLabel)

	for r := range g {
		label := grid.Cell(g, r, layout.LabelCol)
		if label == "" {
			continue
		}
		val := ledger.ParseAmount(grid.Cell(g, r, layout.ValueCol))
		if slices.Contains(layout.FixedLabels, label) {
			p.FixedBudgets[model.FixedLine(label)] = val
		}
		if name, ok := layout.DiscretionaryLabels[label]; ok {
			if b, ok := model.ParseBucket(name); ok && b != model.BucketIgnore {
				p.DiscretionaryBudgets[b] = val
			}
		}
	}

	extractUtilities(g, layout, &p)

	var fixedTotal, discTotal float64
	for _, v := range p.FixedBudgets {
		fixedTotal += v
	}
	for _, v := range p.DiscretionaryBudgets {
		discTotal += v
	}
	// The ceiling check runs last so its message wins when both apply.
	if fixedTotal <= 0 || discTotal <= 0 {
		p.Error = ErrBudgetsZero
	}
	if fixedTotal > layout.MaxBudgetTotal || discTotal > layout.MaxBudgetTotal {
		p.Error = ErrBudgetsTooLarge
	}
	return p
}

// Failed returns the snapshot for a plan that could not be read at all.
func Failed(err error) model.Plan {
	p := model.EmptyPlan()
	p.Loaded = true
	p.Error = err.Error()
	return p
}

// findLabelNext scans every cell for label and returns the trimmed cell to
// its right. Later non-empty matches replace earlier ones.
func findLabelNext(g [][]string, label string) string {
	target := strings.ToLower(strings.TrimSpace(label))
	if target == "" {
		return ""
	}
	found := ""
	for r, row := range g {
		for c := 0; c < len(row)-1; c++ {
			if strings.ToLower(grid.Cell(g, r, c)) != target {
				continue
			}
			if next := grid.Cell(g, r, c+1); next != "" {
				found = next
			}
		}
	}
	return found
}

// weeklyFromMonthly reads the monthly-average pay next to the first match of
// label and converts it back to a weekly rate (monthly = weekly * 52 / 12).
func weeklyFromMonthly(g [][]string, label string) float64 {
	target := strings.ToLower(strings.TrimSpace(label))
	if target == "" {
		return 0
	}
	for r, row := range g {
		for c := 0; c < len(row)-1; c++ {
			if strings.ToLower(grid.Cell(g, r, c)) != target {
				continue
			}
			monthly := ledger.ParseAmount(grid.Cell(g, r, c+1))
			if monthly <= 0 {
				return 0
			}
			return monthly * 12 / 52
		}
	}
	return 0
}

func extractUtilities(g [][]string, layout Layout, p *model.Plan) {
	sentinel := strings.ToLower(strings.TrimSpace(layout.UtilitiesSentinel))
	start := -1
	for r := range g {
		if strings.ToLower(grid.Cell(g, r, layout.UtilitiesNameCol)) == sentinel {
			start = r + 1
		}
	}
	if start < 0 {
		return
	}
	for r := start; r < len(g); r++ {
		name := grid.Cell(g, r, layout.UtilitiesNameCol)
		if name == "" {
			break
		}
		if _, seen := p.UtilitiesBudgets[name]; !seen {
			p.UtilitiesOrder = append(p.UtilitiesOrder, name)
		}
		p.UtilitiesBudgets[name] = ledger.ParseAmount(grid.Cell(g, r, layout.UtilitiesAmtCol))
	}
}

var planMonthLayouts = []string{
	"January 2006",
	"Jan 2006",
	"January, 2006",
	"2006-01",
	"1/2006",
	"01/2006",
}

// ParseMonthCell accepts anything ledger.ParseDate does plus month-only forms. It
// returns nil when the cell is empty or unparsable.
func ParseMonthCell(raw string) *model.Month {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	if d, ok := ledger.ParseDate(s); ok {
		m := model.MonthOf(d)
		return &m
	}
	for _, layout := range planMonthLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			m := model.MonthOf(t)
			return &m
		}
	}
	return nil
}
