package plan

import (
	"maps"
	"slices"

	"github.com/theirongolddev/hbudget/internal/model"
)

// DefaultBudgets returns the household fallback budgets used when no plan is
// available. Config can override every figure.
func DefaultBudgets() model.Budgets {
	return model.Budgets{
		Discretionary: map[model.Bucket]float64{
			model.BucketFood:    1200,
			model.BucketGas:     300,
			model.BucketGeneral: 1700,
			model.BucketOther:   0,
		},
		Fixed: map[model.FixedLine]float64{
			model.LineMortgage:     2969,
			model.LineAdditional:   0,
			model.LineAuto:         0,
			model.LineMedical:      232,
			model.LineCarInsurance: 150,
			model.LineUtilities:    791.9,
			model.LineStudentLoans: 317,
			model.LineNorthWest:    925,
		},
		FixedOrder: slices.Clone(model.FixedOrder),
		Utilities: map[string]float64{
			model.UtilNationalGrid: 450,
			model.UtilSpectrum:     109.99,
			model.UtilJoannPhone:   85,
			model.UtilPeacock:      10.98,
			model.UtilGym:          69.95,
			model.UtilWater:        30,
			model.UtilNetflix:      7.99,
			model.UtilApple:        0,
			model.UtilOther:        0,
		},
		UtilityOrder: slices.Clone(model.UtilityOrder),
	}
}

// Effective merges a plan over the fallback budgets.
//
// Without a usable plan the defaults are returned as-is. With one, a zero
// discretionary bucket falls back to its default, fixed and utility lines
// missing from the plan fall back to theirs, and utility lines follow the
// plan's order (or its keys, sorted) before the default order.
func Effective(p model.Plan, defaults model.Budgets) model.Budgets {
	if !p.HasPlan() {
		return cloneBudgets(defaults)
	}

	out := model.Budgets{
		Discretionary: make(map[model.Bucket]float64, len(model.Buckets)),
		Fixed:         make(map[model.FixedLine]float64, len(defaults.FixedOrder)),
		FixedOrder:    slices.Clone(defaults.FixedOrder),
		Utilities:     make(map[string]float64),
		UtilityOrder:  UtilityLines(p, defaults),
	}

	for _, b := range model.Buckets {
		v := p.DiscretionaryBudgets[b]
		if v == 0 {
			v = defaults.Discretionary[b]
		}
		out.Discretionary[b] = v
	}
	for _, l := range out.FixedOrder {
		if v, ok := p.FixedBudgets[l]; ok {
			out.Fixed[l] = v
		} else {
			out.Fixed[l] = defaults.Fixed[l]
		}
	}
	for _, u := range out.UtilityOrder {
		if v, ok := p.UtilitiesBudgets[u]; ok {
			out.Utilities[u] = v
		} else {
			out.Utilities[u] = defaults.Utilities[u]
		}
	}
	return out
}

// UtilityLines returns the utility sub-lines to display for a plan.
func UtilityLines(p model.Plan, defaults model.Budgets) []string {
	if p.HasPlan() {
		if len(p.UtilitiesOrder) > 0 {
			return slices.Clone(p.UtilitiesOrder)
		}
		if len(p.UtilitiesBudgets) > 0 {
			return slices.Sorted(maps.Keys(p.UtilitiesBudgets))
		}
	}
	return slices.Clone(defaults.UtilityOrder)
}

func cloneBudgets(b model.Budgets) model.Budgets {
	return model.Budgets{
		Discretionary: maps.Clone(b.Discretionary),
		Fixed:         maps.Clone(b.Fixed),
		FixedOrder:    slices.Clone(b.FixedOrder),
		Utilities:     maps.Clone(b.Utilities),
		UtilityOrder:  slices.Clone(b.UtilityOrder),
	}
}
