package config

import (
	"fmt"
	"slices"

	"github.com/theirongolddev/hbudget/internal/model"
	"github.com/theirongolddev/hbudget/internal/plan"
)

// BudgetOverrides replaces individual fallback budget figures. Keys are
// display names: bucket names, fixed line labels and utility line names.
type BudgetOverrides struct {
	Discretionary map[string]float64 `toml:"discretionary,omitempty" yaml:"discretionary,omitempty"`
	Fixed         map[string]float64 `toml:"fixed,omitempty" yaml:"fixed,omitempty"`
	Utilities     map[string]float64 `toml:"utilities,omitempty" yaml:"utilities,omitempty"`

	// UtilityOrder, when set, replaces the default utility line order.
	UtilityOrder []string `toml:"utility_order,omitempty" yaml:"utility_order,omitempty"`
}

// Defaults merges the overrides over the built-in fallback budgets.
// Unknown bucket or fixed line names are rejected; new utility lines are
// appended to the order.
func (o BudgetOverrides) Defaults() (model.Budgets, error) {
	b := plan.DefaultBudgets()

	for name, v := range o.Discretionary {
		bucket, ok := model.ParseBucket(name)
		if !ok || bucket == model.BucketIgnore {
			return b, fmt.Errorf("budgets.discretionary: unknown bucket %q", name)
		}
		b.Discretionary[bucket] = v
	}

	for name, v := range o.Fixed {
		line := model.FixedLine(name)
		if !slices.Contains(b.FixedOrder, line) {
			return b, fmt.Errorf("budgets.fixed: unknown fixed line %q", name)
		}
		b.Fixed[line] = v
	}

	if len(o.UtilityOrder) > 0 {
		b.UtilityOrder = slices.Clone(o.UtilityOrder)
	}
	for name, v := range o.Utilities {
		b.Utilities[name] = v
	}
	extra := make([]string, 0)
	for name := range o.Utilities {
		if !slices.Contains(b.UtilityOrder, name) {
			extra = append(extra, name)
		}
	}
	slices.Sort(extra)
	b.UtilityOrder = append(b.UtilityOrder, extra...)

	return b, nil
}
