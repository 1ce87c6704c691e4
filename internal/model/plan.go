package model

// Plan is one parsed budget configuration, valid for a single month. A Plan
// with a non-empty Error must not be trusted for budget numbers.
type Plan struct {
	Loaded bool   `json:"loaded"`
	Error  string `json:"error,omitempty"`

	PlanMonthRaw string `json:"planMonthRaw"`
	PlanMonth    *Month `json:"planMonth,omitempty"`

	OverflowBalance float64 `json:"overflowBalance"`
	HYSBalance      float64 `json:"hysBalance"`

	AddFix  float64 `json:"addFix"`
	AddDesc float64 `json:"addDesc"`

	IncomeProjection   float64 `json:"incomeProjection"`
	IncomeBudgetBase   float64 `json:"incomeBudgetBase"`
	PlannedHYSTransfer float64 `json:"plannedHysTransfer"`

	FixedBudgets         map[FixedLine]float64 `json:"fixedBudgets"`
	DiscretionaryBudgets map[Bucket]float64    `json:"discretionaryBudgets"`

	UtilitiesBudgets map[string]float64 `json:"utilitiesBudgets"`
	UtilitiesOrder   []string           `json:"utilitiesOrder"`

	// Weekly net pay per earner, back-computed from the monthly average.
	EarnerAWeekly float64 `json:"earnerAWeekly"`
	EarnerBWeekly float64 `json:"earnerBWeekly"`
}

// EmptyPlan returns a not-yet-loaded plan with every map allocated.
func EmptyPlan() Plan {
	disc := make(map[Bucket]float64, len(Buckets))
	for _, b := range Buckets {
		disc[b] = 0
	}
	return Plan{
		FixedBudgets:         make(map[FixedLine]float64),
		DiscretionaryBudgets: disc,
		UtilitiesBudgets:     make(map[string]float64),
	}
}

// HasPlan reports whether the plan loaded cleanly.
func (p Plan) HasPlan() bool {
	return p.Loaded && p.Error == ""
}

// MismatchedWith reports whether the plan was written for a month other
// than m. A plan with an unparsable month is never flagged.
func (p Plan) MismatchedWith(m Month) bool {
	return p.PlanMonth != nil && *p.PlanMonth != m
}

// Budgets is the effective budget set used for comparisons.
type Budgets struct {
	Discretionary map[Bucket]float64    `json:"discretionary"`
	Fixed         map[FixedLine]float64 `json:"fixed"`
	FixedOrder    []FixedLine           `json:"fixedOrder"`
	Utilities     map[string]float64    `json:"utilities"`
	UtilityOrder  []string              `json:"utilityOrder"`
}

// ControlledTotal sums the controlled discretionary buckets.
func (b Budgets) ControlledTotal() float64 {
	var total float64
	for _, k := range ControlledBuckets {
		total += b.Discretionary[k]
	}
	return total
}

// DiscretionaryTotal sums all four discretionary buckets.
func (b Budgets) DiscretionaryTotal() float64 {
	var total float64
	for _, k := range Buckets {
		total += b.Discretionary[k]
	}
	return total
}

// FixedTotal sums the fixed lines in FixedOrder.
func (b Budgets) FixedTotal() float64 {
	var total float64
	for _, l := range b.FixedOrder {
		total += b.Fixed[l]
	}
	return total
}

// UtilitiesTotal sums the utility sub-lines in UtilityOrder.
func (b Budgets) UtilitiesTotal() float64 {
	var total float64
	for _, u := range b.UtilityOrder {
		total += b.Utilities[u]
	}
	return total
}
