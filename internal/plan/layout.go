package plan

import "github.com/theirongolddev/hbudget/internal/model"

// Layout describes where the plan worksheet keeps its figures. Columns and
// rows are 0-based grid coordinates; grid row 0 is the sheet's first row.
type Layout struct {
	// Scalar labels, matched case-insensitively anywhere in the grid. The
	// value is the cell to the right; the last non-empty match wins.
	MonthLabel           string `toml:"month_label" yaml:"month_label"`
	OverflowBalanceLabel string `toml:"overflow_balance_label" yaml:"overflow_balance_label"`
	HYSBalanceLabel      string `toml:"hys_balance_label" yaml:"hys_balance_label"`
	AddFixLabel          string `toml:"add_fix_label" yaml:"add_fix_label"`
	AddDescLabel         string `toml:"add_desc_label" yaml:"add_desc_label"`
	IncomeLabel          string `toml:"income_label" yaml:"income_label"`
	HYSTransferLabel     string `toml:"hys_transfer_label" yaml:"hys_transfer_label"`

	// Monthly-average pay labels; the first match is used.
	EarnerALabel string `toml:"earner_a_label" yaml:"earner_a_label"`
	EarnerBLabel string `toml:"earner_b_label" yaml:"earner_b_label"`

	// Baseline income for past months, read from a fixed cell.
	IncomeBaseRow int `toml:"income_base_row" yaml:"income_base_row"`
	IncomeBaseCol int `toml:"income_base_col" yaml:"income_base_col"`

	// Budget lines: exact labels in LabelCol with the amount in ValueCol.
	LabelCol            int               `toml:"label_col" yaml:"label_col"`
	ValueCol            int               `toml:"value_col" yaml:"value_col"`
	FixedLabels         []string          `toml:"fixed_labels" yaml:"fixed_labels"`
	DiscretionaryLabels map[string]string `toml:"discretionary_labels" yaml:"discretionary_labels"`

	// Utilities block: rows below the sentinel until the first empty name.
	UtilitiesSentinel string `toml:"utilities_sentinel" yaml:"utilities_sentinel"`
	UtilitiesNameCol  int    `toml:"utilities_name_col" yaml:"utilities_name_col"`
	UtilitiesAmtCol   int    `toml:"utilities_amount_col" yaml:"utilities_amount_col"`

	// Sanity ceiling for budget totals.
	MaxBudgetTotal float64 `toml:"max_budget_total" yaml:"max_budget_total"`
}

// DefaultLayout returns the layout of the household PLAN sheet: labels in
// column B, values in column C, utilities in L/M, baseline income in C6.
func DefaultLayout() Layout {
	fixed := make([]string, len(model.FixedOrder))
	for i, l := range model.FixedOrder {
		fixed[i] = string(l)
	}
	return Layout{
		MonthLabel:           "MONTH",
		OverflowBalanceLabel: "Overflow Amount",
		HYSBalanceLabel:      "HYS Amount",
		AddFixLabel:          "Add. Fix",
		AddDescLabel:         "Descr Add",
		IncomeLabel:          "Income",
		HYSTransferLabel:     "HYS",
		EarnerALabel:         "Austin Income",
		EarnerBLabel:         "Jenna Income",
		IncomeBaseRow:        5,
		IncomeBaseCol:        2,
		LabelCol:             1,
		ValueCol:             2,
		FixedLabels:          fixed,
		DiscretionaryLabels: map[string]string{
			"Food":     model.BucketFood.String(),
			"Gas Fuel": model.BucketGas.String(),
			"Shopping": model.BucketGeneral.String(),
		},
		UtilitiesSentinel: "full utilities",
		UtilitiesNameCol:  11,
		UtilitiesAmtCol:   12,
		MaxBudgetTotal:    20000,
	}
}
