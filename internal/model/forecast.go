package model

// Adjustment is the user-entered per-month forecast input.
type Adjustment struct {
	IncomeAdd   float64 `json:"incomeAdd"`
	AddFixed    float64 `json:"addFixed"`
	AddDisc     float64 `json:"addDisc"`
	HYSTransfer float64 `json:"hysTransfer"`
}

// ForecastRow is one projected month. EndOverflow and EndHYS are running
// balances threaded from the previous row.
type ForecastRow struct {
	Month Month `json:"month"`

	EarnerAPay  float64 `json:"earnerAPay"`
	EarnerBPay  float64 `json:"earnerBPay"`
	IncomeBase  float64 `json:"incomeBase"`
	IncomeAdd   float64 `json:"incomeAdd"`
	IncomeTotal float64 `json:"incomeTotal"`

	FixedBase  float64 `json:"fixedBase"`
	FixedAdd   float64 `json:"fixedAdd"`
	FixedTotal float64 `json:"fixedTotal"`

	DiscBase  float64 `json:"discBase"`
	DiscAdd   float64 `json:"discAdd"`
	DiscTotal float64 `json:"discTotal"`

	HYSTransfer   float64 `json:"hysTransfer"`
	MonthOverflow float64 `json:"monthOverflow"`
	EndOverflow   float64 `json:"endOverflow"`
	EndHYS        float64 `json:"endHys"`
}
