package model

// MonthSummary is the derived aggregate for one calendar month.
// Overflow is always Income - FixedSpend - DiscSpend - SavingsTransfer.
type MonthSummary struct {
	Month           Month   `json:"month"`
	Income          float64 `json:"income"`
	FixedSpend      float64 `json:"fixedSpend"`
	DiscSpend       float64 `json:"discSpend"`
	SavingsTransfer float64 `json:"savingsTransfer"`
	Overflow        float64 `json:"overflow"`
}

// YearSummary rolls up the month summaries of one year.
type YearSummary struct {
	Year            int     `json:"year"`
	Months          int     `json:"months"`
	Income          float64 `json:"income"`
	FixedSpend      float64 `json:"fixedSpend"`
	DiscSpend       float64 `json:"discSpend"`
	SavingsTransfer float64 `json:"savingsTransfer"`
	Overflow        float64 `json:"overflow"`
}

// HistoryRow is either a year rollup or a month inside it.
type HistoryRow struct {
	Year  *YearSummary  `json:"year,omitempty"`
	Month *MonthSummary `json:"month,omitempty"`
}

// ProjectionRow compares budget, actual and projected values for one figure.
type ProjectionRow struct {
	Label     string  `json:"label"`
	Budget    float64 `json:"budget"`
	Actual    float64 `json:"actual"`
	Projected float64 `json:"projected"`
	Delta     float64 `json:"delta"`
}

// MonthProjection is the budget/actual/projected reconciliation for a month.
type MonthProjection struct {
	Month          Month         `json:"month"`
	IsCurrent      bool          `json:"isCurrent"`
	PlanMismatch   bool          `json:"planMismatch"`
	Income         ProjectionRow `json:"income"`
	Fixed          ProjectionRow `json:"fixed"`
	Discretionary  ProjectionRow `json:"discretionary"`
	Savings        ProjectionRow `json:"savings"`
	Overflow       ProjectionRow `json:"overflow"`
	EndOverflowBal *float64      `json:"endOverflowBalance,omitempty"`
	EndHYSBal      *float64      `json:"endHysBalance,omitempty"`
}

// Rows returns the projection rows in display order.
func (p MonthProjection) Rows() []ProjectionRow {
	return []ProjectionRow{p.Income, p.Fixed, p.Discretionary, p.Savings, p.Overflow}
}
