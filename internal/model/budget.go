package model

// BudgetStatus grades spend against a budget.
type BudgetStatus string

const (
	StatusGood BudgetStatus = "good"
	StatusWarn BudgetStatus = "warn"
	StatusBad  BudgetStatus = "bad"
)

// BudgetLine holds budget tracking for one bucket, fixed line or utility line.
type BudgetLine struct {
	Name     string       `json:"name"`
	Budget   float64      `json:"budget"`
	Actual   float64      `json:"actual"`
	Avg      float64      `json:"avg"`
	Variance float64      `json:"variance"`
	Status   BudgetStatus `json:"status"`
}

// BudgetTotals sums a set of budget lines.
type BudgetTotals struct {
	Budget   float64 `json:"budget"`
	Actual   float64 `json:"actual"`
	Avg      float64 `json:"avg"`
	Variance float64 `json:"variance"`
}

// Health counts lines that stayed within a positive budget.
type Health struct {
	OnTrack int `json:"onTrack"`
	Total   int `json:"total"`
}
