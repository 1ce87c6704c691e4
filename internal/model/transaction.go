package model

import (
	"strings"
	"time"
)

// Bucket is a discretionary spending sub-category.
type Bucket int

const (
	BucketGeneral Bucket = iota // "General Merchandise", also the fallback
	BucketFood
	BucketGas
	BucketOther
	BucketIgnore // excluded from every aggregate
)

// Buckets lists the four real buckets in display order.
var Buckets = []Bucket{BucketFood, BucketGas, BucketGeneral, BucketOther}

// ControlledBuckets are the buckets with a controllable monthly budget.
// Other is tracked but not controlled.
var ControlledBuckets = []Bucket{BucketFood, BucketGas, BucketGeneral}

func (b Bucket) String() string {
	switch b {
	case BucketFood:
		return "Food"
	case BucketGas:
		return "Gas"
	case BucketOther:
		return "Other"
	case BucketIgnore:
		return "IGNORE"
	default:
		return "General Merchandise"
	}
}

// ParseBucket resolves a display name back to a Bucket.
func ParseBucket(s string) (Bucket, bool) {
	name := strings.TrimSpace(s)
	for _, b := range Buckets {
		if strings.EqualFold(name, b.String()) {
			return b, true
		}
	}
	if strings.EqualFold(name, BucketIgnore.String()) {
		return BucketIgnore, true
	}
	return BucketGeneral, false
}

// MarshalText renders the display name.
func (b Bucket) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText accepts a display name.
func (b *Bucket) UnmarshalText(text []byte) error {
	v, _ := ParseBucket(string(text))
	*b = v
	return nil
}

// TxType is the source-labelled transaction type.
type TxType int

const (
	TypeUnknown TxType = iota
	TypeIncome
	TypeFixed
	TypeDiscretionary
	TypeTransfer
)

// ParseTxType maps a source label case-insensitively. Unrecognized labels are
// TypeUnknown, which no aggregate counts.
func ParseTxType(s string) TxType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income":
		return TypeIncome
	case "fixed":
		return TypeFixed
	case "discretionary":
		return TypeDiscretionary
	case "transfer":
		return TypeTransfer
	default:
		return TypeUnknown
	}
}

func (t TxType) String() string {
	switch t {
	case TypeIncome:
		return "Income"
	case TypeFixed:
		return "Fixed"
	case TypeDiscretionary:
		return "Discretionary"
	case TypeTransfer:
		return "Transfer"
	default:
		return ""
	}
}

// MarshalText renders the label.
func (t TxType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText accepts a label.
func (t *TxType) UnmarshalText(text []byte) error {
	*t = ParseTxType(string(text))
	return nil
}

// Transaction is one classified ledger entry. Amount is negative for money
// leaving the account and positive for refunds or income.
type Transaction struct {
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Type        TxType    `json:"type"`
	Amount      float64   `json:"amount"`
	Bucket      Bucket    `json:"bucket"`
}

// Month returns the month the transaction belongs to.
func (t Transaction) Month() Month {
	return MonthOf(t.Date)
}

// FixedLine names a recurring-expense line. The literal values are stable
// keys shared with the budget sheet, typos included.
type FixedLine string

const (
	LineMortgage     FixedLine = "Mortage"
	LineAdditional   FixedLine = "Additional Payment"
	LineAuto         FixedLine = "Auto"
	LineMedical      FixedLine = "Medical"
	LineCarInsurance FixedLine = "Car Insurance"
	LineUtilities    FixedLine = "Utiities"
	LineStudentLoans FixedLine = "Student Loans"
	LineNorthWest    FixedLine = "NorthWest"
	LineSavings      FixedLine = "Savings"
	LineIgnore       FixedLine = "Ignore"
)

// FixedOrder lists the eight fixed lines in display order.
var FixedOrder = []FixedLine{
	LineMortgage,
	LineAdditional,
	LineAuto,
	LineMedical,
	LineCarInsurance,
	LineUtilities,
	LineStudentLoans,
	LineNorthWest,
}

// Utility sub-lines under the Utiities fixed line.
const (
	UtilNationalGrid = "National Grid"
	UtilSpectrum     = "Spectrum"
	UtilJoannPhone   = "Joann Phone"
	UtilPeacock      = "Peacock"
	UtilGym          = "Gym"
	UtilWater        = "Water"
	UtilNetflix      = "Netflix"
	UtilApple        = "Apple"
	UtilOther        = "Other"
)

// UtilityOrder lists the default utility sub-lines in display order.
var UtilityOrder = []string{
	UtilNationalGrid,
	UtilSpectrum,
	UtilJoannPhone,
	UtilPeacock,
	UtilGym,
	UtilWater,
	UtilNetflix,
	UtilApple,
	UtilOther,
}

// Table is raw tabular data as returned by the tabular store: a header row
// plus ordered rows of optional cells. A missing cell reads as "".
type Table struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// Cell returns row r, column c or "" when out of range.
func (t Table) Cell(r, c int) string {
	if r < 0 || r >= len(t.Rows) || c < 0 || c >= len(t.Rows[r]) {
		return ""
	}
	return t.Rows[r][c]
}
