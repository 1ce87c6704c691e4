// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/hbudget/internal/model"
)

// FormatMoney formats whole dollars with comma separators.
// e.g., 1234.56 -> "$1,235", -12.5 -> "-$13"
func FormatMoney(n float64) string {
	sign := ""
	if n < 0 {
		sign = "-"
	}
	return sign + "$" + FormatNumber(int64(math.Round(math.Abs(n))))
}

// FormatCents formats dollars and cents with comma separators.
// e.g., -1234.5 -> "-$1,234.50"
func FormatCents(n float64) string {
	sign := ""
	if n < 0 {
		sign = "-"
	}
	cents := int64(math.Round(math.Abs(n) * 100))
	return fmt.Sprintf("%s$%s.%02d", sign, FormatNumber(cents/100), cents%100)
}

// FormatSigned formats a delta with an explicit sign.
// e.g., 120 -> "+$120", -45 -> "-$45"
func FormatSigned(n float64) string {
	if math.Round(n) >= 0 {
		return "+" + FormatMoney(math.Abs(n))
	}
	return FormatMoney(n)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.0f%%", f*100)
}

// FormatDate formats a calendar day as "Mar 05".
func FormatDate(t time.Time) string {
	return t.Format("Jan 02")
}

// FormatStatus returns a short marker for a budget status.
func FormatStatus(s model.BudgetStatus) string {
	switch s {
	case model.StatusGood:
		return "ok"
	case model.StatusWarn:
		return "!"
	case model.StatusBad:
		return "over"
	default:
		return ""
	}
}

// FormatHealth renders a fixed-line health score, e.g. "6/8 on track".
func FormatHealth(h model.Health) string {
	return fmt.Sprintf("%d/%d on track", h.OnTrack, h.Total)
}
