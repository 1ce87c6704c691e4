package ledger

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/hbudget/internal/model"
)

// serialEpoch is day zero of spreadsheet date serials.
var serialEpoch = model.Day(1899, time.December, 30)

// maxSerial is 9999-12-31, the last day spreadsheets can represent.
const maxSerial = 2958465

var (
	reSerial = regexp.MustCompile(`^\d+(\.\d+)?$`)
	reISO    = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	reUS     = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
)

// Layouts tried after the serial, ISO and US forms.
var fallbackLayouts = []string{
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2006/01/02",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// ParseDate parses a ledger date cell into a calendar day. Accepted forms, in
// order: a spreadsheet serial above 20000, YYYY-MM-DD, M/D/YYYY, then a few
// textual layouts. The boolean is false when nothing matched.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if reSerial.MatchString(s) {
		n, err := strconv.ParseFloat(s, 64)
		if err == nil && n > 20000 {
			if n >= maxSerial+1 {
				return time.Time{}, false
			}
			return serialEpoch.AddDate(0, 0, int(math.Floor(n))), true
		}
	}

	if m := reISO.FindStringSubmatch(s); m != nil {
		return calendarDay(m[1], m[2], m[3])
	}
	if m := reUS.FindStringSubmatch(s); m != nil {
		return calendarDay(m[3], m[1], m[2])
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return model.DayOf(t), true
		}
	}
	return time.Time{}, false
}

// calendarDay rejects out-of-range parts instead of letting time.Date
// normalize 2024-02-31 into March.
func calendarDay(ys, ms, ds string) (time.Time, bool) {
	y, _ := strconv.Atoi(ys)
	m, _ := strconv.Atoi(ms)
	d, _ := strconv.Atoi(ds)
	if m < 1 || m > 12 || d < 1 {
		return time.Time{}, false
	}
	t := model.Day(y, time.Month(m), d)
	if t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

var reNonNumeric = regexp.MustCompile(`[^0-9.]`)

// ParseAmount parses a currency cell such as "$1,234.50", "-12.5" or "(40)".
// A "(" or "-" anywhere makes the value negative. Unparseable input is 0.
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	neg := strings.ContainsAny(s, "(-")
	digits := reNonNumeric.ReplaceAllString(s, "")
	if digits == "" {
		return 0
	}
	n, err := strconv.ParseFloat(digits, 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0
	}
	if neg {
		return -n
	}
	return n
}

// IsTruthy reports whether a flag cell is set: true, yes, y, 1 or x.
func IsTruthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "y", "1", "x":
		return true
	}
	return false
}
