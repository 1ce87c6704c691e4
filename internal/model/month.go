// Package model defines domain types for hbudget ledgers, plans and forecasts.
package model

import (
	"fmt"
	"time"
)

// Day returns the calendar day y-m-d. Calendar days are midnight UTC so that
// day arithmetic never crosses a DST boundary.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DayOf truncates t to its calendar day in t's own location.
func DayOf(t time.Time) time.Time {
	return Day(t.Year(), t.Month(), t.Day())
}

// DayKey formats a calendar day as YYYY-MM-DD.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// Month identifies one calendar month.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// CurrentMonth returns the month containing now.
func CurrentMonth(now time.Time) Month {
	return MonthOf(now)
}

// ParseMonth parses "YYYY-MM".
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q (want YYYY-MM): %w", s, err)
	}
	return MonthOf(t), nil
}

// Key returns the stable "YYYY-MM" key used for maps and persistence.
func (m Month) Key() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// String returns the display label, e.g. "March 2024".
func (m Month) String() string {
	return fmt.Sprintf("%s %d", m.Month, m.Year)
}

// Short returns the abbreviated month name, e.g. "Mar".
func (m Month) Short() string {
	return m.Month.String()[:3]
}

// Start returns the first day of the month.
func (m Month) Start() time.Time {
	return Day(m.Year, m.Month, 1)
}

// End returns the first day of the following month (exclusive bound).
func (m Month) End() time.Time {
	return m.Start().AddDate(0, 1, 0)
}

// Days returns the number of days in the month.
func (m Month) Days() int {
	return m.End().AddDate(0, 0, -1).Day()
}

// AddMonths returns the month n months after m (n may be negative).
func (m Month) AddMonths(n int) Month {
	return MonthOf(m.Start().AddDate(0, n, 0))
}

// Contains reports whether day falls inside the month.
func (m Month) Contains(day time.Time) bool {
	return !day.Before(m.Start()) && day.Before(m.End())
}

// Before reports whether m is strictly earlier than o.
func (m Month) Before(o Month) bool {
	if m.Year != o.Year {
		return m.Year < o.Year
	}
	return m.Month < o.Month
}

// After reports whether m is strictly later than o.
func (m Month) After(o Month) bool {
	return o.Before(m)
}

// IsZero reports whether m is the zero Month.
func (m Month) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}

// MarshalText renders the "YYYY-MM" key.
func (m Month) MarshalText() ([]byte, error) {
	return []byte(m.Key()), nil
}

// UnmarshalText parses a "YYYY-MM" key.
func (m *Month) UnmarshalText(text []byte) error {
	v, err := ParseMonth(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
