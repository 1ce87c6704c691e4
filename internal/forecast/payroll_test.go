package forecast

import (
	"testing"
	"time"

	"github.com/theirongolddev/hbudget/internal/model"
)

func month(y int, m time.Month) model.Month { return model.Month{Year: y, Month: m} }

func TestFederalHolidays(t *testing.T) {
	h := FederalHolidays(2022, 2023)
	want := []time.Time{
		model.Day(2021, time.December, 31), // 2022 New Year's on Saturday
		model.Day(2023, time.January, 2),   // Sunday, observed Monday
		model.Day(2023, time.January, 16),
		model.Day(2023, time.February, 20),
		model.Day(2023, time.May, 29),
		model.Day(2023, time.June, 19),
		model.Day(2023, time.July, 4),
		model.Day(2023, time.September, 4),
		model.Day(2023, time.October, 9),
		model.Day(2023, time.November, 10),
		model.Day(2023, time.November, 23),
		model.Day(2023, time.December, 25),
	}
	for _, d := range want {
		if !h.Contains(d) {
			t.Errorf("missing holiday %s", model.DayKey(d))
		}
	}
	if h.Contains(model.Day(2023, time.November, 11)) {
		t.Error("Veterans Day 2023 should be observed on Friday the 10th")
	}
}

func TestPrevBusinessDay(t *testing.T) {
	h := FederalHolidays(2025, 2026)
	tests := []struct {
		in, want time.Time
	}{
		{model.Day(2025, time.December, 24), model.Day(2025, time.December, 24)},
		{model.Day(2025, time.December, 25), model.Day(2025, time.December, 24)},
		{model.Day(2026, time.January, 1), model.Day(2025, time.December, 31)},
		{model.Day(2025, time.May, 26), model.Day(2025, time.May, 23)}, // Memorial Day, back over a weekend
		{model.Day(2025, time.March, 9), model.Day(2025, time.March, 7)},
	}
	for _, tt := range tests {
		if got := PrevBusinessDay(tt.in, h); !got.Equal(tt.want) {
			t.Errorf("PrevBusinessDay(%s) = %s, want %s", model.DayKey(tt.in), model.DayKey(got), model.DayKey(tt.want))
		}
	}
}

func TestCountWeekday(t *testing.T) {
	tests := []struct {
		m    model.Month
		wd   time.Weekday
		want int
	}{
		{month(2023, time.February), time.Thursday, 4},
		{month(2025, time.March), time.Monday, 5},
		{month(2024, time.February), time.Thursday, 5},
		{month(2025, time.December), time.Thursday, 4},
	}
	for _, tt := range tests {
		if got := CountWeekday(tt.m, tt.wd); got != tt.want {
			t.Errorf("CountWeekday(%s, %s) = %d, want %d", tt.m.Key(), tt.wd, got, tt.want)
		}
	}
}

func TestWeeklyPaychecks(t *testing.T) {
	tests := []struct {
		name string
		m    model.Month
		want int
	}{
		{"four thursdays, no holiday", month(2023, time.February), 4},
		{"thanksgiving shifts within the month", month(2023, time.November), 5},
		{"next january's new year lands in december", month(2025, time.December), 5},
		{"new year payday moved out", month(2026, time.January), 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WeeklyPaychecks(tt.m, time.Thursday, holidaysAround(tt.m)); got != tt.want {
				t.Fatalf("WeeklyPaychecks(%s) = %d, want %d", tt.m.Key(), got, tt.want)
			}
		})
	}
}

func TestBiweeklyPaychecks(t *testing.T) {
	anchor := model.Day(2025, time.January, 3)
	tests := []struct {
		name   string
		m      model.Month
		anchor time.Time
		want   int
	}{
		{"two cycles", month(2025, time.March), anchor, 2},
		{"three cycles", month(2025, time.January), anchor, 3},
		{"before the anchor", month(2024, time.November), anchor, 2},
		{"independence day stays in july", month(2025, time.July), anchor, 2},
		{"new year payday counted in december", month(2026, time.December), model.Day(2027, time.January, 1), 3},
		{"new year payday moved out", month(2027, time.January), model.Day(2027, time.January, 1), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BiweeklyPaychecks(tt.m, tt.anchor, holidaysAround(tt.m)); got != tt.want {
				t.Fatalf("BiweeklyPaychecks(%s) = %d, want %d", tt.m.Key(), got, tt.want)
			}
		})
	}
}

func TestPayroll(t *testing.T) {
	p := DefaultPayroll(1000, 800)

	if got := p.EarnerAPay(month(2023, time.February)); got != 4000 {
		t.Fatalf("EarnerAPay(2023-02) = %v, want 4000", got)
	}
	if got := p.EarnerBPay(month(2025, time.March)); got != 3200 {
		t.Fatalf("EarnerBPay(2025-03) = %v, want 3200", got)
	}

	p.HolidayAware = false
	if got := FallbackBiweeklyPaychecks(month(2025, time.March)); got != 3 {
		t.Fatalf("FallbackBiweeklyPaychecks(2025-03) = %d, want 3", got)
	}
	if got := p.EarnerBPay(month(2025, time.March)); got != 4800 {
		t.Fatalf("fallback EarnerBPay(2025-03) = %v, want 4800", got)
	}
	if got := p.EarnerAPay(month(2025, time.December)); got != 4000 {
		t.Fatalf("plain EarnerAPay(2025-12) = %v, want 4000", got)
	}
}
