package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestMonthArithmetic(t *testing.T) {
	m := Month{Year: 2024, Month: time.December}
	if got := m.AddMonths(1); got != (Month{Year: 2025, Month: time.January}) {
		t.Fatalf("AddMonths(1) = %v, want January 2025", got)
	}
	if got := m.AddMonths(-12); got != (Month{Year: 2023, Month: time.December}) {
		t.Fatalf("AddMonths(-12) = %v, want December 2023", got)
	}
	if got := (Month{Year: 2024, Month: time.February}).Days(); got != 29 {
		t.Fatalf("Days(Feb 2024) = %d, want 29", got)
	}
	if !m.Contains(Day(2024, time.December, 31)) {
		t.Fatal("December should contain Dec 31")
	}
	if m.Contains(Day(2025, time.January, 1)) {
		t.Fatal("December should not contain Jan 1")
	}
	if !m.Before(Month{Year: 2025, Month: time.January}) {
		t.Fatal("Dec 2024 should be before Jan 2025")
	}
}

func TestMonthJSONKey(t *testing.T) {
	data, err := json.Marshal(map[Month]int{{Year: 2024, Month: time.March}: 1})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"2024-03":1}` {
		t.Fatalf("json = %s, want {\"2024-03\":1}", data)
	}

	var back map[Month]int
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back[Month{Year: 2024, Month: time.March}] != 1 {
		t.Fatalf("round trip lost key: %v", back)
	}
}

func TestParseTxType(t *testing.T) {
	tests := map[string]TxType{
		"Income":         TypeIncome,
		" fixed ":        TypeFixed,
		"DISCRETIONARY":  TypeDiscretionary,
		"transfer":       TypeTransfer,
		"something else": TypeUnknown,
	}
	for in, want := range tests {
		if got := ParseTxType(in); got != want {
			t.Fatalf("ParseTxType(%q) = %v, want %v", in, got, want)
		}
	}
}
