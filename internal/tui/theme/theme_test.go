package theme

import (
	"testing"

	"github.com/theirongolddev/hbudget/internal/model"
)

func TestStatusColorsFollowBudgetRoles(t *testing.T) {
	for _, th := range All {
		if got := th.Status(model.StatusGood); got != th.Good {
			t.Fatalf("%s: StatusGood = %v, want %v", th.Name, got, th.Good)
		}
		if got := th.Status(model.StatusWarn); got != th.Warn {
			t.Fatalf("%s: StatusWarn = %v, want %v", th.Name, got, th.Warn)
		}
		if got := th.Status(model.StatusBad); got != th.Bad {
			t.Fatalf("%s: StatusBad = %v, want %v", th.Name, got, th.Bad)
		}
		if th.Signed(-0.01) != th.Bad || th.Signed(0) != th.Good {
			t.Fatalf("%s: Signed should be Bad below zero and Good at zero", th.Name)
		}
		if th.Good == th.Bad || th.Good == th.Warn || th.Warn == th.Bad {
			t.Fatalf("%s: status colors must be distinct", th.Name)
		}
	}
}

func TestByName(t *testing.T) {
	seen := map[string]bool{}
	for _, name := range Names() {
		if seen[name] {
			t.Fatalf("duplicate theme %q", name)
		}
		seen[name] = true
		if ByName(name).Name != name {
			t.Fatalf("ByName(%q) = %q", name, ByName(name).Name)
		}
	}
	if ByName("nope").Name != FlexokiDark.Name {
		t.Fatal("unknown names should fall back to flexoki-dark")
	}
}
