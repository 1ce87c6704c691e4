// Package theme defines color themes for the hbudget TUI dashboard.
package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/hbudget/internal/model"
)

// Theme holds the color roles the dashboard draws with. Chrome roles cover
// surfaces, borders and text; the rest carry budget meaning.
type Theme struct {
	Name string

	Background   lipgloss.Color
	Surface      lipgloss.Color // cards and bars
	SurfaceHover lipgloss.Color // active tab, selected forecast row
	Border       lipgloss.Color
	BorderAccent lipgloss.Color
	TextDim      lipgloss.Color
	TextMuted    lipgloss.Color
	TextPrimary  lipgloss.Color
	Accent       lipgloss.Color
	AccentBright lipgloss.Color // peak bars, focused cells
	AccentDim    lipgloss.Color

	Good    lipgloss.Color // under budget, positive overflow
	Warn    lipgloss.Color // near budget, stale data, notices
	Bad     lipgloss.Color // over budget, deficits, errors
	Savings lipgloss.Color // HYS transfers and balances
	Trend   lipgloss.Color // sparklines
	Info    lipgloss.Color // progress and key hints
}

// chrome is the non-semantic half of a palette.
type chrome struct {
	bg, surface, hover, border, borderAccent  string
	dim, muted, primary, accent, bright, adim string
}

// budgetColors is the semantic half of a palette.
type budgetColors struct {
	good, warn, bad, savings, trend, info string
}

func newTheme(name string, c chrome, b budgetColors) Theme {
	col := func(s string) lipgloss.Color { return lipgloss.Color(s) }
	return Theme{
		Name:         name,
		Background:   col(c.bg),
		Surface:      col(c.surface),
		SurfaceHover: col(c.hover),
		Border:       col(c.border),
		BorderAccent: col(c.borderAccent),
		TextDim:      col(c.dim),
		TextMuted:    col(c.muted),
		TextPrimary:  col(c.primary),
		Accent:       col(c.accent),
		AccentBright: col(c.bright),
		AccentDim:    col(c.adim),
		Good:         col(b.good),
		Warn:         col(b.warn),
		Bad:          col(b.bad),
		Savings:      col(b.savings),
		Trend:        col(b.trend),
		Info:         col(b.info),
	}
}

// FlexokiDark is the default: warm paper tones on near-black.
var FlexokiDark = newTheme("flexoki-dark",
	chrome{
		bg: "#100F0F", surface: "#1C1B1A", hover: "#282726",
		border: "#403E3C", borderAccent: "#3AA99F",
		dim: "#575653", muted: "#878580", primary: "#FFFCF0",
		accent: "#3AA99F", bright: "#5BC8BE", adim: "#1A3533",
	},
	budgetColors{
		good: "#879A39", warn: "#DA702C", bad: "#D14D41",
		savings: "#8B7EC8", trend: "#4385BE", info: "#24837B",
	},
)

// CatppuccinMocha is a soft pastel theme.
var CatppuccinMocha = newTheme("catppuccin-mocha",
	chrome{
		bg: "#1E1E2E", surface: "#313244", hover: "#45475A",
		border: "#585B70", borderAccent: "#89B4FA",
		dim: "#6C7086", muted: "#A6ADC8", primary: "#CDD6F4",
		accent: "#89B4FA", bright: "#B4D0FB", adim: "#293147",
	},
	budgetColors{
		good: "#A6E3A1", warn: "#FAB387", bad: "#F38BA8",
		savings: "#CBA6F7", trend: "#74C7EC", info: "#94E2D5",
	},
)

// Ledger is a high-contrast green-on-black theme for dim rooms.
var Ledger = newTheme("ledger",
	chrome{
		bg: "#0B0F0C", surface: "#141A16", hover: "#1F2922",
		border: "#2E3B32", borderAccent: "#6FCF97",
		dim: "#4A5A4F", muted: "#8FA396", primary: "#E8F5EC",
		accent: "#6FCF97", bright: "#9BE3B8", adim: "#173222",
	},
	budgetColors{
		good: "#6FCF97", warn: "#F2C94C", bad: "#EB5757",
		savings: "#56CCF2", trend: "#BB6BD9", info: "#2D9CDB",
	},
)

// Terminal sticks to the 16 ANSI colors.
var Terminal = newTheme("terminal",
	chrome{
		bg: "0", surface: "0", hover: "8",
		border: "8", borderAccent: "6",
		dim: "8", muted: "7", primary: "15",
		accent: "6", bright: "14", adim: "0",
	},
	budgetColors{
		good: "2", warn: "3", bad: "1",
		savings: "5", trend: "4", info: "6",
	},
)

// All lists the themes in display order.
var All = []Theme{FlexokiDark, CatppuccinMocha, Ledger, Terminal}

// Active is the theme the dashboard renders with.
var Active = FlexokiDark

// ByName returns the named theme, or FlexokiDark.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return FlexokiDark
}

// SetActive switches Active to the named theme.
func SetActive(name string) {
	Active = ByName(name)
}

// Names lists the theme names in display order.
func Names() []string {
	names := make([]string, len(All))
	for i, t := range All {
		names[i] = t.Name
	}
	return names
}

// Status maps a budget status to its color.
func (t Theme) Status(s model.BudgetStatus) lipgloss.Color {
	switch s {
	case model.StatusGood:
		return t.Good
	case model.StatusWarn:
		return t.Warn
	case model.StatusBad:
		return t.Bad
	default:
		return t.TextMuted
	}
}

// Signed colors a balance: Good when non-negative, Bad otherwise.
func (t Theme) Signed(v float64) lipgloss.Color {
	if v < 0 {
		return t.Bad
	}
	return t.Good
}
