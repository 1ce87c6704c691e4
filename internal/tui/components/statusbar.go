package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/hbudget/internal/tui/theme"
)

// StatusInfo is what the bottom bar reports about the loaded data.
type StatusInfo struct {
	Month       string
	DataAge     string
	FromCache   bool
	Refreshing  bool
	AutoRefresh bool
	Notice      string // transient message, e.g. a save result
	NoticeError bool
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, info StatusInfo) string {
	t := theme.Active

	bg := lipgloss.NewStyle().Background(t.Surface)
	dim := bg.Foreground(t.TextDim)
	muted := bg.Foreground(t.TextMuted)
	accent := bg.Foreground(t.Accent).Bold(true)

	left := muted.Render(" [?]help  [r]efresh  [q]uit")
	if info.Notice != "" {
		style := bg.Foreground(t.Good)
		if info.NoticeError {
			style = bg.Foreground(t.Bad)
		}
		left += dim.Render("  │ ") + style.Render(info.Notice)
	}

	var parts []string
	if info.Month != "" {
		parts = append(parts, accent.Render(info.Month))
	}
	switch {
	case info.Refreshing:
		parts = append(parts, bg.Foreground(t.Accent).Render("refreshing…"))
	case info.DataAge != "":
		parts = append(parts, muted.Render("loaded "+info.DataAge))
	}
	if info.FromCache {
		parts = append(parts, bg.Foreground(t.Warn).Render("offline (cached)"))
	}
	if info.AutoRefresh {
		parts = append(parts, dim.Render("auto"))
	}
	right := strings.Join(parts, dim.Render(" · ")) + bg.Render(" ")

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}
	return left + bg.Render(strings.Repeat(" ", padding)) + right
}
