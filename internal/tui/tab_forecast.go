package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/hbudget/internal/cli"
	"github.com/theirongolddev/hbudget/internal/forecast"
	"github.com/theirongolddev/hbudget/internal/model"
	"github.com/theirongolddev/hbudget/internal/tui/components"
	"github.com/theirongolddev/hbudget/internal/tui/theme"
)

// editTarget is what the forecast input box writes to.
type editTarget int

const (
	editField editTarget = iota // the focused adjustment cell
	editStartOverflow
	editStartHYS
)

// forecastState tracks the forecast tab cursor and cell editor.
type forecastState struct {
	cursor  int // projection row
	field   int // index into forecast.Fields
	target  editTarget
	editing bool
	input   textinput.Model
	saving  bool
}

func newForecastState() forecastState {
	return forecastState{input: newAmountInput()}
}

func newAmountInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 16
	ti.Width = 14
	ti.Placeholder = "0"
	ti.Prompt = "$ "
	return ti
}

var fieldLabels = map[forecast.Field]string{
	forecast.FieldIncomeAdd:   "+Income",
	forecast.FieldAddFixed:    "+Fixed",
	forecast.FieldAddDisc:     "+Disc",
	forecast.FieldHYSTransfer: "HYS xfer",
}

func fieldValue(adj model.Adjustment, f forecast.Field) float64 {
	switch f {
	case forecast.FieldIncomeAdd:
		return adj.IncomeAdd
	case forecast.FieldAddFixed:
		return adj.AddFixed
	case forecast.FieldAddDisc:
		return adj.AddDisc
	default:
		return adj.HYSTransfer
	}
}

// parseAmount accepts plain or currency-formatted input; blank is zero.
func parseAmount(s string) (float64, error) {
	clean := strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	if clean == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not an amount", s)
	}
	return v, nil
}

func (a App) cursorMonth() (model.Month, bool) {
	if a.fc.cursor < 0 || a.fc.cursor >= len(a.projection) {
		return model.Month{}, false
	}
	return a.projection[a.fc.cursor].Month, true
}

// updateForecastKeys handles forecast tab bindings. handled is false for
// keys that fall through to the global bindings.
func (a App) updateForecastKeys(key string) (next tea.Model, cmd tea.Cmd, handled bool) {
	ed := a.opts.Editor

	switch key {
	case "j", "down":
		if a.fc.cursor < len(a.projection)-1 {
			a.fc.cursor++
		}
	case "k", "up":
		if a.fc.cursor > 0 {
			a.fc.cursor--
		}
	case "g":
		a.fc.cursor = 0
	case "G":
		a.fc.cursor = max(0, len(a.projection)-1)
	case "tab":
		a.fc.field = (a.fc.field + 1) % len(forecast.Fields)
	case "shift+tab":
		a.fc.field = (a.fc.field - 1 + len(forecast.Fields)) % len(forecast.Fields)
	case "enter", "e":
		m, ok := a.cursorMonth()
		if ed == nil || !ok {
			a.setNotice("forecast editing needs a settings store", true)
			return a, nil, true
		}
		f := forecast.Fields[a.fc.field]
		a.fc.target = editField
		a.fc.input = newAmountInput()
		if v := fieldValue(ed.Settings().Adjustment(m), f); v != 0 {
			a.fc.input.SetValue(strconv.FormatFloat(v, 'f', -1, 64))
		}
		a.fc.input.Focus()
		a.fc.editing = true
		return a, a.fc.input.Cursor.BlinkCmd(), true
	case "s":
		m, ok := a.cursorMonth()
		if ed == nil || !ok || a.fc.saving {
			return a, nil, true
		}
		a.fc.saving = true
		a.setNotice("saving "+m.String()+"…", false)
		return a, saveMonthCmd(ed, m), true
	case "+", "=":
		if ed != nil {
			a.applyEdit(ed.SetMonthsAhead(ed.Settings().MonthsAhead + 1))
		}
	case "-":
		if ed != nil {
			a.applyEdit(ed.SetMonthsAhead(ed.Settings().MonthsAhead - 1))
		}
	case "z":
		if ed != nil {
			a.applyEdit(ed.ResetStart())
		}
	case "O", "H":
		if ed == nil {
			return a, nil, true
		}
		a.fc.target = editStartOverflow
		v := ed.Settings().StartOverflow
		if key == "H" {
			a.fc.target = editStartHYS
			v = ed.Settings().StartHYS
		}
		a.fc.input = newAmountInput()
		a.fc.input.SetValue(strconv.FormatFloat(v, 'f', -1, 64))
		a.fc.input.Focus()
		a.fc.editing = true
		return a, a.fc.input.Cursor.BlinkCmd(), true
	default:
		return a, nil, false
	}
	return a, nil, true
}

// applyEdit recomputes after a local settings change. A persistence error
// is reported but the edit stands.
func (a *App) applyEdit(err error) {
	if err != nil {
		a.setNotice(err.Error(), true)
	}
	a.recompute()
}

func (a App) updateForecastInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.fc.editing = false
		return a, nil
	case "enter":
		v, err := parseAmount(a.fc.input.Value())
		if err != nil {
			a.setNotice(err.Error(), true)
			return a, nil
		}
		a.fc.editing = false
		ed := a.opts.Editor
		if ed == nil {
			return a, nil
		}
		switch a.fc.target {
		case editStartOverflow:
			a.applyEdit(ed.SetStartOverflow(v))
		case editStartHYS:
			a.applyEdit(ed.SetStartHYS(v))
		default:
			if m, ok := a.cursorMonth(); ok {
				a.applyEdit(ed.SetField(m, forecast.Fields[a.fc.field], v))
			}
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.fc.input, cmd = a.fc.input.Update(msg)
	return a, cmd
}

func (a App) renderForecastTab(cw int) string {
	t := theme.Active
	var b strings.Builder

	settings := forecast.DefaultSettings()
	if a.opts.Editor != nil {
		settings = a.opts.Editor.Settings()
	}

	// Starting balances and horizon
	startOverflow, startHYS := settings.StartOverflow, settings.StartHYS
	startNote := "from plan"
	if settings.StartUserOverride {
		startNote = "pinned"
	}
	metrics := []components.Metric{
		{Label: "Starting overflow", Value: cli.FormatMoney(startOverflow), Delta: startNote},
		{Label: "Starting HYS", Value: cli.FormatMoney(startHYS), Delta: startNote},
		{Label: "Horizon", Value: fmt.Sprintf("%d months", forecast.ClampMonthsAhead(settings.MonthsAhead)), Delta: "after " + a.view.Latest.String()},
	}
	if n := len(a.projection); n > 0 {
		last := a.projection[n-1]
		metrics = append(metrics, components.Metric{
			Label: "End overflow",
			Value: cli.FormatMoney(last.EndOverflow),
			Delta: "HYS " + cli.FormatMoney(last.EndHYS),
			Color: t.Signed(last.EndOverflow),
		})
	}
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")

	if a.forecastErr != nil {
		b.WriteString(lipgloss.NewStyle().Foreground(t.Warn).Background(t.Background).
			Render(" plan sheet unavailable, sheet writes disabled: " + a.forecastErr.Error()))
		b.WriteString("\n")
	}

	b.WriteString(components.ContentCard("Projection", a.renderForecastTable(settings, components.CardInnerWidth(cw)), cw))
	b.WriteString("\n")

	if a.fc.editing {
		b.WriteString(components.ContentCard(a.editTitle(), a.fc.input.View(), cw))
	}
	return b.String()
}

func (a App) editTitle() string {
	switch a.fc.target {
	case editStartOverflow:
		return "Pin starting overflow balance"
	case editStartHYS:
		return "Pin starting HYS balance"
	}
	m, _ := a.cursorMonth()
	return fmt.Sprintf("Edit %s for %s", fieldLabels[forecast.Fields[a.fc.field]], m)
}

func (a App) renderForecastTable(settings forecast.Settings, innerW int) string {
	t := theme.Active
	bg := lipgloss.NewStyle().Background(t.Surface)
	head := bg.Foreground(t.TextMuted).Bold(true)
	cell := bg.Foreground(t.TextPrimary)
	dim := bg.Foreground(t.TextDim)
	sel := lipgloss.NewStyle().Background(t.SurfaceHover).Foreground(t.TextPrimary)
	focus := lipgloss.NewStyle().Background(t.AccentDim).Foreground(t.AccentBright).Bold(true)

	const colW = 10
	compact := a.isCompactLayout()

	headers := []string{"Month", "Pay", fieldLabels[forecast.FieldIncomeAdd], "Fixed", fieldLabels[forecast.FieldAddFixed],
		"Disc", fieldLabels[forecast.FieldAddDisc], fieldLabels[forecast.FieldHYSTransfer], "Overflow", "End OF", "End HYS"}
	if compact {
		headers = []string{"Month", fieldLabels[forecast.FieldIncomeAdd], fieldLabels[forecast.FieldAddFixed],
			fieldLabels[forecast.FieldAddDisc], fieldLabels[forecast.FieldHYSTransfer], "Overflow", "End OF"}
	}
	// Column indexes of the editable adjustments and the signed balances.
	editCols := map[forecast.Field]int{
		forecast.FieldIncomeAdd: 2, forecast.FieldAddFixed: 4, forecast.FieldAddDisc: 6, forecast.FieldHYSTransfer: 7,
	}
	signedCols := map[int]bool{8: true, 9: true}
	if compact {
		editCols = map[forecast.Field]int{
			forecast.FieldIncomeAdd: 1, forecast.FieldAddFixed: 2, forecast.FieldAddDisc: 3, forecast.FieldHYSTransfer: 4,
		}
		signedCols = map[int]bool{5: true, 6: true}
	}

	var b strings.Builder
	for i, h := range headers {
		if i == 0 {
			b.WriteString(head.Render(fmt.Sprintf("%-9s", h)))
			continue
		}
		b.WriteString(head.Render(fmt.Sprintf("%*s", colW, h)))
	}
	b.WriteString("\n")
	b.WriteString(dim.Render(strings.Repeat("─", min(innerW, 9+colW*(len(headers)-1)))))
	b.WriteString("\n")

	focusCol := editCols[forecast.Fields[a.fc.field]]
	for r, row := range a.projection {
		adj := settings.Adjustment(row.Month)
		values := []float64{row.EarnerAPay + row.EarnerBPay, adj.IncomeAdd, row.FixedBase, adj.AddFixed,
			row.DiscBase, adj.AddDisc, adj.HYSTransfer, row.MonthOverflow, row.EndOverflow, row.EndHYS}
		if compact {
			values = []float64{adj.IncomeAdd, adj.AddFixed, adj.AddDisc, adj.HYSTransfer, row.MonthOverflow, row.EndOverflow}
		}

		rowStyle := cell
		if r == a.fc.cursor {
			rowStyle = sel
		}
		b.WriteString(rowStyle.Render(fmt.Sprintf("%-9s", row.Month.Short()+" "+strconv.Itoa(row.Month.Year%100))))
		for c, v := range values {
			col := c + 1
			text := fmt.Sprintf("%*s", colW, cli.FormatMoney(v))
			style := rowStyle
			switch {
			case r == a.fc.cursor && col == focusCol:
				style = focus
			case signedCols[col]:
				style = rowStyle.Foreground(t.Signed(v))
			}
			b.WriteString(style.Render(text))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
