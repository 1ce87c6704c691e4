// Package tui provides the interactive Bubble Tea dashboard for hbudget.
package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/hbudget/internal/forecast"
	"github.com/theirongolddev/hbudget/internal/model"
	"github.com/theirongolddev/hbudget/internal/pipeline"
	"github.com/theirongolddev/hbudget/internal/tui/components"
	"github.com/theirongolddev/hbudget/internal/tui/theme"
)

const (
	maxContentWidth  = 180
	compactWidth     = 100
	minTerminalWidth = 60
	minContentHeight = 5

	loadStages  = 2 // ledger + plan
	loadTimeout = 60 * time.Second
	saveTimeout = 30 * time.Second
)

// Options wires the dashboard to its data sources.
type Options struct {
	Reader pipeline.TableReader

	// Cache enables the offline fallback when set.
	Cache pipeline.SnapshotCache

	// Editor enables forecast editing when set; otherwise the forecast tab
	// shows a read-only projection with default settings.
	Editor *forecast.Editor

	Load           pipeline.LoadOptions
	Budgets        model.Budgets
	Payroll        forecast.Payroll
	Month          model.Month // initial selection; zero follows the latest month
	TrailingMonths int

	AutoRefresh     bool
	RefreshInterval time.Duration

	EarnerAName string
	EarnerBName string
}

// loadedMsg is sent when a load or refresh finishes.
type loadedMsg struct {
	View        *pipeline.View
	Err         error
	ForecastErr error
	LoadTime    time.Duration
}

// progressMsg reports one finished load stage.
type progressMsg struct {
	Stage string
}

// savedMsg is sent when a forecast month write completes.
type savedMsg struct {
	Month model.Month
	Err   error
}

type tickMsg struct{}

// App is the root Bubble Tea model.
type App struct {
	opts Options
	now  func() time.Time

	// Data
	view        *pipeline.View
	report      pipeline.MonthReport
	projection  []model.ForecastRow
	loaded      bool
	loadErr     error
	forecastErr error
	loadTime    time.Duration

	// Loading state
	spinner     spinner.Model
	loadSub     chan tea.Msg
	stagesDone  int
	refreshing  bool
	lastRefresh time.Time
	autoRefresh bool

	// UI state
	month     model.Month
	activeTab int
	width     int
	height    int
	showHelp  bool
	fc        forecastState

	notice      string
	noticeError bool
}

// NewApp creates a dashboard model.
func NewApp(opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent)

	if opts.RefreshInterval < 30*time.Second {
		opts.RefreshInterval = 5 * time.Minute
	}
	if opts.EarnerAName == "" {
		opts.EarnerAName = "Earner A"
	}
	if opts.EarnerBName == "" {
		opts.EarnerBName = "Earner B"
	}

	return App{
		opts:        opts,
		now:         time.Now,
		spinner:     sp,
		loadSub:     make(chan tea.Msg, 4),
		month:       opts.Month,
		autoRefresh: opts.AutoRefresh,
		fc:          newForecastState(),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.spinner.Tick,
		loadDataCmd(a.opts, a.loadSub),
		tickCmd(),
	)
}

// selected returns the month the dashboard is showing.
func (a App) selected() model.Month {
	if a.month.IsZero() && a.view != nil {
		return a.view.Latest
	}
	return a.month
}

// recompute derives the report and projection for the current selection.
func (a *App) recompute() {
	if a.view == nil {
		return
	}
	a.report = a.view.Report(a.month, a.opts.TrailingMonths)

	settings := forecast.DefaultSettings()
	if a.opts.Editor != nil {
		settings = a.opts.Editor.Settings()
	}
	a.projection = forecast.Project(a.view.ForecastInputs(model.Month{}, settings, a.opts.Payroll))

	if a.fc.cursor >= len(a.projection) {
		a.fc.cursor = len(a.projection) - 1
	}
	if a.fc.cursor < 0 {
		a.fc.cursor = 0
	}
}

// shiftMonth moves the selection by delta among the loaded months.
func (a *App) shiftMonth(delta int) {
	if a.view == nil || len(a.view.Months) == 0 {
		return
	}
	months := a.view.Months
	i := slices.Index(months, a.selected())
	if i < 0 {
		i = len(months) - 1
	}
	i = max(0, min(len(months)-1, i+delta))
	a.month = months[i]
	if a.month == a.view.Latest {
		a.month = model.Month{}
	}
	a.recompute()
}

func (a *App) setNotice(msg string, isErr bool) {
	a.notice = msg
	a.noticeError = isErr
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.MouseMsg:
		return a.updateMouse(msg)

	case tea.KeyMsg:
		return a.updateKey(msg)

	case progressMsg:
		a.stagesDone++
		return a, waitForLoadMsg(a.loadSub)

	case loadedMsg:
		a.refreshing = false
		a.lastRefresh = a.now()
		a.stagesDone = 0
		if msg.Err != nil {
			if !a.loaded {
				a.loadErr = msg.Err
				return a, nil
			}
			a.setNotice("refresh failed: "+msg.Err.Error(), true)
			return a, nil
		}
		a.view = msg.View
		a.loaded = true
		a.loadErr = nil
		a.loadTime = msg.LoadTime
		a.forecastErr = msg.ForecastErr
		a.recompute()
		return a, nil

	case savedMsg:
		a.fc.saving = false
		switch {
		case msg.Err == nil:
			a.setNotice("saved "+msg.Month.String()+" to the plan sheet", false)
		case errors.Is(msg.Err, forecast.ErrUnresolvable):
			a.setNotice("not saved: "+msg.Err.Error(), true)
		default:
			a.setNotice("write failed, edits kept locally: "+msg.Err.Error(), true)
		}
		return a, nil

	case spinner.TickMsg:
		if !a.loaded || a.refreshing {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd()}
		if a.loaded && a.autoRefresh && !a.refreshing &&
			a.now().Sub(a.lastRefresh) >= a.opts.RefreshInterval {
			a.refreshing = true
			cmds = append(cmds, refreshDataCmd(a.opts), a.spinner.Tick)
		}
		return a, tea.Batch(cmds...)
	}

	if a.fc.editing {
		var cmd tea.Cmd
		a.fc.input, cmd = a.fc.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}

	if !a.loaded {
		switch key {
		case "q":
			return a, tea.Quit
		case "r":
			if a.loadErr != nil && !a.refreshing {
				a.refreshing = true
				a.loadErr = nil
				return a, tea.Batch(loadDataCmd(a.opts, a.loadSub), a.spinner.Tick)
			}
		}
		return a, nil
	}

	// Forecast cell editing intercepts all keys
	if a.fc.editing {
		return a.updateForecastInput(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	a.notice = ""

	if a.activeTab == components.TabForecast {
		if next, cmd, handled := a.updateForecastKeys(key); handled {
			return next, cmd
		}
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "r":
		if !a.refreshing {
			a.refreshing = true
			return a, tea.Batch(refreshDataCmd(a.opts), a.spinner.Tick)
		}
		return a, nil
	case "R":
		a.autoRefresh = !a.autoRefresh
		return a, nil
	case "[":
		a.shiftMonth(-1)
		return a, nil
	case "]":
		a.shiftMonth(1)
		return a, nil
	case "t":
		a.month = model.Month{}
		a.recompute()
		return a, nil
	case "left":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "right":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	}

	if r := []rune(key); len(r) == 1 {
		if idx := components.TabIdxByKey(r[0]); idx >= 0 {
			a.activeTab = idx
		}
	}
	return a, nil
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !a.loaded || a.showHelp || a.fc.editing {
		return a, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if a.activeTab == components.TabForecast && a.fc.cursor > 0 {
			a.fc.cursor--
		}
	case tea.MouseButtonWheelDown:
		if a.activeTab == components.TabForecast && a.fc.cursor < len(a.projection)-1 {
			a.fc.cursor++
		}
	case tea.MouseButtonLeft:
		if msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
	}
	return a, nil
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		if a.loadErr != nil {
			return a.viewLoadError()
		}
		return a.viewLoading()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  hbudget needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) overlayCard(body string) string {
	t := theme.Active
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4).
		Render(body)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewLoading() string {
	t := theme.Active
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spinnerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)

	barW := max(20, min(40, a.width-30))

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ hbudget"))
	b.WriteString(subtitleStyle.Render(" · household budget"))
	b.WriteString("\n\n")
	b.WriteString(spinnerStyle.Render(a.spinner.View()))
	b.WriteString(subtitleStyle.Render(" Reading ledger and plan\n\n"))
	b.WriteString(components.ProgressBar(float64(a.stagesDone)/loadStages, barW))

	return a.overlayCard(b.String())
}

func (a App) viewLoadError() string {
	t := theme.Active
	titleStyle := lipgloss.NewStyle().Foreground(t.Bad).Background(t.Surface).Bold(true)
	textStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Width(min(70, a.width-12))
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Could not load the ledger"))
	b.WriteString("\n\n")
	b.WriteString(textStyle.Render(a.loadErr.Error()))
	b.WriteString("\n\n")
	b.WriteString(keyStyle.Render("r") + textStyle.Width(0).Render(" retry   ") +
		keyStyle.Render("q") + textStyle.Width(0).Render(" quit"))
	return a.overlayCard(b.String())
}

func (a App) viewHelp() string {
	t := theme.Active
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Info).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	section := func(b *strings.Builder, name string, binds [][2]string) {
		b.WriteString(sectionStyle.Render(name))
		b.WriteString("\n")
		for _, bind := range binds {
			fmt.Fprintf(b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind[0])),
				descStyle.Render(bind[1]))
		}
		b.WriteString("\n")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")
	section(&b, "Navigation", [][2]string{
		{"o b x h f", "Jump to tab"},
		{"← →", "Previous / Next tab"},
		{"[ ]", "Previous / Next month"},
		{"t", "Back to the latest month"},
	})
	section(&b, "Forecast", [][2]string{
		{"j k", "Select month"},
		{"tab", "Select adjustment"},
		{"enter", "Edit adjustment"},
		{"s", "Write month to plan sheet"},
		{"+ -", "Months ahead"},
		{"O H", "Pin starting overflow / HYS"},
		{"z", "Reset starting balances"},
	})
	section(&b, "Data", [][2]string{
		{"r", "Refresh now"},
		{"R", "Toggle auto-refresh"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	})
	b.WriteString(dimStyle.Render("Press any key to close"))

	return a.overlayCard(b.String())
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)

	info := components.StatusInfo{
		Month:       a.selected().String(),
		Refreshing:  a.refreshing,
		AutoRefresh: a.autoRefresh,
		Notice:      a.notice,
		NoticeError: a.noticeError,
	}
	if a.view != nil {
		info.FromCache = a.view.FromCache
		if !a.view.FetchedAt.IsZero() {
			info.DataAge = a.view.FetchedAt.Format("15:04")
		}
	}
	statusBar := components.RenderStatusBar(w, info)

	contentH := max(minContentHeight, h-lipgloss.Height(header)-lipgloss.Height(statusBar))

	var content string
	switch a.activeTab {
	case components.TabOverview:
		content = a.renderOverviewTab(cw)
	case components.TabBudget:
		content = a.renderBudgetTab(cw)
	case components.TabFixed:
		content = a.renderFixedTab(cw)
	case components.TabHistory:
		content = a.renderHistoryTab(cw, contentH)
	case components.TabForecast:
		content = a.renderForecastTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Loading ────────────────────────────────────────────────────

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// load reads the store, falling back to cached snapshots when a cache is
// configured, and reloads the forecast editor from the fresh plan.
func load(opts Options, progressFn pipeline.ProgressFunc) loadedMsg {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()

	var (
		res *pipeline.LoadResult
		err error
	)
	if opts.Cache != nil {
		res, err = pipeline.LoadWithCache(ctx, opts.Reader, opts.Cache, opts.Load, progressFn)
	} else {
		res, err = pipeline.Load(ctx, opts.Reader, opts.Load, progressFn)
	}
	if err != nil {
		return loadedMsg{Err: err, LoadTime: time.Since(start)}
	}

	msg := loadedMsg{View: pipeline.NewView(res, opts.Budgets, time.Now())}
	if opts.Editor != nil {
		err := opts.Editor.Reload(ctx, res.Plan.OverflowBalance, res.Plan.HYSBalance)
		if err != nil && !errors.Is(err, forecast.ErrStale) {
			msg.ForecastErr = err
		}
	}
	msg.LoadTime = time.Since(start)
	return msg
}

// loadDataCmd starts a load in a background goroutine. It streams
// progressMsg updates and a final loadedMsg through sub.
func loadDataCmd(opts Options, sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		go func() {
			// Non-blocking send; a dropped stage only stalls the bar.
			progressFn := func(stage string) {
				select {
				case sub <- progressMsg{Stage: stage}:
				default:
				}
			}
			sub <- load(opts, progressFn)
		}()
		return <-sub
	}
}

// waitForLoadMsg blocks until the next message arrives from the loader goroutine.
func waitForLoadMsg(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

// refreshDataCmd reloads in the background without progress updates.
func refreshDataCmd(opts Options) tea.Cmd {
	return func() tea.Msg {
		return load(opts, nil)
	}
}

func saveMonthCmd(ed *forecast.Editor, m model.Month) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		return savedMsg{Month: m, Err: ed.SaveMonth(ctx, m)}
	}
}

// ─── Layout helpers ─────────────────────────────────────────────

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 1 // separator
	}
	return -1
}
