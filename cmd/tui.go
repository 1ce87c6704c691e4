package cmd

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/hbudget/internal/config"
	"github.com/theirongolddev/hbudget/internal/tui"
	"github.com/theirongolddev/hbudget/internal/tui/theme"
)

var flagTUINoRefresh bool

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	tuiCmd.Flags().BoolVar(&flagTUINoRefresh, "no-refresh", false, "Disable automatic background refresh")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	if flagConfig == "" && !config.Exists() {
		cfg, err := config.Load("")
		if err != nil {
			return err
		}
		if err := tui.RunSetup(&cfg); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return err
		}
		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
	}

	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	m, err := selectedMonth()
	if err != nil {
		return err
	}
	payroll, err := s.payroll()
	if err != nil {
		return err
	}
	ed, err := s.editor()
	if err != nil {
		s.log.Warn().Err(err).Msg("forecast settings unreadable, using defaults")
	}

	theme.SetActive(s.cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	app := tui.NewApp(tui.Options{
		Reader:          s.store,
		Cache:           s.snapshotCache(),
		Editor:          ed,
		Load:            s.opts,
		Budgets:         s.budgets,
		Payroll:         payroll,
		Month:           m,
		TrailingMonths:  s.cfg.General.TrailingMonths,
		AutoRefresh:     !flagTUINoRefresh,
		RefreshInterval: s.cfg.Server.RefreshInterval,
		EarnerAName:     s.cfg.Payroll.EarnerAName,
		EarnerBName:     s.cfg.Payroll.EarnerBName,
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
