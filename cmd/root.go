// Package cmd implements the hbudget CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/hbudget/internal/cli"
	"github.com/theirongolddev/hbudget/internal/config"
	"github.com/theirongolddev/hbudget/internal/forecast"
	"github.com/theirongolddev/hbudget/internal/logger"
	"github.com/theirongolddev/hbudget/internal/model"
	"github.com/theirongolddev/hbudget/internal/pipeline"
	"github.com/theirongolddev/hbudget/internal/sheets"
	"github.com/theirongolddev/hbudget/internal/store"
)

var (
	flagConfig   string
	flagMonth    string
	flagBackend  string
	flagNoCache  bool
	flagQuiet    bool
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:           "hbudget",
	Short:         "Household budget dashboard",
	Long:          "Track a shared household ledger against its monthly plan and project savings forward.",
	RunE:          runSummary,
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Config file (TOML or YAML; default "+config.ConfigPath()+")")
	rootCmd.PersistentFlags().StringVarP(&flagMonth, "month", "m", "", "Month to show, e.g. 2024-03 (default: latest with data)")
	rootCmd.PersistentFlags().StringVarP(&flagBackend, "backend", "b", "", "Override sheets backend (google, xlsx, published, memory)")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Skip the local snapshot cache")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

// session bundles what every data command needs: the resolved config, a
// store for the chosen backend and the optional local cache.
type session struct {
	cfg     config.Config
	log     zerolog.Logger
	store   sheets.Store
	cache   *store.Cache
	opts    pipeline.LoadOptions
	budgets model.Budgets
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagBackend != "" {
		cfg.Sheets.Backend = flagBackend
	}
	if flagLogLevel != "" {
		cfg.General.LogLevel = flagLogLevel
	}
	return cfg, cfg.Validate()
}

func openSession(ctx context.Context) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log := logger.New(cfg.General.LogLevel, true)

	opts, err := cfg.LoadOptions()
	if err != nil {
		return nil, err
	}
	opts.Logger = &log
	budgets, err := cfg.Budgets.Defaults()
	if err != nil {
		return nil, err
	}
	st, err := newStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, log: log, store: st, opts: opts, budgets: budgets}
	if !flagNoCache {
		cache, err := store.Open(pipeline.CachePath())
		if err != nil {
			log.Warn().Err(err).Msg("cache unavailable")
		} else {
			s.cache = cache
		}
	}
	return s, nil
}

func (s *session) Close() {
	if s.cache != nil {
		_ = s.cache.Close()
	}
}

// newStore builds the sheets backend named by cfg.Sheets.Backend.
func newStore(ctx context.Context, cfg config.Config, log zerolog.Logger) (sheets.Store, error) {
	switch cfg.Sheets.Backend {
	case config.BackendGoogle:
		creds, err := cfg.Sheets.Credentials()
		if err != nil {
			return nil, err
		}
		g, err := sheets.NewGoogle(ctx, sheets.GoogleOptions{
			SpreadsheetID:   cfg.Sheets.SpreadsheetID,
			CredentialsJSON: creds,
		})
		if err != nil {
			return nil, err
		}
		return g, nil
	case config.BackendWorkbook:
		return sheets.NewWorkbook(cfg.Sheets.WorkbookPath), nil
	case config.BackendPublished:
		return sheets.NewPublished(sheets.PublishedOptions{URLs: cfg.Sheets.PublishedURLs, Logger: &log}), nil
	case config.BackendMemory:
		return sheets.NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown sheets backend %q", cfg.Sheets.Backend)
}

// settingsStore returns where forecast settings persist: the cache when
// open, otherwise process memory.
func (s *session) settingsStore() forecast.SettingsStore {
	if s.cache != nil {
		return s.cache
	}
	return memSettings{}
}

func (s *session) editor() (*forecast.Editor, error) {
	return forecast.NewEditor(s.store, s.settingsStore(), s.cfg.Sheets.PlanSheet, s.cfg.ForecastLayout)
}

func (s *session) payroll() (forecast.Payroll, error) {
	return s.cfg.Payroll.Schedule(0, 0)
}

// snapshotCache avoids handing a typed nil to the pipeline.
func (s *session) snapshotCache() pipeline.SnapshotCache {
	if s.cache == nil {
		return nil
	}
	return s.cache
}

// loadView fetches the ledger and plan, falling back to cached snapshots
// when the store is unreachable.
func (s *session) loadView(ctx context.Context) (*pipeline.View, error) {
	progressFn := func(stage string) {
		if !flagQuiet {
			fmt.Fprintf(os.Stderr, "\r  Reading %s...          ", stage)
		}
	}

	var (
		res *pipeline.LoadResult
		err error
	)
	if s.cache != nil {
		res, err = pipeline.LoadWithCache(ctx, s.store, s.cache, s.opts, progressFn)
	} else {
		res, err = pipeline.Load(ctx, s.store, s.opts, progressFn)
	}
	if !flagQuiet {
		fmt.Fprint(os.Stderr, "\r\033[K")
	}
	if err != nil {
		return nil, err
	}

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Loaded %s transactions", cli.FormatNumber(int64(len(res.Transactions))))
		if res.FromCache {
			fmt.Fprintf(os.Stderr, " from cache (%s)", res.FetchedAt.Format("Jan 02 15:04"))
		}
		fmt.Fprintln(os.Stderr)
	}
	s.log.Debug().
		Int("transactions", len(res.Transactions)).
		Int("months", len(res.Months)).
		Bool("plan_loaded", res.Plan.Loaded).
		Msg("loaded ledger")
	return pipeline.NewView(res, s.budgets, time.Now()), nil
}

// selectedMonth parses --month; zero selects the latest month.
func selectedMonth() (model.Month, error) {
	if flagMonth == "" {
		return model.Month{}, nil
	}
	m, err := model.ParseMonth(flagMonth)
	if err != nil {
		return model.Month{}, fmt.Errorf("--month: %w", err)
	}
	return m, nil
}

// memSettings keeps forecast settings for one invocation when no cache is
// available.
type memSettings map[string][]byte

func (m memSettings) Get(key string) ([]byte, bool, error) {
	v, ok := m[key]
	return v, ok, nil
}

func (m memSettings) Put(key string, value []byte) error {
	m[key] = value
	return nil
}
