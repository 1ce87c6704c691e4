// Package server serves the budget dashboard over HTTP: raw sheet reads,
// plan and forecast writes, month reports, and a refresh loop that streams
// snapshot changes to subscribers.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog"

	"github.com/theirongolddev/hbudget/internal/forecast"
	"github.com/theirongolddev/hbudget/internal/model"
	"github.com/theirongolddev/hbudget/internal/pipeline"
	"github.com/theirongolddev/hbudget/internal/sheets"
)

// Config controls the service runtime behavior.
type Config struct {
	Addr         string
	AppKey       string
	Interval     time.Duration
	EventsBuffer int

	Load           pipeline.LoadOptions
	InputsSheet    string
	PlanWriteRange string

	// Budgets are the fallback defaults used when the plan is unusable.
	Budgets        model.Budgets
	TrailingMonths int

	// Payroll is the pay schedule; weekly rates come from the plan.
	Payroll forecast.Payroll
}

// Deps are the collaborators a Service needs. Cache, Editor and Hub are
// optional.
type Deps struct {
	Store  sheets.Store
	Cache  pipeline.SnapshotCache
	Editor *forecast.Editor
	Logger zerolog.Logger
	Hub    *sentry.Hub
}

// Snapshot is a compact view of the latest month for status and events.
type Snapshot struct {
	At              time.Time   `json:"at"`
	Month           model.Month `json:"month"`
	Transactions    int         `json:"transactions"`
	Income          float64     `json:"income"`
	FixedSpend      float64     `json:"fixedSpend"`
	DiscSpend       float64     `json:"discSpend"`
	SavingsTransfer float64     `json:"savingsTransfer"`
	Overflow        float64     `json:"overflow"`
	PlanLoaded      bool        `json:"planLoaded"`
	PlanError       string      `json:"planError,omitempty"`
	FromCache       bool        `json:"fromCache"`
}

// Delta captures snapshot changes between refreshes.
type Delta struct {
	Transactions    int     `json:"transactions"`
	Income          float64 `json:"income"`
	FixedSpend      float64 `json:"fixedSpend"`
	DiscSpend       float64 `json:"discSpend"`
	SavingsTransfer float64 `json:"savingsTransfer"`
	Overflow        float64 `json:"overflow"`
}

func (d Delta) isZero() bool {
	return d.Transactions == 0 &&
		d.Income == 0 &&
		d.FixedSpend == 0 &&
		d.DiscSpend == 0 &&
		d.SavingsTransfer == 0 &&
		d.Overflow == 0
}

// Event types.
const (
	EventSnapshot   = "snapshot"
	EventLedger     = "ledger_delta"
	EventPlanStatus = "plan_status"
)

// Event is emitted whenever a refresh changes the snapshot.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt          time.Time `json:"startedAt"`
	LastRefreshAt      time.Time `json:"lastRefreshAt"`
	RefreshIntervalSec int       `json:"refreshIntervalSec"`
	RefreshCount       int64     `json:"refreshCount"`
	Loaded             bool      `json:"loaded"`
	FetchedAt          time.Time `json:"fetchedAt"`
	Summary            Snapshot  `json:"summary"`
	LastError          string    `json:"lastError,omitempty"`
	ForecastError      string    `json:"forecastError,omitempty"`
	EventCount         int       `json:"eventCount"`
	SubscriberCount    int       `json:"subscriberCount"`
}

// Service holds the loaded dashboard state and serves it.
type Service struct {
	cfg    Config
	store  sheets.Store
	cache  pipeline.SnapshotCache
	editor *forecast.Editor
	log    zerolog.Logger
	hub    *sentry.Hub
	now    func() time.Time

	refreshMu sync.Mutex

	mu            sync.RWMutex
	startedAt     time.Time
	lastRefreshAt time.Time
	refreshCount  int64
	lastError     string
	forecastError string
	view          *pipeline.View
	snapshot      Snapshot
	nextEventID   int64
	events        []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a service with cfg defaults filled in.
func New(cfg Config, deps Deps) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 5 * time.Minute
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.PlanWriteRange == "" {
		cfg.PlanWriteRange = "H2:H6"
	}
	if cfg.TrailingMonths <= 0 {
		cfg.TrailingMonths = pipeline.DefaultTrailingMonths
	}
	if cfg.Load.Logger == nil {
		log := deps.Logger
		cfg.Load.Logger = &log
	}

	return &Service{
		cfg:       cfg,
		store:     deps.Store,
		cache:     deps.Cache,
		editor:    deps.Editor,
		log:       deps.Logger,
		hub:       deps.Hub,
		now:       time.Now,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Handler returns the routed, middleware-wrapped HTTP handler.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)

	mux.HandleFunc("/api/transactions", s.handleTable(func() string { return s.cfg.Load.LedgerSheet }))
	mux.HandleFunc("/api/plan", s.handleTable(func() string { return s.cfg.Load.PlanSheet }))
	mux.HandleFunc("/api/inputs", s.handleTable(func() string { return s.cfg.InputsSheet }))
	mux.HandleFunc("/api/forecastWrite", s.handleForecastWrite)
	mux.HandleFunc("/api/planWrite", s.handlePlanWrite)

	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/month", s.handleMonth)
	mux.HandleFunc("/v1/history", s.handleHistory)
	mux.HandleFunc("/v1/forecast", s.handleForecast)
	mux.HandleFunc("/v1/forecast/adjustments", s.handleAdjustments)
	mux.HandleFunc("/v1/refresh", s.handleRefresh)
	mux.HandleFunc("/v1/events", s.handleEvents)
	mux.HandleFunc("/v1/stream", s.handleStream)

	return Chain(mux,
		RequestID,
		Logger(s.log),
		Recovery(s.log, s.hub),
		NoStore,
		Auth(s.cfg.AppKey),
	)
}

// Run serves HTTP and refreshes on the configured interval until ctx is
// canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.Info().Str("addr", s.cfg.Addr).Dur("interval", s.cfg.Interval).Msg("serving")

	// Seed initial state so status is useful immediately.
	_ = s.Refresh(ctx)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			_ = s.Refresh(ctx)
		case err := <-errCh:
			return fmt.Errorf("http server: %w", err)
		}
	}
}

// Refresh reloads the ledger and plan, then the forecast sheet. A ledger
// failure keeps the previous state and is recorded as the last error.
func (s *Service) Refresh(ctx context.Context) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	res, err := s.load(ctx)
	now := s.now()
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastRefreshAt = now
		s.refreshCount++
		s.mu.Unlock()
		s.log.Error().Err(err).Msg("refresh failed")
		s.capture(err, "refresh")
		return err
	}

	view := pipeline.NewView(res, s.cfg.Budgets, now)
	snap := snapshotFromView(view, now)

	forecastErr := ""
	if s.editor != nil {
		if err := s.editor.Reload(ctx, res.Plan.OverflowBalance, res.Plan.HYSBalance); err != nil && !errors.Is(err, forecast.ErrStale) {
			forecastErr = err.Error()
			s.log.Warn().Err(err).Msg("forecast reload failed")
		}
	}

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.view != nil

	s.view = view
	s.snapshot = snap
	s.lastRefreshAt = now
	s.refreshCount++
	s.lastError = ""
	s.forecastError = forecastErr

	switch {
	case !prevExists:
		s.nextEventID++
		ev = Event{ID: s.nextEventID, Type: EventSnapshot, Timestamp: now, Snapshot: snap}
		publish = true
	case prev.Month != snap.Month:
		s.nextEventID++
		ev = Event{ID: s.nextEventID, Type: EventSnapshot, Timestamp: now, Snapshot: snap}
		publish = true
	default:
		if delta := diffSnapshots(prev, snap); !delta.isZero() {
			s.nextEventID++
			ev = Event{ID: s.nextEventID, Type: EventLedger, Timestamp: now, Snapshot: snap, Delta: delta}
			publish = true
		} else if prev.PlanError != snap.PlanError || prev.PlanLoaded != snap.PlanLoaded {
			s.nextEventID++
			ev = Event{ID: s.nextEventID, Type: EventPlanStatus, Timestamp: now, Snapshot: snap}
			publish = true
		}
	}
	s.mu.Unlock()

	if publish {
		s.publishEvent(ev)
	}
	s.log.Debug().
		Int("transactions", snap.Transactions).
		Bool("from_cache", snap.FromCache).
		Str("month", snap.Month.Key()).
		Msg("refreshed")
	return nil
}

func (s *Service) load(ctx context.Context) (*pipeline.LoadResult, error) {
	if s.cache != nil {
		return pipeline.LoadWithCache(ctx, s.store, s.cache, s.cfg.Load, nil)
	}
	return pipeline.Load(ctx, s.store, s.cfg.Load, nil)
}

// View returns the state from the last successful refresh, or nil.
func (s *Service) View() *pipeline.View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

func (s *Service) capture(err error, op string) {
	if s.hub == nil {
		return
	}
	hub := s.hub.Clone()
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("operation", op)
		hub.CaptureException(err)
	})
}

func snapshotFromView(v *pipeline.View, at time.Time) Snapshot {
	sum := v.Summary(v.Latest)
	return Snapshot{
		At:              at,
		Month:           v.Latest,
		Transactions:    len(v.Transactions),
		Income:          sum.Income,
		FixedSpend:      sum.FixedSpend,
		DiscSpend:       sum.DiscSpend,
		SavingsTransfer: sum.SavingsTransfer,
		Overflow:        sum.Overflow,
		PlanLoaded:      v.Plan.Loaded,
		PlanError:       v.Plan.Error,
		FromCache:       v.FromCache,
	}
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Transactions:    curr.Transactions - prev.Transactions,
		Income:          curr.Income - prev.Income,
		FixedSpend:      curr.FixedSpend - prev.FixedSpend,
		DiscSpend:       curr.DiscSpend - prev.DiscSpend,
		SavingsTransfer: curr.SavingsTransfer - prev.SavingsTransfer,
		Overflow:        curr.Overflow - prev.Overflow,
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Status{
		StartedAt:          s.startedAt,
		LastRefreshAt:      s.lastRefreshAt,
		RefreshIntervalSec: int(s.cfg.Interval.Seconds()),
		RefreshCount:       s.refreshCount,
		Loaded:             s.view != nil,
		Summary:            s.snapshot,
		LastError:          s.lastError,
		ForecastError:      s.forecastError,
		EventCount:         len(s.events),
		SubscriberCount:    len(s.subs),
	}
	if s.view != nil {
		st.FetchedAt = s.view.FetchedAt
	}
	return st
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
