package server

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/theirongolddev/hbudget/internal/forecast"
	"github.com/theirongolddev/hbudget/internal/model"
	"github.com/theirongolddev/hbudget/internal/pipeline"
	"github.com/theirongolddev/hbudget/internal/sheets"
)

const maxBody = 1 << 20

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

// handleTable serves a whole sheet as {headers, rows}.
func (s *Service) handleTable(sheet func() string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allow(w, r, http.MethodGet) {
			return
		}
		name := sheet()
		if name == "" {
			WriteError(w, http.StatusNotFound, "no sheet configured")
			return
		}

		t, err := s.store.ReadTable(r.Context(), name)
		if err != nil {
			s.writeStoreError(w, r, errors.Wrapf(err, "reading %s", name))
			return
		}
		if len(t.Rows) == 0 {
			t = model.Table{Headers: []string{}, Rows: [][]string{}}
		}
		WriteJSON(w, http.StatusOK, t)
	}
}

type forecastWriteRequest struct {
	Updates []json.RawMessage `json:"updates"`
}

type rawUpdate struct {
	Row   *float64 `json:"row"`
	Col   *float64 `json:"col"`
	Value any      `json:"value"`
}

// handleForecastWrite applies caller-addressed cell updates to the plan
// sheet in one batch.
func (s *Service) handleForecastWrite(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	var req forecastWriteRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	updates, err := parseUpdates(req.Updates)
	if err != nil {
		WriteError(w, http.StatusBadRequest, updateErrorCode(err))
		return
	}
	if err := sheets.ValidateUpdates(updates); err != nil {
		WriteError(w, http.StatusBadRequest, updateErrorCode(err))
		return
	}

	if err := s.store.BatchUpdate(r.Context(), s.cfg.Load.PlanSheet, updates); err != nil {
		s.writeStoreError(w, r, errors.Wrapf(err, "writing %s", s.cfg.Load.PlanSheet))
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "count": len(updates)})
}

// parseUpdates skips null entries and rejects non-integral addresses.
func parseUpdates(raw []json.RawMessage) ([]sheets.CellUpdate, error) {
	out := make([]sheets.CellUpdate, 0, len(raw))
	for i, msg := range raw {
		if string(msg) == "null" {
			continue
		}
		var u rawUpdate
		if err := json.Unmarshal(msg, &u); err != nil || !wholeNumber(u.Row) || !wholeNumber(u.Col) {
			return nil, &sheets.Error{
				Code:    "BAD_UPDATE_SHAPE",
				Message: fmt.Sprintf("bad_update_shape: update %d", i),
				Err:     sheets.ErrInvalidUpdate,
			}
		}
		v := u.Value
		if v == nil {
			v = ""
		}
		out = append(out, sheets.CellUpdate{Row: int(*u.Row), Col: int(*u.Col), Value: v})
	}
	return out, nil
}

func wholeNumber(f *float64) bool {
	return f != nil && !math.IsInf(*f, 0) && !math.IsNaN(*f) && *f == math.Trunc(*f)
}

// updateErrorCode maps a validation failure to its wire code.
func updateErrorCode(err error) string {
	var se *sheets.Error
	if errors.As(err, &se) && se.Code == "MISSING_UPDATES" {
		return "missing_updates"
	}
	return "bad_update_shape"
}

// planWriteRequest is the whole-row plan input. Values are written as
// given; a missing or null value clears the cell.
type planWriteRequest struct {
	AddInc    any `json:"addInc"`
	AddFix    any `json:"addFix"`
	AustinPay any `json:"austinPay"`
	JennaPay  any `json:"jennaPay"`
	DescrAdd  any `json:"descrAdd"`
}

func (p planWriteRequest) values() []any {
	vals := []any{p.AddInc, p.AddFix, p.AustinPay, p.JennaPay, p.DescrAdd}
	for i, v := range vals {
		if v == nil {
			vals[i] = ""
		}
	}
	return vals
}

// handlePlanWrite fills the configured vertical plan range.
func (s *Service) handlePlanWrite(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	var req planWriteRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	updates, err := planCells(s.cfg.PlanWriteRange, req.values())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.store.BatchUpdate(r.Context(), s.cfg.Load.PlanSheet, updates); err != nil {
		s.writeStoreError(w, r, errors.Wrapf(err, "writing %s", s.cfg.Load.PlanSheet))
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "count": len(updates)})
}

// planCells lays values down a single-column range of exactly len(values)
// cells.
func planCells(rng string, values []any) ([]sheets.CellUpdate, error) {
	top, bottom, err := sheets.ParseRange(rng)
	if err != nil {
		return nil, errors.Wrap(err, "plan write range")
	}
	if top.Col != bottom.Col || bottom.Row-top.Row+1 != len(values) {
		return nil, fmt.Errorf("plan write range %s must be one column of %d cells", rng, len(values))
	}
	out := make([]sheets.CellUpdate, len(values))
	for i, v := range values {
		out[i] = sheets.CellUpdate{Row: top.Row + i, Col: top.Col, Value: v}
	}
	return out, nil
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, s.snapshotStatus())
}

type monthResponse struct {
	pipeline.MonthReport
	PlanLoaded   bool                `json:"planLoaded"`
	PlanError    string              `json:"planError,omitempty"`
	FromCache    bool                `json:"fromCache"`
	Transactions []model.Transaction `json:"transactions"`
	NetSpend     float64             `json:"netSpend"`
}

// handleMonth serves the report for ?month= (the latest month by default),
// with the discretionary transactions narrowed by ?bucket=.
func (s *Service) handleMonth(w http.ResponseWriter, r *http.Request) {
	v, ok := s.loadedView(w)
	if !ok {
		return
	}
	var m model.Month
	if raw := r.URL.Query().Get("month"); raw != "" {
		parsed, err := model.ParseMonth(raw)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		m = parsed
	}

	var bucket *model.Bucket
	if raw := r.URL.Query().Get("bucket"); raw != "" {
		b, ok := model.ParseBucket(raw)
		if !ok {
			WriteError(w, http.StatusBadRequest, fmt.Sprintf("unknown bucket %q", raw))
			return
		}
		bucket = &b
	}

	report := v.Report(m, s.cfg.TrailingMonths)
	txs := pipeline.FilterByBucket(v.Index[report.Month], bucket)
	if txs == nil {
		txs = []model.Transaction{}
	}
	WriteJSON(w, http.StatusOK, monthResponse{
		MonthReport:  report,
		PlanLoaded:   v.Plan.Loaded,
		PlanError:    v.Plan.Error,
		FromCache:    v.FromCache,
		Transactions: txs,
		NetSpend:     pipeline.NetSpend(txs),
	})
}

type historyResponse struct {
	Rows     []model.HistoryRow `json:"rows"`
	Overflow pipeline.Series    `json:"overflow"`
	Savings  pipeline.Series    `json:"savings"`
}

func (s *Service) handleHistory(w http.ResponseWriter, _ *http.Request) {
	v, ok := s.loadedView(w)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, historyResponse{
		Rows:     v.History(),
		Overflow: pipeline.OverflowSeries(v.Summaries, v.Current, pipeline.HistorySeriesMonths),
		Savings:  pipeline.SavingsSeries(v.Summaries, v.Current, pipeline.HistorySeriesMonths),
	})
}

type forecastResponse struct {
	Base              model.Month         `json:"base"`
	MonthsAhead       int                 `json:"monthsAhead"`
	StartOverflow     float64             `json:"startOverflow"`
	StartHYS          float64             `json:"startHys"`
	StartUserOverride bool                `json:"startUserOverride"`
	SheetReady        bool                `json:"sheetReady"`
	Rows              []model.ForecastRow `json:"rows"`
}

// handleForecast projects from ?base= (the latest month by default) for
// ?months= months, or the saved horizon.
func (s *Service) handleForecast(w http.ResponseWriter, r *http.Request) {
	v, ok := s.loadedView(w)
	if !ok {
		return
	}
	q := r.URL.Query()

	var base model.Month
	if raw := q.Get("base"); raw != "" {
		m, err := model.ParseMonth(raw)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		base = m
	}

	settings := forecast.DefaultSettings()
	sheetReady := false
	if s.editor != nil {
		settings = s.editor.Settings()
		sheetReady = s.editor.Map().Ready()
	}

	in := v.ForecastInputs(base, settings, s.cfg.Payroll)
	if raw := q.Get("months"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "months must be an integer")
			return
		}
		in.MonthsAhead = n
	}
	in.MonthsAhead = forecast.ClampMonthsAhead(in.MonthsAhead)

	WriteJSON(w, http.StatusOK, forecastResponse{
		Base:              in.BaseMonth,
		MonthsAhead:       in.MonthsAhead,
		StartOverflow:     in.StartOverflow,
		StartHYS:          in.StartHYS,
		StartUserOverride: settings.StartUserOverride,
		SheetReady:        sheetReady,
		Rows:              forecast.Project(in),
	})
}

type adjustmentRequest struct {
	Month       string   `json:"month"`
	IncomeAdd   *float64 `json:"incomeAdd"`
	AddFixed    *float64 `json:"addFixed"`
	AddDisc     *float64 `json:"addDisc"`
	HYSTransfer *float64 `json:"hysTransfer"`
}

func (a adjustmentRequest) apply(adj model.Adjustment) model.Adjustment {
	if a.IncomeAdd != nil {
		adj.IncomeAdd = *a.IncomeAdd
	}
	if a.AddFixed != nil {
		adj.AddFixed = *a.AddFixed
	}
	if a.AddDisc != nil {
		adj.AddDisc = *a.AddDisc
	}
	if a.HYSTransfer != nil {
		adj.HYSTransfer = *a.HYSTransfer
	}
	return adj
}

// handleAdjustments records a month's adjustment locally, then writes it
// through to the plan sheet. A failed write leaves the local edit in place.
func (s *Service) handleAdjustments(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	if s.editor == nil {
		WriteError(w, http.StatusServiceUnavailable, "forecast editor unavailable")
		return
	}
	var req adjustmentRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	m, err := model.ParseMonth(req.Month)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	adj := req.apply(s.editor.Settings().Adjustment(m))
	if err := s.editor.SetAdjustment(m, adj); err != nil {
		s.log.Warn().Err(err).Str("month", m.Key()).Msg("persisting forecast settings")
	}

	if err := s.editor.SaveMonth(r.Context(), m); err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, forecast.ErrUnresolvable) {
			status = http.StatusConflict
		} else {
			s.capture(err, "forecast_write")
		}
		s.log.Warn().Err(err).Str("month", m.Key()).Str("request_id", RequestIDFrom(r.Context())).Msg("forecast write failed")
		WriteJSON(w, status, map[string]any{"error": err.Error(), "retained": true})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "month": m, "adjustment": adj})
}

func (s *Service) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	if err := s.Refresh(r.Context()); err != nil {
		WriteError(w, http.StatusBadGateway, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	WriteJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current snapshot immediately.
	current := Event{
		Type:      EventSnapshot,
		Timestamp: time.Now(),
		Snapshot:  s.snapshotStatus().Summary,
	}
	writeSSE(w, current)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) loadedView(w http.ResponseWriter) (*pipeline.View, bool) {
	v := s.View()
	if v == nil {
		msg := "not loaded yet"
		if st := s.snapshotStatus(); st.LastError != "" {
			msg = st.LastError
		}
		WriteError(w, http.StatusServiceUnavailable, msg)
		return nil, false
	}
	return v, true
}

// writeStoreError maps adapter failures onto HTTP statuses.
func (s *Service) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, sheets.ErrInvalidUpdate):
		status = http.StatusBadRequest
	case errors.Is(err, sheets.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, sheets.ErrReadOnly):
		status = http.StatusConflict
	case errors.Is(err, sheets.ErrUnauthorized), errors.Is(err, sheets.ErrRateLimited), errors.Is(err, sheets.ErrTransport):
		status = http.StatusBadGateway
	}
	if status >= http.StatusInternalServerError {
		s.capture(err, r.URL.Path)
	}
	s.log.Warn().Err(err).Int("status", status).Str("path", r.URL.Path).Str("request_id", RequestIDFrom(r.Context())).Msg("store error")
	WriteError(w, status, err.Error())
}

func allow(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method || (method == http.MethodGet && r.Method == http.MethodHead) {
		return true
	}
	w.Header().Set("Allow", method)
	WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed")
	return false
}

// decodeBody reads a JSON body; an empty body leaves dst zero.
func decodeBody(r *http.Request, dst any) error {
	err := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBody)).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
