package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/theirongolddev/hbudget/internal/model"
)

func TestColumnLetters(t *testing.T) {
	tests := map[int]string{0: "", 1: "A", 3: "C", 26: "Z", 27: "AA", 52: "AZ", 53: "BA", 702: "ZZ", 703: "AAA"}
	for col, want := range tests {
		assert.Equal(t, want, ColumnLetters(col), "col %d", col)
	}
	assert.Equal(t, "PLAN!C7", A1("PLAN", 7, 3))
	assert.Equal(t, "DATA_TRANSACTIONS!A:Z", ColumnRange("DATA_TRANSACTIONS"))
}

func TestParseRange(t *testing.T) {
	row, col, err := ParseCell("$AA$10")
	require.NoError(t, err)
	assert.Equal(t, 10, row)
	assert.Equal(t, 27, col)

	top, bottom, err := ParseRange("PLAN!H2:H6")
	require.NoError(t, err)
	assert.Equal(t, CellUpdate{Row: 2, Col: 8}, top)
	assert.Equal(t, CellUpdate{Row: 6, Col: 8}, bottom)

	top, bottom, err = ParseRange("C7")
	require.NoError(t, err)
	assert.Equal(t, top, bottom)

	for _, bad := range []string{"", "7", "H", "H0", "H2:9"} {
		_, _, err := ParseRange(bad)
		assert.Error(t, err, bad)
	}
}

func TestValidateUpdates(t *testing.T) {
	assert.ErrorIs(t, ValidateUpdates(nil), ErrInvalidUpdate)
	assert.ErrorIs(t, ValidateUpdates([]CellUpdate{{Row: 0, Col: 1}}), ErrInvalidUpdate)
	assert.ErrorIs(t, ValidateUpdates([]CellUpdate{{Row: 2, Col: -1}}), ErrInvalidUpdate)
	assert.NoError(t, ValidateUpdates([]CellUpdate{{Row: 1, Col: 1, Value: nil}}))
}

func TestStatusError(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       []byte
		sentinel   error
		code       string
		inMsg      string
	}{
		{"unauthorized", 401, nil, ErrUnauthorized, "UNAUTHORIZED", "401"},
		{"forbidden", 403, nil, ErrUnauthorized, "UNAUTHORIZED", "403"},
		{"missing sheet", 404, nil, ErrNotFound, "NOT_FOUND", "404"},
		{"throttled", 429, nil, ErrRateLimited, "RATE_LIMITED", "429"},
		{"json message", 500, []byte(`{"error":"boom","message":"backend down"}`), ErrTransport, "SERVER_ERROR", "backend down"},
		{"html body", 502, []byte(`<html>bad gateway</html>`), ErrTransport, "SERVER_ERROR", "502"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := statusError(tt.statusCode, tt.body)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)
			assert.Contains(t, err.Error(), tt.inMsg)

			var se *Error
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.code, se.Code)
			assert.Equal(t, tt.statusCode, se.StatusCode)
		})
	}

	assert.NoError(t, statusError(200, nil))
}

func TestErrorIsMatchesCode(t *testing.T) {
	err := &Error{Code: "NOT_FOUND", Message: "x"}
	assert.True(t, errors.Is(err, &Error{Code: "NOT_FOUND"}))
	assert.False(t, errors.Is(err, &Error{Code: "RATE_LIMITED"}))
}

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.SetTable("PLAN", model.Table{Headers: []string{"a", "b"}, Rows: [][]string{{"1"}}})

	require.NoError(t, m.BatchUpdate(ctx, "PLAN", []CellUpdate{
		{Row: 2, Col: 2, Value: 12.5},
		{Row: 4, Col: 3, Value: nil},
		{Row: 3, Col: 1, Value: "x"},
	}))

	tbl, err := m.ReadTable(ctx, "PLAN")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", ""}, tbl.Headers)
	assert.Equal(t, "12.5", tbl.Cell(0, 1))
	assert.Equal(t, "x", tbl.Cell(1, 0))
	assert.Len(t, tbl.Rows, 3)
	assert.Len(t, m.Batches(), 1)

	_, err = m.ReadTable(ctx, "MISSING")
	assert.ErrorIs(t, err, ErrNotFound)

	m.WriteErr = ErrTransport
	assert.ErrorIs(t, m.BatchUpdate(ctx, "PLAN", []CellUpdate{{Row: 1, Col: 1}}), ErrTransport)
	assert.Len(t, m.Batches(), 1)
}

func TestMemoryShortSheetIsEmpty(t *testing.T) {
	m := NewMemory()
	m.SetGrid("DATA", [][]string{{"Date", "Amount"}})
	tbl, err := m.ReadTable(context.Background(), "DATA")
	require.NoError(t, err)
	assert.Empty(t, tbl.Headers)
	assert.Empty(t, tbl.Rows)
}

func TestWorkbookRoundTrip(t *testing.T) {
	ctx := context.Background()
	w := NewWorkbook(filepath.Join(t.TempDir(), "budget.xlsx"))

	_, err := w.ReadTable(ctx, "DATA")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, w.BatchUpdate(ctx, "DATA", []CellUpdate{
		{Row: 1, Col: 1, Value: "Date"},
		{Row: 1, Col: 2, Value: "Amount"},
		{Row: 2, Col: 1, Value: "2024-03-01"},
		{Row: 2, Col: 2, Value: "-12.5"},
	}))

	tbl, err := w.ReadTable(ctx, "DATA")
	require.NoError(t, err)
	assert.Equal(t, []string{"Date", "Amount"}, tbl.Headers)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "2024-03-01", tbl.Rows[0][0])
	assert.Equal(t, "-12.5", tbl.Rows[0][1])

	_, err = w.ReadTable(ctx, "PLAN")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPublishedReadsCSV(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ledger.csv":
			io.WriteString(w, "Date,Transaction,Amount\n2024-03-01,\"Coffee, Shop\",-4.50\n")
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	p := NewPublished(PublishedOptions{
		URLs: map[string]string{
			"DATA": srv.URL + "/ledger.csv",
			"GONE": srv.URL + "/gone.csv",
		},
		RetryMax:     1,
		RetryWaitMin: time.Millisecond,
		RetryWaitMax: time.Millisecond,
	})

	tbl, err := p.ReadTable(context.Background(), "DATA")
	require.NoError(t, err)
	assert.Equal(t, []string{"Date", "Transaction", "Amount"}, tbl.Headers)
	assert.Equal(t, "Coffee, Shop", tbl.Rows[0][1])

	_, err = p.ReadTable(context.Background(), "GONE")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = p.ReadTable(context.Background(), "UNKNOWN")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, p.BatchUpdate(context.Background(), "DATA", []CellUpdate{{Row: 1, Col: 1}}), ErrReadOnly)
}

func TestGoogleReadAndBatch(t *testing.T) {
	var batch struct {
		ValueInputOption string `json:"valueInputOption"`
		Data             []struct {
			Range  string          `json:"range"`
			Values [][]interface{} `json:"values"`
		} `json:"data"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "values:batchUpdate"):
			_ = json.NewDecoder(r.Body).Decode(&batch)
			io.WriteString(w, `{"spreadsheetId":"sheet-1","totalUpdatedCells":2}`)
		case strings.Contains(r.URL.Path, "/values/DENIED"):
			w.WriteHeader(http.StatusForbidden)
			io.WriteString(w, `{"error":{"code":403,"message":"caller lacks permission"}}`)
		case strings.Contains(r.URL.Path, "/values/"):
			io.WriteString(w, `{"range":"PLAN!A1:C2","values":[["MONTH","x"],["Income","5000","extra"]]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	g, err := NewGoogle(ctx, GoogleOptions{
		SpreadsheetID: "sheet-1",
		ClientOptions: []option.ClientOption{
			option.WithEndpoint(srv.URL + "/"),
			option.WithoutAuthentication(),
		},
	})
	require.NoError(t, err)

	tbl, err := g.ReadTable(ctx, "PLAN")
	require.NoError(t, err)
	assert.Equal(t, []string{"MONTH", "x", ""}, tbl.Headers)
	assert.Equal(t, []string{"Income", "5000", "extra"}, tbl.Rows[0])

	require.NoError(t, g.BatchUpdate(ctx, "PLAN", []CellUpdate{
		{Row: 7, Col: 3, Value: 250.0},
		{Row: 8, Col: 3, Value: nil},
	}))
	assert.Equal(t, "USER_ENTERED", batch.ValueInputOption)
	require.Len(t, batch.Data, 2)
	assert.Equal(t, "PLAN!C7", batch.Data[0].Range)
	assert.Equal(t, "", batch.Data[1].Values[0][0])

	_, err = g.ReadTable(ctx, "DENIED")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Contains(t, err.Error(), "caller lacks permission")

	assert.ErrorIs(t, g.BatchUpdate(ctx, "PLAN", nil), ErrInvalidUpdate)
}

func TestNewGoogleRequiresCredentials(t *testing.T) {
	_, err := NewGoogle(context.Background(), GoogleOptions{SpreadsheetID: "x"})
	assert.Error(t, err)
	_, err = NewGoogle(context.Background(), GoogleOptions{})
	assert.Error(t, err)
}
