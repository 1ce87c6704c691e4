package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	pkgerrors "github.com/pkg/errors"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/theirongolddev/hbudget/internal/grid"
	"github.com/theirongolddev/hbudget/internal/model"
)

// userEntered makes the store parse written values as if typed by hand, so
// numbers stay numbers and formulas evaluate.
const userEntered = "USER_ENTERED"

// GoogleOptions configures the Google Sheets backend.
type GoogleOptions struct {
	SpreadsheetID   string
	CredentialsJSON []byte
	ReadOnly        bool

	// ClientOptions are appended after the credential option; tests use
	// them to point the client at a fake endpoint.
	ClientOptions []option.ClientOption
}

// Google reads and writes a spreadsheet through the Sheets API v4 using a
// service account.
type Google struct {
	id  string
	svc *gsheets.Service
}

// NewGoogle builds a Sheets API client. Either credentials or client
// options supplying authentication are required.
func NewGoogle(ctx context.Context, opts GoogleOptions) (*Google, error) {
	if opts.SpreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}

	scope := gsheets.SpreadsheetsScope
	if opts.ReadOnly {
		scope = gsheets.SpreadsheetsReadonlyScope
	}

	var clientOpts []option.ClientOption
	if len(opts.CredentialsJSON) > 0 {
		clientOpts = append(clientOpts,
			option.WithCredentialsJSON(opts.CredentialsJSON),
			option.WithScopes(scope))
	}
	clientOpts = append(clientOpts, opts.ClientOptions...)
	if len(clientOpts) == 0 {
		return nil, errors.New("missing service account credentials")
	}

	svc, err := gsheets.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "creating sheets service")
	}
	return &Google{id: opts.SpreadsheetID, svc: svc}, nil
}

// ReadTable fetches columns A:Z of the named sheet.
func (g *Google) ReadTable(ctx context.Context, sheet string) (model.Table, error) {
	resp, err := g.svc.Spreadsheets.Values.Get(g.id, ColumnRange(sheet)).Context(ctx).Do()
	if err != nil {
		return model.Table{}, pkgerrors.Wrapf(mapGoogleError(err), "reading %s", sheet)
	}

	rows := make([][]string, len(resp.Values))
	for i, r := range resp.Values {
		cells := make([]string, len(r))
		for j, v := range r {
			if v != nil {
				cells[j] = fmt.Sprint(v)
			}
		}
		rows[i] = cells
	}
	return grid.ToTable(grid.Pad(rows)), nil
}

// BatchUpdate writes every update in a single values.batchUpdate call.
func (g *Google) BatchUpdate(ctx context.Context, sheet string, updates []CellUpdate) error {
	if err := ValidateUpdates(updates); err != nil {
		return err
	}

	data := make([]*gsheets.ValueRange, len(updates))
	for i, u := range updates {
		data[i] = &gsheets.ValueRange{
			Range:  A1(sheet, u.Row, u.Col),
			Values: [][]interface{}{{cellValue(u.Value)}},
		}
	}
	req := &gsheets.BatchUpdateValuesRequest{
		ValueInputOption: userEntered,
		Data:             data,
	}

	if _, err := g.svc.Spreadsheets.Values.BatchUpdate(g.id, req).Context(ctx).Do(); err != nil {
		return pkgerrors.Wrapf(mapGoogleError(err), "writing %d cells to %s", len(updates), sheet)
	}
	return nil
}

// mapGoogleError converts API failures into *Error; anything without an
// HTTP status is a transport failure.
func mapGoogleError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		if e, ok := statusError(gerr.Code, nil).(*Error); ok {
			if gerr.Message != "" {
				e.Message = fmt.Sprintf("%s: %s", e.Message, gerr.Message)
			}
			return e
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &Error{Code: "TRANSPORT", Message: err.Error(), StatusCode: http.StatusBadGateway, Err: ErrTransport}
}
