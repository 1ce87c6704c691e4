package sheets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/theirongolddev/hbudget/internal/grid"
	"github.com/theirongolddev/hbudget/internal/model"
)

// PublishedOptions configures the published-CSV backend.
type PublishedOptions struct {
	// URLs maps sheet name to its "publish to web" CSV link.
	URLs map[string]string

	HTTPClient   *http.Client
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	Logger       *zerolog.Logger
}

// Published reads sheets exported as CSV at public URLs. It cannot write.
type Published struct {
	urls   map[string]string
	client *retryablehttp.Client
}

// NewPublished builds the backend with a retrying HTTP client.
func NewPublished(opts PublishedOptions) *Published {
	client := retryablehttp.NewClient()
	if opts.HTTPClient != nil {
		client.HTTPClient = opts.HTTPClient
	}
	client.RetryMax = 3
	if opts.RetryMax > 0 {
		client.RetryMax = opts.RetryMax
	}
	if opts.RetryWaitMin > 0 {
		client.RetryWaitMin = opts.RetryWaitMin
	}
	if opts.RetryWaitMax > 0 {
		client.RetryWaitMax = opts.RetryWaitMax
	}
	if opts.Logger != nil {
		client.Logger = &retryLogger{log: *opts.Logger}
	} else {
		client.Logger = nil
	}

	urls := make(map[string]string, len(opts.URLs))
	for k, v := range opts.URLs {
		urls[k] = v
	}
	return &Published{urls: urls, client: client}
}

func (p *Published) ReadTable(ctx context.Context, sheet string) (model.Table, error) {
	url, ok := p.urls[sheet]
	if !ok || url == "" {
		return model.Table{}, &Error{Code: "NOT_FOUND", Message: "no published url for sheet " + sheet, Err: ErrNotFound}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return model.Table{}, pkgerrors.Wrap(err, "creating request")
	}
	rreq, err := retryablehttp.FromRequest(req)
	if err != nil {
		return model.Table{}, pkgerrors.Wrap(err, "creating request")
	}

	resp, err := p.client.Do(rreq)
	if err != nil {
		if ctx.Err() != nil {
			return model.Table{}, ctx.Err()
		}
		return model.Table{}, &Error{Code: "TRANSPORT", Message: fmt.Sprintf("fetching %s: %v", sheet, err), Err: ErrTransport}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.Table{}, pkgerrors.Wrap(err, "reading response")
	}
	if err := statusError(resp.StatusCode, body); err != nil {
		return model.Table{}, err
	}

	g, err := grid.ParseString(string(body))
	if err != nil {
		return model.Table{}, pkgerrors.Wrapf(err, "parsing %s", sheet)
	}
	return grid.ToTable(g), nil
}

// BatchUpdate always fails: published links are read-only.
func (p *Published) BatchUpdate(context.Context, string, []CellUpdate) error {
	return ErrReadOnly
}

// retryLogger adapts zerolog to retryablehttp's leveled logger.
type retryLogger struct {
	log zerolog.Logger
}

func (l *retryLogger) Error(msg string, kv ...interface{}) { l.log.Error().Fields(kv).Msg(msg) }
func (l *retryLogger) Info(msg string, kv ...interface{})  { l.log.Debug().Fields(kv).Msg(msg) }
func (l *retryLogger) Debug(msg string, kv ...interface{}) { l.log.Debug().Fields(kv).Msg(msg) }
func (l *retryLogger) Warn(msg string, kv ...interface{})  { l.log.Warn().Fields(kv).Msg(msg) }
