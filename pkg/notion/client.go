// Package notion wraps the Notion API calls used to read the pricing catalog.
package notion

import (
	"context"
	"net/http"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// DefaultRateLimit is Notion's documented average request rate per
// integration.
const DefaultRateLimit = 3.0

// Client is the read-only subset of the Notion API the catalog needs.
type Client interface {
	QueryDatabase(ctx context.Context, dbID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error)
}

type options struct {
	rps        float64
	httpClient *http.Client
}

// ClientOption configures NewClient.
type ClientOption func(*options)

// WithRateLimit overrides DefaultRateLimit. A non-positive rps disables
// throttling.
func WithRateLimit(rps float64) ClientOption {
	return func(o *options) { o.rps = rps }
}

// WithHTTPClient sends requests through hc, for example to bound each call
// with hc.Timeout.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(o *options) { o.httpClient = hc }
}

// throttledClient is a Client that spends one limiter token per request.
type throttledClient struct {
	api     *notionapi.Client
	limiter *rate.Limiter
}

// NewClient creates a Notion client for the given integration token.
func NewClient(token string, opts ...ClientOption) Client {
	o := options{rps: DefaultRateLimit}
	for _, opt := range opts {
		opt(&o)
	}

	var apiOpts []notionapi.ClientOption
	if o.httpClient != nil {
		apiOpts = append(apiOpts, notionapi.WithHTTPClient(o.httpClient))
	}

	c := &throttledClient{api: notionapi.NewClient(notionapi.Token(token), apiOpts...)}
	if o.rps > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(o.rps), max(int(o.rps), 1))
	}
	return c
}

func (c *throttledClient) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

// QueryDatabase returns one page of dbID's rows.
func (c *throttledClient) QueryDatabase(ctx context.Context, dbID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	if err := c.wait(ctx); err != nil {
		return nil, eris.Wrap(err, "notion: rate limit")
	}
	resp, err := c.api.Database.Query(ctx, notionapi.DatabaseID(dbID), req)
	if err != nil {
		return nil, eris.Wrapf(err, "notion: query database %s", dbID)
	}
	return resp, nil
}
