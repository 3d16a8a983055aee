// Package registry loads the pricing catalog from its configured source.
package registry

import (
	"context"
	"errors"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sells-group/proposal-cli/internal/pricing"
	"github.com/sells-group/proposal-cli/internal/resilience"
	"github.com/sells-group/proposal-cli/pkg/notion"
)

// Property names of the Notion pricing database.
const (
	PropService  = "Service"
	PropPrice    = "Price"
	PropCategory = "Category"
)

// notionPageSize is the largest page the Notion API will return.
const notionPageSize = 100

// NotionSource reads catalog entries from a Notion database with one page
// per priced item.
type NotionSource struct {
	client  notion.Client
	dbID    string
	backoff resilience.Backoff
}

// NewNotionSource creates a NotionSource for the given database.
func NewNotionSource(client notion.Client, dbID string, backoff resilience.Backoff) *NotionSource {
	if backoff.Retryable == nil {
		backoff.Retryable = isTransientNotion
	}
	if backoff.OnRetry == nil {
		backoff.OnRetry = resilience.LogRetry("notion", "query catalog")
	}
	return &NotionSource{client: client, dbID: dbID, backoff: backoff}
}

// FetchCatalog queries every page of the pricing database. An empty database
// is still a present catalog.
func (s *NotionSource) FetchCatalog(ctx context.Context) (*pricing.Source, error) {
	pages, err := resilience.Retry(ctx, s.backoff, func(ctx context.Context) ([]notionapi.Page, error) {
		return notion.QueryAll(ctx, s.client, s.dbID, notionPageSize)
	})
	if err != nil {
		return nil, eris.Wrap(err, "registry: fetch notion catalog")
	}

	src := &pricing.Source{Entries: make([]pricing.Entry, 0, len(pages))}
	for _, p := range pages {
		src.Entries = append(src.Entries, parseCatalogPage(p))
	}

	zap.L().Debug("registry: loaded notion catalog",
		zap.String("db_id", s.dbID),
		zap.Int("entries", len(src.Entries)),
	)
	return src, nil
}

func parseCatalogPage(p notionapi.Page) pricing.Entry {
	var e pricing.Entry

	// Service (title)
	if v, ok := notion.TextProperty(p, PropService); ok {
		e.Name = &v
	}

	// Price (number)
	if v, ok := notion.NumberProperty(p, PropPrice); ok {
		price := decimal.NewFromFloat(v)
		e.Price = &price
	}

	// Category (rich_text or select)
	if v, ok := notion.TextProperty(p, PropCategory); ok {
		e.Category = &v
	}

	return e
}

// isTransientNotion retries Notion's rate-limit and server errors on top of
// the generic network checks.
func isTransientNotion(err error) bool {
	var apiErr *notionapi.Error
	if errors.As(err, &apiErr) {
		return resilience.IsTransientHTTPStatus(apiErr.Status)
	}
	return resilience.IsTransient(err)
}
