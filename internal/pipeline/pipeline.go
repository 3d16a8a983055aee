// Package pipeline turns intake submissions into priced proposal records.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/sells-group/proposal-cli/internal/model"
	"github.com/sells-group/proposal-cli/internal/pricing"
	"github.com/sells-group/proposal-cli/internal/proposal"
)

// Catalog origins reported on a Result.
const (
	OriginSource  = "source"
	OriginDefault = "default"
)

// CatalogSource delivers the raw pricing table. A nil *pricing.Source with a
// nil error means the source had no usable list.
type CatalogSource interface {
	FetchCatalog(ctx context.Context) (*pricing.Source, error)
}

// Result is one built proposal.
type Result struct {
	Record      proposal.Record
	Diagnostics proposal.Diagnostics
	Origin      string
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithSettings overrides the proposal settings.
func WithSettings(s proposal.Settings) Option {
	return func(p *Pipeline) { p.settings = s }
}

// WithClock sets the function used for the proposal issue instant.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// WithFetchTimeout bounds a single catalog fetch.
func WithFetchTimeout(d time.Duration) Option {
	return func(p *Pipeline) { p.fetchTimeout = d }
}

// WithCatalogTTL reuses a successfully fetched catalog for d. Zero fetches on
// every run.
func WithCatalogTTL(d time.Duration) Option {
	return func(p *Pipeline) { p.ttl = d }
}

// WithFailureCooldown prices with the defaults for d after a failed fetch
// instead of fetching again. Zero retries on the next run.
func WithFailureCooldown(d time.Duration) Option {
	return func(p *Pipeline) { p.cooldown = d }
}

// Pipeline fetches the catalog and builds proposal records. It is safe for
// concurrent use.
type Pipeline struct {
	source       CatalogSource
	defaults     pricing.Catalog
	settings     proposal.Settings
	now          func() time.Time
	fetchTimeout time.Duration
	ttl          time.Duration
	cooldown     time.Duration

	// flight collapses concurrent fetches into one.
	flight singleflight.Group

	mu       sync.Mutex
	cached   *pricing.Catalog
	cachedAt time.Time
	failedAt time.Time
}

// resolved is the outcome of one shared catalog fetch.
type resolved struct {
	catalog pricing.Catalog
	origin  string
}

// New creates a Pipeline. A nil source always prices with the built-in
// defaults.
func New(source CatalogSource, opts ...Option) *Pipeline {
	p := &Pipeline{
		source:   source,
		defaults: pricing.DefaultCatalog(),
		settings: proposal.DefaultSettings(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Catalog resolves the catalog for the next run and reports its origin.
// Fetch failures are logged and degrade to the defaults; they never fail a
// run. Concurrent callers share one in-flight fetch, and a caller whose ctx
// ends first stops waiting and gets the defaults.
func (p *Pipeline) Catalog(ctx context.Context) (pricing.Catalog, string) {
	if p.source == nil {
		return p.defaults, OriginDefault
	}
	if r, ok := p.lookup(); ok {
		return r.catalog, r.origin
	}

	ch := p.flight.DoChan("catalog", func() (any, error) {
		return p.fetch(ctx), nil
	})
	select {
	case res := <-ch:
		r := res.Val.(resolved)
		return r.catalog, r.origin
	case <-ctx.Done():
		return p.defaults, OriginDefault
	}
}

// lookup serves a cached catalog, or the defaults during a failure cooldown.
func (p *Pipeline) lookup() (resolved, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached != nil && p.ttl > 0 && time.Since(p.cachedAt) < p.ttl {
		return resolved{*p.cached, OriginSource}, true
	}
	if p.cooldown > 0 && !p.failedAt.IsZero() && time.Since(p.failedAt) < p.cooldown {
		return resolved{p.defaults, OriginDefault}, true
	}
	return resolved{}, false
}

// fetch runs one catalog fetch and records its outcome. With a fetch timeout
// the fetch is detached from ctx cancellation, so callers sharing it are not
// cut short by the caller that started it.
func (p *Pipeline) fetch(ctx context.Context) resolved {
	fetchCtx := ctx
	if p.fetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(context.WithoutCancel(ctx), p.fetchTimeout)
		defer cancel()
	}

	start := time.Now()
	src, err := p.source.FetchCatalog(fetchCtx)
	if err != nil {
		zap.L().Warn("pipeline: catalog fetch failed, using defaults",
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			zap.Error(err),
		)
		p.recordFailure()
		return resolved{p.defaults, OriginDefault}
	}
	if src == nil {
		zap.L().Warn("pipeline: catalog source returned no list, using defaults")
		return resolved{p.defaults, OriginDefault}
	}

	catalog := pricing.Resolve(src, p.defaults)
	zap.L().Debug("pipeline: catalog fetched",
		zap.Int("entries", len(src.Entries)),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	p.mu.Lock()
	p.failedAt = time.Time{}
	if p.ttl > 0 {
		p.cached = &catalog
		p.cachedAt = time.Now()
	}
	p.mu.Unlock()

	return resolved{catalog, OriginSource}
}

func (p *Pipeline) recordFailure() {
	p.mu.Lock()
	p.failedAt = time.Now()
	p.mu.Unlock()
}

// Run builds the proposal for a single submission. It only fails when ctx is
// done.
func (p *Pipeline) Run(ctx context.Context, sub *model.Submission) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "pipeline: run")
	}

	catalog, origin := p.Catalog(ctx)
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "pipeline: run")
	}
	return p.build(sub, catalog, origin), nil
}

// RunBatch builds proposals for subs against one catalog fetch, at most
// concurrency at a time. Results keep the order of subs.
func (p *Pipeline) RunBatch(ctx context.Context, subs []*model.Submission, concurrency int) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "pipeline: run batch")
	}

	catalog, origin := p.Catalog(ctx)

	if concurrency < 1 {
		concurrency = 1
	}
	results := make([]Result, len(subs))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, sub := range subs {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			results[i] = *p.build(sub, catalog, origin)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "pipeline: run batch")
	}

	zap.L().Info("pipeline: batch complete",
		zap.Int("proposals", len(results)),
		zap.String("catalog", origin),
	)
	return results, nil
}

func (p *Pipeline) build(sub *model.Submission, catalog pricing.Catalog, origin string) *Result {
	rec, diag := proposal.Build(sub, catalog, p.settings, p.now())

	log := zap.L().With(
		zap.String("company", rec.ClientCompanyName),
		zap.String("catalog", origin),
	)
	if !diag.Empty() {
		log.Warn("pipeline: selections without a catalog price",
			zap.Strings("services", diag.UnpricedServices),
			zap.String("support", diag.UnpricedSupport),
			zap.String("deployment", diag.UnpricedDeployment),
		)
	}
	log.Info("pipeline: proposal built", zap.Float64("total", rec.TotalCost))

	return &Result{Record: rec, Diagnostics: diag, Origin: origin}
}
