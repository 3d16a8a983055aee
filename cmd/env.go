package main

import (
	"net/http"
	"time"
	_ "time/tzdata"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/proposal-cli/internal/config"
	"github.com/sells-group/proposal-cli/internal/intake"
	"github.com/sells-group/proposal-cli/internal/pipeline"
	"github.com/sells-group/proposal-cli/internal/proposal"
	"github.com/sells-group/proposal-cli/internal/registry"
	"github.com/sells-group/proposal-cli/internal/resilience"
	"github.com/sells-group/proposal-cli/pkg/notion"
)

// newCatalogSource builds the configured catalog source. A nil source means
// the built-in defaults, which is also what a notion source without
// credentials gets.
func newCatalogSource(c *config.Config) pipeline.CatalogSource {
	switch c.Catalog.Source {
	case config.CatalogSourceNotion:
		if c.Notion.Token == "" || c.Notion.CatalogDB == "" {
			zap.L().Warn("notion not configured, pricing with the built-in catalog")
			return nil
		}
		opts := []notion.ClientOption{notion.WithRateLimit(c.Notion.RateLimit)}
		if c.Catalog.FetchTimeoutSecs > 0 {
			opts = append(opts, notion.WithHTTPClient(&http.Client{
				Timeout: time.Duration(c.Catalog.FetchTimeoutSecs) * time.Second,
			}))
		}
		client := notion.NewClient(c.Notion.Token, opts...)
		backoff := resilience.DefaultBackoff()
		if c.Catalog.FetchAttempts > 0 {
			backoff.Attempts = c.Catalog.FetchAttempts
		}
		if c.Catalog.FetchBackoffMs > 0 {
			backoff.Initial = time.Duration(c.Catalog.FetchBackoffMs) * time.Millisecond
		}
		return registry.NewNotionSource(client, c.Notion.CatalogDB, backoff)
	case config.CatalogSourceFile:
		return registry.NewFileSource(c.Catalog.File)
	default:
		return nil
	}
}

// newSettings maps the proposal section onto proposal.Settings.
func newSettings(c *config.Config) proposal.Settings {
	s := proposal.DefaultSettings()
	if len(c.Proposal.HighRiskIndustries) > 0 {
		s.Risk.High = c.Proposal.HighRiskIndustries
	}
	if c.Proposal.DefaultRiskLevel != "" {
		s.Risk.Default = c.Proposal.DefaultRiskLevel
	}
	if c.Proposal.DateLayout != "" {
		s.Dates.Layout = c.Proposal.DateLayout
	}
	if c.Proposal.ValidityDays > 0 {
		s.Dates.ValidDays = c.Proposal.ValidityDays
	}
	s.OxfordComma = c.Proposal.OxfordComma
	return s
}

// newClock returns the proposal issue clock in the configured timezone.
func newClock(c *config.Config) (func() time.Time, error) {
	if c.Proposal.Timezone == "" {
		return time.Now, nil
	}
	loc, err := time.LoadLocation(c.Proposal.Timezone)
	if err != nil {
		return nil, eris.Wrapf(err, "load timezone %q", c.Proposal.Timezone)
	}
	return func() time.Time { return time.Now().In(loc) }, nil
}

// newPipeline wires the catalog source, settings and clock. catalogTTL is
// zero for one-shot commands; extra options are applied last.
func newPipeline(c *config.Config, catalogTTL time.Duration, extra ...pipeline.Option) (*pipeline.Pipeline, error) {
	clock, err := newClock(c)
	if err != nil {
		return nil, err
	}

	src := newCatalogSource(c)
	zap.L().Debug("catalog source configured", zap.String("source", c.Catalog.Source))

	opts := []pipeline.Option{
		pipeline.WithSettings(newSettings(c)),
		pipeline.WithClock(clock),
		pipeline.WithCatalogTTL(catalogTTL),
	}
	if c.Catalog.FetchTimeoutSecs > 0 {
		opts = append(opts, pipeline.WithFetchTimeout(time.Duration(c.Catalog.FetchTimeoutSecs)*time.Second))
	}
	return pipeline.New(src, append(opts, extra...)...), nil
}

// newNormalizer builds the Tally normalizer with configured key overrides.
func newNormalizer(c *config.Config) *intake.Normalizer {
	return intake.NewNormalizer(intake.DefaultFieldMap().Merge(c.Intake.FieldMap))
}
