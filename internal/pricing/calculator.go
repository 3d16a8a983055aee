package pricing

import "github.com/shopspring/decimal"

// CostInput is the priced selection of one submission. Support and
// deployment costs arrive already looked up.
type CostInput struct {
	ServiceNames        []string
	Endpoints           int
	DeploymentCost      decimal.Decimal
	SupportCost         decimal.Decimal
	RequiresIntegration bool
}

// Breakdown itemizes a total. The seven components always sum to the total.
type Breakdown struct {
	Services       decimal.Decimal
	Endpoints      decimal.Decimal
	Deployment     decimal.Decimal
	Support        decimal.Decimal
	Integration    decimal.Decimal
	Baseline       decimal.Decimal
	Implementation decimal.Decimal
}

// Sum adds every component.
func (b Breakdown) Sum() decimal.Decimal {
	return decimal.Sum(b.Services, b.Endpoints, b.Deployment, b.Support,
		b.Integration, b.Baseline, b.Implementation)
}

// Quote is the result of a cost calculation.
type Quote struct {
	Total     decimal.Decimal
	Breakdown Breakdown
	// Unpriced lists selected services the catalog has no price for; they
	// contributed 0 to Total.
	Unpriced []string
}

// Calculator computes proposal totals against a fixed catalog.
type Calculator struct {
	catalog Catalog
}

// NewCalculator creates a Calculator for the given catalog.
func NewCalculator(catalog Catalog) *Calculator {
	return &Calculator{catalog: catalog}
}

// EndpointCost returns n endpoints at the catalog's per-unit price.
func (c *Calculator) EndpointCost(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n)).Mul(orZero(c.catalog.EndpointUnitCost()))
}

// Total prices in. Services, endpoints, deployment, support, integration (only
// when requested), baseline and implementation are added in that order.
func (c *Calculator) Total(in CostInput) Quote {
	total := decimal.Zero
	var unpriced []string

	for _, name := range in.ServiceNames {
		price, ok := c.catalog.Service(name)
		if !ok {
			unpriced = append(unpriced, name)
			continue
		}
		total = total.Add(price)
	}

	endpoints := c.EndpointCost(in.Endpoints)
	total = total.Add(endpoints)

	total = total.Add(in.DeploymentCost)
	total = total.Add(in.SupportCost)

	integration := decimal.Zero
	if in.RequiresIntegration {
		integration = orZero(c.catalog.IntegrationFee())
	}
	total = total.Add(integration)

	baseline := orZero(c.catalog.BaselineCost())
	implementation := orZero(c.catalog.ImplementationFee())
	total = total.Add(baseline).Add(implementation)

	others := decimal.Sum(endpoints, in.DeploymentCost, in.SupportCost, integration, baseline, implementation)

	return Quote{
		Total: total,
		Breakdown: Breakdown{
			Services:       total.Sub(others),
			Endpoints:      endpoints,
			Deployment:     in.DeploymentCost,
			Support:        in.SupportCost,
			Integration:    integration,
			Baseline:       baseline,
			Implementation: implementation,
		},
		Unpriced: unpriced,
	}
}
