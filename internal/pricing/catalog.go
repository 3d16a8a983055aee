// Package pricing turns a raw price list into a Catalog and computes proposal
// totals against it.
package pricing

import (
	"maps"
	"strings"

	"github.com/shopspring/decimal"
)

// Category tags for priced catalog entries.
const (
	CategoryServices   = "SERVICES"
	CategorySupport    = "SUPPORT"
	CategoryDeployment = "DEPLOYMENT"
)

// Entry is one row of a raw catalog source. Any field may be missing.
type Entry struct {
	Name     *string
	Price    *decimal.Decimal
	Category *string
}

// Source is a catalog as delivered by a catalog source. A nil *Source means
// the source was absent or did not hold a list of entries.
type Source struct {
	Entries []Entry
}

// fee identifies one of the flat, uncategorized catalog prices.
type fee int

const (
	feeEndpointUnit fee = iota
	feeIntegration
	feeBaseline
	feeImplementation
)

// feeRules are evaluated in order against the lower-cased entry name; the
// first rule whose keyword is a substring wins.
var feeRules = []struct {
	keyword string
	target  fee
}{
	{"endpoint cost", feeEndpointUnit},
	{"integration fee", feeIntegration},
	{"core platform", feeBaseline},
	{"implementation fee", feeImplementation},
}

// Catalog is a resolved pricing table. It is never modified after Parse or
// DefaultCatalog returns it, so a single value may be shared between
// concurrent calculations.
type Catalog struct {
	services   map[string]decimal.Decimal
	support    map[string]decimal.Decimal
	deployment map[string]decimal.Decimal
	fees       [4]decimal.NullDecimal
}

func emptyCatalog() Catalog {
	return Catalog{
		services:   map[string]decimal.Decimal{},
		support:    map[string]decimal.Decimal{},
		deployment: map[string]decimal.Decimal{},
	}
}

// Parse builds a Catalog from src. Categorized entries go into their price
// map (last write wins); uncategorized entries are matched against the fee
// keywords. Unmatched entries and entries with a negative price are dropped.
// A nil src yields an empty catalog with every fee unset.
func Parse(src *Source) Catalog {
	c := emptyCatalog()
	if src == nil {
		return c
	}

	for _, e := range src.Entries {
		name := deref(e.Name)
		category := deref(e.Category)
		price := decimal.Zero
		if e.Price != nil {
			price = *e.Price
		}
		if price.IsNegative() {
			continue
		}

		switch category {
		case CategoryServices:
			c.services[name] = price
		case CategorySupport:
			c.support[name] = price
		case CategoryDeployment:
			c.deployment[name] = price
		default:
			lowered := strings.ToLower(name)
			for _, r := range feeRules {
				if strings.Contains(lowered, r.keyword) {
					c.fees[r.target] = decimal.NewNullDecimal(price)
					break
				}
			}
		}
	}
	return c
}

// Resolve returns the parsed src when the source delivered a list, and
// defaults otherwise. Partial catalogs are used as-is; missing categories are
// not filled in from defaults.
func Resolve(src *Source, defaults Catalog) Catalog {
	if src == nil {
		return defaults
	}
	return Parse(src)
}

// DefaultCatalog returns the built-in price list used when no catalog source
// is available.
func DefaultCatalog() Catalog {
	return Catalog{
		services: map[string]decimal.Decimal{
			"Threat Detection & Response": decimal.NewFromInt(600),
			"Cloud Security":              decimal.NewFromInt(500),
			"Compliance Management":       decimal.NewFromInt(1000),
			"Network Security":            decimal.NewFromInt(250),
			"Security Awareness Training": decimal.NewFromInt(200),
		},
		support: map[string]decimal.Decimal{
			"Basic Support":   decimal.NewFromInt(200),
			"Premium Support": decimal.NewFromInt(500),
		},
		deployment: map[string]decimal.Decimal{
			"Cloud-Based (SaaS)":       decimal.NewFromInt(1500),
			"Hybrid (Cloud + On-prem)": decimal.NewFromInt(1000),
			"On-Premises":              decimal.NewFromInt(5000),
		},
		fees: [4]decimal.NullDecimal{
			feeEndpointUnit:   decimal.NewNullDecimal(decimal.NewFromInt(5)),
			feeIntegration:    decimal.NewNullDecimal(decimal.NewFromInt(300)),
			feeBaseline:       decimal.NewNullDecimal(decimal.NewFromInt(1000)),
			feeImplementation: decimal.NewNullDecimal(decimal.NewFromInt(1200)),
		},
	}
}

// Service returns the price of a service and whether the catalog lists it.
func (c Catalog) Service(name string) (decimal.Decimal, bool) {
	p, ok := c.services[name]
	return p, ok
}

// Support returns the price of a support tier and whether the catalog lists it.
func (c Catalog) Support(name string) (decimal.Decimal, bool) {
	p, ok := c.support[name]
	return p, ok
}

// Deployment returns the price of a deployment model and whether the catalog lists it.
func (c Catalog) Deployment(name string) (decimal.Decimal, bool) {
	p, ok := c.deployment[name]
	return p, ok
}

// EndpointUnitCost is the price per endpoint; unset when no entry matched.
func (c Catalog) EndpointUnitCost() decimal.NullDecimal { return c.fees[feeEndpointUnit] }

// IntegrationFee is charged when the client needs integrations.
func (c Catalog) IntegrationFee() decimal.NullDecimal { return c.fees[feeIntegration] }

// BaselineCost is the core platform price charged on every proposal.
func (c Catalog) BaselineCost() decimal.NullDecimal { return c.fees[feeBaseline] }

// ImplementationFee is the one-off setup price charged on every proposal.
func (c Catalog) ImplementationFee() decimal.NullDecimal { return c.fees[feeImplementation] }

// Equal reports whether both catalogs hold the same prices.
func (c Catalog) Equal(o Catalog) bool {
	for i := range c.fees {
		a, b := c.fees[i], o.fees[i]
		if a.Valid != b.Valid || (a.Valid && !a.Decimal.Equal(b.Decimal)) {
			return false
		}
	}
	eq := func(a, b decimal.Decimal) bool { return a.Equal(b) }
	return maps.EqualFunc(c.services, o.services, eq) &&
		maps.EqualFunc(c.support, o.support, eq) &&
		maps.EqualFunc(c.deployment, o.deployment, eq)
}

// Table is a display copy of a Catalog with prices as plain numbers. Unset
// fees are nil.
type Table struct {
	Services          map[string]float64 `yaml:"services" json:"services"`
	Support           map[string]float64 `yaml:"support" json:"support"`
	Deployment        map[string]float64 `yaml:"deployment" json:"deployment"`
	EndpointUnitCost  *float64           `yaml:"endpoint_cost_per_unit" json:"endpoint_cost_per_unit"`
	IntegrationFee    *float64           `yaml:"integration_fee" json:"integration_fee"`
	BaselineCost      *float64           `yaml:"baseline_cost" json:"baseline_cost"`
	ImplementationFee *float64           `yaml:"implementation_fee" json:"implementation_fee"`
}

// Table copies the catalog into a Table.
func (c Catalog) Table() Table {
	prices := func(m map[string]decimal.Decimal) map[string]float64 {
		out := make(map[string]float64, len(m))
		for k, v := range m {
			out[k] = v.InexactFloat64()
		}
		return out
	}
	opt := func(n decimal.NullDecimal) *float64 {
		if !n.Valid {
			return nil
		}
		f := n.Decimal.InexactFloat64()
		return &f
	}
	return Table{
		Services:          prices(c.services),
		Support:           prices(c.support),
		Deployment:        prices(c.deployment),
		EndpointUnitCost:  opt(c.EndpointUnitCost()),
		IntegrationFee:    opt(c.IntegrationFee()),
		BaselineCost:      opt(c.BaselineCost()),
		ImplementationFee: opt(c.ImplementationFee()),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// orZero unwraps an optional fee, treating unset as 0.
func orZero(n decimal.NullDecimal) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	return n.Decimal
}
