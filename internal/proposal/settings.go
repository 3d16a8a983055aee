// Package proposal derives proposal fields from a normalized submission and
// assembles the record handed to proposal rendering.
package proposal

import (
	"slices"
	"time"
)

// Risk tiers.
const (
	RiskHigh   = "High"
	RiskMedium = "Medium"
)

// RiskPolicy maps an industry to a risk tier.
type RiskPolicy struct {
	High    []string
	Default string
}

// DefaultRiskPolicy flags regulated industries as high risk.
func DefaultRiskPolicy() RiskPolicy {
	return RiskPolicy{
		High: []string{
			"Financial Services / FinTech",
			"Healthcare / Life Sciences",
			"Government / Public Sector",
		},
		Default: RiskMedium,
	}
}

// Level returns RiskHigh for a listed industry and the default tier for
// anything else, including a missing industry.
func (p RiskPolicy) Level(industry *string) string {
	if industry != nil && *industry != "" && slices.Contains(p.High, *industry) {
		return RiskHigh
	}
	return p.Default
}

// DatePolicy controls how proposal dates are rendered.
type DatePolicy struct {
	Layout    string
	ValidDays int
}

// DefaultDatePolicy renders full US dates ("October 19, 2026") with a
// one-week expiry.
func DefaultDatePolicy() DatePolicy {
	return DatePolicy{
		Layout:    "January 2, 2006",
		ValidDays: 7,
	}
}

// ProposalDates are the issue and expiry dates printed on a proposal.
type ProposalDates struct {
	Issued  string
	Expires string
}

// Dates renders now and the calendar day ValidDays later, in now's location.
func (p DatePolicy) Dates(now time.Time) ProposalDates {
	return ProposalDates{
		Issued:  now.Format(p.Layout),
		Expires: now.AddDate(0, 0, p.ValidDays).Format(p.Layout),
	}
}

// Settings bundles the policies Build needs.
type Settings struct {
	Risk  RiskPolicy
	Dates DatePolicy
	// OxfordComma controls the final separator of the services list.
	OxfordComma bool
}

// DefaultSettings returns the built-in proposal settings.
func DefaultSettings() Settings {
	return Settings{
		Risk:        DefaultRiskPolicy(),
		Dates:       DefaultDatePolicy(),
		OxfordComma: true,
	}
}
