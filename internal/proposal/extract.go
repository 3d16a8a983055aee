package proposal

import (
	"github.com/shopspring/decimal"

	"github.com/sells-group/proposal-cli/internal/model"
	"github.com/sells-group/proposal-cli/internal/textutil"
)

// ServiceSelection is the set of services a client asked for.
type ServiceSelection struct {
	FormattedList string
	Names         []string
	// Status maps every selected service name to "Yes".
	Status map[string]string
}

// ExtractServices keeps the part of each answer before its colon and drops
// blank names. Duplicates are kept.
func ExtractServices(raw []string, oxford bool) ServiceSelection {
	names := make([]string, 0, len(raw))
	for _, item := range raw {
		if name := textutil.SplitLabel(item).Main; name != "" {
			names = append(names, name)
		}
	}

	status := make(map[string]string, len(names))
	for _, n := range names {
		status[n] = "Yes"
	}

	return ServiceSelection{
		FormattedList: textutil.JoinOxford(names, oxford),
		Names:         names,
		Status:        status,
	}
}

// TierSelection is a chosen support level or deployment model.
type TierSelection struct {
	ShortLabel  string
	Description string
	Cost        decimal.Decimal
	RawText     string
	// Priced is false when the catalog has no price for ShortLabel.
	Priced bool
}

// PriceLookup resolves a tier name to its catalog price.
type PriceLookup func(name string) (decimal.Decimal, bool)

// ExtractTier splits a "Tier: description" answer and prices the tier. A
// missing answer or an unpriced tier costs 0.
func ExtractTier(raw *string, lookup PriceLookup) TierSelection {
	text := model.Text(raw)
	label := textutil.SplitLabel(text)

	cost, ok := lookup(label.Main)
	if !ok {
		cost = decimal.Zero
	}

	return TierSelection{
		ShortLabel:  label.Main,
		Description: label.Sub,
		Cost:        cost,
		RawText:     text,
		Priced:      ok,
	}
}

// ClientInfo is the client's name and company, capitalized.
type ClientInfo struct {
	FirstName   string
	LastName    string
	CompanyName string
}

// ExtractClient capitalizes the client fields; missing fields become "".
func ExtractClient(sub *model.Submission) ClientInfo {
	if sub == nil {
		return ClientInfo{}
	}
	return ClientInfo{
		FirstName:   textutil.Capitalize(model.Text(sub.FirstName)),
		LastName:    textutil.Capitalize(model.Text(sub.LastName)),
		CompanyName: textutil.Capitalize(model.Text(sub.CompanyName)),
	}
}

// ExtractEndpoints reads the endpoint count, 0 when absent or unparseable.
func ExtractEndpoints(sub *model.Submission) int {
	if sub == nil {
		return 0
	}
	return textutil.FirstNumber(model.Text(sub.NumberOfEndpoints))
}

// RequiresIntegration reports whether the client answered exactly "Yes".
func RequiresIntegration(sub *model.Submission) bool {
	return sub != nil && model.Text(sub.RequiresIntegrations) == "Yes"
}
