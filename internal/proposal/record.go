package proposal

import (
	"strings"
	"time"

	"github.com/sells-group/proposal-cli/internal/model"
	"github.com/sells-group/proposal-cli/internal/pricing"
)

// Services with a dedicated Yes/No flag on the record.
const (
	ServiceThreatDetection   = "Threat Detection & Response"
	ServiceEndpointSecurity  = "Endpoint Security"
	ServiceDataEncryption    = "Data Encryption & Protection"
	ServiceCloudSecurity     = "Cloud Security"
	ServiceCompliance        = "Compliance Management"
	ServiceNetworkSecurity   = "Network Security"
	ServiceAwarenessTraining = "Security Awareness Training"
)

// Fallback strings for missing client fields.
const (
	FallbackFirstName = "Hi"
	FallbackFullName  = "Client"
	FallbackEmail     = "No email provided"
	FallbackCompany   = "No company name provided"
	FallbackWebsite   = "No website provided"
)

// CostBreakdown is the itemized total as rendered on the proposal.
type CostBreakdown struct {
	Services       float64 `json:"services"`
	Endpoints      float64 `json:"endpoints"`
	Deployment     float64 `json:"deployment"`
	Support        float64 `json:"support"`
	Integration    float64 `json:"integration"`
	Baseline       float64 `json:"baseline"`
	Implementation float64 `json:"implementation"`
}

// Record is the flat proposal record consumed by the proposal templates. The
// JSON field names and fallback strings are part of the template contract.
type Record struct {
	ClientFirstName      string `json:"clientFirstName"`
	ClientLastName       string `json:"clientLastName"`
	ClientFullName       string `json:"clientFullName"`
	ClientEmail          string `json:"clientEmail"`
	ClientCompanyName    string `json:"clientCompanyName"`
	ClientCompanyWebsite string `json:"clientCompanyWebsite"`

	ProposalDate    string `json:"proposalDate"`
	ProposalExpires string `json:"proposalExpires"`

	CompanySize       string `json:"companySize"`
	IndustryRiskLevel string `json:"industryRiskLevel"`
	Industry          string `json:"industry"`
	ComplianceSupport string `json:"complianceSupport"`

	ServicesRequested string `json:"servicesRequested"`

	SupportLevelShort       string  `json:"supportLevelShort"`
	SupportLevelLong        string  `json:"supportLevelLong"`
	SupportLevelDescription string  `json:"supportLevelDescription"`
	SupportLevelCost        float64 `json:"supportLevelCost"`

	DeploymentModelShort       string  `json:"deploymentModelShort"`
	DeploymentModelLong        string  `json:"deploymentModelLong"`
	DeploymentModelDescription string  `json:"deploymentModelDescription"`
	DeploymentCost             float64 `json:"deploymentCost"`

	NumberOfEndpoints    int     `json:"numberOfEndpoints"`
	EndpointTotalCost    float64 `json:"endpointTotalCost"`
	RequiresIntegrations string  `json:"requiresIntegrations"`

	TotalCost     float64       `json:"totalCost"`
	CostBreakdown CostBreakdown `json:"costBreakdown"`

	ThreatRequested     string `json:"threatRequested"`
	EndpointRequested   string `json:"endpointRequested"`
	EncryptionRequested string `json:"encryptionRequested"`
	CloudRequested      string `json:"cloudRequested"`
	ComplianceRequested string `json:"complianceRequested"`
	NetworkRequested    string `json:"networkRequested"`
	TrainingRequested   string `json:"trainingRequested"`
}

// Diagnostics lists selections that had no catalog price and were charged 0.
type Diagnostics struct {
	UnpricedServices   []string
	UnpricedSupport    string
	UnpricedDeployment string
}

// Empty reports whether every selection was priced.
func (d Diagnostics) Empty() bool {
	return len(d.UnpricedServices) == 0 && d.UnpricedSupport == "" && d.UnpricedDeployment == ""
}

// Build derives a proposal record from sub priced against catalog. now is
// the proposal issue instant. A nil sub produces a record made entirely of
// fallbacks and fixed fees.
func Build(sub *model.Submission, catalog pricing.Catalog, settings Settings, now time.Time) (Record, Diagnostics) {
	if sub == nil {
		sub = &model.Submission{}
	}

	client := ExtractClient(sub)
	dates := settings.Dates.Dates(now)
	services := ExtractServices(sub.ServicesRequested, settings.OxfordComma)
	support := ExtractTier(sub.SupportLevel, catalog.Support)
	deployment := ExtractTier(sub.DeploymentModel, catalog.Deployment)
	endpoints := ExtractEndpoints(sub)

	calc := pricing.NewCalculator(catalog)
	quote := calc.Total(pricing.CostInput{
		ServiceNames:        services.Names,
		Endpoints:           endpoints,
		DeploymentCost:      deployment.Cost,
		SupportCost:         support.Cost,
		RequiresIntegration: RequiresIntegration(sub),
	})

	rec := Record{
		ClientFirstName:      orDefault(client.FirstName, FallbackFirstName),
		ClientLastName:       client.LastName,
		ClientFullName:       orDefault(strings.TrimSpace(client.FirstName+" "+client.LastName), FallbackFullName),
		ClientEmail:          orDefault(model.Text(sub.ClientEmail), FallbackEmail),
		ClientCompanyName:    orDefault(client.CompanyName, FallbackCompany),
		ClientCompanyWebsite: orDefault(model.Text(sub.Website), FallbackWebsite),

		ProposalDate:    dates.Issued,
		ProposalExpires: dates.Expires,

		CompanySize:       model.Text(sub.CompanySize),
		IndustryRiskLevel: settings.Risk.Level(sub.Industry),
		Industry:          model.Text(sub.Industry),
		ComplianceSupport: model.Text(sub.ComplianceSupport),

		ServicesRequested: services.FormattedList,

		SupportLevelShort:       support.ShortLabel,
		SupportLevelLong:        support.RawText,
		SupportLevelDescription: support.Description,
		SupportLevelCost:        support.Cost.InexactFloat64(),

		DeploymentModelShort:       deployment.ShortLabel,
		DeploymentModelLong:        deployment.RawText,
		DeploymentModelDescription: deployment.Description,
		DeploymentCost:             deployment.Cost.InexactFloat64(),

		NumberOfEndpoints:    endpoints,
		EndpointTotalCost:    calc.EndpointCost(endpoints).InexactFloat64(),
		RequiresIntegrations: model.Text(sub.RequiresIntegrations),

		TotalCost: quote.Total.InexactFloat64(),
		CostBreakdown: CostBreakdown{
			Services:       quote.Breakdown.Services.InexactFloat64(),
			Endpoints:      quote.Breakdown.Endpoints.InexactFloat64(),
			Deployment:     quote.Breakdown.Deployment.InexactFloat64(),
			Support:        quote.Breakdown.Support.InexactFloat64(),
			Integration:    quote.Breakdown.Integration.InexactFloat64(),
			Baseline:       quote.Breakdown.Baseline.InexactFloat64(),
			Implementation: quote.Breakdown.Implementation.InexactFloat64(),
		},

		ThreatRequested:     requested(services, ServiceThreatDetection),
		EndpointRequested:   requested(services, ServiceEndpointSecurity),
		EncryptionRequested: requested(services, ServiceDataEncryption),
		CloudRequested:      requested(services, ServiceCloudSecurity),
		ComplianceRequested: requested(services, ServiceCompliance),
		NetworkRequested:    requested(services, ServiceNetworkSecurity),
		TrainingRequested:   requested(services, ServiceAwarenessTraining),
	}

	diag := Diagnostics{UnpricedServices: quote.Unpriced}
	if support.ShortLabel != "" && !support.Priced {
		diag.UnpricedSupport = support.ShortLabel
	}
	if deployment.ShortLabel != "" && !deployment.Priced {
		diag.UnpricedDeployment = deployment.ShortLabel
	}

	return rec, diag
}

func requested(s ServiceSelection, name string) string {
	if v, ok := s.Status[name]; ok {
		return v
	}
	return "No"
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
