package proposal

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/sells-group/proposal-cli/internal/model"
	"github.com/sells-group/proposal-cli/internal/pricing"
)

func TestExtractServices(t *testing.T) {
	t.Parallel()

	got := ExtractServices([]string{
		"Cloud Security: protect your data",
		"Network Security",
		"   : no name",
		"",
		"Compliance Management: audits",
	}, true)

	assert.Equal(t, []string{"Cloud Security", "Network Security", "Compliance Management"}, got.Names)
	assert.Equal(t, "Cloud Security, Network Security, and Compliance Management", got.FormattedList)
	assert.Equal(t, map[string]string{
		"Cloud Security":        "Yes",
		"Network Security":      "Yes",
		"Compliance Management": "Yes",
	}, got.Status)
}

func TestExtractServices_Empty(t *testing.T) {
	t.Parallel()

	got := ExtractServices(nil, true)
	assert.Empty(t, got.Names)
	assert.Equal(t, "", got.FormattedList)
	assert.Empty(t, got.Status)
}

func TestExtractServices_NoOxfordComma(t *testing.T) {
	t.Parallel()

	got := ExtractServices([]string{"A", "B", "C"}, false)
	assert.Equal(t, "A, B and C", got.FormattedList)
}

func TestExtractTier(t *testing.T) {
	t.Parallel()
	cat := pricing.DefaultCatalog()

	got := ExtractTier(strPtr("Basic Support: includes email support"), cat.Support)
	assert.Equal(t, "Basic Support", got.ShortLabel)
	assert.Equal(t, "includes email support", got.Description)
	assert.Equal(t, "Basic Support: includes email support", got.RawText)
	assert.True(t, got.Cost.Equal(decimal.NewFromInt(200)))
	assert.True(t, got.Priced)

	got = ExtractTier(strPtr("On-Premises"), cat.Deployment)
	assert.True(t, got.Cost.Equal(decimal.NewFromInt(5000)))
	assert.Equal(t, "", got.Description)
}

func TestExtractTier_Unpriced(t *testing.T) {
	t.Parallel()
	cat := pricing.DefaultCatalog()

	got := ExtractTier(strPtr("Platinum Support: 24/7"), cat.Support)
	assert.True(t, got.Cost.IsZero())
	assert.False(t, got.Priced)
	assert.Equal(t, "Platinum Support", got.ShortLabel)
}

func TestExtractTier_Missing(t *testing.T) {
	t.Parallel()
	cat := pricing.DefaultCatalog()

	got := ExtractTier(nil, cat.Deployment)
	assert.Equal(t, TierSelection{Cost: decimal.Zero}, got)
}

func TestExtractClient(t *testing.T) {
	t.Parallel()

	got := ExtractClient(&model.Submission{
		FirstName:   strPtr("jANE"),
		CompanyName: strPtr("acme security"),
	})
	assert.Equal(t, ClientInfo{FirstName: "Jane", CompanyName: "Acme Security"}, got)
	assert.Equal(t, ClientInfo{}, ExtractClient(nil))
}

func TestExtractEndpoints(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 25, ExtractEndpoints(&model.Submission{NumberOfEndpoints: strPtr("25 endpoints")}))
	assert.Equal(t, 0, ExtractEndpoints(&model.Submission{NumberOfEndpoints: strPtr("a few")}))
	assert.Equal(t, 0, ExtractEndpoints(&model.Submission{}))
	assert.Equal(t, 0, ExtractEndpoints(nil))
}

func TestRequiresIntegration(t *testing.T) {
	t.Parallel()

	assert.True(t, RequiresIntegration(&model.Submission{RequiresIntegrations: strPtr("Yes")}))
	assert.False(t, RequiresIntegration(&model.Submission{RequiresIntegrations: strPtr("yes")}))
	assert.False(t, RequiresIntegration(&model.Submission{RequiresIntegrations: strPtr("No")}))
	assert.False(t, RequiresIntegration(&model.Submission{}))
	assert.False(t, RequiresIntegration(nil))
}
