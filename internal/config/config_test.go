package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 4, cfg.Batch.MaxConcurrent)
	assert.InDelta(t, 3.0, cfg.Notion.RateLimit, 0.001)
	assert.Equal(t, CatalogSourceNotion, cfg.Catalog.Source)
	assert.Equal(t, 3, cfg.Catalog.FetchAttempts)
	assert.Equal(t, 250, cfg.Catalog.FetchBackoffMs)
	assert.Equal(t, 20, cfg.Catalog.FetchTimeoutSecs)
	assert.Equal(t, "January 2, 2006", cfg.Proposal.DateLayout)
	assert.Equal(t, 7, cfg.Proposal.ValidityDays)
	assert.Equal(t, "Medium", cfg.Proposal.DefaultRiskLevel)
	assert.Len(t, cfg.Proposal.HighRiskIndustries, 3)
	assert.Contains(t, cfg.Proposal.HighRiskIndustries, "Healthcare / Life Sciences")
	assert.True(t, cfg.Proposal.OxfordComma)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
log:
  level: debug
  format: console
server:
  port: 9090
catalog:
  source: file
  file: pricing.yaml
proposal:
  validity_days: 14
  high_risk_industries:
    - Energy
intake:
  field_map:
    question_abc: companyName
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, CatalogSourceFile, cfg.Catalog.Source)
	assert.Equal(t, "pricing.yaml", cfg.Catalog.File)
	assert.Equal(t, 14, cfg.Proposal.ValidityDays)
	assert.Equal(t, []string{"Energy"}, cfg.Proposal.HighRiskIndustries)
	// viper lower-cases map keys
	assert.Equal(t, "companyName", cfg.Intake.FieldMap["question_abc"])
}

func TestLoadEnvOverride(t *testing.T) {
	chdirTemp(t)

	t.Setenv("PROPOSAL_NOTION_TOKEN", "secret_abc")
	t.Setenv("PROPOSAL_NOTION_CATALOG_DB", "db-123")
	t.Setenv("PROPOSAL_SERVER_PORT", "7070")
	t.Setenv("PROPOSAL_CATALOG_SOURCE", "none")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "secret_abc", cfg.Notion.Token)
	assert.Equal(t, "db-123", cfg.Notion.CatalogDB)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, CatalogSourceNone, cfg.Catalog.Source)
}

func TestLoadMalformedYAML(t *testing.T) {
	dir := chdirTemp(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log: [unclosed"), 0o644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func validDefaults() *Config {
	return &Config{
		Notion: NotionConfig{Token: "secret", CatalogDB: "db"},
		Catalog: CatalogConfig{
			Source:        CatalogSourceNotion,
			FetchAttempts: 3,
		},
		Proposal: ProposalConfig{
			DateLayout:   "January 2, 2006",
			ValidityDays: 7,
		},
		Server: ServerConfig{Port: 8080},
		Batch:  BatchConfig{MaxConcurrent: 4},
		Log:    LogConfig{Level: "info", Format: "json"},
	}
}

func TestValidate_Valid(t *testing.T) {
	for _, mode := range []string{"quote", "catalog", "serve"} {
		assert.NoError(t, validDefaults().Validate(mode), mode)
	}
}

func TestValidate_UnknownMode(t *testing.T) {
	err := validDefaults().Validate("bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown mode "bogus"`)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mode   string
		mutate func(*Config)
		want   string
	}{
		{
			name:   "file without path",
			mode:   "catalog",
			mutate: func(c *Config) { c.Catalog.Source = CatalogSourceFile },
			want:   "catalog.file is required",
		},
		{
			name:   "unknown source",
			mode:   "quote",
			mutate: func(c *Config) { c.Catalog.Source = "airtable" },
			want:   "catalog.source must be one of",
		},
		{
			name:   "zero validity",
			mode:   "quote",
			mutate: func(c *Config) { c.Proposal.ValidityDays = 0 },
			want:   "proposal.validity_days must be >= 1",
		},
		{
			name:   "empty date layout",
			mode:   "quote",
			mutate: func(c *Config) { c.Proposal.DateLayout = "" },
			want:   "proposal.date_layout is required",
		},
		{
			name:   "zero concurrency",
			mode:   "quote",
			mutate: func(c *Config) { c.Batch.MaxConcurrent = 0 },
			want:   "batch.max_concurrent must be between 1 and 64",
		},
		{
			name:   "bad port",
			mode:   "serve",
			mutate: func(c *Config) { c.Server.Port = 0 },
			want:   "server.port must be between 1 and 65535",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validDefaults()
			tt.mutate(cfg)
			err := cfg.Validate(tt.mode)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_PortIgnoredOutsideServe(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0
	assert.NoError(t, cfg.Validate("quote"))
}

func TestValidate_NoneSourceNeedsNothing(t *testing.T) {
	cfg := validDefaults()
	cfg.Catalog.Source = CatalogSourceNone
	cfg.Notion = NotionConfig{}
	assert.NoError(t, cfg.Validate("quote"))
}

func TestValidate_CollectsAll(t *testing.T) {
	cfg := validDefaults()
	cfg.Catalog.Source = CatalogSourceFile
	cfg.Proposal.ValidityDays = 0

	err := cfg.Validate("quote")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog.file")
	assert.Contains(t, err.Error(), "proposal.validity_days")
}

func TestValidate_NotionWithoutCredentials(t *testing.T) {
	cfg := validDefaults()
	cfg.Notion = NotionConfig{}
	assert.NoError(t, cfg.Validate("quote"))
}

func TestLoadDefaults_ValidWithoutConfig(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)
	for _, mode := range []string{"quote", "catalog", "serve"} {
		assert.NoError(t, cfg.Validate(mode), mode)
	}
}

func TestInitLogger(t *testing.T) {
	orig := zap.L()
	t.Cleanup(func() { zap.ReplaceGlobals(orig) })

	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.True(t, zap.L().Core().Enabled(zap.DebugLevel))

	require.NoError(t, InitLogger(LogConfig{Level: "warn", Format: "json"}))
	assert.False(t, zap.L().Core().Enabled(zap.InfoLevel))
}

func TestInitLogger_BadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "loud"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: parse log level")
}
