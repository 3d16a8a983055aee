package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Catalog source kinds.
const (
	CatalogSourceNotion = "notion"
	CatalogSourceFile   = "file"
	CatalogSourceNone   = "none"
)

// Config holds the full application configuration.
type Config struct {
	Notion   NotionConfig   `yaml:"notion" mapstructure:"notion"`
	Catalog  CatalogConfig  `yaml:"catalog" mapstructure:"catalog"`
	Proposal ProposalConfig `yaml:"proposal" mapstructure:"proposal"`
	Intake   IntakeConfig   `yaml:"intake" mapstructure:"intake"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Batch    BatchConfig    `yaml:"batch" mapstructure:"batch"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// NotionConfig holds Notion API credentials and the pricing database ID.
type NotionConfig struct {
	Token     string  `yaml:"token" mapstructure:"token"`
	CatalogDB string  `yaml:"catalog_db" mapstructure:"catalog_db"`
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// CatalogConfig selects where pricing comes from.
type CatalogConfig struct {
	Source           string `yaml:"source" mapstructure:"source"`
	File             string `yaml:"file" mapstructure:"file"`
	FetchAttempts    int    `yaml:"fetch_attempts" mapstructure:"fetch_attempts"`
	FetchBackoffMs   int    `yaml:"fetch_backoff_ms" mapstructure:"fetch_backoff_ms"`
	FetchTimeoutSecs int    `yaml:"fetch_timeout_secs" mapstructure:"fetch_timeout_secs"`
}

// ProposalConfig controls derived proposal fields.
type ProposalConfig struct {
	DateLayout         string   `yaml:"date_layout" mapstructure:"date_layout"`
	ValidityDays       int      `yaml:"validity_days" mapstructure:"validity_days"`
	Timezone           string   `yaml:"timezone" mapstructure:"timezone"`
	DefaultRiskLevel   string   `yaml:"default_risk_level" mapstructure:"default_risk_level"`
	HighRiskIndustries []string `yaml:"high_risk_industries" mapstructure:"high_risk_industries"`
	OxfordComma        bool     `yaml:"oxford_comma" mapstructure:"oxford_comma"`
}

// IntakeConfig adds or overrides form question key mappings.
type IntakeConfig struct {
	FieldMap map[string]string `yaml:"field_map" mapstructure:"field_map"`
}

// ServerConfig configures the webhook server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// BatchConfig configures batch quoting.
type BatchConfig struct {
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PROPOSAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("batch.max_concurrent", 4)
	v.SetDefault("notion.token", "")
	v.SetDefault("notion.catalog_db", "")
	v.SetDefault("notion.rate_limit", 3.0)
	v.SetDefault("catalog.source", CatalogSourceNotion)
	v.SetDefault("catalog.file", "")
	v.SetDefault("catalog.fetch_attempts", 3)
	v.SetDefault("catalog.fetch_backoff_ms", 250)
	v.SetDefault("catalog.fetch_timeout_secs", 20)
	v.SetDefault("proposal.date_layout", "January 2, 2006")
	v.SetDefault("proposal.validity_days", 7)
	v.SetDefault("proposal.timezone", "")
	v.SetDefault("proposal.default_risk_level", "Medium")
	v.SetDefault("proposal.high_risk_industries", []string{
		"Financial Services / FinTech",
		"Healthcare / Life Sciences",
		"Government / Public Sector",
	})
	v.SetDefault("proposal.oxford_comma", true)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command needs. mode is "quote", "catalog"
// or "serve". A notion source without credentials is not an error.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "quote", "catalog":
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, "server.port must be between 1 and 65535")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	switch c.Catalog.Source {
	case CatalogSourceNotion:
		// Missing credentials fall back to the built-in catalog at wiring time.
	case CatalogSourceFile:
		if c.Catalog.File == "" {
			errs = append(errs, "catalog.file is required for catalog.source=file")
		}
	case CatalogSourceNone:
	default:
		errs = append(errs, fmt.Sprintf("catalog.source must be one of notion, file, none (got %q)", c.Catalog.Source))
	}

	if c.Proposal.ValidityDays < 1 {
		errs = append(errs, "proposal.validity_days must be >= 1")
	}
	if c.Proposal.DateLayout == "" {
		errs = append(errs, "proposal.date_layout is required")
	}
	if c.Batch.MaxConcurrent < 1 || c.Batch.MaxConcurrent > 64 {
		errs = append(errs, "batch.max_concurrent must be between 1 and 64")
	}

	if len(errs) > 0 {
		return eris.New("config: " + strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
