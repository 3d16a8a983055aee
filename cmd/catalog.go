package main

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/proposal-cli/internal/pricing"
)

var catalogFormat string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the resolved pricing catalog",
	Long:  "Fetches the pricing catalog from the configured source and prints it as the calculator sees it, after defaults are applied.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("catalog"); err != nil {
			return err
		}

		p, err := newPipeline(cfg, 0)
		if err != nil {
			return err
		}

		catalog, origin := p.Catalog(cmd.Context())
		return writeCatalog(cmd.OutOrStdout(), catalog, origin, catalogFormat)
	},
}

func init() {
	catalogCmd.Flags().StringVar(&catalogFormat, "format", "yaml", "output format: yaml or json")
	rootCmd.AddCommand(catalogCmd)
}

type catalogOutput struct {
	Origin  string        `yaml:"origin" json:"origin"`
	Catalog pricing.Table `yaml:"catalog" json:"catalog"`
}

func writeCatalog(w io.Writer, catalog pricing.Catalog, origin, format string) error {
	out := catalogOutput{Origin: origin, Catalog: catalog.Table()}

	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return eris.Wrap(err, "write catalog yaml")
		}
		return eris.Wrap(enc.Close(), "write catalog yaml")
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(out), "write catalog json")
	default:
		return eris.Errorf("unknown format %q", format)
	}
}
