package registry

import (
	"context"
	"math"
	"os"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/proposal-cli/internal/pricing"
)

// FileSource reads catalog entries from a YAML or JSON file holding a list of
// {name, price, category} mappings.
type FileSource struct {
	path string
}

// NewFileSource creates a FileSource for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// FetchCatalog reads and decodes the catalog file.
func (s *FileSource) FetchCatalog(_ context.Context) (*pricing.Source, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, eris.Wrap(err, "registry: read catalog file")
	}
	src, err := DecodeCatalog(data)
	if err != nil {
		return nil, eris.Wrapf(err, "registry: decode catalog file %s", s.path)
	}
	return src, nil
}

// DecodeCatalog parses a YAML or JSON catalog document. A document whose top
// level is not a list yields a nil Source and no error; elements that are not
// mappings are skipped and fields of the wrong type are left unset.
func DecodeCatalog(data []byte) (*pricing.Source, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrap(err, "registry: parse catalog")
	}

	items, ok := doc.([]any)
	if !ok {
		return nil, nil
	}

	src := &pricing.Source{Entries: make([]pricing.Entry, 0, len(items))}
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		src.Entries = append(src.Entries, pricing.Entry{
			Name:     stringField(m["name"]),
			Price:    priceField(m["price"]),
			Category: stringField(m["category"]),
		})
	}
	return src, nil
}

func stringField(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return &s
}

func priceField(v any) *decimal.Decimal {
	var d decimal.Decimal
	switch n := v.(type) {
	case int:
		d = decimal.NewFromInt(int64(n))
	case int64:
		d = decimal.NewFromInt(n)
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return nil
		}
		d = decimal.NewFromFloat(n)
	default:
		return nil
	}
	return &d
}
