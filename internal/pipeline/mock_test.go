package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/proposal-cli/internal/pricing"
)

type mockCatalogSource struct {
	mock.Mock
}

func (m *mockCatalogSource) FetchCatalog(ctx context.Context) (*pricing.Source, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.Source), args.Error(1)
}
