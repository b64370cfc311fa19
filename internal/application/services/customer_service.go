package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/NaijaReels/naijareels-go/internal/domain/catalog"
	"github.com/NaijaReels/naijareels-go/internal/domain/user"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/caching/manager"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/caching/types"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/transport"
)

// CustomerService serves the vendor-facing customer directory.
type CustomerService struct {
	gateway *transport.Gateway
	cache   *manager.Manager
}

// NewCustomerService creates a new customer application service.
func NewCustomerService(gateway *transport.Gateway, cache *manager.Manager) *CustomerService {
	return &CustomerService{gateway: gateway, cache: cache}
}

// List returns one page of customer accounts.
func (s *CustomerService) List(ctx context.Context, page int) (*catalog.Paginated[user.Identity], error) {
	if page < 1 {
		page = 1
	}
	return cacheRead(ctx, s.cache, types.CustomersKey(page), []types.Tag{types.TagCustomers},
		func(ctx context.Context) (*catalog.Paginated[user.Identity], []types.Tag, error) {
			query := url.Values{}
			query.Set("page", fmt.Sprint(page))

			var result catalog.Paginated[user.Identity]
			err := s.gateway.DoJSON(ctx, transport.Spec{
				Method:       http.MethodGet,
				Path:         "customers/",
				Query:        query,
				RequiresAuth: true,
			}, &result)
			if err != nil {
				return nil, nil, err
			}
			return &result, nil, nil
		})
}
