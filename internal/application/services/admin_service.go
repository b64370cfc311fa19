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

// AdminService covers the admin-only surface: user administration and the
// system analytics dashboard.
type AdminService struct {
	gateway *transport.Gateway
	cache   *manager.Manager
}

// NewAdminService creates a new admin application service.
func NewAdminService(gateway *transport.Gateway, cache *manager.Manager) *AdminService {
	return &AdminService{gateway: gateway, cache: cache}
}

// Users returns one page of all accounts.
func (s *AdminService) Users(ctx context.Context, page int) (*catalog.Paginated[user.Identity], error) {
	if page < 1 {
		page = 1
	}
	return cacheRead(ctx, s.cache, types.AdminUsersKey(page), []types.Tag{types.TagAdminUsers},
		func(ctx context.Context) (*catalog.Paginated[user.Identity], []types.Tag, error) {
			query := url.Values{}
			query.Set("page", fmt.Sprint(page))

			var result catalog.Paginated[user.Identity]
			err := s.gateway.DoJSON(ctx, transport.Spec{
				Method:       http.MethodGet,
				Path:         "admin/users/",
				Query:        query,
				RequiresAuth: true,
			}, &result)
			if err != nil {
				return nil, nil, err
			}
			return &result, nil, nil
		})
}

// UpdateUserRole changes an account's role and invalidates the user list.
func (s *AdminService) UpdateUserRole(ctx context.Context, userID int, role user.Role) (*user.Identity, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q: %w", role, transport.ErrValidation)
	}

	var updated user.Identity
	err := s.gateway.DoJSON(ctx, transport.Spec{
		Method:       http.MethodPatch,
		Path:         fmt.Sprintf("admin/users/%d/", userID),
		Body:         map[string]string{"role": string(role)},
		RequiresAuth: true,
	}, &updated)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(MutationTags(MutationUserRoleUpdate, 0)...)
	return &updated, nil
}

// DeleteUser removes an account and invalidates the user list.
func (s *AdminService) DeleteUser(ctx context.Context, userID int) error {
	_, err := s.gateway.Do(ctx, transport.Spec{
		Method:       http.MethodDelete,
		Path:         fmt.Sprintf("admin/users/%d/", userID),
		RequiresAuth: true,
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(MutationTags(MutationUserDelete, 0)...)
	return nil
}

// Analytics returns the system-wide analytics snapshot.
func (s *AdminService) Analytics(ctx context.Context) (*catalog.SystemAnalytics, error) {
	return cacheRead(ctx, s.cache, types.AnalyticsKey(), []types.Tag{types.TagSystemAnalytics},
		func(ctx context.Context) (*catalog.SystemAnalytics, []types.Tag, error) {
			var result catalog.SystemAnalytics
			err := s.gateway.DoJSON(ctx, transport.Spec{
				Method:       http.MethodGet,
				Path:         "admin/analytics/",
				RequiresAuth: true,
			}, &result)
			if err != nil {
				return nil, nil, err
			}
			return &result, nil, nil
		})
}
