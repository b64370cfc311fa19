// Package authz gates role-scoped views on the session's identity. The gate
// is a pure function over the session snapshot and a static per-view
// allow-list; it never touches cache or session state.
package authz

import (
	"github.com/NaijaReels/naijareels-go/internal/domain/user"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/session"
)

// View identifies a role-scoped surface of the client.
type View string

const (
	ViewCatalog        View = "catalog"
	ViewMovieDetail    View = "movie-detail"
	ViewMyRentals      View = "my-rentals"
	ViewProfile        View = "profile"
	ViewVendor         View = "vendor"
	ViewVendorRentals  View = "vendor-rentals"
	ViewCustomers      View = "customers"
	ViewAdminUsers     View = "admin-users"
	ViewAdminAnalytics View = "admin-analytics"
)

type policy struct {
	public           bool
	anyAuthenticated bool
	roles            []user.Role
}

// viewPolicies mirrors the route guards of the browser frontend: catalog and
// movie detail are public, rentals and profile need any authenticated user,
// vendor surfaces admit vendors and admins, admin surfaces admins only.
var viewPolicies = map[View]policy{
	ViewCatalog:        {public: true},
	ViewMovieDetail:    {public: true},
	ViewMyRentals:      {anyAuthenticated: true},
	ViewProfile:        {anyAuthenticated: true},
	ViewVendor:         {roles: []user.Role{user.RoleVendor, user.RoleAdmin}},
	ViewVendorRentals:  {roles: []user.Role{user.RoleVendor, user.RoleAdmin}},
	ViewCustomers:      {roles: []user.Role{user.RoleVendor, user.RoleAdmin}},
	ViewAdminUsers:     {roles: []user.Role{user.RoleAdmin}},
	ViewAdminAnalytics: {roles: []user.Role{user.RoleAdmin}},
}

// CanAccess reports whether the session may enter the view. It must be
// re-evaluated on every session change: a role changed by an admin elsewhere
// is only reflected once this client refreshes its profile.
func CanAccess(view View, s session.Session) bool {
	p, known := viewPolicies[view]
	if !known {
		return false
	}
	if p.public {
		return true
	}
	if !s.Authenticated {
		return false
	}
	if p.anyAuthenticated {
		return true
	}
	if s.User == nil {
		return false
	}
	for _, role := range p.roles {
		if s.User.Role == role {
			return true
		}
	}
	return false
}

// Views returns every known view, for diagnostics and tests.
func Views() []View {
	views := make([]View, 0, len(viewPolicies))
	for v := range viewPolicies {
		views = append(views, v)
	}
	return views
}
