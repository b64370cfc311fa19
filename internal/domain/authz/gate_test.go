package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/NaijaReels/naijareels-go/internal/domain/user"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/session"
)

func sessionFor(role user.Role) session.Session {
	return session.Session{
		Authenticated: true,
		User:          &user.Identity{ID: 1, Username: "ade", Role: role},
	}
}

func TestCanAccessMatrix(t *testing.T) {
	anonymous := session.Session{}
	customer := sessionFor(user.RoleCustomer)
	vendor := sessionFor(user.RoleVendor)
	admin := sessionFor(user.RoleAdmin)

	cases := []struct {
		view                              View
		anonymous, customer, vendor, admin bool
	}{
		{ViewCatalog, true, true, true, true},
		{ViewMovieDetail, true, true, true, true},
		{ViewMyRentals, false, true, true, true},
		{ViewProfile, false, true, true, true},
		{ViewVendor, false, false, true, true},
		{ViewVendorRentals, false, false, true, true},
		{ViewCustomers, false, false, true, true},
		{ViewAdminUsers, false, false, false, true},
		{ViewAdminAnalytics, false, false, false, true},
	}

	for _, tc := range cases {
		t.Run(string(tc.view), func(t *testing.T) {
			assert.Equal(t, tc.anonymous, CanAccess(tc.view, anonymous), "anonymous")
			assert.Equal(t, tc.customer, CanAccess(tc.view, customer), "customer")
			assert.Equal(t, tc.vendor, CanAccess(tc.view, vendor), "vendor")
			assert.Equal(t, tc.admin, CanAccess(tc.view, admin), "admin")
		})
	}

	assert.Len(t, cases, len(Views()), "every view needs a row in the matrix")
}

func TestCanAccessUnknownViewDenied(t *testing.T) {
	assert.False(t, CanAccess(View("billing"), sessionFor(user.RoleAdmin)))
}

func TestCanAccessAuthenticatedWithoutIdentity(t *testing.T) {
	// A hydrated token pair whose profile fetch failed: tokens present, no
	// identity. Role-gated views stay closed, any-authenticated views open.
	s := session.Session{Authenticated: true}
	assert.True(t, CanAccess(ViewProfile, s))
	assert.False(t, CanAccess(ViewVendor, s))
	assert.False(t, CanAccess(ViewAdminUsers, s))
}
