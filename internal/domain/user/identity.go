// Package user defines identity entities for the NaijaReels client session.
package user

// Role identifies the access level granted to an authenticated user.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleVendor   Role = "vendor"
	RoleCustomer Role = "customer"
)

// Valid reports whether the role is one the backend can issue.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleVendor, RoleCustomer:
		return true
	}
	return false
}

// Identity is the profile of the signed-in user as returned by users/me.
// It is replaced wholesale on profile update, never mutated field-by-field.
type Identity struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Role     Role   `json:"role"`
	IsStaff  bool   `json:"is_staff"`
}

// Tokens is the access/refresh pair issued by auth/login and token/refresh.
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// LoginCredentials is the auth/login request payload.
type LoginCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration is the auth/register request payload.
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
}

// ProfileUpdate is the users/me PATCH payload. Empty fields are omitted.
type ProfileUpdate struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// PasswordChange is the users/me/change-password payload.
type PasswordChange struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}
