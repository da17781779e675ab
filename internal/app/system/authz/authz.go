// internal/app/system/authz/authz.go
package authz

import (
	"net/http"

	"github.com/agrimitra/agrimitra/internal/app/system/auth"
	"github.com/agrimitra/agrimitra/internal/app/system/roles"
)

// UserCtx returns the user's canonical role, name, roleId, and a found
// flag. If no user is present in context or the session role is not a
// known platform role, it returns "visitor", "", "", false. Failing
// closed here means ok=true always implies a valid, authenticated user
// with a recognized role.
func UserCtx(r *http.Request) (role roles.Role, name string, roleID string, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", "", false
	}
	normalized, known := roles.Normalize(user.Role)
	if !known {
		// Unrecognized role in session - fail closed.
		return "visitor", "", "", false
	}
	return normalized, user.Name, user.RoleID, true
}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == roles.Admin
}

// IsFarmer reports whether the current request's user is a farmer.
func IsFarmer(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == roles.Farmer
}

// IsTrader reports whether the current user is one of the trading roles
// (dealer, wholesaler, retailer) that move inventory requests.
func IsTrader(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && (role == roles.Dealer || role == roles.Wholesaler || role == roles.Retailer)
}

// IsExpert reports whether the current request's user is an agriculture expert.
func IsExpert(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == roles.AgricultureExpert
}

// IsOversight reports whether the current user is a government agency or
// NGO, the read-mostly oversight roles.
func IsOversight(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && (role == roles.GovernmentAgency || role == roles.NGO)
}
