// internal/app/system/authz/roles.go
package authz

import (
	"net/http"

	"github.com/agrimitra/agrimitra/internal/app/system/roles"
)

// HasAnyRole reports whether the current request's user has any of the given roles.
// Returns false if no user is present (i.e., not signed in).
func HasAnyRole(r *http.Request, wanted ...string) bool {
	role, _, _, ok := UserCtx(r)
	if !ok {
		return false
	}
	for _, want := range wanted {
		if w, known := roles.Normalize(want); known && role == w {
			return true
		}
	}
	return false
}

// HasRole is a convenience wrapper for a single role.
func HasRole(r *http.Request, role string) bool {
	return HasAnyRole(r, role)
}

// Role returns the current user's canonical role and whether a user is present.
func Role(r *http.Request) (roles.Role, bool) {
	role, _, _, ok := UserCtx(r)
	return role, ok
}
