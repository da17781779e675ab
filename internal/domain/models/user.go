// internal/domain/models/user.go
package models

import "time"

// User is the identity returned by the external auth service.
//
// NOTE:
//   - The auth service owns user records; this portal never writes them.
//   - RoleID is a secondary identifier (distinct from ID) that scopes a
//     role's own records in the inventory and admin services.
type User struct {
	ID       string `json:"id"`
	FullName string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"` // one of the nine platform roles
	RoleID   string `json:"roleId"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}
