package identity

import "github.com/google/uuid"

// Principal is the authenticated caller of a use case. The zero value is an
// anonymous caller.
type Principal struct {
	UserID      uuid.UUID
	Username    string
	IsStaff     bool
	Permissions []string
}

// IsAuthenticated reports whether the caller is logged in
func (p Principal) IsAuthenticated() bool {
	return p.UserID != uuid.Nil
}

// Can reports whether the caller holds a permission
func (p Principal) Can(permission string) bool {
	if p.IsStaff {
		return true
	}
	return HasPermission(p.Permissions, permission)
}
