package models

// Role is an authority granted to an authenticated caller
type Role string

const (
	RoleUser  Role = "ROLE_USER"  // read access
	RoleAdmin Role = "ROLE_ADMIN" // write access
)

// HasRole reports whether roles contains role
func HasRole(roles []Role, role Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
