package models

// Roles supplied by the identity collaborator.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Principal is the authenticated caller as asserted by the identity layer.
// The booking core trusts it and never authenticates on its own.
type Principal struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

// IsAdmin reports whether the principal carries the administrative role.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
