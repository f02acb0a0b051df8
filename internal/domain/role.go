package domain

// Role is the privilege level stored on a user document. There are
// exactly two; anything else is rejected at the edge.
type Role string

const (
	RoleUser          Role = "User"
	RoleAdministrator Role = "Administrator"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdministrator
}

func (r Role) String() string { return string(r) }
