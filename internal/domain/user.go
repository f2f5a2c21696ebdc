package domain

// Role identifies what a user is allowed to do
type Role string

// Roles known to the scoreboard
const (
	RoleAdministrator Role = "Administrator"
	RoleLeader        Role = "Leader"
	RoleMember        Role = "Member"
)

// Roles lists every valid role in display order
var Roles = []Role{RoleAdministrator, RoleLeader, RoleMember}

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// In reports whether r is contained in roles
func (r Role) In(roles []Role) bool {
	for _, role := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// User represents an account that can log in
type User struct {
	Username string `json:"username"`
	Password string `json:"-"` // bcrypt hash
	Role     Role   `json:"role"`
}

// CanManage reports whether the user may record events, contributions and accounts
func (u *User) CanManage() bool {
	return u.Role.In(ManagerRoles)
}

// ManagerRoles is the role set required for every mutating page
var ManagerRoles = []Role{RoleAdministrator, RoleLeader}
