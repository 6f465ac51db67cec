package permission

// PermissionEnforcer answers policy checks and owns the user to role graph.
// Subjects and roles are external SIDs.
type PermissionEnforcer interface {
	Enforce(userID string, resource string, action string) (bool, error)
	AddPolicy(role string, resource string, action string) error
	RemovePolicy(role string, resource string, action string) error
	AddRoleForUser(userID string, role string) error
	DeleteRoleForUser(userID string, role string) error
	GetRolesForUser(userID string) ([]string, error)
	GetUsersForRole(role string) ([]string, error)
	HasRoleForUser(userID string, role string) (bool, error)
	LoadPolicy() error
}
