package auth

// Named capability strings checked by the authorisation guard in
// addition to roles. Permissions are stored per user and are
// independent of the role: an ADMIN without stock.delete cannot delete
// stock entries on routes that declare that permission.
const (
	PermMaterialCreate = "material.create"
	PermMaterialUpdate = "material.update"
	PermMaterialDelete = "material.delete"
	PermStockCreate    = "stock.create"
	PermStockUpdate    = "stock.update"
	PermStockDelete    = "stock.delete"
)

// AllPermissions lists every known capability string.
var AllPermissions = []string{
	PermMaterialCreate,
	PermMaterialUpdate,
	PermMaterialDelete,
	PermStockCreate,
	PermStockUpdate,
	PermStockDelete,
}

// IsKnownPermission returns true if perm is a recognised capability string.
func IsKnownPermission(perm string) bool {
	for _, p := range AllPermissions {
		if p == perm {
			return true
		}
	}
	return false
}

// DefaultPermissions returns the conventional starting permission set
// for a role. This is a convenience for account creation and seeding
// only; admins can grant or revoke individual permissions afterwards.
func DefaultPermissions(role Role) []string {
	switch role {
	case RoleAdmin:
		perms := make([]string, len(AllPermissions))
		copy(perms, AllPermissions)
		return perms
	case RoleWarehouseWorker:
		return []string{PermStockCreate, PermStockUpdate}
	default:
		return []string{}
	}
}
