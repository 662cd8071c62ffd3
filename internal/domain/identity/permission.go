package identity

// Permission codes checked by the HTTP layer
const (
	PermissionAll                  = "*"
	PermissionCatalogWrite         = "catalog:write"
	PermissionCustomersWrite       = "customers:write"
	PermissionCustomersViewHistory = "customers:view_history"
	PermissionOrdersManage         = "orders:manage"
	PermissionPollsManage          = "polls:manage"
	PermissionAdminAccess          = "admin:access"
	PermissionReportsRead          = "reports:read"
)

// KnownPermissions lists every grantable permission
var KnownPermissions = []string{
	PermissionCatalogWrite,
	PermissionCustomersWrite,
	PermissionCustomersViewHistory,
	PermissionOrdersManage,
	PermissionPollsManage,
	PermissionAdminAccess,
	PermissionReportsRead,
}

// IsKnownPermission reports whether code can be granted
func IsKnownPermission(code string) bool {
	if code == PermissionAll {
		return true
	}
	for _, p := range KnownPermissions {
		if p == code {
			return true
		}
	}
	return false
}

// HasPermission reports whether granted covers the required permission
func HasPermission(granted []string, required string) bool {
	for _, p := range granted {
		if p == PermissionAll || p == required {
			return true
		}
	}
	return false
}
