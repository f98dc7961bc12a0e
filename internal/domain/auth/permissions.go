package auth

import "context"

const (
	RoleEmployee    = "employee"
	RoleManager     = "manager"
	RoleHR          = "hr"
	RoleSystemAdmin = "system_admin"
)

const (
	PermPerformanceRead   = "performance.read"
	PermPerformanceWrite  = "performance.write"
	PermPerformanceReview = "performance.review"
	PermPIPManage         = "performance.pip"
	PermAuditRead         = "audit.read"
	PermJobsRun           = "admin.jobs"
)

var DefaultPermissions = []string{
	PermPerformanceRead,
	PermPerformanceWrite,
	PermPerformanceReview,
	PermPIPManage,
	PermAuditRead,
	PermJobsRun,
}

var RolePermissions = map[string][]string{
	RoleEmployee: {
		PermPerformanceRead,
		PermPerformanceWrite,
	},
	RoleManager: {
		PermPerformanceRead,
		PermPerformanceWrite,
		PermPerformanceReview,
		PermPIPManage,
	},
	RoleHR: {
		PermPerformanceRead,
		PermPerformanceWrite,
		PermPerformanceReview,
		PermPIPManage,
		PermAuditRead,
	},
	RoleSystemAdmin: {
		PermAuditRead,
		PermJobsRun,
	},
}

// StaticPermissions answers permission checks from RolePermissions.
type StaticPermissions struct{}

func (StaticPermissions) HasPermission(_ context.Context, role, permission string) (bool, error) {
	for _, p := range RolePermissions[role] {
		if p == permission {
			return true, nil
		}
	}
	return false, nil
}
