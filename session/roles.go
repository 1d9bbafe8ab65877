package session

import "electionwatch/models"

// Capability checks are pure functions of the role string. They gate
// what the client offers in its UI flow; the server enforces the real
// authorization on every request.

// CanCreateReports reports whether role may file reports.
func CanCreateReports(role string) bool {
	switch role {
	case models.RoleCitizen, models.RoleObserver, models.RoleAnalyst, models.RoleAdmin:
		return true
	}
	return false
}

// CanManageStations reports whether role may create or edit stations.
func CanManageStations(role string) bool {
	return role == models.RoleAdmin
}

// CanManageUsers reports whether role may administer user accounts.
func CanManageUsers(role string) bool {
	return role == models.RoleAdmin
}

// CanVerifyReports reports whether role may verify or close reports.
func CanVerifyReports(role string) bool {
	return role == models.RoleAdmin || role == models.RoleObserver
}

// CanViewAnalytics reports whether role may load the analyst dashboard.
func CanViewAnalytics(role string) bool {
	return role == models.RoleAnalyst || role == models.RoleAdmin
}
