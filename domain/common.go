package domain

const (
	RoleResident   = "resident"
	RoleSupervisor = "supervisor"
	RoleAdmin      = "admin"
)

// IsElevated reports whether the role may run inspections and mutate other
// residents' bundles.
func IsElevated(role string) bool {
	return role == RoleSupervisor || role == RoleAdmin
}

var (
	MessageFailedBodyRequest    = "failed to process request body"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedAuth           = "authentication failed"
)
