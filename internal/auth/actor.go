package auth

import "github.com/google/uuid"

// Actor is the already-resolved identity and capability set for the caller.
// Authentication and role resolution happen upstream (SSO proxy); this
// service only consumes the booleans.
type Actor struct {
	UserID    uuid.UUID
	Username  string
	RoleLabel string

	// CanEvaluate permits editing DRAFT evaluations for visible employees.
	CanEvaluate bool
	// CanFinalize permits SUBMITTED→FINAL and FINAL→DRAFT transitions.
	CanFinalize bool
	// CanOverrideLock, together with an explicit override flag on the
	// request, permits mutating evaluations inside a closed period.
	CanOverrideLock bool
	// CanViewReporting gates the report and export endpoints.
	CanViewReporting bool
	// CanManageEmployees widens the visible employee set to everyone and
	// gates period open/close.
	CanManageEmployees bool
}
