// Package gate implements the role based authorization checkpoint.
// Every request handler is guarded by a capability; the role to
// capability mapping is a static table, so evaluation is a pure
// lookup with no side effects and no error path.
package gate

// Capability is a named permission checked before an action executes.
type Capability string

const (
	CapAdmin                  Capability = "admin"
	CapDelete                 Capability = "delete"
	CapEdit                   Capability = "edit"
	CapManageCourses          Capability = "manage_courses"
	CapManageAttendance       Capability = "manage_attendance"
	CapViewEquipment          Capability = "view_equipment"
	CapManageAssignmentsCoach Capability = "manage_assignments_for_coach"
	CapViewCourses            Capability = "view_courses"
	CapManageAssignments      Capability = "manage_assignments"
	CapViewAssignments        Capability = "view_assignments"
	CapView                   Capability = "view"
)
