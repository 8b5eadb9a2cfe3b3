package gate

// Role names. Stored as plain strings on the user row.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleResponsable Role = "responsable"
	RoleEditeur     Role = "editeur"
	RoleLecteur     Role = "lecteur"
	RoleCoach       Role = "coach"
)

// Roles lists every known role, for form selects and validation.
var Roles = []Role{RoleAdmin, RoleResponsable, RoleEditeur, RoleLecteur, RoleCoach}

var allCapabilities = []Capability{
	CapAdmin, CapDelete, CapEdit, CapManageCourses, CapManageAttendance,
	CapViewEquipment, CapManageAssignmentsCoach, CapViewCourses,
	CapManageAssignments, CapViewAssignments, CapView,
}

// matrix is the full permission table. Keep it data: adding a role or
// a capability must not require touching any handler.
var matrix = map[Role]map[Capability]bool{
	RoleAdmin: capSet(allCapabilities...),
	RoleResponsable: capSet(
		CapDelete, CapEdit, CapManageCourses, CapManageAttendance,
		CapViewEquipment, CapManageAssignmentsCoach, CapViewCourses,
		CapManageAssignments, CapViewAssignments, CapView,
	),
	RoleEditeur: capSet(
		CapEdit, CapViewEquipment, CapViewCourses,
		CapManageAssignments, CapViewAssignments, CapView,
	),
	RoleLecteur: capSet(
		CapViewEquipment, CapViewCourses, CapViewAssignments, CapView,
	),
	RoleCoach: capSet(
		CapManageCourses, CapManageAttendance, CapManageAssignmentsCoach,
		CapViewCourses, CapViewAssignments, CapView,
	),
}

func capSet(caps ...Capability) map[Capability]bool {
	m := make(map[Capability]bool, len(caps))
	for _, c := range caps {
		m[c] = true
	}
	return m
}

// Valid reports whether the role name is known.
func Valid(r Role) bool {
	_, ok := matrix[r]
	return ok
}

// Allows reports whether the role grants the capability. Unknown
// roles allow nothing.
func Allows(r Role, c Capability) bool {
	caps, ok := matrix[r]
	if !ok {
		return false
	}
	return caps[c]
}

// AllowsAny reports whether the role grants at least one of the
// capabilities. Used for routes reachable through alternative grants,
// like assignment creation (manage_assignments or the coach variant).
func AllowsAny(r Role, caps ...Capability) bool {
	for _, c := range caps {
		if Allows(r, c) {
			return true
		}
	}
	return false
}

// Capabilities returns the role's capability set, for display on the
// user admin page.
func Capabilities(r Role) []Capability {
	caps := matrix[r]
	out := make([]Capability, 0, len(caps))
	for _, c := range allCapabilities {
		if caps[c] {
			out = append(out, c)
		}
	}
	return out
}
