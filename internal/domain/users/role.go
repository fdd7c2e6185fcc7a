package users

// Role is the enumerated account type. Dashboards and route guards dispatch on
// these capability predicates instead of ad-hoc string checks.
type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
)

func ParseRole(s string) Role {
	switch Role(s) {
	case RoleInstructor:
		return RoleInstructor
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleStudent
	}
}

// CanEnroll reports whether the role may purchase and follow courses.
func (r Role) CanEnroll() bool {
	return r == RoleStudent || r == RoleAdmin
}

// CanTeach reports whether the role may create and manage courses.
func (r Role) CanTeach() bool {
	return r == RoleInstructor || r == RoleAdmin
}

// CanAdministrate gates the admin dashboards and coupon management.
func (r Role) CanAdministrate() bool {
	return r == RoleAdmin
}
