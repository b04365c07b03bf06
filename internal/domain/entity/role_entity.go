package entity

// Role represents an authorization role carried on every account.
type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return true
	}
	return false
}

// CanTeach reports whether the role may publish courses.
func (r Role) CanTeach() bool {
	return r == RoleInstructor || r == RoleAdmin
}
