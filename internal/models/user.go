package models

import (
	"time"

	"github.com/lib/pq"
)

// UserRole is one of the three club roles. There is no implied ordering between roles.
type UserRole string

const (
	RoleStudent          UserRole = "STUDENT"
	RoleSecretaryGeneral UserRole = "SECRETARY_GENERAL"
	RoleTeacher          UserRole = "TEACHER"
)

// Roles lists every assignable role.
var Roles = []UserRole{RoleStudent, RoleSecretaryGeneral, RoleTeacher}

// TrackedRoles are the roles whose lesson attendance is recorded.
var TrackedRoles = []UserRole{RoleStudent, RoleSecretaryGeneral}

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	for _, role := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Tracked reports whether attendance is recorded for r.
func (r UserRole) Tracked() bool {
	return r == RoleStudent || r == RoleSecretaryGeneral
}

// User is a club member. Accounts are provisioned by the sign-in provider.
// Attendance holds the ids of lessons the user attended and is derived from lesson_attendance.
type User struct {
	ID         string         `db:"id" json:"id"`
	Name       string         `db:"name" json:"name"`
	Email      *string        `db:"email" json:"email,omitempty"`
	Image      *string        `db:"image" json:"image,omitempty"`
	Role       UserRole       `db:"role" json:"role"`
	Attendance pq.StringArray `db:"attendance" json:"attendance" swaggertype:"array,string"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updated_at"`
}

// UserFilter narrows user listings.
type UserFilter struct {
	Roles []UserRole
}
