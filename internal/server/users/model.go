package users

import "time"

// Role is the account role stored with each user.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           int64
	Email        string
	Username     string
	FullName     string
	Role         Role
	IsActive     bool
	IsVerified   bool
	PasswordHash []byte
	CreatedAt    time.Time
}
