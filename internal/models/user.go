package models

import "time"

// UserRole is the closed set of roles understood by the RBAC layer.
type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleInstructor UserRole = "instructor"
	RoleStudent    UserRole = "student"
)

// Valid reports whether the role is one of the known values.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleInstructor, RoleStudent:
		return true
	}
	return false
}

// User represents an application user stored in the users table.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	Username     string    `db:"username" json:"username"`
	FullName     string    `db:"full_name" json:"full_name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         UserRole  `db:"role" json:"role"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// IsActive reports whether the account may authenticate.
func (u *User) IsActive() bool {
	return u != nil && u.Active
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	if u == nil {
		return false
	}
	switch u.Role {
	case RoleAdmin:
		return true
	case RoleInstructor, RoleStudent:
		return false
	}
	return false
}

// IsInstructor reports whether the user may manage course content.
// Admins are implicitly instructors for authorization purposes.
func (u *User) IsInstructor() bool {
	if u == nil {
		return false
	}
	switch u.Role {
	case RoleAdmin, RoleInstructor:
		return true
	case RoleStudent:
		return false
	}
	return false
}
