package model

import "time"

// Role classifies a user account. Closed set: admin, user.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether the role is one of the recognized values.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Status is the account state. Closed set: active, inactive.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Valid reports whether the status is one of the recognized values.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// User is an account that can authenticate and, depending on role,
// manage documents or administer other accounts.
// PasswordHash is never serialized.
type User struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	PasswordHash    string     `json:"-"`
	Role            Role       `json:"role"`
	Status          Status     `json:"status"`
	EmailVerifiedAt *time.Time `json:"email_verified_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
