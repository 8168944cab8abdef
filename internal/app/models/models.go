package models

// RoleType defines the user role type
type RoleType string

const (
	RoleAdmin   RoleType = "admin"
	RoleStudent RoleType = "student"
)

// IsValid reports whether r is a known role
func (r RoleType) IsValid() bool {
	return r == RoleAdmin || r == RoleStudent
}
