package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID        int64     `json:"id" db:"id" example:"1"`
	Name      string    `json:"name" db:"name" example:"John Doe"`
	Email     string    `json:"email" db:"email" example:"student@college.edu"`
	Password  string    `json:"-" db:"password"` // bcrypt hash
	RoleType  RoleType  `json:"role" db:"role_type" example:"student"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u != nil && u.RoleType == RoleAdmin
}
