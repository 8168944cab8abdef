package dto

import "github.com/yigit/placement/internal/app/models"

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Email    string          `json:"email" binding:"required,email" example:"student@college.edu"`
	Password string          `json:"password" binding:"required,min=6" example:"demo123"`
	Name     string          `json:"name" binding:"required,max=100" example:"John Doe"`
	Role     models.RoleType `json:"role" binding:"required,oneof=admin student" example:"student"`
}

// TokenResponse is returned by register and login
type TokenResponse struct {
	Token     string          `json:"token"`
	TokenType string          `json:"token_type" example:"Bearer"`
	ExpiresIn int64           `json:"expires_in" example:"86400"`
	UserID    int64           `json:"user_id" example:"1"`
	Name      string          `json:"name" example:"John Doe"`
	Email     string          `json:"email" example:"student@college.edu"`
	Role      models.RoleType `json:"role" example:"student"`
}

// UserResponse represents basic user information
type UserResponse struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Email string          `json:"email"`
	Role  models.RoleType `json:"role"`
}

// FromUser converts a models.User to a UserResponse
func FromUser(user *models.User) UserResponse {
	return UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.RoleType,
	}
}
