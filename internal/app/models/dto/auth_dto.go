package dto

import (
	"time"

	"github.com/qlgl/catechism-backend/internal/app/models"
)

// LoginRequest represents login credentials. Username accepts either the
// login name or the email address.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents a successful authentication result
type LoginResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Email    string          `json:"email" binding:"required,email"`
	Username string          `json:"username" binding:"required,min=3,max=50"`
	FullName string          `json:"fullName" binding:"required"`
	Password string          `json:"password" binding:"required,min=6"`
	Role     models.UserRole `json:"role,omitempty" binding:"omitempty,oneof=SUPER_ADMIN GIAO_XU_ADMIN GIAO_LY_VIEN"`
	Phone    *string         `json:"phone,omitempty"`
}

// RefreshTokenRequest represents refresh token request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// RefreshTokenResponse carries the newly issued access token. The refresh
// token is not rotated.
type RefreshTokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// UserResponse represents user information with credentials stripped
type UserResponse struct {
	ID        int64           `json:"id"`
	Email     string          `json:"email"`
	Username  string          `json:"username"`
	FullName  string          `json:"fullName"`
	Role      models.UserRole `json:"role"`
	Phone     *string         `json:"phone,omitempty"`
	IsActive  bool            `json:"isActive"`
	CreatedAt time.Time       `json:"createdAt"`
}

// NewUserResponse maps a user model to its sanitized response form.
func NewUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		FullName:  user.FullName,
		Role:      user.Role,
		Phone:     user.Phone,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}
}
