package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID           int64     `json:"id" db:"id" example:"1"`                                   // Unique identifier for the user
	Email        string    `json:"email" db:"email" example:"admin@qlgl.com"`                // User's email address
	Username     string    `json:"username" db:"username" example:"admin"`                   // Login name
	Password     string    `json:"-" db:"password"`                                          // Hashed password (excluded from JSON)
	FullName     string    `json:"fullName" db:"full_name" example:"Nguyễn Văn Admin"`       // Display name
	Role         UserRole  `json:"role" db:"role" example:"GIAO_LY_VIEN"`                    // User's role
	Phone        *string   `json:"phone,omitempty" db:"phone" example:"0987654321"`          // Contact phone (nullable)
	IsActive     bool      `json:"isActive" db:"is_active" example:"true"`                   // Whether the account is active
	RefreshToken *string   `json:"-" db:"refresh_token"`                                     // Bcrypt hash of the active refresh token (excluded from JSON)
	CreatedAt    time.Time `json:"createdAt" db:"created_at" example:"2024-01-01T10:00:00Z"` // Timestamp when the user was created
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at" example:"2024-01-02T15:30:00Z"` // Timestamp when the user was last updated
}
