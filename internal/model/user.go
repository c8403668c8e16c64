package model

import "time"

// Role distinguishes the three account types on the platform.
type Role string

const (
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// User represents a marketplace account: a tutor, a learner, or an
// operations admin.
type User struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	Bio          string    `json:"bio,omitempty"`
	Timezone     string    `json:"timezone"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LoginRequest is the payload for authentication.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// LoginResponse is returned after successful login.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// RegisterRequest is the payload for creating a teacher or student account.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Role     Role   `json:"role" binding:"required,oneof=teacher student"`
	Bio      string `json:"bio" binding:"omitempty,max=2000"`
	Timezone string `json:"timezone" binding:"omitempty,iana_tz"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// UpdateProfileRequest is the payload for editing the caller's own profile.
type UpdateProfileRequest struct {
	Name     string `json:"name" binding:"omitempty,min=2,max=100"`
	Bio      string `json:"bio" binding:"omitempty,max=2000"`
	Timezone string `json:"timezone" binding:"omitempty,iana_tz"`
}
