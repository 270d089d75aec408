package dto

import "time"

// RegisterDTO is used for incoming registration requests
type RegisterDTO struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Grade    *int   `json:"grade,omitempty" validate:"omitempty,min=1,max=6"`
}

// LoginDTO is used for incoming login requests
type LoginDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponseDTO is returned after a successful registration or login
type AuthResponseDTO struct {
	Token string     `json:"token"`
	User  ProfileDTO `json:"user"`
}

// ProfileDTO is the public shape of a user profile
type ProfileDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Grade     *int      `json:"grade,omitempty"`
	Plan      string    `json:"plan"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProfileUpdateDTO is used for self-service profile edits
type ProfileUpdateDTO struct {
	Name  *string `json:"name,omitempty"`
	Grade *int    `json:"grade,omitempty" validate:"omitempty,min=1,max=6"`
}

// ChangePasswordDTO is used to change the password while logged in
type ChangePasswordDTO struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

// ForgotPasswordDTO starts the password reset flow
type ForgotPasswordDTO struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordDTO completes the password reset flow
type ResetPasswordDTO struct {
	UID         string `json:"uid" validate:"required"`
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}
