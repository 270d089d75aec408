package dto

import "time"

// UserUpdateDTO is used for admin edits of a user account
type UserUpdateDTO struct {
	Name     *string `json:"name,omitempty"`
	Grade    *int    `json:"grade,omitempty" validate:"omitempty,min=1,max=6"`
	Role     *string `json:"role,omitempty" validate:"omitempty,oneof=student assistant admin"`
	Plan     *string `json:"plan,omitempty" validate:"omitempty,oneof=free paid"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// ContactCreateDTO is used for incoming contact form submissions
type ContactCreateDTO struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone,omitempty"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message" validate:"required"`
}

// ContactResponseDTO is returned for stored contact messages
type ContactResponseDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Subject   string    `json:"subject,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
