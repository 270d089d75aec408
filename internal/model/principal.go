package model

import (
	"fmt"
	"time"
)

// Role classifies an authenticated principal. The set is closed; anything
// else is rejected at the boundary instead of falling through UI branches.
type Role string

const (
	RoleStudent   Role = "student"
	RoleAssistant Role = "assistant"
	RoleAdmin     Role = "admin"
)

// ParseRole validates a raw role value coming from the database or a request.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleStudent, RoleAssistant, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("invalid role: %q", s)
}

// Plan is the subscription tier gating how much content a student may access.
// It is only meaningful for students; other roles carry the default.
type Plan string

const (
	PlanFree Plan = "free"
	PlanPaid Plan = "paid"
)

// ParsePlan validates a raw plan value.
func ParsePlan(s string) (Plan, error) {
	switch Plan(s) {
	case PlanFree, PlanPaid:
		return Plan(s), nil
	}
	return "", fmt.Errorf("invalid plan: %q", s)
}

// Principal is a user profile mirrored alongside the auth credentials:
// role, plan and grade are attributes the identity layer does not model.
type Principal struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash []byte    `db:"password_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`
	Grade        *int      `db:"grade" json:"grade,omitempty"` // students only, 1-6
	Plan         Plan      `db:"plan" json:"plan"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

func (p *Principal) IsStudent() bool   { return p.Role == RoleStudent }
func (p *Principal) IsAssistant() bool { return p.Role == RoleAssistant }
func (p *Principal) IsAdmin() bool     { return p.Role == RoleAdmin }
