package repository

import (
	"context"
	"errors"
	"fmt"

	"app/internal/model"

	"github.com/jackc/pgx/v5"
)

// ProfileRepository defines methods for accessing user profiles.
type ProfileRepository interface {
	Create(ctx context.Context, p *model.Principal) error
	GetByID(ctx context.Context, id string) (*model.Principal, error)
	GetByEmail(ctx context.Context, email string) (*model.Principal, error)
	List(ctx context.Context) ([]model.Principal, error)
	Update(ctx context.Context, p *model.Principal) error
	UpdatePassword(ctx context.Context, id string, hash []byte) error
	UpdatePlan(ctx context.Context, id string, plan model.Plan) error
	SetRole(ctx context.Context, id string, role model.Role) error
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

type profileRepo struct {
	db *DB
}

// NewProfileRepo creates a new ProfileRepository.
func NewProfileRepo(db *DB) ProfileRepository {
	return &profileRepo{db: db}
}

const profileColumns = `id, name, email, password_hash, role, grade, plan, is_active, created_at, updated_at`

func scanProfile(row pgx.Row, p *model.Principal) error {
	return row.Scan(
		&p.ID,
		&p.Name,
		&p.Email,
		&p.PasswordHash,
		&p.Role,
		&p.Grade,
		&p.Plan,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

// Create inserts a new profile and fills in the generated timestamps.
func (r *profileRepo) Create(ctx context.Context, p *model.Principal) error {
	const q = `
        INSERT INTO profiles (id, name, email, password_hash, role, grade, plan, is_active)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING created_at, updated_at
    `
	err := r.db.Pool.QueryRow(ctx, q,
		p.ID, p.Name, p.Email, p.PasswordHash, p.Role, p.Grade, p.Plan, p.IsActive,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create profile %s: %w", p.Email, ErrDuplicate)
		}
		return fmt.Errorf("create profile %s: %w", p.Email, err)
	}
	return nil
}

// GetByID retrieves a profile by its ID.
func (r *profileRepo) GetByID(ctx context.Context, id string) (*model.Principal, error) {
	const q = `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	var p model.Principal
	if err := scanProfile(r.db.Pool.QueryRow(ctx, q, id), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("fetch profile %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("fetch profile %s: %w", id, err)
	}
	return &p, nil
}

// GetByEmail retrieves a profile by email.
func (r *profileRepo) GetByEmail(ctx context.Context, email string) (*model.Principal, error) {
	const q = `SELECT ` + profileColumns + ` FROM profiles WHERE email = $1`
	var p model.Principal
	if err := scanProfile(r.db.Pool.QueryRow(ctx, q, email), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("fetch profile by email: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("fetch profile by email: %w", err)
	}
	return &p, nil
}

// List returns all profiles, newest first.
func (r *profileRepo) List(ctx context.Context) ([]model.Principal, error) {
	const q = `SELECT ` + profileColumns + ` FROM profiles ORDER BY created_at DESC, id`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	profiles := []model.Principal{}
	for rows.Next() {
		var p model.Principal
		if err := scanProfile(rows, &p); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return profiles, nil
}

// Update persists name and grade changes.
func (r *profileRepo) Update(ctx context.Context, p *model.Principal) error {
	const q = `
        UPDATE profiles
        SET name = $1, grade = $2, updated_at = NOW()
        WHERE id = $3
        RETURNING updated_at
    `
	err := r.db.Pool.QueryRow(ctx, q, p.Name, p.Grade, p.ID).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("update profile %s: %w", p.ID, ErrNotFound)
		}
		return fmt.Errorf("update profile %s: %w", p.ID, err)
	}
	return nil
}

// UpdatePassword replaces the stored password hash.
func (r *profileRepo) UpdatePassword(ctx context.Context, id string, hash []byte) error {
	const q = `UPDATE profiles SET password_hash = $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.db.Pool.Exec(ctx, q, hash, id)
	if err != nil {
		return fmt.Errorf("update password for %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update password for %s: %w", id, ErrNotFound)
	}
	return nil
}

// UpdatePlan switches the profile to the given plan.
func (r *profileRepo) UpdatePlan(ctx context.Context, id string, plan model.Plan) error {
	const q = `UPDATE profiles SET plan = $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.db.Pool.Exec(ctx, q, plan, id)
	if err != nil {
		return fmt.Errorf("update plan for %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update plan for %s: %w", id, ErrNotFound)
	}
	return nil
}

// SetRole changes the profile's role.
func (r *profileRepo) SetRole(ctx context.Context, id string, role model.Role) error {
	const q = `UPDATE profiles SET role = $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.db.Pool.Exec(ctx, q, role, id)
	if err != nil {
		return fmt.Errorf("set role for %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("set role for %s: %w", id, ErrNotFound)
	}
	return nil
}

// SetActive suspends or reactivates the profile.
func (r *profileRepo) SetActive(ctx context.Context, id string, active bool) error {
	const q = `UPDATE profiles SET is_active = $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.db.Pool.Exec(ctx, q, active, id)
	if err != nil {
		return fmt.Errorf("set active for %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("set active for %s: %w", id, ErrNotFound)
	}
	return nil
}

// Delete removes the profile.
func (r *profileRepo) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM profiles WHERE id = $1`
	tag, err := r.db.Pool.Exec(ctx, q, id)
	if err != nil {
		return fmt.Errorf("delete profile %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete profile %s: %w", id, ErrNotFound)
	}
	return nil
}
