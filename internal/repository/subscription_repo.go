package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"app/internal/model"

	"github.com/jackc/pgx/v5"
)

// SubscriptionRepository defines methods for accessing subscription records.
type SubscriptionRepository interface {
	Get(ctx context.Context, userID string) (*model.Subscription, error)
	List(ctx context.Context) ([]model.Subscription, error)
	// Upsert creates or replaces the user's subscription row.
	Upsert(ctx context.Context, userID string, plan model.Plan, isPaid bool, expiry *time.Time) error
	Delete(ctx context.Context, userID string) error
}

type subscriptionRepo struct {
	db *DB
}

// NewSubscriptionRepo creates a new SubscriptionRepository.
func NewSubscriptionRepo(db *DB) SubscriptionRepository {
	return &subscriptionRepo{db: db}
}

// Get returns the user's subscription.
func (r *subscriptionRepo) Get(ctx context.Context, userID string) (*model.Subscription, error) {
	const q = `
        SELECT user_id, plan, is_paid, expiry_date, created_at, updated_at
        FROM subscriptions
        WHERE user_id = $1
    `
	var s model.Subscription
	err := r.db.Pool.QueryRow(ctx, q, userID).Scan(
		&s.UserID,
		&s.Plan,
		&s.IsPaid,
		&s.ExpiryDate,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("fetch subscription for user %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("fetch subscription for user %s: %w", userID, err)
	}
	return &s, nil
}

// List returns every subscription, soonest expiry first.
func (r *subscriptionRepo) List(ctx context.Context) ([]model.Subscription, error) {
	const q = `
        SELECT user_id, plan, is_paid, expiry_date, created_at, updated_at
        FROM subscriptions
        ORDER BY expiry_date NULLS LAST, user_id
    `
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	subs := []model.Subscription{}
	for rows.Next() {
		var s model.Subscription
		err := rows.Scan(&s.UserID, &s.Plan, &s.IsPaid, &s.ExpiryDate, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("list subscriptions: %w", err)
		}
		subs = append(subs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return subs, nil
}

// Upsert creates or replaces the user's subscription row.
func (r *subscriptionRepo) Upsert(ctx context.Context, userID string, plan model.Plan, isPaid bool, expiry *time.Time) error {
	const q = `
        INSERT INTO subscriptions (user_id, plan, is_paid, expiry_date, created_at, updated_at)
        VALUES ($1, $2, $3, $4, NOW(), NOW())
        ON CONFLICT (user_id) DO UPDATE
        SET plan = EXCLUDED.plan,
            is_paid = EXCLUDED.is_paid,
            expiry_date = EXCLUDED.expiry_date,
            updated_at = NOW()
    `
	if _, err := r.db.Pool.Exec(ctx, q, userID, plan, isPaid, expiry); err != nil {
		return fmt.Errorf("upsert subscription for user %s: %w", userID, err)
	}
	return nil
}

// Delete removes the user's subscription row.
func (r *subscriptionRepo) Delete(ctx context.Context, userID string) error {
	const q = `DELETE FROM subscriptions WHERE user_id = $1`
	if _, err := r.db.Pool.Exec(ctx, q, userID); err != nil {
		return fmt.Errorf("delete subscription for user %s: %w", userID, err)
	}
	return nil
}
