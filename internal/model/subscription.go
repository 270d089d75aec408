package model

import "time"

// Subscription records a user's paid window. A nil ExpiryDate means no
// active paid window; the row is only meaningful while plan is paid.
type Subscription struct {
	UserID     string     `db:"user_id" json:"user_id"`
	Plan       Plan       `db:"plan" json:"plan"`
	IsPaid     bool       `db:"is_paid" json:"is_paid"`
	ExpiryDate *time.Time `db:"expiry_date" json:"expiry_date,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

// Active reports whether the paid window covers the given instant.
func (s *Subscription) Active(now time.Time) bool {
	return s.IsPaid && s.ExpiryDate != nil && s.ExpiryDate.After(now)
}
