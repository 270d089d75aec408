package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"app/internal/model"

	"github.com/jackc/pgx/v5"
)

// PaymentRepository defines methods for accessing payment submissions.
type PaymentRepository interface {
	Create(ctx context.Context, p *model.PaymentSubmission) error
	GetByID(ctx context.Context, id string) (*model.PaymentSubmission, error)
	ListByUser(ctx context.Context, userID string) ([]model.PaymentSubmission, error)
	ListAll(ctx context.Context) ([]model.PaymentSubmission, error)
	// Resubmit replaces the submission's details and returns it to the
	// pending state, clearing any reviewer feedback.
	Resubmit(ctx context.Context, p *model.PaymentSubmission) error
	// SetStatus records a non-approving review decision.
	SetStatus(ctx context.Context, id string, status model.PaymentStatus, feedback string) error
	// Approve marks the submission approved and, in the same transaction,
	// upgrades the payer's plan and extends their subscription to expiry.
	Approve(ctx context.Context, id, userID string, expiry time.Time) error
}

type paymentRepo struct {
	db *DB
}

// NewPaymentRepo creates a new PaymentRepository.
func NewPaymentRepo(db *DB) PaymentRepository {
	return &paymentRepo{db: db}
}

const paymentColumns = `id, user_id, payer_name, payer_phone, amount, payment_method, transaction_id, receipt_url, notes, status, admin_feedback, created_at, reviewed_at`

func scanPayment(row pgx.Row, p *model.PaymentSubmission) error {
	return row.Scan(
		&p.ID,
		&p.UserID,
		&p.PayerName,
		&p.PayerPhone,
		&p.Amount,
		&p.Method,
		&p.TransactionID,
		&p.ReceiptURL,
		&p.Notes,
		&p.Status,
		&p.AdminFeedback,
		&p.CreatedAt,
		&p.ReviewedAt,
	)
}

// Create inserts a new payment submission.
func (r *paymentRepo) Create(ctx context.Context, p *model.PaymentSubmission) error {
	const q = `
        INSERT INTO payment_submissions (id, user_id, payer_name, payer_phone, amount, payment_method, transaction_id, receipt_url, notes, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING created_at
    `
	err := r.db.Pool.QueryRow(ctx, q,
		p.ID, p.UserID, p.PayerName, p.PayerPhone, p.Amount, p.Method,
		p.TransactionID, p.ReceiptURL, p.Notes, p.Status,
	).Scan(&p.CreatedAt)
	if err != nil {
		return fmt.Errorf("create payment submission for user %s: %w", p.UserID, err)
	}
	return nil
}

// GetByID retrieves a payment submission by its ID.
func (r *paymentRepo) GetByID(ctx context.Context, id string) (*model.PaymentSubmission, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payment_submissions WHERE id = $1`
	var p model.PaymentSubmission
	if err := scanPayment(r.db.Pool.QueryRow(ctx, q, id), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("fetch payment submission %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("fetch payment submission %s: %w", id, err)
	}
	return &p, nil
}

func (r *paymentRepo) queryPayments(ctx context.Context, q string, args ...any) ([]model.PaymentSubmission, error) {
	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := []model.PaymentSubmission{}
	for rows.Next() {
		var p model.PaymentSubmission
		if err := scanPayment(rows, &p); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// ListByUser returns the user's own submissions, newest first.
func (r *paymentRepo) ListByUser(ctx context.Context, userID string) ([]model.PaymentSubmission, error) {
	const q = `
        SELECT ` + paymentColumns + `
        FROM payment_submissions
        WHERE user_id = $1
        ORDER BY created_at DESC, id
    `
	payments, err := r.queryPayments(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("list payment submissions for user %s: %w", userID, err)
	}
	return payments, nil
}

// ListAll returns every submission for the review queue, oldest pending first.
func (r *paymentRepo) ListAll(ctx context.Context) ([]model.PaymentSubmission, error) {
	const q = `
        SELECT ` + paymentColumns + `
        FROM payment_submissions
        ORDER BY (status = 'pending') DESC, created_at, id
    `
	payments, err := r.queryPayments(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list payment submissions: %w", err)
	}
	return payments, nil
}

// Resubmit replaces the submission's details and resets it to pending. The
// user_id guard keeps one user from resubmitting another's payment.
func (r *paymentRepo) Resubmit(ctx context.Context, p *model.PaymentSubmission) error {
	const q = `
        UPDATE payment_submissions
        SET payer_name = $1, payer_phone = $2, amount = $3, payment_method = $4,
            transaction_id = $5, receipt_url = $6, notes = $7,
            status = 'pending', admin_feedback = '', reviewed_at = NULL
        WHERE id = $8 AND user_id = $9
    `
	tag, err := r.db.Pool.Exec(ctx, q,
		p.PayerName, p.PayerPhone, p.Amount, p.Method,
		p.TransactionID, p.ReceiptURL, p.Notes, p.ID, p.UserID,
	)
	if err != nil {
		return fmt.Errorf("resubmit payment %s: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("resubmit payment %s: %w", p.ID, ErrNotFound)
	}
	return nil
}

// SetStatus records a rejection or a revision request.
func (r *paymentRepo) SetStatus(ctx context.Context, id string, status model.PaymentStatus, feedback string) error {
	const q = `
        UPDATE payment_submissions
        SET status = $1, admin_feedback = $2, reviewed_at = NOW()
        WHERE id = $3
    `
	tag, err := r.db.Pool.Exec(ctx, q, status, feedback, id)
	if err != nil {
		return fmt.Errorf("set status for payment %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("set status for payment %s: %w", id, ErrNotFound)
	}
	return nil
}

// Approve applies the full approval side effect atomically: the submission is
// marked approved, the payer's profile moves to the paid plan, and the
// subscription row is created or extended. Either all three land or none do.
func (r *paymentRepo) Approve(ctx context.Context, id, userID string, expiry time.Time) (err error) {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("approve payment %s: begin: %w", id, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			err = fmt.Errorf("approve payment %s: commit: %w", id, e)
		}
	}()

	const markApproved = `
        UPDATE payment_submissions
        SET status = 'approved', admin_feedback = '', reviewed_at = NOW()
        WHERE id = $1 AND user_id = $2
    `
	tag, err := tx.Exec(ctx, markApproved, id, userID)
	if err != nil {
		return fmt.Errorf("approve payment %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("approve payment %s: %w", id, ErrNotFound)
	}

	const upgradePlan = `UPDATE profiles SET plan = 'paid', updated_at = NOW() WHERE id = $1`
	if _, err = tx.Exec(ctx, upgradePlan, userID); err != nil {
		return fmt.Errorf("approve payment %s: upgrade plan: %w", id, err)
	}

	const upsertSub = `
        INSERT INTO subscriptions (user_id, plan, is_paid, expiry_date, created_at, updated_at)
        VALUES ($1, 'paid', TRUE, $2, NOW(), NOW())
        ON CONFLICT (user_id) DO UPDATE
        SET plan = EXCLUDED.plan,
            is_paid = EXCLUDED.is_paid,
            expiry_date = EXCLUDED.expiry_date,
            updated_at = NOW()
    `
	if _, err = tx.Exec(ctx, upsertSub, userID, expiry); err != nil {
		return fmt.Errorf("approve payment %s: upsert subscription: %w", id, err)
	}
	return nil
}
