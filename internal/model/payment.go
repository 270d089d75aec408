package model

import (
	"fmt"
	"time"
)

// PaymentStatus is the review state of a payment submission.
type PaymentStatus string

const (
	PaymentPending       PaymentStatus = "pending"
	PaymentApproved      PaymentStatus = "approved"
	PaymentRejected      PaymentStatus = "rejected"
	PaymentNeedsRevision PaymentStatus = "needs_revision"
)

// ParsePaymentStatus validates a raw payment status value.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(s) {
	case PaymentPending, PaymentApproved, PaymentRejected, PaymentNeedsRevision:
		return PaymentStatus(s), nil
	}
	return "", fmt.Errorf("invalid payment status: %q", s)
}

// PaymentMethod is how the student declares they paid.
type PaymentMethod string

const (
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodSTCPay       PaymentMethod = "stcpay"
)

// ParsePaymentMethod validates a raw payment method value.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case MethodBankTransfer, MethodSTCPay:
		return PaymentMethod(s), nil
	}
	return "", fmt.Errorf("invalid payment method: %q", s)
}

// PaymentSubmission is a student-declared proof of payment awaiting an admin
// decision. An approved submission flips the submitter's plan to paid and
// extends their subscription.
type PaymentSubmission struct {
	ID            string        `db:"id" json:"id"`
	UserID        string        `db:"user_id" json:"user_id"`
	PayerName     string        `db:"payer_name" json:"payer_name"`
	PayerPhone    string        `db:"payer_phone" json:"payer_phone"`
	Amount        int           `db:"amount" json:"amount"` // declared, in whole currency units
	Method        PaymentMethod `db:"payment_method" json:"payment_method"`
	TransactionID string        `db:"transaction_id" json:"transaction_id,omitempty"`
	ReceiptURL    string        `db:"receipt_url" json:"receipt_url,omitempty"`
	Notes         string        `db:"notes" json:"notes,omitempty"`
	Status        PaymentStatus `db:"status" json:"status"`
	AdminFeedback string        `db:"admin_feedback" json:"admin_feedback,omitempty"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	ReviewedAt    *time.Time    `db:"reviewed_at" json:"reviewed_at,omitempty"`
}
