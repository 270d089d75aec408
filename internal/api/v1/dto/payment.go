package dto

import "time"

// PaymentCreateDTO is used for incoming payment declarations
type PaymentCreateDTO struct {
	PayerName     string `json:"payer_name" validate:"required"`
	PayerPhone    string `json:"payer_phone,omitempty"`
	Amount        int    `json:"amount" validate:"required,gt=0"`
	Method        string `json:"payment_method" validate:"required,oneof=bank_transfer stcpay"`
	TransactionID string `json:"transaction_id,omitempty"`
	ReceiptURL    string `json:"receipt_url,omitempty" validate:"omitempty,url"`
	Notes         string `json:"notes,omitempty"`
}

// PaymentResponseDTO is returned in API responses for payment submissions
type PaymentResponseDTO struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	PayerName     string     `json:"payer_name"`
	PayerPhone    string     `json:"payer_phone,omitempty"`
	Amount        int        `json:"amount"`
	Method        string     `json:"payment_method"`
	TransactionID string     `json:"transaction_id,omitempty"`
	ReceiptURL    string     `json:"receipt_url,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	Status        string     `json:"status"`
	AdminFeedback string     `json:"admin_feedback,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`
}

// PaymentDecisionDTO carries a payment review decision
type PaymentDecisionDTO struct {
	Decision string `json:"decision" validate:"required,oneof=approved rejected needs_revision"`
	Feedback string `json:"feedback,omitempty"`
}

// SubscriptionResponseDTO is returned for subscription lookups
type SubscriptionResponseDTO struct {
	UserID     string     `json:"user_id"`
	Plan       string     `json:"plan"`
	IsPaid     bool       `json:"is_paid"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
	Active     bool       `json:"active"`
}
