package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"app/internal/model"
	"app/internal/repository"
)

// paidPlanDuration is how long one approved payment keeps the paid plan open.
const paidPlanDuration = 30 * 24 * time.Hour

// PaymentDraft carries the payer-editable fields of a payment submission.
type PaymentDraft struct {
	PayerName     string
	PayerPhone    string
	Amount        int
	Method        model.PaymentMethod
	TransactionID string
	ReceiptURL    string
	Notes         string
}

// BillingService owns the manual payment flow: students declare an offline
// payment, admins review it, and an approval opens a 30-day paid window.
type BillingService interface {
	SubmitPayment(ctx context.Context, caller *model.Principal, draft PaymentDraft) (*model.PaymentSubmission, error)
	// Resubmit replaces a needs_revision submission's details and returns
	// it to the review queue.
	Resubmit(ctx context.Context, caller *model.Principal, id string, draft PaymentDraft) (*model.PaymentSubmission, error)
	// Review records the admin's decision. Approval atomically upgrades the
	// payer's plan and extends their subscription from the review time.
	Review(ctx context.Context, id string, decision model.PaymentStatus, feedback string) (*model.PaymentSubmission, error)
	ListMine(ctx context.Context, caller *model.Principal) ([]model.PaymentSubmission, error)
	ListAll(ctx context.Context) ([]model.PaymentSubmission, error)
	GetSubscription(ctx context.Context, userID string) (*model.Subscription, error)
	ListSubscriptions(ctx context.Context) ([]model.Subscription, error)
}

type billingService struct {
	payments repository.PaymentRepository
	subs     repository.SubscriptionRepository
	now      func() time.Time
	logger   zerolog.Logger
}

// NewBillingService creates a new BillingService with a scoped logger.
func NewBillingService(payments repository.PaymentRepository, subs repository.SubscriptionRepository, logger zerolog.Logger) BillingService {
	return &billingService{
		payments: payments,
		subs:     subs,
		now:      time.Now,
		logger:   logger.With().Str("service", "BillingService").Logger(),
	}
}

func validatePaymentDraft(d PaymentDraft) error {
	if d.PayerName == "" {
		return fmt.Errorf("payer_name is required")
	}
	if d.Amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	if _, err := model.ParsePaymentMethod(string(d.Method)); err != nil {
		return err
	}
	return nil
}

// SubmitPayment records a declared payment in the pending state.
func (s *billingService) SubmitPayment(ctx context.Context, caller *model.Principal, draft PaymentDraft) (*model.PaymentSubmission, error) {
	if err := validatePaymentDraft(draft); err != nil {
		return nil, err
	}
	p := &model.PaymentSubmission{
		ID:            uuid.NewString(),
		UserID:        caller.ID,
		PayerName:     draft.PayerName,
		PayerPhone:    draft.PayerPhone,
		Amount:        draft.Amount,
		Method:        draft.Method,
		TransactionID: draft.TransactionID,
		ReceiptURL:    draft.ReceiptURL,
		Notes:         draft.Notes,
		Status:        model.PaymentPending,
	}
	if err := s.payments.Create(ctx, p); err != nil {
		s.logger.Error().Err(err).Str("user_id", caller.ID).Msg("Failed to submit payment")
		return nil, err
	}
	return p, nil
}

// Resubmit replaces a needs_revision submission and resets it to pending.
func (s *billingService) Resubmit(ctx context.Context, caller *model.Principal, id string, draft PaymentDraft) (*model.PaymentSubmission, error) {
	if err := validatePaymentDraft(draft); err != nil {
		return nil, err
	}
	p, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.UserID != caller.ID {
		return nil, ErrForbidden
	}
	if p.Status != model.PaymentNeedsRevision {
		return nil, ErrNotResubmittable
	}

	p.PayerName = draft.PayerName
	p.PayerPhone = draft.PayerPhone
	p.Amount = draft.Amount
	p.Method = draft.Method
	p.TransactionID = draft.TransactionID
	p.ReceiptURL = draft.ReceiptURL
	p.Notes = draft.Notes
	if err := s.payments.Resubmit(ctx, p); err != nil {
		s.logger.Error().Err(err).Str("payment_id", id).Msg("Failed to resubmit payment")
		return nil, err
	}
	p.Status = model.PaymentPending
	p.AdminFeedback = ""
	p.ReviewedAt = nil
	return p, nil
}

// Review records the admin's decision on a submission. Approved and rejected
// are final; needs_revision hands the submission back to the payer and must
// carry feedback explaining what to fix.
func (s *billingService) Review(ctx context.Context, id string, decision model.PaymentStatus, feedback string) (*model.PaymentSubmission, error) {
	switch decision {
	case model.PaymentApproved:
		feedback = ""
	case model.PaymentRejected:
	case model.PaymentNeedsRevision:
		if feedback == "" {
			return nil, ErrFeedbackRequired
		}
	default:
		return nil, fmt.Errorf("invalid decision: %q", decision)
	}

	p, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status == model.PaymentApproved || p.Status == model.PaymentRejected {
		if p.Status == decision {
			return p, nil
		}
		return nil, ErrAlreadyReviewed
	}

	if decision == model.PaymentApproved {
		expiry := s.now().Add(paidPlanDuration)
		if err := s.payments.Approve(ctx, id, p.UserID, expiry); err != nil {
			s.logger.Error().Err(err).Str("payment_id", id).Msg("Failed to approve payment")
			return nil, err
		}
	} else {
		if err := s.payments.SetStatus(ctx, id, decision, feedback); err != nil {
			s.logger.Error().Err(err).Str("payment_id", id).Str("decision", string(decision)).Msg("Failed to record payment decision")
			return nil, err
		}
	}
	now := s.now()
	p.Status = decision
	p.AdminFeedback = feedback
	p.ReviewedAt = &now
	return p, nil
}

// ListMine returns the caller's own submissions.
func (s *billingService) ListMine(ctx context.Context, caller *model.Principal) ([]model.PaymentSubmission, error) {
	return s.payments.ListByUser(ctx, caller.ID)
}

// ListAll returns every submission for the admin review queue.
func (s *billingService) ListAll(ctx context.Context) ([]model.PaymentSubmission, error) {
	return s.payments.ListAll(ctx)
}

// GetSubscription returns the user's subscription record.
func (s *billingService) GetSubscription(ctx context.Context, userID string) (*model.Subscription, error) {
	return s.subs.Get(ctx, userID)
}

func (s *billingService) ListSubscriptions(ctx context.Context) ([]model.Subscription, error) {
	subs, err := s.subs.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list subscriptions")
		return nil, err
	}
	return subs, nil
}
