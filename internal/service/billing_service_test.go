package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"app/internal/model"
)

func payer() *model.Principal {
	grade := 3
	return &model.Principal{ID: "stu-1", Role: model.RoleStudent, Grade: &grade, Plan: model.PlanFree, IsActive: true}
}

func paymentDraft() PaymentDraft {
	return PaymentDraft{
		PayerName:  "Omar",
		PayerPhone: "0555",
		Amount:     99,
		Method:     model.MethodBankTransfer,
		ReceiptURL: "https://cdn/receipts/r1.png",
	}
}

func TestSubmitPaymentStartsPending(t *testing.T) {
	svc := NewBillingService(newFakePaymentRepo(), newFakeSubscriptionRepo(), testLogger())

	p, err := svc.SubmitPayment(context.Background(), payer(), paymentDraft())
	require.NoError(t, err)
	require.Equal(t, model.PaymentPending, p.Status)
	require.Equal(t, "stu-1", p.UserID)
	require.Nil(t, p.ReviewedAt)
}

func TestSubmitPaymentValidates(t *testing.T) {
	svc := NewBillingService(newFakePaymentRepo(), newFakeSubscriptionRepo(), testLogger())
	ctx := context.Background()

	d := paymentDraft()
	d.Amount = 0
	_, err := svc.SubmitPayment(ctx, payer(), d)
	require.Error(t, err)

	d = paymentDraft()
	d.Method = "paypal"
	_, err = svc.SubmitPayment(ctx, payer(), d)
	require.Error(t, err)
}

func TestReviewApprovalOpensPaidWindow(t *testing.T) {
	payments := newFakePaymentRepo()
	svc := NewBillingService(payments, newFakeSubscriptionRepo(), testLogger())
	ctx := context.Background()

	p, err := svc.SubmitPayment(ctx, payer(), paymentDraft())
	require.NoError(t, err)

	before := time.Now()
	reviewed, err := svc.Review(ctx, p.ID, model.PaymentApproved, "")
	require.NoError(t, err)
	require.Equal(t, model.PaymentApproved, reviewed.Status)
	require.NotNil(t, reviewed.ReviewedAt)

	require.Equal(t, 1, payments.approveCall.count)
	require.Equal(t, p.ID, payments.approveCall.id)
	require.Equal(t, "stu-1", payments.approveCall.userID)

	// Expiry is measured from the review, not the submission.
	want := before.Add(paidPlanDuration)
	require.WithinDuration(t, want, payments.approveCall.expiry, 5*time.Second)
}

func TestReviewNeedsRevisionRequiresFeedback(t *testing.T) {
	payments := newFakePaymentRepo()
	svc := NewBillingService(payments, newFakeSubscriptionRepo(), testLogger())
	ctx := context.Background()

	p, err := svc.SubmitPayment(ctx, payer(), paymentDraft())
	require.NoError(t, err)

	_, err = svc.Review(ctx, p.ID, model.PaymentNeedsRevision, "")
	require.ErrorIs(t, err, ErrFeedbackRequired)

	stored, err := payments.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, model.PaymentPending, stored.Status)

	reviewed, err := svc.Review(ctx, p.ID, model.PaymentNeedsRevision, "receipt unreadable")
	require.NoError(t, err)
	require.Equal(t, model.PaymentNeedsRevision, reviewed.Status)
	require.Equal(t, "receipt unreadable", reviewed.AdminFeedback)
}

func TestReviewFinalDecisionsAreSticky(t *testing.T) {
	payments := newFakePaymentRepo()
	svc := NewBillingService(payments, newFakeSubscriptionRepo(), testLogger())
	ctx := context.Background()

	p, err := svc.SubmitPayment(ctx, payer(), paymentDraft())
	require.NoError(t, err)
	_, err = svc.Review(ctx, p.ID, model.PaymentRejected, "not our account")
	require.NoError(t, err)

	// Repeating the same decision is a no-op.
	again, err := svc.Review(ctx, p.ID, model.PaymentRejected, "")
	require.NoError(t, err)
	require.Equal(t, model.PaymentRejected, again.Status)

	_, err = svc.Review(ctx, p.ID, model.PaymentApproved, "")
	require.ErrorIs(t, err, ErrAlreadyReviewed)
	require.Equal(t, 0, payments.approveCall.count)
}

func TestResubmitPaymentAfterRevisionRequest(t *testing.T) {
	payments := newFakePaymentRepo()
	svc := NewBillingService(payments, newFakeSubscriptionRepo(), testLogger())
	ctx := context.Background()
	user := payer()

	p, err := svc.SubmitPayment(ctx, user, paymentDraft())
	require.NoError(t, err)

	// Pending submissions cannot be resubmitted.
	_, err = svc.Resubmit(ctx, user, p.ID, paymentDraft())
	require.ErrorIs(t, err, ErrNotResubmittable)

	_, err = svc.Review(ctx, p.ID, model.PaymentNeedsRevision, "wrong amount")
	require.NoError(t, err)

	other := &model.Principal{ID: "stu-2", Role: model.RoleStudent, IsActive: true}
	_, err = svc.Resubmit(ctx, other, p.ID, paymentDraft())
	require.ErrorIs(t, err, ErrForbidden)

	d := paymentDraft()
	d.Amount = 120
	resubmitted, err := svc.Resubmit(ctx, user, p.ID, d)
	require.NoError(t, err)
	require.Equal(t, model.PaymentPending, resubmitted.Status)
	require.Empty(t, resubmitted.AdminFeedback)
	require.Nil(t, resubmitted.ReviewedAt)
	require.Equal(t, 120, resubmitted.Amount)
}

func TestUserServiceSetPlanKeepsSubscriptionInStep(t *testing.T) {
	profiles := newFakeProfileRepo()
	subs := newFakeSubscriptionRepo()
	require.NoError(t, profiles.Create(context.Background(), payer()))
	svc := NewUserService(profiles, subs, testLogger())
	ctx := context.Background()

	require.NoError(t, svc.SetPlan(ctx, "stu-1", model.PlanPaid))
	p, err := profiles.GetByID(ctx, "stu-1")
	require.NoError(t, err)
	require.Equal(t, model.PlanPaid, p.Plan)

	sub, err := subs.Get(ctx, "stu-1")
	require.NoError(t, err)
	require.True(t, sub.Active(time.Now()))

	require.NoError(t, svc.SetPlan(ctx, "stu-1", model.PlanFree))
	sub, err = subs.Get(ctx, "stu-1")
	require.NoError(t, err)
	require.False(t, sub.Active(time.Now()))
}

func TestListSubscriptions(t *testing.T) {
	subs := newFakeSubscriptionRepo()
	ctx := context.Background()
	expiry := time.Now().Add(24 * time.Hour)
	require.NoError(t, subs.Upsert(ctx, "stu-1", model.PlanPaid, true, &expiry))
	require.NoError(t, subs.Upsert(ctx, "stu-2", model.PlanFree, false, nil))

	svc := NewBillingService(newFakePaymentRepo(), subs, testLogger())
	listed, err := svc.ListSubscriptions(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 2)
}

func TestUserServiceSetRoleValidates(t *testing.T) {
	profiles := newFakeProfileRepo()
	require.NoError(t, profiles.Create(context.Background(), payer()))
	svc := NewUserService(profiles, newFakeSubscriptionRepo(), testLogger())

	require.Error(t, svc.SetRole(context.Background(), "stu-1", "superuser"))
	require.NoError(t, svc.SetRole(context.Background(), "stu-1", model.RoleAssistant))

	p, err := profiles.GetByID(context.Background(), "stu-1")
	require.NoError(t, err)
	require.Equal(t, model.RoleAssistant, p.Role)
}
