package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"app/internal/model"
	"app/internal/repository"
)

func testLogger() zerolog.Logger { return zerolog.Nop() }

// fakeProfileRepo is an in-memory ProfileRepository.
type fakeProfileRepo struct {
	byID map[string]*model.Principal
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{byID: map[string]*model.Principal{}}
}

func (f *fakeProfileRepo) Create(_ context.Context, p *model.Principal) error {
	for _, existing := range f.byID {
		if existing.Email == p.Email {
			return fmt.Errorf("create profile: %w", repository.ErrDuplicate)
		}
	}
	cp := *p
	f.byID[p.ID] = &cp
	return nil
}

func (f *fakeProfileRepo) GetByID(_ context.Context, id string) (*model.Principal, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, fmt.Errorf("fetch profile: %w", repository.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfileRepo) GetByEmail(_ context.Context, email string) (*model.Principal, error) {
	for _, p := range f.byID {
		if p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("fetch profile: %w", repository.ErrNotFound)
}

func (f *fakeProfileRepo) List(_ context.Context) ([]model.Principal, error) {
	out := []model.Principal{}
	for _, p := range f.byID {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeProfileRepo) Update(_ context.Context, p *model.Principal) error {
	stored, ok := f.byID[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Name = p.Name
	stored.Grade = p.Grade
	return nil
}

func (f *fakeProfileRepo) UpdatePassword(_ context.Context, id string, hash []byte) error {
	p, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.PasswordHash = hash
	return nil
}

func (f *fakeProfileRepo) UpdatePlan(_ context.Context, id string, plan model.Plan) error {
	p, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Plan = plan
	return nil
}

func (f *fakeProfileRepo) SetRole(_ context.Context, id string, role model.Role) error {
	p, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Role = role
	return nil
}

func (f *fakeProfileRepo) SetActive(_ context.Context, id string, active bool) error {
	p, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.IsActive = active
	return nil
}

func (f *fakeProfileRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeContentRepo is an in-memory ContentRepository that preserves insertion
// order for deterministic listings.
type fakeContentRepo struct {
	items []*model.ContentItem
}

func newFakeContentRepo() *fakeContentRepo { return &fakeContentRepo{} }

func (f *fakeContentRepo) find(id string) *model.ContentItem {
	for _, it := range f.items {
		if it.ID == id {
			return it
		}
	}
	return nil
}

func (f *fakeContentRepo) Create(_ context.Context, item *model.ContentItem) error {
	cp := *item
	f.items = append(f.items, &cp)
	return nil
}

func (f *fakeContentRepo) GetByID(_ context.Context, id string) (*model.ContentItem, error) {
	if it := f.find(id); it != nil {
		cp := *it
		return &cp, nil
	}
	return nil, fmt.Errorf("fetch content item: %w", repository.ErrNotFound)
}

func (f *fakeContentRepo) BrowseApproved(_ context.Context, grade int, section model.Section, limit int) ([]model.ContentItem, error) {
	out := []model.ContentItem{}
	for _, it := range f.items {
		if it.Status != model.StatusApproved {
			continue
		}
		if grade != 0 && it.Grade != grade {
			continue
		}
		if section != "" && it.Section != section {
			continue
		}
		out = append(out, *it)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeContentRepo) ListByCreator(_ context.Context, creatorID string) ([]model.ContentItem, error) {
	out := []model.ContentItem{}
	for _, it := range f.items {
		if it.CreatedBy == creatorID {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (f *fakeContentRepo) ListForReview(_ context.Context) ([]model.ContentItem, error) {
	out := []model.ContentItem{}
	for _, it := range f.items {
		if it.Status == model.StatusPending || it.Status == model.StatusRefine {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (f *fakeContentRepo) ListAll(_ context.Context) ([]model.ContentItem, error) {
	out := []model.ContentItem{}
	for _, it := range f.items {
		out = append(out, *it)
	}
	return out, nil
}

func (f *fakeContentRepo) Update(_ context.Context, item *model.ContentItem) error {
	stored := f.find(item.ID)
	if stored == nil {
		return repository.ErrNotFound
	}
	*stored = *item
	return nil
}

func (f *fakeContentRepo) SetStatus(_ context.Context, id string, status model.ContentStatus, feedback string) error {
	stored := f.find(id)
	if stored == nil {
		return repository.ErrNotFound
	}
	stored.Status = status
	stored.AdminFeedback = feedback
	return nil
}

func (f *fakeContentRepo) Delete(_ context.Context, id string) error {
	for i, it := range f.items {
		if it.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// fakePaymentRepo is an in-memory PaymentRepository that records Approve calls.
type fakePaymentRepo struct {
	byID        map[string]*model.PaymentSubmission
	approveCall struct {
		id     string
		userID string
		expiry time.Time
		count  int
	}
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{byID: map[string]*model.PaymentSubmission{}}
}

func (f *fakePaymentRepo) Create(_ context.Context, p *model.PaymentSubmission) error {
	cp := *p
	f.byID[p.ID] = &cp
	return nil
}

func (f *fakePaymentRepo) GetByID(_ context.Context, id string) (*model.PaymentSubmission, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, fmt.Errorf("fetch payment submission: %w", repository.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (f *fakePaymentRepo) ListByUser(_ context.Context, userID string) ([]model.PaymentSubmission, error) {
	out := []model.PaymentSubmission{}
	for _, p := range f.byID {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) ListAll(_ context.Context) ([]model.PaymentSubmission, error) {
	out := []model.PaymentSubmission{}
	for _, p := range f.byID {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakePaymentRepo) Resubmit(_ context.Context, p *model.PaymentSubmission) error {
	stored, ok := f.byID[p.ID]
	if !ok || stored.UserID != p.UserID {
		return repository.ErrNotFound
	}
	*stored = *p
	stored.Status = model.PaymentPending
	stored.AdminFeedback = ""
	stored.ReviewedAt = nil
	return nil
}

func (f *fakePaymentRepo) SetStatus(_ context.Context, id string, status model.PaymentStatus, feedback string) error {
	p, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	now := time.Now()
	p.Status = status
	p.AdminFeedback = feedback
	p.ReviewedAt = &now
	return nil
}

func (f *fakePaymentRepo) Approve(_ context.Context, id, userID string, expiry time.Time) error {
	p, ok := f.byID[id]
	if !ok || p.UserID != userID {
		return repository.ErrNotFound
	}
	now := time.Now()
	p.Status = model.PaymentApproved
	p.AdminFeedback = ""
	p.ReviewedAt = &now
	f.approveCall.id = id
	f.approveCall.userID = userID
	f.approveCall.expiry = expiry
	f.approveCall.count++
	return nil
}

// fakeSubscriptionRepo is an in-memory SubscriptionRepository.
type fakeSubscriptionRepo struct {
	byUser map[string]*model.Subscription
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{byUser: map[string]*model.Subscription{}}
}

func (f *fakeSubscriptionRepo) Get(_ context.Context, userID string) (*model.Subscription, error) {
	s, ok := f.byUser[userID]
	if !ok {
		return nil, fmt.Errorf("fetch subscription: %w", repository.ErrNotFound)
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSubscriptionRepo) List(_ context.Context) ([]model.Subscription, error) {
	subs := []model.Subscription{}
	for _, s := range f.byUser {
		subs = append(subs, *s)
	}
	return subs, nil
}

func (f *fakeSubscriptionRepo) Upsert(_ context.Context, userID string, plan model.Plan, isPaid bool, expiry *time.Time) error {
	f.byUser[userID] = &model.Subscription{UserID: userID, Plan: plan, IsPaid: isPaid, ExpiryDate: expiry}
	return nil
}

func (f *fakeSubscriptionRepo) Delete(_ context.Context, userID string) error {
	delete(f.byUser, userID)
	return nil
}
