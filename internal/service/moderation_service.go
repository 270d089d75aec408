package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"app/internal/model"
	"app/internal/repository"
)

// ContentDraft carries the author-editable fields of a content item.
type ContentDraft struct {
	Title       string
	Section     model.Section
	Grade       int
	DownloadURL string
}

// ModerationService owns the content lifecycle: submission, the review
// decision, and resubmission after a refine request.
type ModerationService interface {
	// Submit creates an item in the pending state on behalf of an assistant.
	Submit(ctx context.Context, caller *model.Principal, draft ContentDraft) (*model.ContentItem, error)
	// CreateApproved creates an item that skips review. Admin only.
	CreateApproved(ctx context.Context, caller *model.Principal, draft ContentDraft) (*model.ContentItem, error)
	// Decide records the admin's decision. Approving an already-approved
	// item is a no-op; any other transition out of a final state fails.
	Decide(ctx context.Context, id string, decision model.ContentStatus, feedback string) (*model.ContentItem, error)
	// Resubmit lets the original author replace a refine-flagged item's
	// fields and return it to the review queue.
	Resubmit(ctx context.Context, caller *model.Principal, id string, draft ContentDraft) (*model.ContentItem, error)
	Update(ctx context.Context, caller *model.Principal, id string, draft ContentDraft) (*model.ContentItem, error)
	Delete(ctx context.Context, caller *model.Principal, id string) error
	Get(ctx context.Context, id string) (*model.ContentItem, error)
	ListMine(ctx context.Context, caller *model.Principal) ([]model.ContentItem, error)
	ReviewQueue(ctx context.Context) ([]model.ContentItem, error)
	ListAll(ctx context.Context) ([]model.ContentItem, error)
}

type moderationService struct {
	repo   repository.ContentRepository
	logger zerolog.Logger
}

// NewModerationService creates a new ModerationService with a scoped logger.
func NewModerationService(repo repository.ContentRepository, logger zerolog.Logger) ModerationService {
	return &moderationService{
		repo:   repo,
		logger: logger.With().Str("service", "ModerationService").Logger(),
	}
}

func validateDraft(d ContentDraft) error {
	if d.Title == "" {
		return fmt.Errorf("title is required")
	}
	if _, err := model.ParseSection(string(d.Section)); err != nil {
		return err
	}
	if !model.ValidGrade(d.Grade) {
		return fmt.Errorf("grade %d out of range", d.Grade)
	}
	if d.DownloadURL == "" {
		return fmt.Errorf("download_url is required")
	}
	return nil
}

// Submit creates a pending item attributed to the caller.
func (s *moderationService) Submit(ctx context.Context, caller *model.Principal, draft ContentDraft) (*model.ContentItem, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}
	item := &model.ContentItem{
		ID:          uuid.NewString(),
		Title:       draft.Title,
		Section:     draft.Section,
		Grade:       draft.Grade,
		DownloadURL: draft.DownloadURL,
		Status:      model.StatusPending,
		CreatedBy:   caller.ID,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		s.logger.Error().Err(err).Str("user_id", caller.ID).Msg("Failed to submit content")
		return nil, err
	}
	return item, nil
}

// CreateApproved creates an item directly in the approved state, attributed
// to the admin who uploaded it.
func (s *moderationService) CreateApproved(ctx context.Context, caller *model.Principal, draft ContentDraft) (*model.ContentItem, error) {
	if !caller.IsAdmin() {
		return nil, ErrForbidden
	}
	if err := validateDraft(draft); err != nil {
		return nil, err
	}
	item := &model.ContentItem{
		ID:          uuid.NewString(),
		Title:       draft.Title,
		Section:     draft.Section,
		Grade:       draft.Grade,
		DownloadURL: draft.DownloadURL,
		Status:      model.StatusApproved,
		CreatedBy:   caller.ID,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		s.logger.Error().Err(err).Str("user_id", caller.ID).Msg("Failed to create approved content")
		return nil, err
	}
	return item, nil
}

// Decide records a moderation decision. Feedback is validated before any
// write so an invalid refine never leaves partial state behind.
func (s *moderationService) Decide(ctx context.Context, id string, decision model.ContentStatus, feedback string) (*model.ContentItem, error) {
	switch decision {
	case model.StatusApproved, model.StatusDeclined:
		feedback = ""
	case model.StatusRefine:
		if feedback == "" {
			return nil, ErrFeedbackRequired
		}
	default:
		return nil, fmt.Errorf("invalid decision: %q", decision)
	}

	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.Status.Terminal() {
		if item.Status == decision {
			return item, nil
		}
		return nil, ErrTerminalStatus
	}

	if err := s.repo.SetStatus(ctx, id, decision, feedback); err != nil {
		s.logger.Error().Err(err).Str("content_id", id).Str("decision", string(decision)).Msg("Failed to record decision")
		return nil, err
	}
	item.Status = decision
	item.AdminFeedback = feedback
	return item, nil
}

// Resubmit replaces a refine-flagged item's fields and returns it to pending,
// clearing the reviewer's feedback.
func (s *moderationService) Resubmit(ctx context.Context, caller *model.Principal, id string, draft ContentDraft) (*model.ContentItem, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.CreatedBy != caller.ID {
		return nil, ErrForbidden
	}
	if item.Status != model.StatusRefine {
		return nil, ErrNotResubmittable
	}

	item.Title = draft.Title
	item.Section = draft.Section
	item.Grade = draft.Grade
	item.DownloadURL = draft.DownloadURL
	item.Status = model.StatusPending
	item.AdminFeedback = ""
	if err := s.repo.Update(ctx, item); err != nil {
		s.logger.Error().Err(err).Str("content_id", id).Msg("Failed to resubmit content")
		return nil, err
	}
	return item, nil
}

// Update edits an item's descriptive fields. Admins may edit anything;
// authors may only edit their own items while still under review.
func (s *moderationService) Update(ctx context.Context, caller *model.Principal, id string, draft ContentDraft) (*model.ContentItem, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() {
		if item.CreatedBy != caller.ID || item.Status.Terminal() {
			return nil, ErrForbidden
		}
	}

	item.Title = draft.Title
	item.Section = draft.Section
	item.Grade = draft.Grade
	item.DownloadURL = draft.DownloadURL
	if err := s.repo.Update(ctx, item); err != nil {
		s.logger.Error().Err(err).Str("content_id", id).Msg("Failed to update content")
		return nil, err
	}
	return item, nil
}

// Delete removes an item. Admins may delete anything; authors only their own.
func (s *moderationService) Delete(ctx context.Context, caller *model.Principal, id string) error {
	if !caller.IsAdmin() {
		item, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if item.CreatedBy != caller.ID {
			return ErrForbidden
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("content_id", id).Msg("Failed to delete content")
		return err
	}
	return nil
}

// Get retrieves an item regardless of status.
func (s *moderationService) Get(ctx context.Context, id string) (*model.ContentItem, error) {
	return s.repo.GetByID(ctx, id)
}

// ListMine returns the caller's own submissions, including declined ones so
// the author can see what was rejected and why.
func (s *moderationService) ListMine(ctx context.Context, caller *model.Principal) ([]model.ContentItem, error) {
	return s.repo.ListByCreator(ctx, caller.ID)
}

// ReviewQueue returns items awaiting a decision, oldest first.
func (s *moderationService) ReviewQueue(ctx context.Context) ([]model.ContentItem, error) {
	return s.repo.ListForReview(ctx)
}

// ListAll returns every item for the admin content table.
func (s *moderationService) ListAll(ctx context.Context) ([]model.ContentItem, error) {
	return s.repo.ListAll(ctx)
}
