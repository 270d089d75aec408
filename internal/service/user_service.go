package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"app/internal/model"
	"app/internal/repository"
)

// UserService covers admin-side account management.
type UserService interface {
	List(ctx context.Context) ([]model.Principal, error)
	Get(ctx context.Context, id string) (*model.Principal, error)
	UpdateProfile(ctx context.Context, id, name string, grade *int) (*model.Principal, error)
	SetRole(ctx context.Context, id string, role model.Role) error
	SetActive(ctx context.Context, id string, active bool) error
	// SetPlan manually switches a user's plan. Moving to paid opens a
	// 30-day window; moving to free closes the subscription immediately.
	SetPlan(ctx context.Context, id string, plan model.Plan) error
	Delete(ctx context.Context, id string) error
}

type userService struct {
	profiles repository.ProfileRepository
	subs     repository.SubscriptionRepository
	now      func() time.Time
	logger   zerolog.Logger
}

// NewUserService creates a new UserService with a scoped logger.
func NewUserService(profiles repository.ProfileRepository, subs repository.SubscriptionRepository, logger zerolog.Logger) UserService {
	return &userService{
		profiles: profiles,
		subs:     subs,
		now:      time.Now,
		logger:   logger.With().Str("service", "UserService").Logger(),
	}
}

// List returns all profiles.
func (s *userService) List(ctx context.Context) ([]model.Principal, error) {
	return s.profiles.List(ctx)
}

// Get returns one profile.
func (s *userService) Get(ctx context.Context, id string) (*model.Principal, error) {
	return s.profiles.GetByID(ctx, id)
}

// UpdateProfile edits the profile's name and grade.
func (s *userService) UpdateProfile(ctx context.Context, id, name string, grade *int) (*model.Principal, error) {
	if grade != nil && !model.ValidGrade(*grade) {
		return nil, fmt.Errorf("grade %d out of range", *grade)
	}
	p, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Name = name
	p.Grade = grade
	if err := s.profiles.Update(ctx, p); err != nil {
		s.logger.Error().Err(err).Str("user_id", id).Msg("Failed to update profile")
		return nil, err
	}
	return p, nil
}

// SetRole changes the user's role.
func (s *userService) SetRole(ctx context.Context, id string, role model.Role) error {
	if _, err := model.ParseRole(string(role)); err != nil {
		return err
	}
	if err := s.profiles.SetRole(ctx, id, role); err != nil {
		s.logger.Error().Err(err).Str("user_id", id).Str("role", string(role)).Msg("Failed to set role")
		return err
	}
	return nil
}

// SetActive suspends or reactivates the account.
func (s *userService) SetActive(ctx context.Context, id string, active bool) error {
	if err := s.profiles.SetActive(ctx, id, active); err != nil {
		s.logger.Error().Err(err).Str("user_id", id).Bool("active", active).Msg("Failed to set active flag")
		return err
	}
	return nil
}

// SetPlan manually switches the plan and keeps the subscription row in step
// with it, so entitlement checks see a consistent picture.
func (s *userService) SetPlan(ctx context.Context, id string, plan model.Plan) error {
	if _, err := model.ParsePlan(string(plan)); err != nil {
		return err
	}
	if err := s.profiles.UpdatePlan(ctx, id, plan); err != nil {
		s.logger.Error().Err(err).Str("user_id", id).Str("plan", string(plan)).Msg("Failed to set plan")
		return err
	}

	if plan == model.PlanPaid {
		expiry := s.now().Add(paidPlanDuration)
		if err := s.subs.Upsert(ctx, id, plan, true, &expiry); err != nil {
			s.logger.Error().Err(err).Str("user_id", id).Msg("Failed to open subscription")
			return err
		}
		return nil
	}
	if err := s.subs.Upsert(ctx, id, plan, false, nil); err != nil {
		s.logger.Error().Err(err).Str("user_id", id).Msg("Failed to close subscription")
		return err
	}
	return nil
}

// Delete removes the account and its subscription row.
func (s *userService) Delete(ctx context.Context, id string) error {
	if err := s.subs.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("user_id", id).Msg("Failed to delete subscription")
		return err
	}
	if err := s.profiles.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("user_id", id).Msg("Failed to delete profile")
		return err
	}
	return nil
}
