package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"app/internal/model"
	"app/internal/repository"
	"app/internal/token"
)

const minPasswordLength = 6

// AuthService defines identity operations: registration, login, and the
// password reset flow.
type AuthService interface {
	Register(ctx context.Context, name, email, password string, grade *int) (*model.Principal, string, error)
	Login(ctx context.Context, email, password string) (*model.Principal, string, error)
	GetProfile(ctx context.Context, userID string) (*model.Principal, error)
	ChangePassword(ctx context.Context, userID, current, next string) error
	// RequestPasswordReset returns the encoded uid and one-time token for
	// the account, or ("", "", nil) when the email is unknown so callers
	// cannot probe which accounts exist.
	RequestPasswordReset(ctx context.Context, email string) (uid, tok string, err error)
	ResetPassword(ctx context.Context, uid, tok, newPassword string) error
}

type authService struct {
	repo      repository.ProfileRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	resetTTL  time.Duration
	logger    zerolog.Logger
}

// NewAuthService creates a new AuthService with a scoped logger.
func NewAuthService(repo repository.ProfileRepository, jwtSecret []byte, tokenTTL, resetTTL time.Duration, logger zerolog.Logger) AuthService {
	return &authService{
		repo:      repo,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		resetTTL:  resetTTL,
		logger:    logger.With().Str("service", "AuthService").Logger(),
	}
}

// Register creates a student account and returns it with a signed token.
// New accounts always start as free-plan students; roles are only granted by
// an admin afterwards.
func (s *authService) Register(ctx context.Context, name, email, password string, grade *int) (*model.Principal, string, error) {
	if len(password) < minPasswordLength {
		return nil, "", ErrPasswordTooShort
	}
	if grade != nil && !model.ValidGrade(*grade) {
		return nil, "", fmt.Errorf("grade %d out of range", *grade)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	p := &model.Principal{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hash,
		Role:         model.RoleStudent,
		Grade:        grade,
		Plan:         model.PlanFree,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", ErrEmailTaken
		}
		s.logger.Error().Err(err).Msg("Failed to create profile")
		return nil, "", err
	}

	tok, _, err := token.Issue(s.jwtSecret, p.ID, string(p.Role), s.tokenTTL)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", p.ID).Msg("Failed to issue token")
		return nil, "", err
	}
	return p, tok, nil
}

// Login verifies the credentials and returns the profile with a signed token.
func (s *authService) Login(ctx context.Context, email, password string) (*model.Principal, string, error) {
	p, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		s.logger.Error().Err(err).Msg("Failed to fetch profile for login")
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword(p.PasswordHash, []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if !p.IsActive {
		return nil, "", ErrForbidden
	}

	tok, _, err := token.Issue(s.jwtSecret, p.ID, string(p.Role), s.tokenTTL)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", p.ID).Msg("Failed to issue token")
		return nil, "", err
	}
	return p, tok, nil
}

// GetProfile returns the profile for the given user ID.
func (s *authService) GetProfile(ctx context.Context, userID string) (*model.Principal, error) {
	p, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to fetch profile")
		return nil, err
	}
	return p, nil
}

// ChangePassword verifies the current password before storing the new one.
func (s *authService) ChangePassword(ctx context.Context, userID, current, next string) error {
	if len(next) < minPasswordLength {
		return ErrPasswordTooShort
	}
	p, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword(p.PasswordHash, []byte(current)); err != nil {
		return ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.repo.UpdatePassword(ctx, userID, hash)
}

// RequestPasswordReset builds a one-time reset token bound to the account's
// current password hash. Unknown emails yield empty results without error.
func (s *authService) RequestPasswordReset(ctx context.Context, email string) (string, string, error) {
	p, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", "", nil
		}
		s.logger.Error().Err(err).Msg("Failed to fetch profile for password reset")
		return "", "", err
	}

	tok := token.MakeResetToken(s.jwtSecret, p.ID, p.PasswordHash, time.Now())
	return token.EncodeUID(p.ID), tok, nil
}

// ResetPassword verifies the reset token and stores the new password. The
// token is bound to the old password hash, so it is single-use.
func (s *authService) ResetPassword(ctx context.Context, uid, tok, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return ErrPasswordTooShort
	}
	id, err := token.DecodeUID(uid)
	if err != nil {
		return ErrInvalidCredentials
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidCredentials
		}
		return err
	}
	if err := token.VerifyResetToken(s.jwtSecret, p.ID, p.PasswordHash, tok, time.Now(), s.resetTTL); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.repo.UpdatePassword(ctx, p.ID, hash); err != nil {
		s.logger.Error().Err(err).Str("user_id", p.ID).Msg("Failed to store new password")
		return err
	}
	return nil
}
