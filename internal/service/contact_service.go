package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"app/internal/model"
	"app/internal/repository"
)

// ContactService stores messages from the public contact form.
type ContactService interface {
	Submit(ctx context.Context, name, email, phone, subject, message string) (*model.ContactMessage, error)
	List(ctx context.Context) ([]model.ContactMessage, error)
	Delete(ctx context.Context, id string) error
}

type contactService struct {
	repo   repository.ContactRepository
	logger zerolog.Logger
}

// NewContactService creates a new ContactService with a scoped logger.
func NewContactService(repo repository.ContactRepository, logger zerolog.Logger) ContactService {
	return &contactService{
		repo:   repo,
		logger: logger.With().Str("service", "ContactService").Logger(),
	}
}

// Submit stores a contact message from the public form.
func (s *contactService) Submit(ctx context.Context, name, email, phone, subject, message string) (*model.ContactMessage, error) {
	if name == "" || email == "" || message == "" {
		return nil, fmt.Errorf("name, email and message are required")
	}
	m := &model.ContactMessage{
		ID:      uuid.NewString(),
		Name:    name,
		Email:   email,
		Phone:   phone,
		Subject: subject,
		Message: message,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		s.logger.Error().Err(err).Msg("Failed to store contact message")
		return nil, err
	}
	return m, nil
}

// List returns all messages for the admin inbox.
func (s *contactService) List(ctx context.Context) ([]model.ContactMessage, error) {
	return s.repo.List(ctx)
}

// Delete removes a handled message.
func (s *contactService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
