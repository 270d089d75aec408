// Package handler contains the HTTP handlers for API v1.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"app/internal/api/v1/dto"
	"app/internal/model"
	"app/internal/repository"
	"app/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeServiceError maps the services' sentinel errors onto HTTP statuses.
// Unmatched errors become a 500 without leaking internals to the client.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, service.ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, repository.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrTerminalStatus),
		errors.Is(err, service.ErrAlreadyReviewed),
		errors.Is(err, service.ErrNotResubmittable):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, service.ErrPasswordTooShort),
		errors.Is(err, service.ErrFeedbackRequired):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func toProfileDTO(p *model.Principal) dto.ProfileDTO {
	return dto.ProfileDTO{
		ID:        p.ID,
		Name:      p.Name,
		Email:     p.Email,
		Role:      string(p.Role),
		Grade:     p.Grade,
		Plan:      string(p.Plan),
		IsActive:  p.IsActive,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toContentDTO(c *model.ContentItem) dto.ContentResponseDTO {
	return dto.ContentResponseDTO{
		ID:            c.ID,
		Title:         c.Title,
		Section:       string(c.Section),
		Grade:         c.Grade,
		DownloadURL:   c.DownloadURL,
		Status:        string(c.Status),
		AdminFeedback: c.AdminFeedback,
		CreatedBy:     c.CreatedBy,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func toContentDTOs(items []model.ContentItem) []dto.ContentResponseDTO {
	out := make([]dto.ContentResponseDTO, 0, len(items))
	for i := range items {
		out = append(out, toContentDTO(&items[i]))
	}
	return out
}

func toPaymentDTO(p *model.PaymentSubmission) dto.PaymentResponseDTO {
	return dto.PaymentResponseDTO{
		ID:            p.ID,
		UserID:        p.UserID,
		PayerName:     p.PayerName,
		PayerPhone:    p.PayerPhone,
		Amount:        p.Amount,
		Method:        string(p.Method),
		TransactionID: p.TransactionID,
		ReceiptURL:    p.ReceiptURL,
		Notes:         p.Notes,
		Status:        string(p.Status),
		AdminFeedback: p.AdminFeedback,
		CreatedAt:     p.CreatedAt,
		ReviewedAt:    p.ReviewedAt,
	}
}

func toPaymentDTOs(items []model.PaymentSubmission) []dto.PaymentResponseDTO {
	out := make([]dto.PaymentResponseDTO, 0, len(items))
	for i := range items {
		out = append(out, toPaymentDTO(&items[i]))
	}
	return out
}

func toSubscriptionDTO(s *model.Subscription) dto.SubscriptionResponseDTO {
	return dto.SubscriptionResponseDTO{
		UserID:     s.UserID,
		Plan:       string(s.Plan),
		IsPaid:     s.IsPaid,
		ExpiryDate: s.ExpiryDate,
		Active:     s.Active(time.Now()),
	}
}

func toContactDTO(m *model.ContactMessage) dto.ContactResponseDTO {
	return dto.ContactResponseDTO{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		Subject:   m.Subject,
		Message:   m.Message,
		CreatedAt: m.CreatedAt,
	}
}
