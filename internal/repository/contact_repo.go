package repository

import (
	"context"
	"fmt"

	"app/internal/model"
)

// ContactRepository defines methods for storing contact form messages.
type ContactRepository interface {
	Create(ctx context.Context, m *model.ContactMessage) error
	List(ctx context.Context) ([]model.ContactMessage, error)
	Delete(ctx context.Context, id string) error
}

type contactRepo struct {
	db *DB
}

// NewContactRepo creates a new ContactRepository.
func NewContactRepo(db *DB) ContactRepository {
	return &contactRepo{db: db}
}

// Create stores a contact message.
func (r *contactRepo) Create(ctx context.Context, m *model.ContactMessage) error {
	const q = `
        INSERT INTO contact_messages (id, name, email, phone, subject, message)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at
    `
	err := r.db.Pool.QueryRow(ctx, q, m.ID, m.Name, m.Email, m.Phone, m.Subject, m.Message).Scan(&m.CreatedAt)
	if err != nil {
		return fmt.Errorf("create contact message: %w", err)
	}
	return nil
}

// List returns all contact messages, newest first.
func (r *contactRepo) List(ctx context.Context) ([]model.ContactMessage, error) {
	const q = `
        SELECT id, name, email, phone, subject, message, created_at
        FROM contact_messages
        ORDER BY created_at DESC, id
    `
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	defer rows.Close()

	messages := []model.ContactMessage{}
	for rows.Next() {
		var m model.ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Subject, &m.Message, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan contact message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	return messages, nil
}

// Delete removes a contact message.
func (r *contactRepo) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM contact_messages WHERE id = $1`
	tag, err := r.db.Pool.Exec(ctx, q, id)
	if err != nil {
		return fmt.Errorf("delete contact message %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete contact message %s: %w", id, ErrNotFound)
	}
	return nil
}
