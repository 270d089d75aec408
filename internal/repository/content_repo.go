package repository

import (
	"context"
	"errors"
	"fmt"

	"app/internal/model"

	"github.com/jackc/pgx/v5"
)

// ContentRepository defines methods for accessing content items.
type ContentRepository interface {
	Create(ctx context.Context, item *model.ContentItem) error
	GetByID(ctx context.Context, id string) (*model.ContentItem, error)
	// BrowseApproved returns approved items, optionally filtered by grade
	// and section (0 and "" match everything). limit <= 0 means no limit.
	BrowseApproved(ctx context.Context, grade int, section model.Section, limit int) ([]model.ContentItem, error)
	ListByCreator(ctx context.Context, creatorID string) ([]model.ContentItem, error)
	ListForReview(ctx context.Context) ([]model.ContentItem, error)
	ListAll(ctx context.Context) ([]model.ContentItem, error)
	Update(ctx context.Context, item *model.ContentItem) error
	SetStatus(ctx context.Context, id string, status model.ContentStatus, feedback string) error
	Delete(ctx context.Context, id string) error
}

type contentRepo struct {
	db *DB
}

// NewContentRepo creates a new ContentRepository.
func NewContentRepo(db *DB) ContentRepository {
	return &contentRepo{db: db}
}

const contentColumns = `id, title, section, grade, download_url, status, admin_feedback, created_by, created_at, updated_at`

func scanContent(row pgx.Row, c *model.ContentItem) error {
	return row.Scan(
		&c.ID,
		&c.Title,
		&c.Section,
		&c.Grade,
		&c.DownloadURL,
		&c.Status,
		&c.AdminFeedback,
		&c.CreatedBy,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
}

func (r *contentRepo) queryContent(ctx context.Context, q string, args ...any) ([]model.ContentItem, error) {
	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.ContentItem{}
	for rows.Next() {
		var c model.ContentItem
		if err := scanContent(rows, &c); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// Create inserts a new content item and fills in the generated timestamps.
func (r *contentRepo) Create(ctx context.Context, item *model.ContentItem) error {
	const q = `
        INSERT INTO content_items (id, title, section, grade, download_url, status, admin_feedback, created_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING created_at, updated_at
    `
	err := r.db.Pool.QueryRow(ctx, q,
		item.ID, item.Title, item.Section, item.Grade, item.DownloadURL,
		item.Status, item.AdminFeedback, item.CreatedBy,
	).Scan(&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create content item %s: %w", item.Title, err)
	}
	return nil
}

// GetByID retrieves a content item by its ID.
func (r *contentRepo) GetByID(ctx context.Context, id string) (*model.ContentItem, error) {
	const q = `SELECT ` + contentColumns + ` FROM content_items WHERE id = $1`
	var c model.ContentItem
	if err := scanContent(r.db.Pool.QueryRow(ctx, q, id), &c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("fetch content item %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("fetch content item %s: %w", id, err)
	}
	return &c, nil
}

// BrowseApproved returns approved items in stable order so a capped listing
// always shows the same prefix. Grade 0 matches every grade and an empty
// section matches all sections; NULLIF turns limit 0 into no limit.
func (r *contentRepo) BrowseApproved(ctx context.Context, grade int, section model.Section, limit int) ([]model.ContentItem, error) {
	const q = `
        SELECT ` + contentColumns + `
        FROM content_items
        WHERE status = 'approved'
          AND ($1 = 0 OR grade = $1)
          AND ($2 = '' OR section = $2)
        ORDER BY created_at, id
        LIMIT NULLIF($3::int, 0)
    `
	if limit < 0 {
		limit = 0
	}
	items, err := r.queryContent(ctx, q, grade, string(section), limit)
	if err != nil {
		return nil, fmt.Errorf("browse approved content for grade %d: %w", grade, err)
	}
	return items, nil
}

// ListByCreator returns all items submitted by the given profile, newest first.
func (r *contentRepo) ListByCreator(ctx context.Context, creatorID string) ([]model.ContentItem, error) {
	const q = `
        SELECT ` + contentColumns + `
        FROM content_items
        WHERE created_by = $1
        ORDER BY created_at DESC, id
    `
	items, err := r.queryContent(ctx, q, creatorID)
	if err != nil {
		return nil, fmt.Errorf("list content by creator %s: %w", creatorID, err)
	}
	return items, nil
}

// ListForReview returns items awaiting a moderation decision, oldest first.
func (r *contentRepo) ListForReview(ctx context.Context) ([]model.ContentItem, error) {
	const q = `
        SELECT ` + contentColumns + `
        FROM content_items
        WHERE status IN ('pending', 'refine')
        ORDER BY created_at, id
    `
	items, err := r.queryContent(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list content for review: %w", err)
	}
	return items, nil
}

// ListAll returns every content item regardless of status, newest first.
func (r *contentRepo) ListAll(ctx context.Context) ([]model.ContentItem, error) {
	const q = `SELECT ` + contentColumns + ` FROM content_items ORDER BY created_at DESC, id`
	items, err := r.queryContent(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list all content: %w", err)
	}
	return items, nil
}

// Update persists edits to the item's descriptive fields and moderation state.
func (r *contentRepo) Update(ctx context.Context, item *model.ContentItem) error {
	const q = `
        UPDATE content_items
        SET title = $1, section = $2, grade = $3, download_url = $4,
            status = $5, admin_feedback = $6, updated_at = NOW()
        WHERE id = $7
        RETURNING updated_at
    `
	err := r.db.Pool.QueryRow(ctx, q,
		item.Title, item.Section, item.Grade, item.DownloadURL,
		item.Status, item.AdminFeedback, item.ID,
	).Scan(&item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("update content item %s: %w", item.ID, ErrNotFound)
		}
		return fmt.Errorf("update content item %s: %w", item.ID, err)
	}
	return nil
}

// SetStatus records a moderation decision.
func (r *contentRepo) SetStatus(ctx context.Context, id string, status model.ContentStatus, feedback string) error {
	const q = `
        UPDATE content_items
        SET status = $1, admin_feedback = $2, updated_at = NOW()
        WHERE id = $3
    `
	tag, err := r.db.Pool.Exec(ctx, q, status, feedback, id)
	if err != nil {
		return fmt.Errorf("set status for content item %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("set status for content item %s: %w", id, ErrNotFound)
	}
	return nil
}

// Delete removes the content item.
func (r *contentRepo) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM content_items WHERE id = $1`
	tag, err := r.db.Pool.Exec(ctx, q, id)
	if err != nil {
		return fmt.Errorf("delete content item %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete content item %s: %w", id, ErrNotFound)
	}
	return nil
}
