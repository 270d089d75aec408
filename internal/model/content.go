package model

import (
	"fmt"
	"time"
)

// Section is the content category a PDF belongs to.
type Section string

const (
	SectionLessons   Section = "lessons"
	SectionExercises Section = "exercises"
	SectionSummaries Section = "summaries"
)

// ParseSection validates a raw section value.
func ParseSection(s string) (Section, error) {
	switch Section(s) {
	case SectionLessons, SectionExercises, SectionSummaries:
		return Section(s), nil
	}
	return "", fmt.Errorf("invalid section: %q", s)
}

// ContentStatus is the moderation state of a content item.
//
// pending and refine accept an admin decision; approved and declined are
// terminal. Feedback is only carried in the refine state.
type ContentStatus string

const (
	StatusPending  ContentStatus = "pending"
	StatusApproved ContentStatus = "approved"
	StatusDeclined ContentStatus = "declined"
	StatusRefine   ContentStatus = "refine"
)

// ParseContentStatus validates a raw status value.
func ParseContentStatus(s string) (ContentStatus, error) {
	switch ContentStatus(s) {
	case StatusPending, StatusApproved, StatusDeclined, StatusRefine:
		return ContentStatus(s), nil
	}
	return "", fmt.Errorf("invalid content status: %q", s)
}

// Terminal reports whether no further moderation transition is exposed.
func (s ContentStatus) Terminal() bool {
	return s == StatusApproved || s == StatusDeclined
}

const (
	GradeMin = 1
	GradeMax = 6
)

// ValidGrade reports whether g is a known grade level.
func ValidGrade(g int) bool { return g >= GradeMin && g <= GradeMax }

// ContentItem is a single PDF resource (lesson, exercise or summary) with a
// moderation status and grade/section classification.
type ContentItem struct {
	ID            string        `db:"id" json:"id"`
	Title         string        `db:"title" json:"title"`
	Section       Section       `db:"section" json:"section"`
	Grade         int           `db:"grade" json:"grade"`
	DownloadURL   string        `db:"download_url" json:"download_url"`
	Status        ContentStatus `db:"status" json:"status"`
	AdminFeedback string        `db:"admin_feedback" json:"admin_feedback,omitempty"`
	CreatedBy     string        `db:"created_by" json:"created_by"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`
}

// CheckFeedbackInvariant verifies that feedback is present exactly when the
// item is in the refine state.
func (c *ContentItem) CheckFeedbackInvariant() error {
	if c.Status == StatusRefine && c.AdminFeedback == "" {
		return fmt.Errorf("content item %s: refine status requires feedback", c.ID)
	}
	if c.Status != StatusRefine && c.AdminFeedback != "" {
		return fmt.Errorf("content item %s: feedback is only meaningful in refine status", c.ID)
	}
	return nil
}
