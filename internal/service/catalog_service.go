package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"app/internal/model"
	"app/internal/repository"
)

// Free-tier caps: browsing one section shows the first freeSectionLimit
// approved items; browsing all sections at once shows freeAllSectionsLimit.
const (
	freeSectionLimit     = 10
	freeAllSectionsLimit = 30
)

// CatalogService resolves what content a principal may browse.
type CatalogService interface {
	// Browse returns the approved items visible to the caller. grade 0
	// browses every grade and an empty section every section at once.
	Browse(ctx context.Context, caller *model.Principal, grade int, section model.Section) ([]model.ContentItem, error)
	Get(ctx context.Context, caller *model.Principal, id string) (*model.ContentItem, error)
}

type catalogService struct {
	content repository.ContentRepository
	logger  zerolog.Logger
}

// NewCatalogService creates a new CatalogService with a scoped logger.
func NewCatalogService(content repository.ContentRepository, logger zerolog.Logger) CatalogService {
	return &catalogService{
		content: content,
		logger:  logger.With().Str("service", "CatalogService").Logger(),
	}
}

// Browse applies the caller's entitlement before touching the catalog:
// anonymous callers see nothing and free-plan students get a capped, stable
// prefix of the listing. The cap is keyed on the plan tier alone; the
// subscription window only matters at payment review time.
func (s *catalogService) Browse(ctx context.Context, caller *model.Principal, grade int, section model.Section) ([]model.ContentItem, error) {
	if caller == nil {
		return nil, ErrForbidden
	}
	if grade != 0 && !model.ValidGrade(grade) {
		return nil, fmt.Errorf("grade %d out of range", grade)
	}

	limit := 0
	if caller.IsStudent() && caller.Plan != model.PlanPaid {
		if section == "" {
			limit = freeAllSectionsLimit
		} else {
			limit = freeSectionLimit
		}
	}

	items, err := s.content.BrowseApproved(ctx, grade, section, limit)
	if err != nil {
		s.logger.Error().Err(err).Int("grade", grade).Str("section", string(section)).Msg("Failed to browse content")
		return nil, err
	}
	return items, nil
}

// Get returns a single item if the caller's entitlement covers it. Students
// only ever see approved items.
func (s *catalogService) Get(ctx context.Context, caller *model.Principal, id string) (*model.ContentItem, error) {
	if caller == nil {
		return nil, ErrForbidden
	}
	item, err := s.content.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if caller.IsStudent() && item.Status != model.StatusApproved {
		return nil, fmt.Errorf("content item %s: %w", id, repository.ErrNotFound)
	}
	return item, nil
}
