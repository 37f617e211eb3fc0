package audit

import (
	"context"

	"github.com/quoteflow/backend/internal/domain/audit"
	"github.com/quoteflow/backend/internal/domain/shared"
)

// ActivityService serves reads over the append-only audit trail
type ActivityService struct {
	repo audit.Repository
}

// NewActivityService creates a new ActivityService
func NewActivityService(repo audit.Repository) *ActivityService {
	return &ActivityService{repo: repo}
}

// ListActivity returns a paginated slice of the audit trail
func (s *ActivityService) ListActivity(ctx context.Context, filter audit.Filter) (*shared.Paginated[audit.ActivityEntry], error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	entries, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	result := shared.NewPaginated(entries, total, filter.Page, filter.PageSize)
	return &result, nil
}
