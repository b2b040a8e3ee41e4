package audit

import (
	"context"

	"github.com/apex/backoffice/internal/domain/audit"
	"github.com/apex/backoffice/internal/domain/shared"
)

// Service exposes the audit trail to the HTTP layer, read side only.
// Writes go through the Recorder.
type Service struct {
	repo audit.EntryRepository
}

// NewService creates a new audit Service
func NewService(repo audit.EntryRepository) *Service {
	return &Service{repo: repo}
}

// ListFilter represents filter options for the audit trail
type ListFilter struct {
	Action   string `form:"action"`
	Resource string `form:"resource"`
	UserID   string `form:"user_id"`
	EntityID string `form:"entity_id"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// List returns audit entries matching the filter plus the total count
func (s *Service) List(ctx context.Context, filter ListFilter) ([]audit.Entry, int64, error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	if filter.Action != "" {
		f.Filters["action"] = filter.Action
	}
	if filter.Resource != "" {
		f.Filters["resource"] = filter.Resource
	}
	if filter.UserID != "" {
		f.Filters["user_id"] = filter.UserID
	}
	if filter.EntityID != "" {
		f.Filters["entity_id"] = filter.EntityID
	}

	entries, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
