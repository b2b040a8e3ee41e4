package audit

import (
	"context"

	"github.com/apex/backoffice/internal/domain/shared"
)

// EntryRepository defines persistence operations for audit entries
type EntryRepository interface {
	Save(ctx context.Context, entry *Entry) error
	FindAll(ctx context.Context, filter shared.Filter) ([]Entry, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
