package fulfillment

import (
	"context"

	"github.com/apex/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// ProcessRepository defines persistence operations for processes
type ProcessRepository interface {
	shared.Repository[Process]
	CountByStatus(ctx context.Context, status ProcessStatus) (int64, error)
	FindByClient(ctx context.Context, clientID uuid.UUID) ([]Process, error)
}
