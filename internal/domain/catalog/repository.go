package catalog

import (
	"context"

	"github.com/apex/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// ServiceRepository defines persistence operations for services
type ServiceRepository interface {
	shared.Repository[Service]
	// FindByIDs loads services with their expense templates in one query
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Service, error)
	FindByName(ctx context.Context, name string) (*Service, error)
}

// ExpenseCategoryRepository defines persistence operations for expense categories
type ExpenseCategoryRepository interface {
	shared.Repository[ExpenseCategory]
	FindByName(ctx context.Context, name string) (*ExpenseCategory, error)
}
