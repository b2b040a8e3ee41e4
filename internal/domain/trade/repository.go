package trade

import (
	"context"

	"github.com/apex/backoffice/internal/domain/shared"
)

// SaleRepository defines persistence operations for sales
type SaleRepository interface {
	shared.Repository[Sale]
	// SaveFanOut persists the sale and every document it generated in
	// a single transaction. Either the whole bundle lands or none of
	// it does.
	SaveFanOut(ctx context.Context, fanOut *SaleFanOut) error
}
