package finance

import (
	"context"

	"github.com/apex/backoffice/internal/domain/shared"
)

// ReceivableRepository defines persistence operations for receivables
type ReceivableRepository interface {
	shared.Repository[Receivable]
	// SaveWithLock persists the receivable with an optimistic lock on
	// its version. Returns shared.ErrConcurrencyConflict when the row
	// was modified since it was loaded.
	SaveWithLock(ctx context.Context, receivable *Receivable) error
	// FindByExternalID resolves the receivable a provider checkout
	// link points back to.
	FindByExternalID(ctx context.Context, provider, externalID string) (*Receivable, error)
}

// PayableRepository defines persistence operations for payables
type PayableRepository interface {
	shared.Repository[Payable]
}
