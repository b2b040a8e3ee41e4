package trade

import (
	"github.com/apex/backoffice/internal/domain/finance"
	"github.com/apex/backoffice/internal/domain/fulfillment"
)

// SaleFanOut bundles everything a sale creates: the sale itself, the
// receivable carrying the settlement terms, one payable per expense
// template per unit sold, and one process per unit of services that
// carry templates. The whole bundle is persisted atomically.
type SaleFanOut struct {
	Sale       *Sale
	Receivable *finance.Receivable
	Payables   []finance.Payable
	Processes  []fulfillment.Process
}
