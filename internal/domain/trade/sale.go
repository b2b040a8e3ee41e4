package trade

import (
	"strings"
	"time"

	"github.com/apex/backoffice/internal/domain/shared"
	"github.com/apex/backoffice/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// SaleItem is one service line on a sale. TotalPrice is always
// recomputed server side as quantity times unit price.
type SaleItem struct {
	ID         uuid.UUID         `json:"id"`
	SaleID     uuid.UUID         `json:"sale_id"`
	ServiceID  uuid.UUID         `json:"service_id"`
	Quantity   int               `json:"quantity"`
	UnitPrice  valueobject.Money `json:"unit_price"`
	TotalPrice valueobject.Money `json:"total_price"`
}

// Sale is a closed deal with a client over one or more services.
// The settlement side lives on the receivable the sale creates; the
// sale itself is an immutable record of what was sold and for how much.
type Sale struct {
	shared.BaseAggregateRoot
	Number      string            `json:"number"`
	ClientID    uuid.UUID         `json:"client_id"`
	Items       []SaleItem        `json:"items"`
	Subtotal    valueobject.Money `json:"subtotal"`
	Discount    valueobject.Money `json:"discount"`
	FinalAmount valueobject.Money `json:"final_amount"`
	Notes       string            `json:"notes,omitempty"`
	Date        time.Time         `json:"date"`
}

// SaleItemInput is the caller-provided line before validation
type SaleItemInput struct {
	ServiceID uuid.UUID
	Quantity  int
	UnitPrice valueobject.Money
}

// NewSale creates a sale from validated inputs. Totals are computed
// here, never trusted from the caller. A discount larger than the
// item total is rejected so the final amount is never negative.
func NewSale(clientID uuid.UUID, items []SaleItemInput, discount valueobject.Money, notes string) (*Sale, error) {
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("EMPTY_SALE", "Sale must have at least one item")
	}
	if discount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}

	base := shared.NewBaseAggregateRoot()

	total := valueobject.Zero()
	saleItems := make([]SaleItem, 0, len(items))
	for _, in := range items {
		if in.ServiceID == uuid.Nil {
			return nil, shared.NewDomainError("INVALID_SERVICE", "Sale item service ID cannot be empty")
		}
		if in.Quantity < 1 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Sale item quantity must be at least 1")
		}
		if in.UnitPrice.IsNegative() {
			return nil, shared.NewDomainError("INVALID_UNIT_PRICE", "Sale item unit price cannot be negative")
		}
		lineTotal := in.UnitPrice.MultiplyByInt(int64(in.Quantity))
		saleItems = append(saleItems, SaleItem{
			ID:         uuid.New(),
			SaleID:     base.ID,
			ServiceID:  in.ServiceID,
			Quantity:   in.Quantity,
			UnitPrice:  in.UnitPrice,
			TotalPrice: lineTotal,
		})
		total = total.Add(lineTotal)
	}

	final := total.Subtract(discount)
	if final.IsNegative() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot exceed the sale total")
	}

	return &Sale{
		BaseAggregateRoot: base,
		Number:            saleNumber(base.ID),
		ClientID:          clientID,
		Items:             saleItems,
		Subtotal:          total,
		Discount:          discount,
		FinalAmount:       final,
		Notes:             strings.TrimSpace(notes),
		Date:              time.Now(),
	}, nil
}

// saleNumber derives the short human-facing sale number from the ID
func saleNumber(id uuid.UUID) string {
	s := id.String()
	return strings.ToUpper(s[len(s)-6:])
}
