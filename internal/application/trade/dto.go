package trade

import (
	"time"

	"github.com/apex/backoffice/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleItemRequest is one service line on a sale request
type SaleItemRequest struct {
	ServiceID uuid.UUID       `json:"service_id" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required,min=1"`
	UnitPrice decimal.Decimal `json:"unit_price" binding:"required"`
}

// CreateSaleRequest represents a request to close a sale. Paid marks
// the sale as settled on the spot; the receivable is then created
// already PAID with one payment record for the full amount.
type CreateSaleRequest struct {
	ClientID      uuid.UUID         `json:"client_id" binding:"required"`
	Items         []SaleItemRequest `json:"items" binding:"required,min=1,dive"`
	Discount      decimal.Decimal   `json:"discount"`
	PaymentMethod string            `json:"payment_method" binding:"required,oneof=CASH BOLETO CREDIT_CARD PIX"`
	Installments  int               `json:"installments" binding:"omitempty,min=1,max=24"`
	Paid          bool              `json:"paid"`
	Notes         string            `json:"notes" binding:"max=2000"`
}

// SaleItemResponse represents a sale line in API responses
type SaleItemResponse struct {
	ID         uuid.UUID       `json:"id"`
	ServiceID  uuid.UUID       `json:"service_id"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// SaleResponse represents a sale with its fan-out summary
type SaleResponse struct {
	ID             uuid.UUID          `json:"id"`
	Number         string             `json:"number"`
	ClientID       uuid.UUID          `json:"client_id"`
	Items          []SaleItemResponse `json:"items"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	Discount       decimal.Decimal    `json:"discount"`
	FinalAmount    decimal.Decimal    `json:"final_amount"`
	Notes          string             `json:"notes,omitempty"`
	Date           time.Time          `json:"date"`
	ReceivableID   *uuid.UUID         `json:"receivable_id,omitempty"`
	PayablesCount  int                `json:"payables_count"`
	ProcessesCount int                `json:"processes_count"`
}

// SaleListFilter represents filter options for the sale list
type SaleListFilter struct {
	Search   string `form:"search"`
	ClientID string `form:"client_id" binding:"omitempty,uuid"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

func toSaleResponse(s *trade.Sale, receivableID *uuid.UUID, payables, processes int) *SaleResponse {
	items := make([]SaleItemResponse, len(s.Items))
	for i, item := range s.Items {
		items[i] = SaleItemResponse{
			ID:         item.ID,
			ServiceID:  item.ServiceID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice.Decimal(),
			TotalPrice: item.TotalPrice.Decimal(),
		}
	}
	return &SaleResponse{
		ID:             s.ID,
		Number:         s.Number,
		ClientID:       s.ClientID,
		Items:          items,
		Subtotal:       s.Subtotal.Decimal(),
		Discount:       s.Discount.Decimal(),
		FinalAmount:    s.FinalAmount.Decimal(),
		Notes:          s.Notes,
		Date:           s.Date,
		ReceivableID:   receivableID,
		PayablesCount:  payables,
		ProcessesCount: processes,
	}
}
