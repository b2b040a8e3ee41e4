package finance

import (
	"time"

	"github.com/apex/backoffice/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateReceivableRequest registers a receivable entered by hand,
// outside the sale flow (e.g. a legacy debt being migrated in)
type CreateReceivableRequest struct {
	ClientID      uuid.UUID       `json:"client_id" binding:"required"`
	Description   string          `json:"description" binding:"required,max=255"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	DueDate       time.Time       `json:"due_date" binding:"required"`
	PaymentMethod string          `json:"payment_method" binding:"required,oneof=CASH BOLETO CREDIT_CARD PIX"`
	Installments  int             `json:"installments" binding:"omitempty,min=1,max=24"`
}

// ApplyPaymentRequest records a manual payment against a receivable
type ApplyPaymentRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	PaymentMethod string          `json:"payment_method" binding:"required,oneof=CASH BOLETO CREDIT_CARD PIX"`
	Notes         string          `json:"notes" binding:"max=500"`
}

// UpdateReceivableRequest adjusts a receivable from the back office.
// ReceivedAmount is the amount to add on top of what was already
// received; it gets booked as a payment record.
type UpdateReceivableRequest struct {
	Status         string          `json:"status" binding:"required,oneof=OPEN PAID OVERDUE CANCELLED"`
	ReceivedAmount decimal.Decimal `json:"received_amount"`
	DueDate        time.Time       `json:"due_date" binding:"required"`
}

// PaymentRecordResponse represents one payment applied to a receivable
type PaymentRecordResponse struct {
	ID                uuid.UUID       `json:"id"`
	Amount            decimal.Decimal `json:"amount"`
	Method            string          `json:"method"`
	PaidAt            time.Time       `json:"paid_at"`
	Notes             string          `json:"notes,omitempty"`
	Provider          string          `json:"provider,omitempty"`
	ProviderPaymentID string          `json:"provider_payment_id,omitempty"`
	Status            string          `json:"status"`
}

// ReceivableResponse represents a receivable in API responses
type ReceivableResponse struct {
	ID              uuid.UUID               `json:"id"`
	SaleID          *uuid.UUID              `json:"sale_id,omitempty"`
	ClientID        uuid.UUID               `json:"client_id"`
	Description     string                  `json:"description"`
	Amount          decimal.Decimal         `json:"amount"`
	ReceivedAmount  decimal.Decimal         `json:"received_amount"`
	RemainingAmount decimal.Decimal         `json:"remaining_amount"`
	DueDate         time.Time               `json:"due_date"`
	Status          string                  `json:"status"`
	PaymentMethod   string                  `json:"payment_method"`
	Installments    int                     `json:"installments"`
	Provider        string                  `json:"provider,omitempty"`
	ExternalID      string                  `json:"external_id,omitempty"`
	Payments        []PaymentRecordResponse `json:"payments,omitempty"`
	CancelledAt     *time.Time              `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

// ReceivableListFilter represents filter options for the receivable list
type ReceivableListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=OPEN PAID OVERDUE CANCELLED"`
	ClientID string `form:"client_id" binding:"omitempty,uuid"`
	Overdue  bool   `form:"overdue"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// PaymentLinkResponse is the checkout handle returned to the front end
type PaymentLinkResponse struct {
	Provider     string `json:"provider"`
	PreferenceID string `json:"preference_id"`
	InitPoint    string `json:"init_point"`
}

// CreatePayableRequest registers money the firm owes
type CreatePayableRequest struct {
	Description string          `json:"description" binding:"required,max=255"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	DueDate     time.Time       `json:"due_date" binding:"required"`
	CategoryID  *uuid.UUID      `json:"category_id"`
	ClientID    *uuid.UUID      `json:"client_id"`
}

// UpdatePayableRequest replaces an open payable's details
type UpdatePayableRequest struct {
	Description string          `json:"description" binding:"required,max=255"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	DueDate     time.Time       `json:"due_date" binding:"required"`
	Status      string          `json:"status" binding:"required,oneof=OPEN PAID OVERDUE CANCELLED"`
	CategoryID  *uuid.UUID      `json:"category_id"`
}

// PayableResponse represents a payable in API responses
type PayableResponse struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	ClientID    *uuid.UUID      `json:"client_id,omitempty"`
	CategoryID  *uuid.UUID      `json:"category_id,omitempty"`
	SaleID      *uuid.UUID      `json:"sale_id,omitempty"`
	DueDate     time.Time       `json:"due_date"`
	Status      string          `json:"status"`
	PaidAt      *time.Time      `json:"paid_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// PayableListFilter represents filter options for the payable list
type PayableListFilter struct {
	Search     string `form:"search"`
	Status     string `form:"status" binding:"omitempty,oneof=OPEN PAID OVERDUE CANCELLED"`
	CategoryID string `form:"category_id" binding:"omitempty,uuid"`
	ClientID   string `form:"client_id" binding:"omitempty,uuid"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

func toReceivableResponse(r *finance.Receivable) *ReceivableResponse {
	payments := make([]PaymentRecordResponse, len(r.Payments))
	for i, p := range r.Payments {
		payments[i] = PaymentRecordResponse{
			ID:                p.ID,
			Amount:            p.Amount.Decimal(),
			Method:            string(p.Method),
			PaidAt:            p.PaidAt,
			Notes:             p.Notes,
			Provider:          p.Provider,
			ProviderPaymentID: p.ProviderPaymentID,
			Status:            string(p.Status),
		}
	}
	return &ReceivableResponse{
		ID:              r.ID,
		SaleID:          r.SaleID,
		ClientID:        r.ClientID,
		Description:     r.Description,
		Amount:          r.Amount.Decimal(),
		ReceivedAmount:  r.ReceivedAmount.Decimal(),
		RemainingAmount: r.RemainingAmount().Decimal(),
		DueDate:         r.DueDate,
		Status:          string(r.Status),
		PaymentMethod:   string(r.PaymentMethod),
		Installments:    r.Installments,
		Provider:        r.Provider,
		ExternalID:      r.ExternalID,
		Payments:        payments,
		CancelledAt:     r.CancelledAt,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func toPayableResponse(p *finance.Payable) *PayableResponse {
	return &PayableResponse{
		ID:          p.ID,
		Description: p.Description,
		Amount:      p.Amount.Decimal(),
		ClientID:    p.ClientID,
		CategoryID:  p.CategoryID,
		SaleID:      p.SaleID,
		DueDate:     p.DueDate,
		Status:      string(p.Status),
		PaidAt:      p.PaidAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
