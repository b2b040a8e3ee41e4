package finance

import (
	"fmt"
	"strings"
	"time"

	"github.com/apex/backoffice/internal/domain/shared"
	"github.com/apex/backoffice/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// ReceivableStatus represents the settlement status of a receivable
type ReceivableStatus string

const (
	ReceivableStatusOpen      ReceivableStatus = "OPEN"
	ReceivableStatusPaid      ReceivableStatus = "PAID"
	ReceivableStatusOverdue   ReceivableStatus = "OVERDUE"
	ReceivableStatusCancelled ReceivableStatus = "CANCELLED"
)

// IsValid checks if the status is a valid ReceivableStatus
func (s ReceivableStatus) IsValid() bool {
	switch s {
	case ReceivableStatusOpen, ReceivableStatusPaid, ReceivableStatusOverdue, ReceivableStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of ReceivableStatus
func (s ReceivableStatus) String() string {
	return string(s)
}

// IsTerminal returns true if no further payments can change the status
func (s ReceivableStatus) IsTerminal() bool {
	return s == ReceivableStatusPaid || s == ReceivableStatusCancelled
}

// CanApplyPayment returns true if payments can be applied in this status
func (s ReceivableStatus) CanApplyPayment() bool {
	return s == ReceivableStatusOpen || s == ReceivableStatusOverdue
}

// PaymentMethod represents how a receivable is settled
type PaymentMethod string

const (
	PaymentMethodCash       PaymentMethod = "CASH"
	PaymentMethodBoleto     PaymentMethod = "BOLETO"
	PaymentMethodCreditCard PaymentMethod = "CREDIT_CARD"
	PaymentMethodPix        PaymentMethod = "PIX"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBoleto, PaymentMethodCreditCard, PaymentMethodPix:
		return true
	}
	return false
}

// SupportsInstallments returns true if the method allows more than one installment
func (m PaymentMethod) SupportsInstallments() bool {
	return m == PaymentMethodCreditCard
}

// PaymentRecordStatus represents the status of a payment record
type PaymentRecordStatus string

const (
	PaymentRecordStatusActive   PaymentRecordStatus = "ACTIVE"
	PaymentRecordStatusReversed PaymentRecordStatus = "REVERSED"
)

// PaymentRecord is a cash entry applied against a receivable. Records
// are never deleted; corrections mark the record reversed and the
// receivable recomputes its received amount from the active ones.
type PaymentRecord struct {
	ID                uuid.UUID           `json:"id"`
	ReceivableID      uuid.UUID           `json:"receivable_id"`
	Amount            valueobject.Money   `json:"amount"`
	Method            PaymentMethod       `json:"method"`
	PaidAt            time.Time           `json:"paid_at"`
	Notes             string              `json:"notes,omitempty"`
	Provider          string              `json:"provider,omitempty"`
	ProviderPaymentID string              `json:"provider_payment_id,omitempty"`
	Status            PaymentRecordStatus `json:"status"`
	CreatedAt         time.Time           `json:"created_at"`
}

// IsActive returns true if the record still counts toward the received amount
func (p *PaymentRecord) IsActive() bool {
	return p.Status == PaymentRecordStatusActive || p.Status == ""
}

// Receivable tracks money owed by a client, usually created by a sale.
// Invariant: ReceivedAmount always equals the sum of active payment
// records, and the status is PAID exactly when ReceivedAmount covers
// Amount.
type Receivable struct {
	shared.BaseAggregateRoot
	SaleID         *uuid.UUID        `json:"sale_id,omitempty"`
	ClientID       uuid.UUID         `json:"client_id"`
	Description    string            `json:"description"`
	Amount         valueobject.Money `json:"amount"`
	ReceivedAmount valueobject.Money `json:"received_amount"`
	DueDate        time.Time         `json:"due_date"`
	Status         ReceivableStatus  `json:"status"`
	PaymentMethod  PaymentMethod     `json:"payment_method"`
	Installments   int               `json:"installments"`
	// Provider and ExternalID identify a checkout link created at a
	// payment provider for this receivable, if any.
	Provider    string          `json:"provider,omitempty"`
	ExternalID  string          `json:"external_id,omitempty"`
	Payments    []PaymentRecord `json:"payments,omitempty"`
	CancelledAt *time.Time      `json:"cancelled_at,omitempty"`
}

// NewReceivable creates a new open receivable
func NewReceivable(
	clientID uuid.UUID,
	saleID *uuid.UUID,
	description string,
	amount valueobject.Money,
	dueDate time.Time,
	method PaymentMethod,
	installments int,
) (*Receivable, error) {
	description = strings.TrimSpace(description)
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Receivable description cannot be empty")
	}
	// Zero is allowed: a fully discounted sale still books its receivable.
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Receivable amount cannot be negative")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", fmt.Sprintf("Payment method %q is not valid", method))
	}
	if installments < 1 {
		return nil, shared.NewDomainError("INVALID_INSTALLMENTS", "Installments must be at least 1")
	}
	if !method.SupportsInstallments() {
		installments = 1
	}

	return &Receivable{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SaleID:            saleID,
		ClientID:          clientID,
		Description:       description,
		Amount:            amount,
		ReceivedAmount:    valueobject.Zero(),
		DueDate:           dueDate,
		Status:            ReceivableStatusOpen,
		PaymentMethod:     method,
		Installments:      installments,
	}, nil
}

// RemainingAmount returns how much is still owed
func (r *Receivable) RemainingAmount() valueobject.Money {
	return r.Amount.Subtract(r.ReceivedAmount)
}

// ApplyPayment records a payment against the receivable and settles it
// when the received amount covers the full amount. Overpayment is
// rejected so the invariant between amount and received stays intact.
func (r *Receivable) ApplyPayment(amount valueobject.Money, method PaymentMethod, notes string) (*PaymentRecord, error) {
	return r.applyPayment(amount, method, notes, "", "")
}

// ApplyProviderPayment records a payment confirmed by a payment
// provider, carrying the provider name and its payment ID for
// reconciliation and audit.
func (r *Receivable) ApplyProviderPayment(amount valueobject.Money, method PaymentMethod, provider, providerPaymentID string) (*PaymentRecord, error) {
	if provider == "" || providerPaymentID == "" {
		return nil, shared.NewDomainError("INVALID_PROVIDER_PAYMENT", "Provider and provider payment ID are required")
	}
	return r.applyPayment(amount, method, "Confirmed by payment provider", provider, providerPaymentID)
}

func (r *Receivable) applyPayment(amount valueobject.Money, method PaymentMethod, notes, provider, providerPaymentID string) (*PaymentRecord, error) {
	if !r.Status.CanApplyPayment() {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot apply payment to receivable in %s status", r.Status))
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if amount.Cents() > r.RemainingAmount().Cents() {
		return nil, shared.NewDomainError("EXCEEDS_REMAINING", fmt.Sprintf("Payment of %s exceeds remaining %s", amount, r.RemainingAmount()))
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", fmt.Sprintf("Payment method %q is not valid", method))
	}

	record := PaymentRecord{
		ID:                uuid.New(),
		ReceivableID:      r.ID,
		Amount:            amount,
		Method:            method,
		PaidAt:            time.Now(),
		Notes:             notes,
		Provider:          provider,
		ProviderPaymentID: providerPaymentID,
		Status:            PaymentRecordStatusActive,
		CreatedAt:         time.Now(),
	}
	r.Payments = append(r.Payments, record)
	r.ReceivedAmount = r.ReceivedAmount.Add(amount)

	if r.ReceivedAmount.GreaterThanOrEqual(r.Amount) {
		r.Status = ReceivableStatusPaid
	}

	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return &r.Payments[len(r.Payments)-1], nil
}

// HasProviderPayment reports whether a provider payment ID was already applied
func (r *Receivable) HasProviderPayment(providerPaymentID string) bool {
	for i := range r.Payments {
		if r.Payments[i].ProviderPaymentID == providerPaymentID && r.Payments[i].IsActive() {
			return true
		}
	}
	return false
}

// AttachPaymentLink records the provider checkout link created for
// this receivable. Settled receivables cannot get new links.
func (r *Receivable) AttachPaymentLink(provider, externalID string) error {
	if r.Status == ReceivableStatusPaid {
		return shared.ErrAlreadyPaid
	}
	if r.Status == ReceivableStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot create a payment link for a cancelled receivable")
	}
	if provider == "" || externalID == "" {
		return shared.NewDomainError("INVALID_PAYMENT_LINK", "Provider and external ID are required")
	}
	r.Provider = provider
	r.ExternalID = externalID
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}

// MarkOverdue flags an open receivable past its due date
func (r *Receivable) MarkOverdue(now time.Time) error {
	if r.Status != ReceivableStatusOpen {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark receivable in %s status as overdue", r.Status))
	}
	if !now.After(r.DueDate) {
		return shared.NewDomainError("NOT_DUE", "Receivable is not past its due date")
	}
	r.Status = ReceivableStatusOverdue
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}

// Cancel voids the receivable. Receivables with received money must be
// corrected through payment reversal first.
func (r *Receivable) Cancel() error {
	if r.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel receivable in %s status", r.Status))
	}
	if r.ReceivedAmount.IsPositive() {
		return shared.NewDomainError("HAS_PAYMENTS", "Cannot cancel a receivable with recorded payments")
	}
	now := time.Now()
	r.Status = ReceivableStatusCancelled
	r.CancelledAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()
	return nil
}

// UpdateTerms applies a manual back-office adjustment. A positive
// received delta is booked as a payment record, then the requested
// status and due date are applied on top. ReceivedAmount only ever
// moves through payment records.
func (r *Receivable) UpdateTerms(status ReceivableStatus, receivedDelta valueobject.Money, dueDate time.Time) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Status %q is not valid", status))
	}
	if receivedDelta.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Received amount cannot be negative")
	}
	if receivedDelta.IsPositive() {
		if _, err := r.applyPayment(receivedDelta, r.PaymentMethod, "Baixa de pagamento", "", ""); err != nil {
			return err
		}
	}
	r.Status = status
	r.DueDate = dueDate
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}
