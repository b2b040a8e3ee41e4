package finance

import (
	"fmt"
	"strings"
	"time"

	"github.com/apex/backoffice/internal/domain/shared"
	"github.com/apex/backoffice/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// PayableStatus mirrors ReceivableStatus for outgoing money
type PayableStatus string

const (
	PayableStatusOpen      PayableStatus = "OPEN"
	PayableStatusPaid      PayableStatus = "PAID"
	PayableStatusOverdue   PayableStatus = "OVERDUE"
	PayableStatusCancelled PayableStatus = "CANCELLED"
)

// IsValid checks if the status is a valid PayableStatus
func (s PayableStatus) IsValid() bool {
	switch s {
	case PayableStatusOpen, PayableStatusPaid, PayableStatusOverdue, PayableStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PayableStatus
func (s PayableStatus) String() string {
	return string(s)
}

// Payable tracks money the firm owes, either entered manually or
// generated from a service's expense templates when a sale closes.
type Payable struct {
	shared.BaseAggregateRoot
	Description string            `json:"description"`
	Amount      valueobject.Money `json:"amount"`
	ClientID    *uuid.UUID        `json:"client_id,omitempty"`
	CategoryID  *uuid.UUID        `json:"category_id,omitempty"`
	SaleID      *uuid.UUID        `json:"sale_id,omitempty"`
	DueDate     time.Time         `json:"due_date"`
	Status      PayableStatus     `json:"status"`
	PaidAt      *time.Time        `json:"paid_at,omitempty"`
}

// NewPayable creates a new open payable
func NewPayable(description string, amount valueobject.Money, dueDate time.Time, clientID, categoryID *uuid.UUID) (*Payable, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Payable description cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payable amount must be positive")
	}
	return &Payable{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Description:       description,
		Amount:            amount,
		ClientID:          clientID,
		CategoryID:        categoryID,
		DueDate:           dueDate,
		Status:            PayableStatusOpen,
	}, nil
}

// LinkSale records which sale generated this payable
func (p *Payable) LinkSale(saleID uuid.UUID) {
	p.SaleID = &saleID
}

// MarkPaid settles the payable
func (p *Payable) MarkPaid() error {
	if p.Status == PayableStatusPaid {
		return shared.NewDomainError("INVALID_STATE", "Payable is already paid")
	}
	if p.Status == PayableStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot pay a cancelled payable")
	}
	now := time.Now()
	p.Status = PayableStatusPaid
	p.PaidAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()
	return nil
}

// MarkOverdue flags an open payable past its due date
func (p *Payable) MarkOverdue(now time.Time) error {
	if p.Status != PayableStatusOpen {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark payable in %s status as overdue", p.Status))
	}
	if !now.After(p.DueDate) {
		return shared.NewDomainError("NOT_DUE", "Payable is not past its due date")
	}
	p.Status = PayableStatusOverdue
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// Cancel voids the payable
func (p *Payable) Cancel() error {
	if p.Status == PayableStatusPaid {
		return shared.NewDomainError("INVALID_STATE", "Cannot cancel a paid payable")
	}
	if p.Status == PayableStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Payable is already cancelled")
	}
	p.Status = PayableStatusCancelled
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// Update replaces the payable details while it is still open
func (p *Payable) Update(description string, amount valueobject.Money, dueDate time.Time, status PayableStatus, categoryID *uuid.UUID) error {
	description = strings.TrimSpace(description)
	if description == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Payable description cannot be empty")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payable amount must be positive")
	}
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Status %q is not valid", status))
	}
	p.Description = description
	p.Amount = amount
	p.DueDate = dueDate
	p.CategoryID = categoryID
	if status == PayableStatusPaid && p.Status != PayableStatusPaid {
		now := time.Now()
		p.PaidAt = &now
	}
	p.Status = status
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}
