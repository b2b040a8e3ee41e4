package models

import (
	"time"

	"github.com/apex/backoffice/internal/domain/finance"
	"github.com/apex/backoffice/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// ReceivableModel is the persistence model for the Receivable aggregate.
type ReceivableModel struct {
	AggregateModel
	SaleID         *uuid.UUID               `gorm:"type:uuid;index"`
	ClientID       uuid.UUID                `gorm:"type:uuid;not null;index"`
	Description    string                   `gorm:"type:varchar(300);not null"`
	Amount         valueobject.Money        `gorm:"type:bigint;not null"`
	ReceivedAmount valueobject.Money        `gorm:"type:bigint;not null;default:0"`
	DueDate        time.Time                `gorm:"not null;index"`
	Status         finance.ReceivableStatus `gorm:"type:varchar(20);not null;default:'OPEN';index"`
	PaymentMethod  finance.PaymentMethod    `gorm:"type:varchar(20);not null"`
	Installments   int                      `gorm:"not null;default:1"`
	Provider       string                   `gorm:"type:varchar(50);index:idx_receivable_provider_external"`
	ExternalID     string                   `gorm:"type:varchar(100);index:idx_receivable_provider_external"`
	CancelledAt    *time.Time
	Payments       []PaymentRecordModel `gorm:"foreignKey:ReceivableID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (ReceivableModel) TableName() string {
	return "receivables"
}

// ToDomain converts the persistence model to a domain Receivable aggregate.
func (m *ReceivableModel) ToDomain() *finance.Receivable {
	payments := make([]finance.PaymentRecord, len(m.Payments))
	for i, p := range m.Payments {
		payments[i] = *p.ToDomain()
	}
	return &finance.Receivable{
		BaseAggregateRoot: m.ToAggregateRoot(),
		SaleID:            m.SaleID,
		ClientID:          m.ClientID,
		Description:       m.Description,
		Amount:            m.Amount,
		ReceivedAmount:    m.ReceivedAmount,
		DueDate:           m.DueDate,
		Status:            m.Status,
		PaymentMethod:     m.PaymentMethod,
		Installments:      m.Installments,
		Provider:          m.Provider,
		ExternalID:        m.ExternalID,
		Payments:          payments,
		CancelledAt:       m.CancelledAt,
	}
}

// FromDomain populates the persistence model from a domain Receivable aggregate.
func (m *ReceivableModel) FromDomain(r *finance.Receivable) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.SaleID = r.SaleID
	m.ClientID = r.ClientID
	m.Description = r.Description
	m.Amount = r.Amount
	m.ReceivedAmount = r.ReceivedAmount
	m.DueDate = r.DueDate
	m.Status = r.Status
	m.PaymentMethod = r.PaymentMethod
	m.Installments = r.Installments
	m.Provider = r.Provider
	m.ExternalID = r.ExternalID
	m.CancelledAt = r.CancelledAt
	m.Payments = make([]PaymentRecordModel, len(r.Payments))
	for i := range r.Payments {
		m.Payments[i] = *PaymentRecordModelFromDomain(&r.Payments[i])
	}
}

// ReceivableModelFromDomain creates a new persistence model from a domain Receivable.
func ReceivableModelFromDomain(r *finance.Receivable) *ReceivableModel {
	m := &ReceivableModel{}
	m.FromDomain(r)
	return m
}

// PaymentRecordModel is the persistence model for payment records.
type PaymentRecordModel struct {
	ID                uuid.UUID                   `gorm:"type:uuid;primary_key"`
	ReceivableID      uuid.UUID                   `gorm:"type:uuid;not null;index"`
	Amount            valueobject.Money           `gorm:"type:bigint;not null"`
	Method            finance.PaymentMethod       `gorm:"type:varchar(20);not null"`
	PaidAt            time.Time                   `gorm:"not null"`
	Notes             string                      `gorm:"type:text"`
	Provider          string                      `gorm:"type:varchar(50)"`
	ProviderPaymentID string                      `gorm:"type:varchar(100);index"`
	Status            finance.PaymentRecordStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	CreatedAt         time.Time                   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PaymentRecordModel) TableName() string {
	return "payment_records"
}

// ToDomain converts the persistence model to a domain PaymentRecord.
func (m *PaymentRecordModel) ToDomain() *finance.PaymentRecord {
	return &finance.PaymentRecord{
		ID:                m.ID,
		ReceivableID:      m.ReceivableID,
		Amount:            m.Amount,
		Method:            m.Method,
		PaidAt:            m.PaidAt,
		Notes:             m.Notes,
		Provider:          m.Provider,
		ProviderPaymentID: m.ProviderPaymentID,
		Status:            m.Status,
		CreatedAt:         m.CreatedAt,
	}
}

// PaymentRecordModelFromDomain creates a new persistence model from a domain PaymentRecord.
func PaymentRecordModelFromDomain(p *finance.PaymentRecord) *PaymentRecordModel {
	return &PaymentRecordModel{
		ID:                p.ID,
		ReceivableID:      p.ReceivableID,
		Amount:            p.Amount,
		Method:            p.Method,
		PaidAt:            p.PaidAt,
		Notes:             p.Notes,
		Provider:          p.Provider,
		ProviderPaymentID: p.ProviderPaymentID,
		Status:            p.Status,
		CreatedAt:         p.CreatedAt,
	}
}

// PayableModel is the persistence model for the Payable aggregate.
type PayableModel struct {
	AggregateModel
	Description string                `gorm:"type:varchar(300);not null"`
	Amount      valueobject.Money     `gorm:"type:bigint;not null"`
	ClientID    *uuid.UUID            `gorm:"type:uuid;index"`
	CategoryID  *uuid.UUID            `gorm:"type:uuid;index"`
	SaleID      *uuid.UUID            `gorm:"type:uuid;index"`
	DueDate     time.Time             `gorm:"not null;index"`
	Status      finance.PayableStatus `gorm:"type:varchar(20);not null;default:'OPEN';index"`
	PaidAt      *time.Time
}

// TableName returns the table name for GORM
func (PayableModel) TableName() string {
	return "payables"
}

// ToDomain converts the persistence model to a domain Payable aggregate.
func (m *PayableModel) ToDomain() *finance.Payable {
	return &finance.Payable{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Description:       m.Description,
		Amount:            m.Amount,
		ClientID:          m.ClientID,
		CategoryID:        m.CategoryID,
		SaleID:            m.SaleID,
		DueDate:           m.DueDate,
		Status:            m.Status,
		PaidAt:            m.PaidAt,
	}
}

// FromDomain populates the persistence model from a domain Payable aggregate.
func (m *PayableModel) FromDomain(p *finance.Payable) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Description = p.Description
	m.Amount = p.Amount
	m.ClientID = p.ClientID
	m.CategoryID = p.CategoryID
	m.SaleID = p.SaleID
	m.DueDate = p.DueDate
	m.Status = p.Status
	m.PaidAt = p.PaidAt
}

// PayableModelFromDomain creates a new persistence model from a domain Payable.
func PayableModelFromDomain(p *finance.Payable) *PayableModel {
	m := &PayableModel{}
	m.FromDomain(p)
	return m
}
