package models

import (
	"time"

	"github.com/apex/backoffice/internal/domain/shared/valueobject"
	"github.com/apex/backoffice/internal/domain/trade"
	"github.com/google/uuid"
)

// SaleModel is the persistence model for the Sale aggregate.
type SaleModel struct {
	AggregateModel
	Number      string            `gorm:"type:varchar(10);not null;uniqueIndex"`
	ClientID    uuid.UUID         `gorm:"type:uuid;not null;index"`
	Subtotal    valueobject.Money `gorm:"type:bigint;not null"`
	Discount    valueobject.Money `gorm:"type:bigint;not null;default:0"`
	FinalAmount valueobject.Money `gorm:"type:bigint;not null"`
	Notes       string            `gorm:"type:text"`
	Date        time.Time         `gorm:"not null;index"`
	Items       []SaleItemModel   `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sales"
}

// ToDomain converts the persistence model to a domain Sale aggregate.
func (m *SaleModel) ToDomain() *trade.Sale {
	items := make([]trade.SaleItem, len(m.Items))
	for i, it := range m.Items {
		items[i] = *it.ToDomain()
	}
	return &trade.Sale{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Number:            m.Number,
		ClientID:          m.ClientID,
		Items:             items,
		Subtotal:          m.Subtotal,
		Discount:          m.Discount,
		FinalAmount:       m.FinalAmount,
		Notes:             m.Notes,
		Date:              m.Date,
	}
}

// FromDomain populates the persistence model from a domain Sale aggregate.
func (m *SaleModel) FromDomain(s *trade.Sale) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.Number = s.Number
	m.ClientID = s.ClientID
	m.Subtotal = s.Subtotal
	m.Discount = s.Discount
	m.FinalAmount = s.FinalAmount
	m.Notes = s.Notes
	m.Date = s.Date
	m.Items = make([]SaleItemModel, len(s.Items))
	for i := range s.Items {
		m.Items[i] = *SaleItemModelFromDomain(&s.Items[i])
	}
}

// SaleModelFromDomain creates a new persistence model from a domain Sale.
func SaleModelFromDomain(s *trade.Sale) *SaleModel {
	m := &SaleModel{}
	m.FromDomain(s)
	return m
}

// SaleItemModel is the persistence model for sale line items.
type SaleItemModel struct {
	ID         uuid.UUID         `gorm:"type:uuid;primary_key"`
	SaleID     uuid.UUID         `gorm:"type:uuid;not null;index"`
	ServiceID  uuid.UUID         `gorm:"type:uuid;not null;index"`
	Quantity   int               `gorm:"not null"`
	UnitPrice  valueobject.Money `gorm:"type:bigint;not null"`
	TotalPrice valueobject.Money `gorm:"type:bigint;not null"`
}

// TableName returns the table name for GORM
func (SaleItemModel) TableName() string {
	return "sale_items"
}

// ToDomain converts the persistence model to a domain SaleItem.
func (m *SaleItemModel) ToDomain() *trade.SaleItem {
	return &trade.SaleItem{
		ID:         m.ID,
		SaleID:     m.SaleID,
		ServiceID:  m.ServiceID,
		Quantity:   m.Quantity,
		UnitPrice:  m.UnitPrice,
		TotalPrice: m.TotalPrice,
	}
}

// SaleItemModelFromDomain creates a new persistence model from a domain SaleItem.
func SaleItemModelFromDomain(i *trade.SaleItem) *SaleItemModel {
	return &SaleItemModel{
		ID:         i.ID,
		SaleID:     i.SaleID,
		ServiceID:  i.ServiceID,
		Quantity:   i.Quantity,
		UnitPrice:  i.UnitPrice,
		TotalPrice: i.TotalPrice,
	}
}
