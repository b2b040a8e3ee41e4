package models

import (
	"time"

	"github.com/apex/backoffice/internal/domain/fulfillment"
	"github.com/google/uuid"
)

// ProcessModel is the persistence model for the Process aggregate.
type ProcessModel struct {
	AggregateModel
	ClientID    uuid.UUID                 `gorm:"type:uuid;not null;index"`
	ServiceID   uuid.UUID                 `gorm:"type:uuid;not null;index"`
	SaleID      *uuid.UUID                `gorm:"type:uuid;index"`
	Status      fulfillment.ProcessStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	Notes       string                    `gorm:"type:text"`
	CompletedAt *time.Time
}

// TableName returns the table name for GORM
func (ProcessModel) TableName() string {
	return "processes"
}

// ToDomain converts the persistence model to a domain Process aggregate.
func (m *ProcessModel) ToDomain() *fulfillment.Process {
	return &fulfillment.Process{
		BaseAggregateRoot: m.ToAggregateRoot(),
		ClientID:          m.ClientID,
		ServiceID:         m.ServiceID,
		SaleID:            m.SaleID,
		Status:            m.Status,
		Notes:             m.Notes,
		CompletedAt:       m.CompletedAt,
	}
}

// FromDomain populates the persistence model from a domain Process aggregate.
func (m *ProcessModel) FromDomain(p *fulfillment.Process) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.ClientID = p.ClientID
	m.ServiceID = p.ServiceID
	m.SaleID = p.SaleID
	m.Status = p.Status
	m.Notes = p.Notes
	m.CompletedAt = p.CompletedAt
}

// ProcessModelFromDomain creates a new persistence model from a domain Process.
func ProcessModelFromDomain(p *fulfillment.Process) *ProcessModel {
	m := &ProcessModel{}
	m.FromDomain(p)
	return m
}
