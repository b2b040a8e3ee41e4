package models

import (
	"github.com/apex/backoffice/internal/domain/partner"
)

// ClientModel is the persistence model for the Client domain entity.
type ClientModel struct {
	AggregateModel
	Name  string `gorm:"type:varchar(200);not null"`
	CPF   string `gorm:"column:cpf;type:varchar(14);index"`
	Phone string `gorm:"type:varchar(50)"`
	Email string `gorm:"type:varchar(200);index"`
	Notes string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts the persistence model to a domain Client entity.
func (m *ClientModel) ToDomain() *partner.Client {
	return &partner.Client{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Name:              m.Name,
		CPF:               m.CPF,
		Phone:             m.Phone,
		Email:             m.Email,
		Notes:             m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Client entity.
func (m *ClientModel) FromDomain(c *partner.Client) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Name = c.Name
	m.CPF = c.CPF
	m.Phone = c.Phone
	m.Email = c.Email
	m.Notes = c.Notes
}

// ClientModelFromDomain creates a new persistence model from a domain Client entity.
func ClientModelFromDomain(c *partner.Client) *ClientModel {
	m := &ClientModel{}
	m.FromDomain(c)
	return m
}
