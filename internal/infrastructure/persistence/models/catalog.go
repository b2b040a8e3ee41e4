package models

import (
	"time"

	"github.com/apex/backoffice/internal/domain/catalog"
	"github.com/apex/backoffice/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// ServiceModel is the persistence model for the Service domain entity.
type ServiceModel struct {
	AggregateModel
	Name        string                 `gorm:"type:varchar(200);not null;index"`
	Description string                 `gorm:"type:text"`
	Price       valueobject.Money      `gorm:"type:bigint;not null;default:0"`
	Active      bool                   `gorm:"not null;default:true"`
	Templates   []ExpenseTemplateModel `gorm:"foreignKey:ServiceID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (ServiceModel) TableName() string {
	return "services"
}

// ToDomain converts the persistence model to a domain Service entity.
func (m *ServiceModel) ToDomain() *catalog.Service {
	templates := make([]catalog.ExpenseTemplate, len(m.Templates))
	for i, t := range m.Templates {
		templates[i] = *t.ToDomain()
	}
	return &catalog.Service{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Name:              m.Name,
		Description:       m.Description,
		Price:             m.Price,
		Active:            m.Active,
		ExpenseTemplates:  templates,
	}
}

// FromDomain populates the persistence model from a domain Service entity.
func (m *ServiceModel) FromDomain(s *catalog.Service) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.Name = s.Name
	m.Description = s.Description
	m.Price = s.Price
	m.Active = s.Active
	m.Templates = make([]ExpenseTemplateModel, len(s.ExpenseTemplates))
	for i := range s.ExpenseTemplates {
		m.Templates[i] = *ExpenseTemplateModelFromDomain(&s.ExpenseTemplates[i])
	}
}

// ServiceModelFromDomain creates a new persistence model from a domain Service entity.
func ServiceModelFromDomain(s *catalog.Service) *ServiceModel {
	m := &ServiceModel{}
	m.FromDomain(s)
	return m
}

// ExpenseTemplateModel is the persistence model for a service's expense template.
type ExpenseTemplateModel struct {
	ID          uuid.UUID         `gorm:"type:uuid;primary_key"`
	ServiceID   uuid.UUID         `gorm:"type:uuid;not null;index"`
	Description string            `gorm:"type:varchar(300);not null"`
	Amount      valueobject.Money `gorm:"type:bigint;not null"`
	CategoryID  uuid.UUID         `gorm:"type:uuid;not null;index"`
	CreatedAt   time.Time         `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ExpenseTemplateModel) TableName() string {
	return "service_expense_templates"
}

// ToDomain converts the persistence model to a domain ExpenseTemplate.
func (m *ExpenseTemplateModel) ToDomain() *catalog.ExpenseTemplate {
	return &catalog.ExpenseTemplate{
		ID:          m.ID,
		ServiceID:   m.ServiceID,
		Description: m.Description,
		Amount:      m.Amount,
		CategoryID:  m.CategoryID,
		CreatedAt:   m.CreatedAt,
	}
}

// ExpenseTemplateModelFromDomain creates a new persistence model from a domain ExpenseTemplate.
func ExpenseTemplateModelFromDomain(t *catalog.ExpenseTemplate) *ExpenseTemplateModel {
	return &ExpenseTemplateModel{
		ID:          t.ID,
		ServiceID:   t.ServiceID,
		Description: t.Description,
		Amount:      t.Amount,
		CategoryID:  t.CategoryID,
		CreatedAt:   t.CreatedAt,
	}
}

// ExpenseCategoryModel is the persistence model for expense categories.
type ExpenseCategoryModel struct {
	AggregateModel
	Name  string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Color string `gorm:"type:varchar(7)"`
}

// TableName returns the table name for GORM
func (ExpenseCategoryModel) TableName() string {
	return "expense_categories"
}

// ToDomain converts the persistence model to a domain ExpenseCategory.
func (m *ExpenseCategoryModel) ToDomain() *catalog.ExpenseCategory {
	return &catalog.ExpenseCategory{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Name:              m.Name,
		Color:             m.Color,
	}
}

// FromDomain populates the persistence model from a domain ExpenseCategory.
func (m *ExpenseCategoryModel) FromDomain(c *catalog.ExpenseCategory) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Name = c.Name
	m.Color = c.Color
}

// ExpenseCategoryModelFromDomain creates a new persistence model from a domain ExpenseCategory.
func ExpenseCategoryModelFromDomain(c *catalog.ExpenseCategory) *ExpenseCategoryModel {
	m := &ExpenseCategoryModel{}
	m.FromDomain(c)
	return m
}
