package catalog

import (
	"strings"
	"time"

	"github.com/apex/backoffice/internal/domain/shared"
	"github.com/apex/backoffice/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// ExpenseTemplate is a recurring cost attached to a service. Every
// time the service is sold, one payable is generated per template per
// unit sold (e.g. taxes or filing fees owed for each license request).
type ExpenseTemplate struct {
	ID          uuid.UUID         `json:"id"`
	ServiceID   uuid.UUID         `json:"service_id"`
	Description string            `json:"description"`
	Amount      valueobject.Money `json:"amount"`
	CategoryID  uuid.UUID         `json:"category_id"`
	CreatedAt   time.Time         `json:"created_at"`
}

// NewExpenseTemplate creates an expense template for a service
func NewExpenseTemplate(serviceID uuid.UUID, description string, amount valueobject.Money, categoryID uuid.UUID) (*ExpenseTemplate, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, shared.NewDomainError("INVALID_TEMPLATE_DESCRIPTION", "Expense template description cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_TEMPLATE_AMOUNT", "Expense template amount must be positive")
	}
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Expense category ID cannot be empty")
	}
	return &ExpenseTemplate{
		ID:          uuid.New(),
		ServiceID:   serviceID,
		Description: description,
		Amount:      amount,
		CategoryID:  categoryID,
		CreatedAt:   time.Now(),
	}, nil
}

// Service represents a sellable advisory service, e.g. issuing a
// shooter registration certificate or a firearm transfer permit.
type Service struct {
	shared.BaseAggregateRoot
	Name             string            `json:"name"`
	Description      string            `json:"description,omitempty"`
	Price            valueobject.Money `json:"price"`
	Active           bool              `json:"active"`
	ExpenseTemplates []ExpenseTemplate `json:"expense_templates,omitempty"`
}

// NewService creates a new service
func NewService(name, description string, price valueobject.Money) (*Service, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_SERVICE_NAME", "Service name cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_SERVICE_PRICE", "Service price cannot be negative")
	}
	return &Service{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       strings.TrimSpace(description),
		Price:             price,
		Active:            true,
	}, nil
}

// Update replaces the service details
func (s *Service) Update(name, description string, price valueobject.Money) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_SERVICE_NAME", "Service name cannot be empty")
	}
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_SERVICE_PRICE", "Service price cannot be negative")
	}
	s.Name = name
	s.Description = strings.TrimSpace(description)
	s.Price = price
	return nil
}

// Deactivate hides the service from new sales without deleting history
func (s *Service) Deactivate() {
	s.Active = false
}

// Activate makes the service sellable again
func (s *Service) Activate() {
	s.Active = true
}

// AddExpenseTemplate attaches an expense template to the service
func (s *Service) AddExpenseTemplate(description string, amount valueobject.Money, categoryID uuid.UUID) (*ExpenseTemplate, error) {
	tpl, err := NewExpenseTemplate(s.ID, description, amount, categoryID)
	if err != nil {
		return nil, err
	}
	s.ExpenseTemplates = append(s.ExpenseTemplates, *tpl)
	return tpl, nil
}

// RemoveExpenseTemplate detaches a template by ID
func (s *Service) RemoveExpenseTemplate(templateID uuid.UUID) error {
	for i, tpl := range s.ExpenseTemplates {
		if tpl.ID == templateID {
			s.ExpenseTemplates = append(s.ExpenseTemplates[:i], s.ExpenseTemplates[i+1:]...)
			return nil
		}
	}
	return shared.ErrNotFound
}
