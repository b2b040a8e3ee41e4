package catalog

import (
	"strings"

	"github.com/apex/backoffice/internal/domain/shared"
)

// ExpenseCategory groups payables for reporting, e.g. taxes or payroll
type ExpenseCategory struct {
	shared.BaseAggregateRoot
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// NewExpenseCategory creates a new expense category
func NewExpenseCategory(name, color string) (*ExpenseCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_CATEGORY_NAME", "Expense category name cannot be empty")
	}
	return &ExpenseCategory{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Color:             color,
	}, nil
}

// Update replaces the category details
func (c *ExpenseCategory) Update(name, color string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_CATEGORY_NAME", "Expense category name cannot be empty")
	}
	c.Name = name
	c.Color = color
	return nil
}
