package catalog

import (
	"time"

	"github.com/apex/backoffice/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseTemplateInput is one expense template on a service request.
// Amounts are decimal reais on the wire and centavos internally.
type ExpenseTemplateInput struct {
	Description string          `json:"description" binding:"required,min=1,max=300"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	CategoryID  uuid.UUID       `json:"category_id" binding:"required"`
}

// CreateServiceRequest represents a request to create a service
type CreateServiceRequest struct {
	Name        string                 `json:"name" binding:"required,min=1,max=200"`
	Description string                 `json:"description" binding:"max=2000"`
	Price       decimal.Decimal        `json:"price" binding:"required"`
	Templates   []ExpenseTemplateInput `json:"expense_templates" binding:"dive"`
}

// UpdateServiceRequest replaces service details and its template set
type UpdateServiceRequest struct {
	Name        string                 `json:"name" binding:"required,min=1,max=200"`
	Description string                 `json:"description" binding:"max=2000"`
	Price       decimal.Decimal        `json:"price" binding:"required"`
	Active      *bool                  `json:"active"`
	Templates   []ExpenseTemplateInput `json:"expense_templates" binding:"dive"`
}

// ExpenseTemplateResponse represents an expense template in responses
type ExpenseTemplateResponse struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	CategoryID  uuid.UUID       `json:"category_id"`
}

// ServiceResponse represents a service in API responses
type ServiceResponse struct {
	ID          uuid.UUID                 `json:"id"`
	Name        string                    `json:"name"`
	Description string                    `json:"description,omitempty"`
	Price       decimal.Decimal           `json:"price"`
	Active      bool                      `json:"active"`
	Templates   []ExpenseTemplateResponse `json:"expense_templates"`
	CreatedAt   time.Time                 `json:"created_at"`
	UpdatedAt   time.Time                 `json:"updated_at"`
}

// ServiceListFilter represents filter options for the service list
type ServiceListFilter struct {
	Search   string `form:"search"`
	Active   *bool  `form:"active"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// CreateCategoryRequest represents a request to create an expense category
type CreateCategoryRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=100"`
	Color string `json:"color" binding:"omitempty,hexcolor"`
}

// UpdateCategoryRequest represents a request to update an expense category
type UpdateCategoryRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=100"`
	Color string `json:"color" binding:"omitempty,hexcolor"`
}

// CategoryResponse represents an expense category in API responses
type CategoryResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toServiceResponse(s *catalog.Service) *ServiceResponse {
	templates := make([]ExpenseTemplateResponse, len(s.ExpenseTemplates))
	for i, tpl := range s.ExpenseTemplates {
		templates[i] = ExpenseTemplateResponse{
			ID:          tpl.ID,
			Description: tpl.Description,
			Amount:      tpl.Amount.Decimal(),
			CategoryID:  tpl.CategoryID,
		}
	}
	return &ServiceResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Price:       s.Price.Decimal(),
		Active:      s.Active,
		Templates:   templates,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func toCategoryResponse(c *catalog.ExpenseCategory) *CategoryResponse {
	return &CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Color:     c.Color,
		CreatedAt: c.CreatedAt,
	}
}
