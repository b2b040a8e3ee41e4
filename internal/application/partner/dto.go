package partner

import (
	"time"

	"github.com/apex/backoffice/internal/domain/partner"
	"github.com/google/uuid"
)

// CreateClientRequest represents a request to register a new client
type CreateClientRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=200"`
	CPF   string `json:"cpf" binding:"max=14"`
	Phone string `json:"phone" binding:"max=50"`
	Email string `json:"email" binding:"omitempty,email,max=200"`
	Notes string `json:"notes"`
}

// UpdateClientRequest represents a request to update a client
type UpdateClientRequest struct {
	Name  string  `json:"name" binding:"required,min=1,max=200"`
	CPF   string  `json:"cpf" binding:"max=14"`
	Phone string  `json:"phone" binding:"max=50"`
	Email string  `json:"email" binding:"omitempty,email,max=200"`
	Notes *string `json:"notes"`
}

// ClientResponse represents a client in API responses
type ClientResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CPF       string    `json:"cpf,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClientListFilter represents filter options for the client list
type ClientListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// toClientResponse converts a domain client to its API shape
func toClientResponse(c *partner.Client) *ClientResponse {
	return &ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		CPF:       c.CPF,
		Phone:     c.Phone,
		Email:     c.Email,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
