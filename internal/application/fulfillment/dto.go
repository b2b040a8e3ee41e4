package fulfillment

import (
	"time"

	"github.com/apex/backoffice/internal/domain/fulfillment"
	"github.com/google/uuid"
)

// UpdateProcessRequest moves a process through its lifecycle
type UpdateProcessRequest struct {
	Status string  `json:"status" binding:"required,oneof=PENDING IN_PROGRESS COMPLETED CANCELLED"`
	Notes  *string `json:"notes" binding:"omitempty,max=2000"`
}

// ProcessResponse represents a process in API responses
type ProcessResponse struct {
	ID          uuid.UUID  `json:"id"`
	ClientID    uuid.UUID  `json:"client_id"`
	ServiceID   uuid.UUID  `json:"service_id"`
	SaleID      *uuid.UUID `json:"sale_id,omitempty"`
	Status      string     `json:"status"`
	Notes       string     `json:"notes,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ProcessListFilter represents filter options for the process list
type ProcessListFilter struct {
	Status    string `form:"status" binding:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED CANCELLED"`
	ClientID  string `form:"client_id" binding:"omitempty,uuid"`
	ServiceID string `form:"service_id" binding:"omitempty,uuid"`
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy   string `form:"order_by"`
	OrderDir  string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

func toProcessResponse(p *fulfillment.Process) *ProcessResponse {
	return &ProcessResponse{
		ID:          p.ID,
		ClientID:    p.ClientID,
		ServiceID:   p.ServiceID,
		SaleID:      p.SaleID,
		Status:      string(p.Status),
		Notes:       p.Notes,
		CompletedAt: p.CompletedAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
