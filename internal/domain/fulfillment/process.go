package fulfillment

import (
	"fmt"
	"time"

	"github.com/apex/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// ProcessStatus tracks a licensing process through its lifecycle
type ProcessStatus string

const (
	ProcessStatusPending    ProcessStatus = "PENDING"
	ProcessStatusInProgress ProcessStatus = "IN_PROGRESS"
	ProcessStatusCompleted  ProcessStatus = "COMPLETED"
	ProcessStatusCancelled  ProcessStatus = "CANCELLED"
)

// IsValid checks if the status is a valid ProcessStatus
func (s ProcessStatus) IsValid() bool {
	switch s {
	case ProcessStatusPending, ProcessStatusInProgress, ProcessStatusCompleted, ProcessStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of ProcessStatus
func (s ProcessStatus) String() string {
	return string(s)
}

// Process is one unit of contracted work for a client, e.g. a single
// registration certificate request. A sale of quantity N opens N
// processes so each can be tracked through the licensing authority
// individually.
type Process struct {
	shared.BaseAggregateRoot
	ClientID    uuid.UUID     `json:"client_id"`
	ServiceID   uuid.UUID     `json:"service_id"`
	SaleID      *uuid.UUID    `json:"sale_id,omitempty"`
	Status      ProcessStatus `json:"status"`
	Notes       string        `json:"notes,omitempty"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
}

// NewProcess opens a pending process for a client and service
func NewProcess(clientID, serviceID uuid.UUID, notes string) (*Process, error) {
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}
	if serviceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SERVICE", "Service ID cannot be empty")
	}
	return &Process{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ClientID:          clientID,
		ServiceID:         serviceID,
		Status:            ProcessStatusPending,
		Notes:             notes,
	}, nil
}

// LinkSale records which sale opened this process
func (p *Process) LinkSale(saleID uuid.UUID) {
	p.SaleID = &saleID
}

// Transition moves the process to a new status
func (p *Process) Transition(status ProcessStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Status %q is not valid", status))
	}
	if p.Status == ProcessStatusCompleted || p.Status == ProcessStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot transition process in %s status", p.Status))
	}
	p.Status = status
	if status == ProcessStatusCompleted {
		now := time.Now()
		p.CompletedAt = &now
	}
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// SetNotes replaces the process notes
func (p *Process) SetNotes(notes string) {
	p.Notes = notes
	p.UpdatedAt = time.Now()
}
