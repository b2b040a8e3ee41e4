package fulfillment

import (
	"context"

	appaudit "github.com/apex/backoffice/internal/application/audit"
	"github.com/apex/backoffice/internal/domain/audit"
	"github.com/apex/backoffice/internal/domain/fulfillment"
	"github.com/apex/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// ProcessService handles process-related business operations.
// Processes are opened by sales, never created directly; this service
// only reads and advances them.
type ProcessService struct {
	processRepo fulfillment.ProcessRepository
	recorder    *appaudit.Recorder
}

// NewProcessService creates a new ProcessService
func NewProcessService(processRepo fulfillment.ProcessRepository, recorder *appaudit.Recorder) *ProcessService {
	return &ProcessService{
		processRepo: processRepo,
		recorder:    recorder,
	}
}

// Get returns a process by ID
func (s *ProcessService) Get(ctx context.Context, id uuid.UUID) (*ProcessResponse, error) {
	process, err := s.processRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProcessResponse(process), nil
}

// List returns processes matching the filter plus the total count
func (s *ProcessService) List(ctx context.Context, filter ProcessListFilter) ([]ProcessResponse, int64, error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	f.OrderBy = filter.OrderBy
	if filter.OrderDir != "" {
		f.OrderDir = filter.OrderDir
	}
	if filter.Status != "" {
		f.Filters["status"] = filter.Status
	}
	if filter.ClientID != "" {
		f.Filters["client_id"] = filter.ClientID
	}
	if filter.ServiceID != "" {
		f.Filters["service_id"] = filter.ServiceID
	}

	processes, err := s.processRepo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.processRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ProcessResponse, len(processes))
	for i := range processes {
		responses[i] = *toProcessResponse(&processes[i])
	}
	return responses, total, nil
}

// ListByClient returns every process for one client, newest first
func (s *ProcessService) ListByClient(ctx context.Context, clientID uuid.UUID) ([]ProcessResponse, error) {
	processes, err := s.processRepo.FindByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	responses := make([]ProcessResponse, len(processes))
	for i := range processes {
		responses[i] = *toProcessResponse(&processes[i])
	}
	return responses, nil
}

// Update transitions a process and optionally replaces its notes
func (s *ProcessService) Update(ctx context.Context, userID *uuid.UUID, id uuid.UUID, req UpdateProcessRequest) (*ProcessResponse, error) {
	process, err := s.processRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := process.Transition(fulfillment.ProcessStatus(req.Status)); err != nil {
		return nil, err
	}
	if req.Notes != nil {
		process.SetNotes(*req.Notes)
	}

	if err := s.processRepo.Save(ctx, process); err != nil {
		return nil, err
	}

	s.recorder.Record(audit.NewEntry(userID, audit.ActionUpdate, audit.ResourceProcess, process.ID.String(), req.Status))
	return toProcessResponse(process), nil
}
