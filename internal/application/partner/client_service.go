package partner

import (
	"context"
	"errors"

	appaudit "github.com/apex/backoffice/internal/application/audit"
	"github.com/apex/backoffice/internal/domain/audit"
	"github.com/apex/backoffice/internal/domain/partner"
	"github.com/apex/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// ClientService handles client-related business operations
type ClientService struct {
	clientRepo partner.ClientRepository
	recorder   *appaudit.Recorder
}

// NewClientService creates a new ClientService
func NewClientService(clientRepo partner.ClientRepository, recorder *appaudit.Recorder) *ClientService {
	return &ClientService{
		clientRepo: clientRepo,
		recorder:   recorder,
	}
}

// Create registers a new client
func (s *ClientService) Create(ctx context.Context, userID *uuid.UUID, req CreateClientRequest) (*ClientResponse, error) {
	client, err := partner.NewClient(req.Name, req.CPF, req.Phone, req.Email)
	if err != nil {
		return nil, err
	}
	if req.Notes != "" {
		client.SetNotes(req.Notes)
	}

	if client.CPF != "" {
		existing, err := s.clientRepo.FindByCPF(ctx, client.CPF)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if existing != nil {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "A client with this CPF already exists")
		}
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}

	s.recorder.Record(audit.NewEntry(userID, audit.ActionCreate, audit.ResourceClient, client.ID.String(), client.Name))
	return toClientResponse(client), nil
}

// Get returns a client by ID
func (s *ClientService) Get(ctx context.Context, id uuid.UUID) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// List returns clients matching the filter plus the total count
func (s *ClientService) List(ctx context.Context, filter ClientListFilter) ([]ClientResponse, int64, error) {
	f := shared.DefaultFilter()
	f.Search = filter.Search
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

	clients, err := s.clientRepo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.clientRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ClientResponse, len(clients))
	for i := range clients {
		responses[i] = *toClientResponse(&clients[i])
	}
	return responses, total, nil
}

// Update replaces a client's contact details
func (s *ClientService) Update(ctx context.Context, userID *uuid.UUID, id uuid.UUID, req UpdateClientRequest) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := client.Update(req.Name, req.CPF, req.Phone, req.Email); err != nil {
		return nil, err
	}
	if req.Notes != nil {
		client.SetNotes(*req.Notes)
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}

	s.recorder.Record(audit.NewEntry(userID, audit.ActionUpdate, audit.ResourceClient, client.ID.String(), client.Name))
	return toClientResponse(client), nil
}

// Delete removes a client
func (s *ClientService) Delete(ctx context.Context, userID *uuid.UUID, id uuid.UUID) error {
	if err := s.clientRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.recorder.Record(audit.NewEntry(userID, audit.ActionDelete, audit.ResourceClient, id.String(), ""))
	return nil
}
