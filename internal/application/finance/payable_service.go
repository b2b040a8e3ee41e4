package finance

import (
	"context"

	appaudit "github.com/apex/backoffice/internal/application/audit"
	"github.com/apex/backoffice/internal/domain/audit"
	"github.com/apex/backoffice/internal/domain/catalog"
	"github.com/apex/backoffice/internal/domain/finance"
	"github.com/apex/backoffice/internal/domain/shared"
	"github.com/apex/backoffice/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// PayableService handles payable-related business operations
type PayableService struct {
	payableRepo  finance.PayableRepository
	categoryRepo catalog.ExpenseCategoryRepository
	recorder     *appaudit.Recorder
}

// NewPayableService creates a new PayableService
func NewPayableService(
	payableRepo finance.PayableRepository,
	categoryRepo catalog.ExpenseCategoryRepository,
	recorder *appaudit.Recorder,
) *PayableService {
	return &PayableService{
		payableRepo:  payableRepo,
		categoryRepo: categoryRepo,
		recorder:     recorder,
	}
}

// Create registers a manually entered payable
func (s *PayableService) Create(ctx context.Context, userID *uuid.UUID, req CreatePayableRequest) (*PayableResponse, error) {
	amount, err := valueobject.NewMoneyFromDecimal(req.Amount)
	if err != nil {
		return nil, err
	}

	if err := s.checkCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	payable, err := finance.NewPayable(req.Description, amount, req.DueDate, req.ClientID, req.CategoryID)
	if err != nil {
		return nil, err
	}

	if err := s.payableRepo.Save(ctx, payable); err != nil {
		return nil, err
	}

	s.recorder.Record(audit.NewEntry(userID, audit.ActionCreate, audit.ResourcePayable, payable.ID.String(), payable.Description))
	return toPayableResponse(payable), nil
}

// Get returns a payable by ID
func (s *PayableService) Get(ctx context.Context, id uuid.UUID) (*PayableResponse, error) {
	payable, err := s.payableRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toPayableResponse(payable), nil
}

// List returns payables matching the filter plus the total count
func (s *PayableService) List(ctx context.Context, filter PayableListFilter) ([]PayableResponse, int64, error) {
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
	if filter.Status != "" {
		f.Filters["status"] = filter.Status
	}
	if filter.CategoryID != "" {
		f.Filters["category_id"] = filter.CategoryID
	}
	if filter.ClientID != "" {
		f.Filters["client_id"] = filter.ClientID
	}

	payables, err := s.payableRepo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.payableRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]PayableResponse, len(payables))
	for i := range payables {
		responses[i] = *toPayableResponse(&payables[i])
	}
	return responses, total, nil
}

// Update replaces a payable's details
func (s *PayableService) Update(ctx context.Context, userID *uuid.UUID, id uuid.UUID, req UpdatePayableRequest) (*PayableResponse, error) {
	payable, err := s.payableRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	amount, err := valueobject.NewMoneyFromDecimal(req.Amount)
	if err != nil {
		return nil, err
	}

	if err := s.checkCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	if err := payable.Update(req.Description, amount, req.DueDate, finance.PayableStatus(req.Status), req.CategoryID); err != nil {
		return nil, err
	}

	if err := s.payableRepo.Save(ctx, payable); err != nil {
		return nil, err
	}

	s.recorder.Record(audit.NewEntry(userID, audit.ActionUpdate, audit.ResourcePayable, payable.ID.String(), payable.Description))
	return toPayableResponse(payable), nil
}

// Pay settles a payable
func (s *PayableService) Pay(ctx context.Context, userID *uuid.UUID, id uuid.UUID) (*PayableResponse, error) {
	payable, err := s.payableRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := payable.MarkPaid(); err != nil {
		return nil, err
	}

	if err := s.payableRepo.Save(ctx, payable); err != nil {
		return nil, err
	}

	s.recorder.Record(audit.NewEntry(userID, audit.ActionUpdate, audit.ResourcePayable, payable.ID.String(), "Pago"))
	return toPayableResponse(payable), nil
}

// Delete removes a payable
func (s *PayableService) Delete(ctx context.Context, userID *uuid.UUID, id uuid.UUID) error {
	if err := s.payableRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.recorder.Record(audit.NewEntry(userID, audit.ActionDelete, audit.ResourcePayable, id.String(), ""))
	return nil
}

func (s *PayableService) checkCategory(ctx context.Context, categoryID *uuid.UUID) error {
	if categoryID == nil {
		return nil
	}
	if _, err := s.categoryRepo.FindByID(ctx, *categoryID); err != nil {
		return err
	}
	return nil
}
