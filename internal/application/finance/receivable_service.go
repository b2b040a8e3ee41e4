package finance

import (
	"context"

	appaudit "github.com/apex/backoffice/internal/application/audit"
	"github.com/apex/backoffice/internal/domain/audit"
	"github.com/apex/backoffice/internal/domain/finance"
	"github.com/apex/backoffice/internal/domain/shared"
	"github.com/apex/backoffice/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// ReceivableService handles receivable-related business operations.
// Mutations go through SaveWithLock so a webhook landing on the same
// receivable at the same time surfaces as a conflict instead of a
// silent overwrite.
type ReceivableService struct {
	receivableRepo finance.ReceivableRepository
	recorder       *appaudit.Recorder
}

// NewReceivableService creates a new ReceivableService
func NewReceivableService(receivableRepo finance.ReceivableRepository, recorder *appaudit.Recorder) *ReceivableService {
	return &ReceivableService{
		receivableRepo: receivableRepo,
		recorder:       recorder,
	}
}

// Create registers a receivable entered by hand
func (s *ReceivableService) Create(ctx context.Context, userID *uuid.UUID, req CreateReceivableRequest) (*ReceivableResponse, error) {
	amount, err := valueobject.NewMoneyFromDecimal(req.Amount)
	if err != nil {
		return nil, err
	}

	installments := req.Installments
	if installments < 1 {
		installments = 1
	}

	receivable, err := finance.NewReceivable(
		req.ClientID,
		nil,
		req.Description,
		amount,
		req.DueDate,
		finance.PaymentMethod(req.PaymentMethod),
		installments,
	)
	if err != nil {
		return nil, err
	}

	if err := s.receivableRepo.Save(ctx, receivable); err != nil {
		return nil, err
	}

	s.recorder.Record(audit.NewEntry(userID, audit.ActionCreate, audit.ResourceReceivable, receivable.ID.String(), receivable.Description))
	return toReceivableResponse(receivable), nil
}

// Get returns a receivable with its payment history
func (s *ReceivableService) Get(ctx context.Context, id uuid.UUID) (*ReceivableResponse, error) {
	receivable, err := s.receivableRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toReceivableResponse(receivable), nil
}

// List returns receivables matching the filter plus the total count
func (s *ReceivableService) List(ctx context.Context, filter ReceivableListFilter) ([]ReceivableResponse, int64, error) {
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
	if filter.ClientID != "" {
		f.Filters["client_id"] = filter.ClientID
	}
	if filter.Overdue {
		f.Filters["overdue"] = true
	}

	receivables, err := s.receivableRepo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.receivableRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ReceivableResponse, len(receivables))
	for i := range receivables {
		responses[i] = *toReceivableResponse(&receivables[i])
	}
	return responses, total, nil
}

// ApplyPayment records a manual payment against a receivable
func (s *ReceivableService) ApplyPayment(ctx context.Context, userID *uuid.UUID, id uuid.UUID, req ApplyPaymentRequest) (*ReceivableResponse, error) {
	receivable, err := s.receivableRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	amount, err := valueobject.NewMoneyFromDecimal(req.Amount)
	if err != nil {
		return nil, err
	}

	record, err := receivable.ApplyPayment(amount, finance.PaymentMethod(req.PaymentMethod), req.Notes)
	if err != nil {
		return nil, err
	}

	if err := s.receivableRepo.SaveWithLock(ctx, receivable); err != nil {
		return nil, err
	}

	s.recorder.Record(audit.NewEntry(userID, audit.ActionUpdate, audit.ResourceReceivable, receivable.ID.String(),
		"Pagamento registrado: "+record.Amount.String()))
	return toReceivableResponse(receivable), nil
}

// Update adjusts a receivable's status, received amount and due date
func (s *ReceivableService) Update(ctx context.Context, userID *uuid.UUID, id uuid.UUID, req UpdateReceivableRequest) (*ReceivableResponse, error) {
	receivable, err := s.receivableRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	received, err := valueobject.NewMoneyFromDecimal(req.ReceivedAmount)
	if err != nil {
		return nil, err
	}

	if err := receivable.UpdateTerms(finance.ReceivableStatus(req.Status), received, req.DueDate); err != nil {
		return nil, err
	}

	if err := s.receivableRepo.SaveWithLock(ctx, receivable); err != nil {
		return nil, err
	}

	s.recorder.Record(audit.NewEntry(userID, audit.ActionUpdate, audit.ResourceReceivable, receivable.ID.String(), receivable.Description))
	return toReceivableResponse(receivable), nil
}

// Cancel voids a receivable that has no recorded payments
func (s *ReceivableService) Cancel(ctx context.Context, userID *uuid.UUID, id uuid.UUID) (*ReceivableResponse, error) {
	receivable, err := s.receivableRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := receivable.Cancel(); err != nil {
		return nil, err
	}

	if err := s.receivableRepo.SaveWithLock(ctx, receivable); err != nil {
		return nil, err
	}

	s.recorder.Record(audit.NewEntry(userID, audit.ActionUpdate, audit.ResourceReceivable, receivable.ID.String(), "Cancelado"))
	return toReceivableResponse(receivable), nil
}

// Delete removes a receivable
func (s *ReceivableService) Delete(ctx context.Context, userID *uuid.UUID, id uuid.UUID) error {
	if err := s.receivableRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.recorder.Record(audit.NewEntry(userID, audit.ActionDelete, audit.ResourceReceivable, id.String(), ""))
	return nil
}
