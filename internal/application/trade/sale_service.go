package trade

import (
	"context"
	"fmt"
	"time"

	appaudit "github.com/apex/backoffice/internal/application/audit"
	"github.com/apex/backoffice/internal/domain/audit"
	"github.com/apex/backoffice/internal/domain/catalog"
	"github.com/apex/backoffice/internal/domain/finance"
	"github.com/apex/backoffice/internal/domain/fulfillment"
	"github.com/apex/backoffice/internal/domain/partner"
	"github.com/apex/backoffice/internal/domain/shared"
	"github.com/apex/backoffice/internal/domain/shared/valueobject"
	"github.com/apex/backoffice/internal/domain/trade"
	"github.com/google/uuid"
)

// SaleService closes sales. Closing a sale fans out into the documents
// the rest of the system works from: one receivable for the client,
// one process per unit of every templated service, and one payable per
// expense template per unit. The whole bundle is committed atomically.
type SaleService struct {
	saleRepo    trade.SaleRepository
	clientRepo  partner.ClientRepository
	serviceRepo catalog.ServiceRepository
	recorder    *appaudit.Recorder
}

// NewSaleService creates a new SaleService
func NewSaleService(
	saleRepo trade.SaleRepository,
	clientRepo partner.ClientRepository,
	serviceRepo catalog.ServiceRepository,
	recorder *appaudit.Recorder,
) *SaleService {
	return &SaleService{
		saleRepo:    saleRepo,
		clientRepo:  clientRepo,
		serviceRepo: serviceRepo,
		recorder:    recorder,
	}
}

// Create validates the request, builds the sale with every generated
// document and persists everything in one transaction. The audit entry
// is emitted only after the commit succeeded.
func (s *SaleService) Create(ctx context.Context, userID *uuid.UUID, req CreateSaleRequest) (*SaleResponse, error) {
	client, err := s.clientRepo.FindByID(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}

	services, err := s.loadServices(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	discount, err := valueobject.NewMoneyFromDecimal(req.Discount)
	if err != nil {
		return nil, err
	}

	inputs := make([]trade.SaleItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		unitPrice, err := valueobject.NewMoneyFromDecimal(item.UnitPrice)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, trade.SaleItemInput{
			ServiceID: item.ServiceID,
			Quantity:  item.Quantity,
			UnitPrice: unitPrice,
		})
	}

	sale, err := trade.NewSale(client.ID, inputs, discount, req.Notes)
	if err != nil {
		return nil, err
	}

	fanOut := &trade.SaleFanOut{Sale: sale}

	method := finance.PaymentMethod(req.PaymentMethod)
	installments := req.Installments
	if installments < 1 {
		installments = 1
	}

	// Every sale books exactly one receivable, even a fully discounted
	// one at amount zero, so the books always trace a sale to its charge.
	receivable, err := finance.NewReceivable(
		client.ID,
		&sale.ID,
		fmt.Sprintf("Venda %s - %s", sale.Number, client.Name),
		sale.FinalAmount,
		time.Now(),
		method,
		installments,
	)
	if err != nil {
		return nil, err
	}
	if req.Paid && sale.FinalAmount.IsPositive() {
		if _, err := receivable.ApplyPayment(sale.FinalAmount, method, "Pagamento no ato da venda"); err != nil {
			return nil, err
		}
	}
	fanOut.Receivable = receivable

	if err := s.fanOutItems(fanOut, sale, services); err != nil {
		return nil, err
	}

	if err := s.saleRepo.SaveFanOut(ctx, fanOut); err != nil {
		return nil, err
	}

	s.recorder.Record(audit.NewEntry(userID, audit.ActionCreate, audit.ResourceSale, sale.ID.String(),
		fmt.Sprintf("Venda %s - %s", sale.Number, client.Name)))

	return toSaleResponse(sale, &fanOut.Receivable.ID, len(fanOut.Payables), len(fanOut.Processes)), nil
}

// loadServices resolves every distinct service on the request and
// rejects unknown or inactive ones before anything is created.
func (s *SaleService) loadServices(ctx context.Context, items []SaleItemRequest) (map[uuid.UUID]*catalog.Service, error) {
	seen := make(map[uuid.UUID]bool, len(items))
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if !seen[item.ServiceID] {
			seen[item.ServiceID] = true
			ids = append(ids, item.ServiceID)
		}
	}

	found, err := s.serviceRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	services := make(map[uuid.UUID]*catalog.Service, len(found))
	for i := range found {
		services[found[i].ID] = &found[i]
	}
	for _, id := range ids {
		svc, ok := services[id]
		if !ok {
			return nil, shared.NewDomainError("SERVICE_NOT_FOUND", fmt.Sprintf("Service %s does not exist", id))
		}
		if !svc.Active {
			return nil, shared.NewDomainError("SERVICE_INACTIVE", fmt.Sprintf("Service %q is not available for sale", svc.Name))
		}
	}
	return services, nil
}

// fanOutItems generates processes and payables for every sold unit of
// a templated service. Services without expense templates sell without
// generating either.
func (s *SaleService) fanOutItems(fanOut *trade.SaleFanOut, sale *trade.Sale, services map[uuid.UUID]*catalog.Service) error {
	now := time.Now()
	for _, item := range sale.Items {
		svc := services[item.ServiceID]
		if len(svc.ExpenseTemplates) == 0 {
			continue
		}
		for unit := 0; unit < item.Quantity; unit++ {
			process, err := fulfillment.NewProcess(sale.ClientID, svc.ID, "")
			if err != nil {
				return err
			}
			process.LinkSale(sale.ID)
			fanOut.Processes = append(fanOut.Processes, *process)

			for _, tpl := range svc.ExpenseTemplates {
				categoryID := tpl.CategoryID
				payable, err := finance.NewPayable(
					fmt.Sprintf("%s - %s (Venda %s)", tpl.Description, svc.Name, sale.Number),
					tpl.Amount,
					now,
					nil,
					&categoryID,
				)
				if err != nil {
					return err
				}
				payable.LinkSale(sale.ID)
				fanOut.Payables = append(fanOut.Payables, *payable)
			}
		}
	}
	return nil
}

// Get returns a sale by ID with its items
func (s *SaleService) Get(ctx context.Context, id uuid.UUID) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, nil, 0, 0), nil
}

// List returns sales matching the filter plus the total count
func (s *SaleService) List(ctx context.Context, filter SaleListFilter) ([]SaleResponse, int64, error) {
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
	if filter.ClientID != "" {
		f.Filters["client_id"] = filter.ClientID
	}

	sales, err := s.saleRepo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.saleRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]SaleResponse, len(sales))
	for i := range sales {
		responses[i] = *toSaleResponse(&sales[i], nil, 0, 0)
	}
	return responses, total, nil
}
