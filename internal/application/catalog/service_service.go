package catalog

import (
	"context"
	"errors"

	appaudit "github.com/apex/backoffice/internal/application/audit"
	"github.com/apex/backoffice/internal/domain/audit"
	"github.com/apex/backoffice/internal/domain/catalog"
	"github.com/apex/backoffice/internal/domain/shared"
	"github.com/apex/backoffice/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// ServiceService manages the sellable service catalog and the expense
// templates that drive payable fan-out on sales
type ServiceService struct {
	serviceRepo  catalog.ServiceRepository
	categoryRepo catalog.ExpenseCategoryRepository
	recorder     *appaudit.Recorder
}

// NewServiceService creates a new ServiceService
func NewServiceService(serviceRepo catalog.ServiceRepository, categoryRepo catalog.ExpenseCategoryRepository, recorder *appaudit.Recorder) *ServiceService {
	return &ServiceService{
		serviceRepo:  serviceRepo,
		categoryRepo: categoryRepo,
		recorder:     recorder,
	}
}

// Create creates a service with its expense templates
func (s *ServiceService) Create(ctx context.Context, userID *uuid.UUID, req CreateServiceRequest) (*ServiceResponse, error) {
	price, err := valueobject.NewMoneyFromDecimal(req.Price)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_SERVICE_PRICE", err.Error())
	}

	existing, err := s.serviceRepo.FindByName(ctx, req.Name)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A service with this name already exists")
	}

	service, err := catalog.NewService(req.Name, req.Description, price)
	if err != nil {
		return nil, err
	}

	if err := s.attachTemplates(ctx, service, req.Templates); err != nil {
		return nil, err
	}

	if err := s.serviceRepo.Save(ctx, service); err != nil {
		return nil, err
	}

	s.recorder.Record(audit.NewEntry(userID, audit.ActionCreate, audit.ResourceService, service.ID.String(), service.Name))
	return toServiceResponse(service), nil
}

// Get returns a service by ID
func (s *ServiceService) Get(ctx context.Context, id uuid.UUID) (*ServiceResponse, error) {
	service, err := s.serviceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toServiceResponse(service), nil
}

// List returns services matching the filter plus the total count
func (s *ServiceService) List(ctx context.Context, filter ServiceListFilter) ([]ServiceResponse, int64, error) {
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
	if filter.Active != nil {
		f.Filters["active"] = *filter.Active
	}

	services, err := s.serviceRepo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.serviceRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ServiceResponse, len(services))
	for i := range services {
		responses[i] = *toServiceResponse(&services[i])
	}
	return responses, total, nil
}

// Update replaces a service's details and its whole template set.
// Sales already fanned out keep the payables they generated; template
// changes only affect future sales.
func (s *ServiceService) Update(ctx context.Context, userID *uuid.UUID, id uuid.UUID, req UpdateServiceRequest) (*ServiceResponse, error) {
	service, err := s.serviceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	price, err := valueobject.NewMoneyFromDecimal(req.Price)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_SERVICE_PRICE", err.Error())
	}

	if err := service.Update(req.Name, req.Description, price); err != nil {
		return nil, err
	}
	if req.Active != nil {
		if *req.Active {
			service.Activate()
		} else {
			service.Deactivate()
		}
	}

	service.ExpenseTemplates = nil
	if err := s.attachTemplates(ctx, service, req.Templates); err != nil {
		return nil, err
	}

	if err := s.serviceRepo.Save(ctx, service); err != nil {
		return nil, err
	}

	s.recorder.Record(audit.NewEntry(userID, audit.ActionUpdate, audit.ResourceService, service.ID.String(), service.Name))
	return toServiceResponse(service), nil
}

// ReplaceTemplates swaps a service's template set without touching
// its name, price or active flag
func (s *ServiceService) ReplaceTemplates(ctx context.Context, userID *uuid.UUID, id uuid.UUID, templates []ExpenseTemplateInput) (*ServiceResponse, error) {
	service, err := s.serviceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	service.ExpenseTemplates = nil
	if err := s.attachTemplates(ctx, service, templates); err != nil {
		return nil, err
	}

	if err := s.serviceRepo.Save(ctx, service); err != nil {
		return nil, err
	}

	s.recorder.Record(audit.NewEntry(userID, audit.ActionUpdate, audit.ResourceService, service.ID.String(), "Templates de despesa atualizados"))
	return toServiceResponse(service), nil
}

// Delete removes a service from the catalog
func (s *ServiceService) Delete(ctx context.Context, userID *uuid.UUID, id uuid.UUID) error {
	if err := s.serviceRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.recorder.Record(audit.NewEntry(userID, audit.ActionDelete, audit.ResourceService, id.String(), ""))
	return nil
}

// attachTemplates validates template categories and adds them to the service
func (s *ServiceService) attachTemplates(ctx context.Context, service *catalog.Service, templates []ExpenseTemplateInput) error {
	for _, in := range templates {
		amount, err := valueobject.NewMoneyFromDecimal(in.Amount)
		if err != nil {
			return shared.NewDomainError("INVALID_TEMPLATE_AMOUNT", err.Error())
		}
		if _, err := s.categoryRepo.FindByID(ctx, in.CategoryID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("INVALID_CATEGORY", "Expense category does not exist")
			}
			return err
		}
		if _, err := service.AddExpenseTemplate(in.Description, amount, in.CategoryID); err != nil {
			return err
		}
	}
	return nil
}

// CategoryService manages expense categories
type CategoryService struct {
	categoryRepo catalog.ExpenseCategoryRepository
	recorder     *appaudit.Recorder
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo catalog.ExpenseCategoryRepository, recorder *appaudit.Recorder) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		recorder:     recorder,
	}
}

// Create creates an expense category
func (s *CategoryService) Create(ctx context.Context, userID *uuid.UUID, req CreateCategoryRequest) (*CategoryResponse, error) {
	existing, err := s.categoryRepo.FindByName(ctx, req.Name)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "An expense category with this name already exists")
	}

	category, err := catalog.NewExpenseCategory(req.Name, req.Color)
	if err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	s.recorder.Record(audit.NewEntry(userID, audit.ActionCreate, audit.ResourceCategory, category.ID.String(), category.Name))
	return toCategoryResponse(category), nil
}

// List returns all expense categories
func (s *CategoryService) List(ctx context.Context) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.FindAll(ctx, shared.Filter{})
	if err != nil {
		return nil, err
	}

	responses := make([]CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = *toCategoryResponse(&categories[i])
	}
	return responses, nil
}

// Update replaces an expense category's details
func (s *CategoryService) Update(ctx context.Context, userID *uuid.UUID, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := category.Update(req.Name, req.Color); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	s.recorder.Record(audit.NewEntry(userID, audit.ActionUpdate, audit.ResourceCategory, category.ID.String(), category.Name))
	return toCategoryResponse(category), nil
}

// Delete removes an expense category
func (s *CategoryService) Delete(ctx context.Context, userID *uuid.UUID, id uuid.UUID) error {
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.recorder.Record(audit.NewEntry(userID, audit.ActionDelete, audit.ResourceCategory, id.String(), ""))
	return nil
}
