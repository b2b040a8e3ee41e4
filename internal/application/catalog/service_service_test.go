package catalog

import (
	"context"
	"testing"

	appaudit "github.com/apex/backoffice/internal/application/audit"
	"github.com/apex/backoffice/internal/domain/audit"
	"github.com/apex/backoffice/internal/domain/catalog"
	"github.com/apex/backoffice/internal/domain/shared"
	"github.com/apex/backoffice/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockServiceRepository is a mock implementation of ServiceRepository
type MockServiceRepository struct {
	mock.Mock
}

func (m *MockServiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Service), args.Error(1)
}

func (m *MockServiceRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Service, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Service), args.Error(1)
}

func (m *MockServiceRepository) FindByName(ctx context.Context, name string) (*catalog.Service, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Service), args.Error(1)
}

func (m *MockServiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Service, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Service), args.Error(1)
}

func (m *MockServiceRepository) Save(ctx context.Context, service *catalog.Service) error {
	args := m.Called(ctx, service)
	return args.Error(0)
}

func (m *MockServiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockServiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockCategoryRepository is a mock implementation of ExpenseCategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ExpenseCategory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ExpenseCategory), args.Error(1)
}

func (m *MockCategoryRepository) FindByName(ctx context.Context, name string) (*catalog.ExpenseCategory, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ExpenseCategory), args.Error(1)
}

func (m *MockCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.ExpenseCategory, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.ExpenseCategory), args.Error(1)
}

func (m *MockCategoryRepository) Save(ctx context.Context, category *catalog.ExpenseCategory) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCategoryRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

type noopEntryRepo struct{}

func (noopEntryRepo) Save(ctx context.Context, entry *audit.Entry) error { return nil }
func (noopEntryRepo) FindAll(ctx context.Context, filter shared.Filter) ([]audit.Entry, error) {
	return nil, nil
}
func (noopEntryRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return 0, nil
}

func newTestRecorder() *appaudit.Recorder {
	return appaudit.NewRecorder(noopEntryRepo{}, zap.NewNop(), 16)
}

func TestServiceService_Create_WithTemplates(t *testing.T) {
	serviceRepo := new(MockServiceRepository)
	categoryRepo := new(MockCategoryRepository)
	service := NewServiceService(serviceRepo, categoryRepo, newTestRecorder())

	ctx := context.Background()
	category, _ := catalog.NewExpenseCategory("Taxas Federais", "#FF0000")

	req := CreateServiceRequest{
		Name:  "Emissão de CR",
		Price: decimal.NewFromFloat(1500.00),
		Templates: []ExpenseTemplateInput{
			{Description: "Taxa GRU", Amount: decimal.NewFromFloat(150.00), CategoryID: category.ID},
			{Description: "Despachante", Amount: decimal.NewFromFloat(200.00), CategoryID: category.ID},
		},
	}

	serviceRepo.On("FindByName", ctx, "Emissão de CR").Return(nil, shared.ErrNotFound)
	categoryRepo.On("FindByID", ctx, category.ID).Return(category, nil)
	serviceRepo.On("Save", ctx, mock.AnythingOfType("*catalog.Service")).Return(nil)

	result, err := service.Create(ctx, nil, req)

	assert.NoError(t, err)
	assert.Equal(t, "Emissão de CR", result.Name)
	assert.True(t, result.Price.Equal(decimal.NewFromFloat(1500.00)))
	assert.True(t, result.Active)
	assert.Len(t, result.Templates, 2)
	serviceRepo.AssertExpectations(t)
	categoryRepo.AssertExpectations(t)
}

func TestServiceService_Create_DuplicateName(t *testing.T) {
	serviceRepo := new(MockServiceRepository)
	categoryRepo := new(MockCategoryRepository)
	service := NewServiceService(serviceRepo, categoryRepo, newTestRecorder())

	ctx := context.Background()
	existing, _ := catalog.NewService("Emissão de CR", "", valueobject.NewMoney(150000))

	serviceRepo.On("FindByName", ctx, "Emissão de CR").Return(existing, nil)

	result, err := service.Create(ctx, nil, CreateServiceRequest{
		Name:  "Emissão de CR",
		Price: decimal.NewFromFloat(1500.00),
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	serviceRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestServiceService_Create_UnknownTemplateCategory(t *testing.T) {
	serviceRepo := new(MockServiceRepository)
	categoryRepo := new(MockCategoryRepository)
	service := NewServiceService(serviceRepo, categoryRepo, newTestRecorder())

	ctx := context.Background()
	categoryID := uuid.New()

	serviceRepo.On("FindByName", ctx, "CRAF").Return(nil, shared.ErrNotFound)
	categoryRepo.On("FindByID", ctx, categoryID).Return(nil, shared.ErrNotFound)

	result, err := service.Create(ctx, nil, CreateServiceRequest{
		Name:  "CRAF",
		Price: decimal.NewFromFloat(500.00),
		Templates: []ExpenseTemplateInput{
			{Description: "Taxa", Amount: decimal.NewFromFloat(50.00), CategoryID: categoryID},
		},
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	serviceRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestServiceService_Update_ReplacesTemplates(t *testing.T) {
	serviceRepo := new(MockServiceRepository)
	categoryRepo := new(MockCategoryRepository)
	service := NewServiceService(serviceRepo, categoryRepo, newTestRecorder())

	ctx := context.Background()
	category, _ := catalog.NewExpenseCategory("Taxas Federais", "#FF0000")
	svc, _ := catalog.NewService("Emissão de CR", "", valueobject.NewMoney(150000))
	_, _ = svc.AddExpenseTemplate("Taxa antiga", valueobject.NewMoney(10000), category.ID)

	serviceRepo.On("FindByID", ctx, svc.ID).Return(svc, nil)
	categoryRepo.On("FindByID", ctx, category.ID).Return(category, nil)
	serviceRepo.On("Save", ctx, svc).Return(nil)

	inactive := false
	result, err := service.Update(ctx, nil, svc.ID, UpdateServiceRequest{
		Name:   "Emissão de CR",
		Price:  decimal.NewFromFloat(1800.00),
		Active: &inactive,
		Templates: []ExpenseTemplateInput{
			{Description: "Taxa nova", Amount: decimal.NewFromFloat(175.00), CategoryID: category.ID},
		},
	})

	assert.NoError(t, err)
	assert.False(t, result.Active)
	assert.Len(t, result.Templates, 1)
	assert.Equal(t, "Taxa nova", result.Templates[0].Description)
	serviceRepo.AssertExpectations(t)
}

func TestCategoryService_Create_Duplicate(t *testing.T) {
	categoryRepo := new(MockCategoryRepository)
	service := NewCategoryService(categoryRepo, newTestRecorder())

	ctx := context.Background()
	existing, _ := catalog.NewExpenseCategory("Taxas Federais", "#FF0000")

	categoryRepo.On("FindByName", ctx, "Taxas Federais").Return(existing, nil)

	result, err := service.Create(ctx, nil, CreateCategoryRequest{Name: "Taxas Federais", Color: "#00FF00"})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
}

func TestCategoryService_Create_Success(t *testing.T) {
	categoryRepo := new(MockCategoryRepository)
	service := NewCategoryService(categoryRepo, newTestRecorder())

	ctx := context.Background()
	categoryRepo.On("FindByName", ctx, "Despachante").Return(nil, shared.ErrNotFound)
	categoryRepo.On("Save", ctx, mock.AnythingOfType("*catalog.ExpenseCategory")).Return(nil)

	result, err := service.Create(ctx, nil, CreateCategoryRequest{Name: "Despachante", Color: "#3366FF"})

	assert.NoError(t, err)
	assert.Equal(t, "Despachante", result.Name)
	assert.Equal(t, "#3366FF", result.Color)
	categoryRepo.AssertExpectations(t)
}
