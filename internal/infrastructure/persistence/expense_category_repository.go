package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/apex/backoffice/internal/domain/catalog"
	"github.com/apex/backoffice/internal/domain/shared"
	"github.com/apex/backoffice/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormExpenseCategoryRepository implements ExpenseCategoryRepository using GORM
type GormExpenseCategoryRepository struct {
	db *gorm.DB
}

// NewGormExpenseCategoryRepository creates a new GormExpenseCategoryRepository
func NewGormExpenseCategoryRepository(db *gorm.DB) *GormExpenseCategoryRepository {
	return &GormExpenseCategoryRepository{db: db}
}

// FindByID finds an expense category by its ID
func (r *GormExpenseCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ExpenseCategory, error) {
	var model models.ExpenseCategoryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByName finds an expense category by its exact name
func (r *GormExpenseCategoryRepository) FindByName(ctx context.Context, name string) (*catalog.ExpenseCategory, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	var model models.ExpenseCategoryModel
	if err := r.db.WithContext(ctx).
		Where("name = ?", strings.TrimSpace(name)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all expense categories matching the filter
func (r *GormExpenseCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.ExpenseCategory, error) {
	var categoryModels []models.ExpenseCategoryModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ExpenseCategoryModel{}), filter)

	if err := query.Find(&categoryModels).Error; err != nil {
		return nil, err
	}

	categories := make([]catalog.ExpenseCategory, len(categoryModels))
	for i, model := range categoryModels {
		categories[i] = *model.ToDomain()
	}
	return categories, nil
}

// Save creates or updates an expense category
func (r *GormExpenseCategoryRepository) Save(ctx context.Context, category *catalog.ExpenseCategory) error {
	model := models.ExpenseCategoryModelFromDomain(category)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes an expense category
func (r *GormExpenseCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ExpenseCategoryModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts expense categories matching the filter
func (r *GormExpenseCategoryRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.ExpenseCategoryModel{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormExpenseCategoryRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	return query.Order("name ASC")
}

func (r *GormExpenseCategoryRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+strings.TrimSpace(filter.Search)+"%")
	}
	return query
}

// Ensure GormExpenseCategoryRepository implements ExpenseCategoryRepository
var _ catalog.ExpenseCategoryRepository = (*GormExpenseCategoryRepository)(nil)
