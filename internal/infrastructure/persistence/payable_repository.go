package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/apex/backoffice/internal/domain/finance"
	"github.com/apex/backoffice/internal/domain/shared"
	"github.com/apex/backoffice/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPayableRepository implements PayableRepository using GORM
type GormPayableRepository struct {
	db *gorm.DB
}

// NewGormPayableRepository creates a new GormPayableRepository
func NewGormPayableRepository(db *gorm.DB) *GormPayableRepository {
	return &GormPayableRepository{db: db}
}

// FindByID finds a payable by its ID
func (r *GormPayableRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Payable, error) {
	var model models.PayableModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all payables matching the filter
func (r *GormPayableRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.Payable, error) {
	var payableModels []models.PayableModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.PayableModel{}), filter)

	if err := query.Find(&payableModels).Error; err != nil {
		return nil, err
	}

	payables := make([]finance.Payable, len(payableModels))
	for i, model := range payableModels {
		payables[i] = *model.ToDomain()
	}
	return payables, nil
}

// Save creates or updates a payable
func (r *GormPayableRepository) Save(ctx context.Context, payable *finance.Payable) error {
	model := models.PayableModelFromDomain(payable)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a payable
func (r *GormPayableRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.PayableModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts payables matching the filter
func (r *GormPayableRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.PayableModel{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormPayableRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	sortField := ValidateSortField(filter.OrderBy, PayableSortFields, "due_date")
	query = query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormPayableRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("description ILIKE ?", "%"+strings.TrimSpace(filter.Search)+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "category_id":
			query = query.Where("category_id = ?", value)
		case "client_id":
			query = query.Where("client_id = ?", value)
		case "sale_id":
			query = query.Where("sale_id = ?", value)
		case "due_before":
			query = query.Where("due_date < ?", value)
		case "due_after":
			query = query.Where("due_date >= ?", value)
		}
	}

	return query
}

// Ensure GormPayableRepository implements PayableRepository
var _ finance.PayableRepository = (*GormPayableRepository)(nil)
