package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/apex/backoffice/internal/domain/fulfillment"
	"github.com/apex/backoffice/internal/domain/shared"
	"github.com/apex/backoffice/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProcessRepository implements ProcessRepository using GORM
type GormProcessRepository struct {
	db *gorm.DB
}

// NewGormProcessRepository creates a new GormProcessRepository
func NewGormProcessRepository(db *gorm.DB) *GormProcessRepository {
	return &GormProcessRepository{db: db}
}

// FindByID finds a process by its ID
func (r *GormProcessRepository) FindByID(ctx context.Context, id uuid.UUID) (*fulfillment.Process, error) {
	var model models.ProcessModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all processes matching the filter
func (r *GormProcessRepository) FindAll(ctx context.Context, filter shared.Filter) ([]fulfillment.Process, error) {
	var processModels []models.ProcessModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ProcessModel{}), filter)

	if err := query.Find(&processModels).Error; err != nil {
		return nil, err
	}

	processes := make([]fulfillment.Process, len(processModels))
	for i, model := range processModels {
		processes[i] = *model.ToDomain()
	}
	return processes, nil
}

// FindByClient finds all processes for a client, newest first
func (r *GormProcessRepository) FindByClient(ctx context.Context, clientID uuid.UUID) ([]fulfillment.Process, error) {
	var processModels []models.ProcessModel
	if err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&processModels).Error; err != nil {
		return nil, err
	}

	processes := make([]fulfillment.Process, len(processModels))
	for i, model := range processModels {
		processes[i] = *model.ToDomain()
	}
	return processes, nil
}

// Save creates or updates a process
func (r *GormProcessRepository) Save(ctx context.Context, process *fulfillment.Process) error {
	model := models.ProcessModelFromDomain(process)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a process
func (r *GormProcessRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ProcessModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts processes matching the filter
func (r *GormProcessRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.ProcessModel{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts processes in a given status
func (r *GormProcessRepository) CountByStatus(ctx context.Context, status fulfillment.ProcessStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ProcessModel{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormProcessRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	sortField := ValidateSortField(filter.OrderBy, ProcessSortFields, "created_at")
	query = query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormProcessRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("notes ILIKE ?", "%"+strings.TrimSpace(filter.Search)+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "client_id":
			query = query.Where("client_id = ?", value)
		case "service_id":
			query = query.Where("service_id = ?", value)
		case "sale_id":
			query = query.Where("sale_id = ?", value)
		}
	}

	return query
}

// Ensure GormProcessRepository implements ProcessRepository
var _ fulfillment.ProcessRepository = (*GormProcessRepository)(nil)
