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
	"gorm.io/gorm/clause"
)

// GormServiceRepository implements ServiceRepository using GORM
type GormServiceRepository struct {
	db *gorm.DB
}

// NewGormServiceRepository creates a new GormServiceRepository
func NewGormServiceRepository(db *gorm.DB) *GormServiceRepository {
	return &GormServiceRepository{db: db}
}

// FindByID finds a service by its ID, including its expense templates
func (r *GormServiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Service, error) {
	var model models.ServiceModel
	if err := r.db.WithContext(ctx).
		Preload("Templates").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs finds multiple services by their IDs, templates included
func (r *GormServiceRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Service, error) {
	if len(ids) == 0 {
		return []catalog.Service{}, nil
	}

	var serviceModels []models.ServiceModel
	if err := r.db.WithContext(ctx).
		Preload("Templates").
		Where("id IN ?", ids).
		Find(&serviceModels).Error; err != nil {
		return nil, err
	}

	services := make([]catalog.Service, len(serviceModels))
	for i, model := range serviceModels {
		services[i] = *model.ToDomain()
	}
	return services, nil
}

// FindByName finds a service by its exact name
func (r *GormServiceRepository) FindByName(ctx context.Context, name string) (*catalog.Service, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Service name cannot be empty")
	}
	var model models.ServiceModel
	if err := r.db.WithContext(ctx).
		Preload("Templates").
		Where("name = ?", strings.TrimSpace(name)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all services matching the filter
func (r *GormServiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Service, error) {
	var serviceModels []models.ServiceModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ServiceModel{}).Preload("Templates"), filter)

	if err := query.Find(&serviceModels).Error; err != nil {
		return nil, err
	}

	services := make([]catalog.Service, len(serviceModels))
	for i, model := range serviceModels {
		services[i] = *model.ToDomain()
	}
	return services, nil
}

// Save creates or updates a service together with its expense templates.
// Templates removed from the aggregate are deleted from the database.
func (r *GormServiceRepository) Save(ctx context.Context, service *catalog.Service) error {
	model := models.ServiceModelFromDomain(service)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Templates").Save(model).Error; err != nil {
			return err
		}

		keptIDs := make([]uuid.UUID, len(model.Templates))
		for i := range model.Templates {
			keptIDs[i] = model.Templates[i].ID
		}

		del := tx.Where("service_id = ?", model.ID)
		if len(keptIDs) > 0 {
			del = del.Where("id NOT IN ?", keptIDs)
		}
		if err := del.Delete(&models.ExpenseTemplateModel{}).Error; err != nil {
			return err
		}

		if len(model.Templates) > 0 {
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).
				Create(&model.Templates).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete deletes a service and cascades to its templates
func (r *GormServiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ServiceModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts services matching the filter
func (r *GormServiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.ServiceModel{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormServiceRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		sortField := ValidateSortField(filter.OrderBy, ServiceSortFields, "name")
		query = query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("name ASC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormServiceRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + strings.TrimSpace(filter.Search) + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "active":
			query = query.Where("active = ?", value)
		}
	}

	return query
}

// Ensure GormServiceRepository implements ServiceRepository
var _ catalog.ServiceRepository = (*GormServiceRepository)(nil)
