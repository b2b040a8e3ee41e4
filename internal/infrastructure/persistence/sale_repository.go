package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/apex/backoffice/internal/domain/shared"
	"github.com/apex/backoffice/internal/domain/trade"
	"github.com/apex/backoffice/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSaleRepository implements SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// FindByID finds a sale by its ID, including its items
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Sale, error) {
	var model models.SaleModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all sales matching the filter
func (r *GormSaleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Sale, error) {
	var saleModels []models.SaleModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.SaleModel{}).Preload("Items"), filter)

	if err := query.Find(&saleModels).Error; err != nil {
		return nil, err
	}

	sales := make([]trade.Sale, len(saleModels))
	for i, model := range saleModels {
		sales[i] = *model.ToDomain()
	}
	return sales, nil
}

// Save creates or updates a sale together with its items
func (r *GormSaleRepository) Save(ctx context.Context, sale *trade.Sale) error {
	model := models.SaleModelFromDomain(sale)
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(model).Error
}

// SaveFanOut persists the sale and every document it generated in a
// single transaction: the sale with its items, the receivable (when the
// sale was accepted with a positive amount), the expense payables and
// the fulfillment processes. Either the whole bundle lands or none of
// it does.
func (r *GormSaleRepository) SaveFanOut(ctx context.Context, fanOut *trade.SaleFanOut) error {
	if fanOut == nil || fanOut.Sale == nil {
		return shared.NewDomainError("INVALID_FAN_OUT", "Fan-out must carry a sale")
	}

	saleModel := models.SaleModelFromDomain(fanOut.Sale)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Create(saleModel).Error; err != nil {
			return err
		}
		if len(saleModel.Items) > 0 {
			if err := tx.Create(&saleModel.Items).Error; err != nil {
				return err
			}
		}

		if fanOut.Receivable != nil {
			receivableModel := models.ReceivableModelFromDomain(fanOut.Receivable)
			if err := tx.Omit("Payments").Create(receivableModel).Error; err != nil {
				return err
			}
			if len(receivableModel.Payments) > 0 {
				if err := tx.Create(&receivableModel.Payments).Error; err != nil {
					return err
				}
			}
		}

		if len(fanOut.Payables) > 0 {
			payableModels := make([]*models.PayableModel, len(fanOut.Payables))
			for i := range fanOut.Payables {
				payableModels[i] = models.PayableModelFromDomain(&fanOut.Payables[i])
			}
			if err := tx.CreateInBatches(payableModels, 100).Error; err != nil {
				return err
			}
		}

		if len(fanOut.Processes) > 0 {
			processModels := make([]*models.ProcessModel, len(fanOut.Processes))
			for i := range fanOut.Processes {
				processModels[i] = models.ProcessModelFromDomain(&fanOut.Processes[i])
			}
			if err := tx.CreateInBatches(processModels, 100).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// Delete deletes a sale and cascades to its items
func (r *GormSaleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.SaleModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts sales matching the filter
func (r *GormSaleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.SaleModel{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormSaleRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	sortField := ValidateSortField(filter.OrderBy, SaleSortFields, "date")
	query = query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormSaleRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + strings.TrimSpace(filter.Search) + "%"
		query = query.Where("number ILIKE ? OR notes ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "client_id":
			query = query.Where("client_id = ?", value)
		case "number":
			query = query.Where("number = ?", value)
		case "date_from":
			query = query.Where("date >= ?", value)
		case "date_to":
			query = query.Where("date <= ?", value)
		}
	}

	return query
}

// Ensure GormSaleRepository implements SaleRepository
var _ trade.SaleRepository = (*GormSaleRepository)(nil)
