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
	"gorm.io/gorm/clause"
)

// GormReceivableRepository implements ReceivableRepository using GORM
type GormReceivableRepository struct {
	db *gorm.DB
}

// NewGormReceivableRepository creates a new GormReceivableRepository
func NewGormReceivableRepository(db *gorm.DB) *GormReceivableRepository {
	return &GormReceivableRepository{db: db}
}

// FindByID finds a receivable by its ID, including its payment records
func (r *GormReceivableRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Receivable, error) {
	var model models.ReceivableModel
	if err := r.db.WithContext(ctx).
		Preload("Payments").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByExternalID finds the receivable a provider checkout link points to
func (r *GormReceivableRepository) FindByExternalID(ctx context.Context, provider, externalID string) (*finance.Receivable, error) {
	if provider == "" || externalID == "" {
		return nil, shared.NewDomainError("INVALID_EXTERNAL_ID", "Provider and external ID are required")
	}
	var model models.ReceivableModel
	if err := r.db.WithContext(ctx).
		Preload("Payments").
		Where("provider = ? AND external_id = ?", provider, externalID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all receivables matching the filter
func (r *GormReceivableRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.Receivable, error) {
	var receivableModels []models.ReceivableModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ReceivableModel{}).Preload("Payments"), filter)

	if err := query.Find(&receivableModels).Error; err != nil {
		return nil, err
	}

	receivables := make([]finance.Receivable, len(receivableModels))
	for i, model := range receivableModels {
		receivables[i] = *model.ToDomain()
	}
	return receivables, nil
}

// Save creates or updates a receivable together with its payment records
func (r *GormReceivableRepository) Save(ctx context.Context, receivable *finance.Receivable) error {
	model := models.ReceivableModelFromDomain(receivable)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Payments").Save(model).Error; err != nil {
			return err
		}
		return upsertPaymentRecords(tx, model.Payments)
	})
}

// SaveWithLock saves a receivable with optimistic locking (version check).
// Returns shared.ErrConcurrencyConflict if the version has changed.
// Column updates go through a map so zero amounts are not skipped.
func (r *GormReceivableRepository) SaveWithLock(ctx context.Context, receivable *finance.Receivable) error {
	model := models.ReceivableModelFromDomain(receivable)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.ReceivableModel{}).
			Where("id = ? AND version = ?", receivable.ID, receivable.Version-1).
			Updates(map[string]interface{}{
				"description":     model.Description,
				"amount":          model.Amount,
				"received_amount": model.ReceivedAmount,
				"due_date":        model.DueDate,
				"status":          model.Status,
				"payment_method":  model.PaymentMethod,
				"installments":    model.Installments,
				"provider":        model.Provider,
				"external_id":     model.ExternalID,
				"cancelled_at":    model.CancelledAt,
				"version":         model.Version,
				"updated_at":      model.UpdatedAt,
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return upsertPaymentRecords(tx, model.Payments)
	})
}

// upsertPaymentRecords inserts new payment records and updates the
// status of existing ones. Records are append-only apart from reversal.
func upsertPaymentRecords(tx *gorm.DB, records []models.PaymentRecordModel) error {
	if len(records) == 0 {
		return nil
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status"}),
	}).Create(&records).Error
}

// Delete deletes a receivable and cascades to its payment records
func (r *GormReceivableRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ReceivableModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts receivables matching the filter
func (r *GormReceivableRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.ReceivableModel{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormReceivableRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	sortField := ValidateSortField(filter.OrderBy, ReceivableSortFields, "due_date")
	query = query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormReceivableRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("description ILIKE ?", "%"+strings.TrimSpace(filter.Search)+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "client_id":
			query = query.Where("client_id = ?", value)
		case "sale_id":
			query = query.Where("sale_id = ?", value)
		case "due_before":
			query = query.Where("due_date < ?", value)
		case "due_after":
			query = query.Where("due_date >= ?", value)
		case "overdue":
			if value == true {
				query = query.Where("status = ? AND due_date < NOW()", finance.ReceivableStatusOpen)
			}
		}
	}

	return query
}

// Ensure GormReceivableRepository implements ReceivableRepository
var _ finance.ReceivableRepository = (*GormReceivableRepository)(nil)
