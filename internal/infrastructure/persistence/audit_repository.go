package persistence

import (
	"context"

	"github.com/apex/backoffice/internal/domain/audit"
	"github.com/apex/backoffice/internal/domain/shared"
	"github.com/apex/backoffice/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAuditRepository implements EntryRepository using GORM. The
// audit_logs table is append-only; entries are never updated or deleted.
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GormAuditRepository
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// Save appends an audit entry
func (r *GormAuditRepository) Save(ctx context.Context, entry *audit.Entry) error {
	model := models.AuditEntryModelFromDomain(entry)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindAll finds audit entries matching the filter, newest first
func (r *GormAuditRepository) FindAll(ctx context.Context, filter shared.Filter) ([]audit.Entry, error) {
	var entryModels []models.AuditEntryModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.AuditEntryModel{}), filter)

	if err := query.Find(&entryModels).Error; err != nil {
		return nil, err
	}

	entries := make([]audit.Entry, len(entryModels))
	for i, model := range entryModels {
		entries[i] = *model.ToDomain()
	}
	return entries, nil
}

// Count counts audit entries matching the filter
func (r *GormAuditRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.AuditEntryModel{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormAuditRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	sortField := ValidateSortField(filter.OrderBy, AuditSortFields, "created_at")
	query = query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

func (r *GormAuditRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("entity_id ILIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "action":
			query = query.Where("action = ?", value)
		case "resource":
			query = query.Where("resource = ?", value)
		case "user_id":
			query = query.Where("user_id = ?", value)
		case "entity_id":
			query = query.Where("entity_id = ?", value)
		case "from":
			query = query.Where("created_at >= ?", value)
		case "to":
			query = query.Where("created_at <= ?", value)
		}
	}

	return query
}

// Ensure GormAuditRepository implements EntryRepository
var _ audit.EntryRepository = (*GormAuditRepository)(nil)
