package persistence

import (
	"context"

	"github.com/apex/backoffice/internal/domain/integration"
	"github.com/apex/backoffice/internal/domain/shared"
	"github.com/apex/backoffice/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormWebhookRepository implements WebhookRepository using GORM
type GormWebhookRepository struct {
	db *gorm.DB
}

// NewGormWebhookRepository creates a new GormWebhookRepository
func NewGormWebhookRepository(db *gorm.DB) *GormWebhookRepository {
	return &GormWebhookRepository{db: db}
}

// Save records a received webhook
func (r *GormWebhookRepository) Save(ctx context.Context, webhook *integration.ProviderWebhook) error {
	model := models.ProviderWebhookModelFromDomain(webhook)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update updates the processing outcome of a webhook
func (r *GormWebhookRepository) Update(ctx context.Context, webhook *integration.ProviderWebhook) error {
	model := models.ProviderWebhookModelFromDomain(webhook)
	result := r.db.WithContext(ctx).
		Model(&models.ProviderWebhookModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"status":       model.Status,
			"error":        model.Error,
			"processed_at": model.ProcessedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindAll finds webhooks matching the filter, newest first
func (r *GormWebhookRepository) FindAll(ctx context.Context, filter shared.Filter) ([]integration.ProviderWebhook, error) {
	var webhookModels []models.ProviderWebhookModel
	query := r.db.WithContext(ctx).Model(&models.ProviderWebhookModel{})

	for key, value := range filter.Filters {
		switch key {
		case "provider":
			query = query.Where("provider = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "event_id":
			query = query.Where("event_id = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Order("received_at DESC").Find(&webhookModels).Error; err != nil {
		return nil, err
	}

	webhooks := make([]integration.ProviderWebhook, len(webhookModels))
	for i, model := range webhookModels {
		webhooks[i] = *model.ToDomain()
	}
	return webhooks, nil
}

// Ensure GormWebhookRepository implements WebhookRepository
var _ integration.WebhookRepository = (*GormWebhookRepository)(nil)
