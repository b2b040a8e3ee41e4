package models

import (
	"encoding/json"
	"time"

	"github.com/apex/backoffice/internal/domain/integration"
	"github.com/google/uuid"
)

// ProviderWebhookModel is the persistence model for inbound provider webhooks.
type ProviderWebhookModel struct {
	ID          uuid.UUID                 `gorm:"type:uuid;primary_key"`
	Provider    string                    `gorm:"type:varchar(50);not null;index"`
	EventID     string                    `gorm:"type:varchar(100);index"`
	Topic       string                    `gorm:"type:varchar(100)"`
	Payload     []byte                    `gorm:"type:jsonb"`
	Status      integration.WebhookStatus `gorm:"type:varchar(20);not null;default:'RECEIVED';index"`
	Error       string                    `gorm:"type:text"`
	ReceivedAt  time.Time                 `gorm:"not null;index"`
	ProcessedAt *time.Time
}

// TableName returns the table name for GORM
func (ProviderWebhookModel) TableName() string {
	return "provider_webhooks"
}

// ToDomain converts the persistence model to a domain ProviderWebhook.
func (m *ProviderWebhookModel) ToDomain() *integration.ProviderWebhook {
	return &integration.ProviderWebhook{
		ID:          m.ID,
		Provider:    m.Provider,
		EventID:     m.EventID,
		Topic:       m.Topic,
		Payload:     json.RawMessage(m.Payload),
		Status:      m.Status,
		Error:       m.Error,
		ReceivedAt:  m.ReceivedAt,
		ProcessedAt: m.ProcessedAt,
	}
}

// ProviderWebhookModelFromDomain creates a new persistence model from a domain ProviderWebhook.
func ProviderWebhookModelFromDomain(w *integration.ProviderWebhook) *ProviderWebhookModel {
	return &ProviderWebhookModel{
		ID:          w.ID,
		Provider:    w.Provider,
		EventID:     w.EventID,
		Topic:       w.Topic,
		Payload:     []byte(w.Payload),
		Status:      w.Status,
		Error:       w.Error,
		ReceivedAt:  w.ReceivedAt,
		ProcessedAt: w.ProcessedAt,
	}
}
