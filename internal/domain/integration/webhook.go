package integration

import (
	"context"
	"encoding/json"
	"time"

	"github.com/apex/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// WebhookStatus tracks what happened to a received webhook
type WebhookStatus string

const (
	WebhookStatusReceived  WebhookStatus = "RECEIVED"
	WebhookStatusProcessed WebhookStatus = "PROCESSED"
	WebhookStatusSkipped   WebhookStatus = "SKIPPED"
	WebhookStatusFailed    WebhookStatus = "FAILED"
)

// ProviderWebhook is the raw record of an inbound provider
// notification, stored before any processing so failed deliveries can
// be replayed and disputes resolved from the original payload.
type ProviderWebhook struct {
	ID          uuid.UUID       `json:"id"`
	Provider    string          `json:"provider"`
	EventID     string          `json:"event_id,omitempty"`
	Topic       string          `json:"topic,omitempty"`
	Payload     json.RawMessage `json:"payload"`
	Status      WebhookStatus   `json:"status"`
	Error       string          `json:"error,omitempty"`
	ReceivedAt  time.Time       `json:"received_at"`
	ProcessedAt *time.Time      `json:"processed_at,omitempty"`
}

// NewProviderWebhook records an inbound notification
func NewProviderWebhook(provider, eventID, topic string, payload json.RawMessage) (*ProviderWebhook, error) {
	if provider == "" {
		return nil, shared.NewDomainError("INVALID_PROVIDER", "Webhook provider cannot be empty")
	}
	return &ProviderWebhook{
		ID:         uuid.New(),
		Provider:   provider,
		EventID:    eventID,
		Topic:      topic,
		Payload:    payload,
		Status:     WebhookStatusReceived,
		ReceivedAt: time.Now(),
	}, nil
}

// MarkProcessed flags the webhook as successfully handled
func (w *ProviderWebhook) MarkProcessed() {
	now := time.Now()
	w.Status = WebhookStatusProcessed
	w.ProcessedAt = &now
}

// MarkSkipped flags the webhook as intentionally ignored
func (w *ProviderWebhook) MarkSkipped(reason string) {
	now := time.Now()
	w.Status = WebhookStatusSkipped
	w.Error = reason
	w.ProcessedAt = &now
}

// MarkFailed records a processing failure
func (w *ProviderWebhook) MarkFailed(err error) {
	now := time.Now()
	w.Status = WebhookStatusFailed
	if err != nil {
		w.Error = err.Error()
	}
	w.ProcessedAt = &now
}

// WebhookRepository defines persistence operations for provider webhooks
type WebhookRepository interface {
	Save(ctx context.Context, webhook *ProviderWebhook) error
	Update(ctx context.Context, webhook *ProviderWebhook) error
	FindAll(ctx context.Context, filter shared.Filter) ([]ProviderWebhook, error)
}
