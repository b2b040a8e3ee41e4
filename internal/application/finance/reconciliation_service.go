package finance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	appaudit "github.com/apex/backoffice/internal/application/audit"
	"github.com/apex/backoffice/internal/domain/audit"
	"github.com/apex/backoffice/internal/domain/finance"
	"github.com/apex/backoffice/internal/domain/integration"
	"github.com/apex/backoffice/internal/domain/shared"
	"github.com/apex/backoffice/internal/infrastructure/payment"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const idempotencyTTL = 24 * time.Hour

// ProviderNotification is an inbound provider webhook after the
// handler extracted the fields common to all providers
type ProviderNotification struct {
	Provider  string
	EventID   string
	Topic     string
	PaymentID string
	Payload   json.RawMessage
}

// ReconciliationService settles receivables from provider payment
// notifications. It is the only write path for provider payments:
// every notification, whatever its endpoint, funnels through
// HandleNotification. The flow never trusts the webhook payload for
// money amounts; it always refetches the payment from the provider.
type ReconciliationService struct {
	receivableRepo finance.ReceivableRepository
	webhookRepo    integration.WebhookRepository
	gateways       *payment.Registry
	idempotency    shared.IdempotencyStore
	recorder       *appaudit.Recorder
	logger         *zap.Logger
}

// NewReconciliationService creates a new ReconciliationService
func NewReconciliationService(
	receivableRepo finance.ReceivableRepository,
	webhookRepo integration.WebhookRepository,
	gateways *payment.Registry,
	idempotency shared.IdempotencyStore,
	recorder *appaudit.Recorder,
	logger *zap.Logger,
) *ReconciliationService {
	return &ReconciliationService{
		receivableRepo: receivableRepo,
		webhookRepo:    webhookRepo,
		gateways:       gateways,
		idempotency:    idempotency,
		recorder:       recorder,
		logger:         logger,
	}
}

// HandleNotification processes one provider notification end to end:
// store the raw webhook, drop duplicates and irrelevant topics, fetch
// the payment from the provider, and apply it to the receivable the
// external reference points at. A returned error means processing
// failed and the provider should redeliver; the webhook record carries
// the failure either way.
func (s *ReconciliationService) HandleNotification(ctx context.Context, n ProviderNotification) error {
	webhook := s.recordWebhook(ctx, n)

	if n.Topic != "" && n.Topic != "payment" {
		s.skip(ctx, webhook, fmt.Sprintf("unsupported topic %q", n.Topic))
		return nil
	}
	if n.PaymentID == "" {
		s.skip(ctx, webhook, "notification carries no payment id")
		return nil
	}

	// Duplicate deliveries are the norm, not the exception. The
	// idempotency store is a fast path only; the receivable's own
	// payment history is the real guard below. The key is marked only
	// after settlement succeeds, so a transient failure here keeps
	// redeliveries processable.
	key := n.Provider + ":" + n.PaymentID
	processed, err := s.idempotency.IsProcessed(ctx, key)
	if err != nil {
		s.logger.Warn("idempotency store unavailable, proceeding without fast path",
			zap.String("key", key), zap.Error(err))
	} else if processed {
		s.skip(ctx, webhook, "duplicate delivery")
		return nil
	}

	gateway, err := s.gateways.Get(n.Provider)
	if err != nil {
		s.fail(ctx, webhook, err)
		return err
	}

	pmt, err := gateway.GetPayment(ctx, n.PaymentID)
	if err != nil {
		s.fail(ctx, webhook, err)
		return err
	}

	if pmt.Status != integration.PaymentStatusApproved {
		s.skip(ctx, webhook, fmt.Sprintf("payment status %s (%s)", pmt.Status, pmt.RawStatus))
		return nil
	}

	receivableID, err := uuid.Parse(pmt.ExternalReference)
	if err != nil {
		s.skip(ctx, webhook, fmt.Sprintf("external reference %q is not a receivable", pmt.ExternalReference))
		return nil
	}

	if err := s.settle(ctx, receivableID, pmt, webhook); err != nil {
		return err
	}
	return nil
}

// settle applies the approved payment to its receivable. On a version
// conflict the receivable is reloaded and the payment reapplied once;
// a second conflict goes back to the provider as a redelivery.
func (s *ReconciliationService) settle(ctx context.Context, receivableID uuid.UUID, pmt *integration.PaymentNotification, webhook *integration.ProviderWebhook) error {
	for attempt := 0; attempt < 2; attempt++ {
		receivable, err := s.receivableRepo.FindByID(ctx, receivableID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				s.skip(ctx, webhook, fmt.Sprintf("receivable %s not found", receivableID))
				return nil
			}
			s.fail(ctx, webhook, err)
			return err
		}

		if receivable.HasProviderPayment(pmt.PaymentID) {
			s.skip(ctx, webhook, "payment already applied")
			return nil
		}
		if receivable.Status == finance.ReceivableStatusPaid {
			s.skip(ctx, webhook, "receivable already settled")
			return nil
		}

		// The provider confirms the checkout was paid in full, so the
		// receivable settles for whatever is still outstanding.
		amount := receivable.RemainingAmount()
		if _, err := receivable.ApplyProviderPayment(amount, paymentMethod(pmt.Method), pmt.Provider, pmt.PaymentID); err != nil {
			s.fail(ctx, webhook, err)
			return err
		}

		err = s.receivableRepo.SaveWithLock(ctx, receivable)
		if err == nil {
			key := pmt.Provider + ":" + pmt.PaymentID
			if _, err := s.idempotency.MarkProcessed(ctx, key, idempotencyTTL); err != nil {
				s.logger.Warn("failed to mark idempotency key",
					zap.String("key", key), zap.Error(err))
			}
			s.markProcessed(ctx, webhook)
			s.recorder.Record(audit.NewEntry(nil, audit.ActionSystemWebhook, audit.ResourceReceivable, receivable.ID.String(),
				fmt.Sprintf("Pagamento %s confirmado via %s", pmt.PaymentID, pmt.Provider)))
			s.logger.Info("receivable settled from provider payment",
				zap.String("receivable_id", receivable.ID.String()),
				zap.String("provider", pmt.Provider),
				zap.String("payment_id", pmt.PaymentID),
				zap.Int64("amount_cents", amount.Cents()))
			return nil
		}
		if !errors.Is(err, shared.ErrConcurrencyConflict) {
			s.fail(ctx, webhook, err)
			return err
		}
		s.logger.Warn("concurrent update while settling receivable, retrying",
			zap.String("receivable_id", receivable.ID.String()))
	}

	err := shared.ErrConcurrencyConflict
	s.fail(ctx, webhook, err)
	return err
}

// recordWebhook stores the raw notification before any processing.
// Storage failure is logged and tolerated; losing the audit trail is
// better than bouncing the payment.
func (s *ReconciliationService) recordWebhook(ctx context.Context, n ProviderNotification) *integration.ProviderWebhook {
	webhook, err := integration.NewProviderWebhook(n.Provider, n.EventID, n.Topic, n.Payload)
	if err != nil {
		s.logger.Warn("invalid webhook metadata", zap.Error(err))
		return nil
	}
	if err := s.webhookRepo.Save(ctx, webhook); err != nil {
		s.logger.Error("failed to store webhook", zap.String("provider", n.Provider), zap.Error(err))
		return nil
	}
	return webhook
}

func (s *ReconciliationService) skip(ctx context.Context, webhook *integration.ProviderWebhook, reason string) {
	s.logger.Info("webhook skipped", zap.String("reason", reason))
	if webhook == nil {
		return
	}
	webhook.MarkSkipped(reason)
	if err := s.webhookRepo.Update(ctx, webhook); err != nil {
		s.logger.Warn("failed to update webhook record", zap.Error(err))
	}
}

func (s *ReconciliationService) fail(ctx context.Context, webhook *integration.ProviderWebhook, cause error) {
	if webhook == nil {
		return
	}
	webhook.MarkFailed(cause)
	if err := s.webhookRepo.Update(ctx, webhook); err != nil {
		s.logger.Warn("failed to update webhook record", zap.Error(err))
	}
}

func (s *ReconciliationService) markProcessed(ctx context.Context, webhook *integration.ProviderWebhook) {
	if webhook == nil {
		return
	}
	webhook.MarkProcessed()
	if err := s.webhookRepo.Update(ctx, webhook); err != nil {
		s.logger.Warn("failed to update webhook record", zap.Error(err))
	}
}

// paymentMethod maps the gateway's normalized method to the domain's
func paymentMethod(method string) finance.PaymentMethod {
	m := finance.PaymentMethod(method)
	if m.IsValid() {
		return m
	}
	return finance.PaymentMethodPix
}
