package finance

import (
	"context"
	"fmt"

	appaudit "github.com/apex/backoffice/internal/application/audit"
	"github.com/apex/backoffice/internal/domain/audit"
	"github.com/apex/backoffice/internal/domain/finance"
	"github.com/apex/backoffice/internal/domain/integration"
	"github.com/apex/backoffice/internal/domain/partner"
	"github.com/apex/backoffice/internal/domain/shared"
	"github.com/apex/backoffice/internal/infrastructure/config"
	"github.com/apex/backoffice/internal/infrastructure/payment"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentLinkService creates provider checkout links for open
// receivables. The link always covers the remaining amount; partial
// checkouts are not offered.
type PaymentLinkService struct {
	receivableRepo finance.ReceivableRepository
	clientRepo     partner.ClientRepository
	gateways       *payment.Registry
	cfg            config.PaymentConfig
	recorder       *appaudit.Recorder
	logger         *zap.Logger
}

// NewPaymentLinkService creates a new PaymentLinkService
func NewPaymentLinkService(
	receivableRepo finance.ReceivableRepository,
	clientRepo partner.ClientRepository,
	gateways *payment.Registry,
	cfg config.PaymentConfig,
	recorder *appaudit.Recorder,
	logger *zap.Logger,
) *PaymentLinkService {
	return &PaymentLinkService{
		receivableRepo: receivableRepo,
		clientRepo:     clientRepo,
		gateways:       gateways,
		cfg:            cfg,
		recorder:       recorder,
		logger:         logger,
	}
}

// CreateLink creates a checkout at the configured provider for the
// receivable's outstanding amount and stores the provider handle on
// the receivable so notifications can find their way back.
func (s *PaymentLinkService) CreateLink(ctx context.Context, userID *uuid.UUID, receivableID uuid.UUID) (*PaymentLinkResponse, error) {
	receivable, err := s.receivableRepo.FindByID(ctx, receivableID)
	if err != nil {
		return nil, err
	}
	if receivable.Status == finance.ReceivableStatusPaid {
		return nil, shared.ErrAlreadyPaid
	}
	if receivable.Status == finance.ReceivableStatusCancelled {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot create a payment link for a cancelled receivable")
	}

	gateway, err := s.gateways.Get(s.cfg.Provider)
	if err != nil {
		return nil, err
	}

	// The checkout carries the client's own identity; the configured
	// email is only a fallback when the client never gave one.
	payerName, payerEmail := "", s.cfg.PayerEmail
	client, err := s.clientRepo.FindByID(ctx, receivable.ClientID)
	if err != nil {
		s.logger.Warn("client lookup failed, using fallback payer",
			zap.String("client_id", receivable.ClientID.String()), zap.Error(err))
	} else {
		payerName = client.Name
		if client.Email != "" {
			payerEmail = client.Email
		}
	}

	link, err := gateway.CreatePreference(ctx, integration.PreferenceRequest{
		Title:             receivable.Description,
		Amount:            receivable.RemainingAmount(),
		ExternalReference: receivable.ID.String(),
		PayerName:         payerName,
		PayerEmail:        payerEmail,
	})
	if err != nil {
		return nil, fmt.Errorf("create preference: %w", err)
	}

	if err := receivable.AttachPaymentLink(link.Provider, link.ExternalID); err != nil {
		return nil, err
	}
	if err := s.receivableRepo.SaveWithLock(ctx, receivable); err != nil {
		return nil, err
	}

	s.logger.Info("payment link created",
		zap.String("receivable_id", receivable.ID.String()),
		zap.String("provider", link.Provider),
		zap.String("preference_id", link.ExternalID))
	s.recorder.Record(audit.NewEntry(userID, audit.ActionUpdate, audit.ResourceReceivable, receivable.ID.String(),
		"Link de pagamento criado via "+link.Provider))

	return &PaymentLinkResponse{
		Provider:     link.Provider,
		PreferenceID: link.ExternalID,
		InitPoint:    link.CheckoutURL,
	}, nil
}
