package integration

import (
	"context"

	"github.com/apex/backoffice/internal/domain/shared/valueobject"
)

// PaymentStatus is the provider-independent status of a payment
type PaymentStatus string

const (
	PaymentStatusApproved PaymentStatus = "APPROVED"
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusRejected PaymentStatus = "REJECTED"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
	PaymentStatusUnknown  PaymentStatus = "UNKNOWN"
)

// PreferenceRequest asks a provider to create a checkout for the
// remaining amount of a receivable. ExternalReference is the
// receivable ID and comes back on notifications so the payment can be
// matched to its receivable.
type PreferenceRequest struct {
	Title             string
	Amount            valueobject.Money
	ExternalReference string
	PayerName         string
	PayerEmail        string
}

// PaymentLink is the provider's checkout handle
type PaymentLink struct {
	Provider    string
	ExternalID  string
	CheckoutURL string
}

// PaymentNotification is a provider payment normalized to the shapes
// the reconciliation flow cares about
type PaymentNotification struct {
	Provider          string
	PaymentID         string
	ExternalReference string
	Status            PaymentStatus
	RawStatus         string
	Amount            valueobject.Money
	Method            string
}

// PaymentGateway is the port every payment provider adapter implements
type PaymentGateway interface {
	// Provider returns the provider key, e.g. "mercadopago"
	Provider() string
	// CreatePreference creates a hosted checkout for the request
	CreatePreference(ctx context.Context, req PreferenceRequest) (*PaymentLink, error)
	// GetPayment fetches and normalizes a payment by provider payment ID
	GetPayment(ctx context.Context, paymentID string) (*PaymentNotification, error)
}
