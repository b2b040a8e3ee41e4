package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/apex/backoffice/internal/domain/integration"
	"github.com/apex/backoffice/internal/domain/shared/valueobject"
	"github.com/apex/backoffice/internal/infrastructure/config"
	"github.com/shopspring/decimal"
)

// ProviderMercadoPago is the provider key used in payment links,
// payment records and webhook routes.
const ProviderMercadoPago = "mercadopago"

// MercadoPagoGateway talks to the Mercado Pago REST API. Amounts cross
// the wire in major units (reais); conversion to and from centavos
// happens here and nowhere else.
type MercadoPagoGateway struct {
	httpClient      *http.Client
	baseURL         string
	accessToken     string
	notificationURL string
}

// NewMercadoPagoGateway creates a gateway from payment configuration
func NewMercadoPagoGateway(cfg config.PaymentConfig) *MercadoPagoGateway {
	return &MercadoPagoGateway{
		httpClient:      &http.Client{Timeout: 10 * time.Second},
		baseURL:         cfg.BaseURL,
		accessToken:     cfg.AccessToken,
		notificationURL: cfg.NotificationURL,
	}
}

// Provider returns the provider key
func (g *MercadoPagoGateway) Provider() string {
	return ProviderMercadoPago
}

type preferenceItem struct {
	Title      string  `json:"title"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	CurrencyID string  `json:"currency_id"`
}

type preferencePayer struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

type preferenceRequest struct {
	Items             []preferenceItem `json:"items"`
	ExternalReference string           `json:"external_reference"`
	NotificationURL   string           `json:"notification_url,omitempty"`
	Payer             *preferencePayer `json:"payer,omitempty"`
}

type preferenceResponse struct {
	ID        string `json:"id"`
	InitPoint string `json:"init_point"`
}

// CreatePreference creates a hosted checkout for the request
func (g *MercadoPagoGateway) CreatePreference(ctx context.Context, req integration.PreferenceRequest) (*integration.PaymentLink, error) {
	body := preferenceRequest{
		Items: []preferenceItem{{
			Title:      req.Title,
			Quantity:   1,
			UnitPrice:  req.Amount.Float64(),
			CurrencyID: string(valueobject.DefaultCurrency),
		}},
		ExternalReference: req.ExternalReference,
		NotificationURL:   g.notificationURL,
	}
	if req.PayerEmail != "" || req.PayerName != "" {
		body.Payer = &preferencePayer{Name: req.PayerName, Email: req.PayerEmail}
	}

	var resp preferenceResponse
	if err := g.do(ctx, http.MethodPost, "/checkout/preferences", body, &resp); err != nil {
		return nil, err
	}
	if resp.ID == "" {
		return nil, fmt.Errorf("mercadopago: preference response without id")
	}

	return &integration.PaymentLink{
		Provider:    ProviderMercadoPago,
		ExternalID:  resp.ID,
		CheckoutURL: resp.InitPoint,
	}, nil
}

type paymentResponse struct {
	ID                json.Number     `json:"id"`
	Status            string          `json:"status"`
	ExternalReference string          `json:"external_reference"`
	TransactionAmount decimal.Decimal `json:"transaction_amount"`
	PaymentMethodID   string          `json:"payment_method_id"`
	PaymentTypeID     string          `json:"payment_type_id"`
}

// GetPayment fetches a payment and normalizes it for reconciliation
func (g *MercadoPagoGateway) GetPayment(ctx context.Context, paymentID string) (*integration.PaymentNotification, error) {
	if paymentID == "" {
		return nil, fmt.Errorf("mercadopago: payment ID is required")
	}

	var resp paymentResponse
	if err := g.do(ctx, http.MethodGet, "/v1/payments/"+paymentID, nil, &resp); err != nil {
		return nil, err
	}

	amount, err := valueobject.NewMoneyFromDecimal(resp.TransactionAmount)
	if err != nil {
		return nil, fmt.Errorf("mercadopago: invalid transaction amount: %w", err)
	}

	return &integration.PaymentNotification{
		Provider:          ProviderMercadoPago,
		PaymentID:         resp.ID.String(),
		ExternalReference: resp.ExternalReference,
		Status:            normalizeStatus(resp.Status),
		RawStatus:         resp.Status,
		Amount:            amount,
		Method:            normalizeMethod(resp.PaymentTypeID, resp.PaymentMethodID),
	}, nil
}

// normalizeStatus maps Mercado Pago payment statuses to the
// provider-independent ones
func normalizeStatus(status string) integration.PaymentStatus {
	switch status {
	case "approved":
		return integration.PaymentStatusApproved
	case "pending", "in_process", "in_mediation", "authorized":
		return integration.PaymentStatusPending
	case "rejected", "cancelled":
		return integration.PaymentStatusRejected
	case "refunded", "charged_back":
		return integration.PaymentStatusRefunded
	default:
		return integration.PaymentStatusUnknown
	}
}

// normalizeMethod maps Mercado Pago payment types to settlement methods
func normalizeMethod(paymentTypeID, paymentMethodID string) string {
	if paymentMethodID == "pix" {
		return "PIX"
	}
	switch paymentTypeID {
	case "credit_card", "debit_card", "prepaid_card":
		return "CREDIT_CARD"
	case "ticket", "bank_transfer", "atm":
		return "BOLETO"
	default:
		return "PIX"
	}
}

func (g *MercadoPagoGateway) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("mercadopago: marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("mercadopago: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.accessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("mercadopago: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("mercadopago: %s %s returned %d: %s", method, path, resp.StatusCode, payload)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("mercadopago: decode response: %w", err)
		}
	}
	return nil
}

// Ensure MercadoPagoGateway implements PaymentGateway
var _ integration.PaymentGateway = (*MercadoPagoGateway)(nil)
