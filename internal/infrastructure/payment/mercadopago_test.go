package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/apex/backoffice/internal/domain/integration"
	"github.com/apex/backoffice/internal/domain/shared/valueobject"
	"github.com/apex/backoffice/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGateway(serverURL string) *MercadoPagoGateway {
	return NewMercadoPagoGateway(config.PaymentConfig{
		AccessToken:     "test-token",
		BaseURL:         serverURL,
		NotificationURL: "https://backoffice.example/api/v1/webhooks/mercadopago",
	})
}

func TestMercadoPagoGateway_CreatePreference(t *testing.T) {
	t.Run("creates checkout preference", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/checkout/preferences", r.URL.Path)
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "rec-123", body["external_reference"])

			items := body["items"].([]interface{})
			require.Len(t, items, 1)
			item := items[0].(map[string]interface{})
			assert.Equal(t, "Emissão de CR", item["title"])
			assert.Equal(t, "BRL", item["currency_id"])
			assert.InDelta(t, 1500.00, item["unit_price"], 0.001)

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"pref-456","init_point":"https://mp.example/checkout/pref-456"}`))
		}))
		defer server.Close()

		gateway := newTestGateway(server.URL)

		link, err := gateway.CreatePreference(context.Background(), integration.PreferenceRequest{
			Title:             "Emissão de CR",
			Amount:            valueobject.NewMoney(150000),
			ExternalReference: "rec-123",
		})

		require.NoError(t, err)
		assert.Equal(t, ProviderMercadoPago, link.Provider)
		assert.Equal(t, "pref-456", link.ExternalID)
		assert.Equal(t, "https://mp.example/checkout/pref-456", link.CheckoutURL)
	})

	t.Run("forwards payer identity", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			payer := body["payer"].(map[string]interface{})
			assert.Equal(t, "João da Silva", payer["name"])
			assert.Equal(t, "joao@example.com", payer["email"])

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"pref-789","init_point":"https://mp.example/checkout/pref-789"}`))
		}))
		defer server.Close()

		gateway := newTestGateway(server.URL)

		_, err := gateway.CreatePreference(context.Background(), integration.PreferenceRequest{
			Title:             "Emissão de CR",
			Amount:            valueobject.NewMoney(150000),
			ExternalReference: "rec-123",
			PayerName:         "João da Silva",
			PayerEmail:        "joao@example.com",
		})

		require.NoError(t, err)
	})

	t.Run("surfaces provider errors", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message":"invalid access token"}`))
		}))
		defer server.Close()

		gateway := newTestGateway(server.URL)

		link, err := gateway.CreatePreference(context.Background(), integration.PreferenceRequest{
			Title:             "Emissão de CR",
			Amount:            valueobject.NewMoney(150000),
			ExternalReference: "rec-123",
		})

		assert.Error(t, err)
		assert.Nil(t, link)
		assert.Contains(t, err.Error(), "400")
	})
}

func TestMercadoPagoGateway_GetPayment(t *testing.T) {
	t.Run("fetches and normalizes approved payment", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/v1/payments/987654", r.URL.Path)
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"id": 987654,
				"status": "approved",
				"external_reference": "rec-123",
				"transaction_amount": 1500.00,
				"payment_method_id": "pix",
				"payment_type_id": "bank_transfer"
			}`))
		}))
		defer server.Close()

		gateway := newTestGateway(server.URL)

		notification, err := gateway.GetPayment(context.Background(), "987654")

		require.NoError(t, err)
		assert.Equal(t, ProviderMercadoPago, notification.Provider)
		assert.Equal(t, "987654", notification.PaymentID)
		assert.Equal(t, "rec-123", notification.ExternalReference)
		assert.Equal(t, integration.PaymentStatusApproved, notification.Status)
		assert.Equal(t, "approved", notification.RawStatus)
		assert.Equal(t, int64(150000), notification.Amount.Cents())
		assert.Equal(t, "PIX", notification.Method)
	})

	t.Run("rejects empty payment ID", func(t *testing.T) {
		gateway := newTestGateway("http://unused.example")

		notification, err := gateway.GetPayment(context.Background(), "")

		assert.Error(t, err)
		assert.Nil(t, notification)
	})
}

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		raw      string
		expected integration.PaymentStatus
	}{
		{"approved", integration.PaymentStatusApproved},
		{"pending", integration.PaymentStatusPending},
		{"in_process", integration.PaymentStatusPending},
		{"authorized", integration.PaymentStatusPending},
		{"rejected", integration.PaymentStatusRejected},
		{"cancelled", integration.PaymentStatusRejected},
		{"refunded", integration.PaymentStatusRefunded},
		{"charged_back", integration.PaymentStatusRefunded},
		{"something_new", integration.PaymentStatusUnknown},
		{"", integration.PaymentStatusUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizeStatus(tt.raw))
		})
	}
}

func TestNormalizeMethod(t *testing.T) {
	tests := []struct {
		name     string
		typeID   string
		methodID string
		expected string
	}{
		{"pix wins over type", "bank_transfer", "pix", "PIX"},
		{"credit card", "credit_card", "master", "CREDIT_CARD"},
		{"debit card", "debit_card", "elo", "CREDIT_CARD"},
		{"boleto", "ticket", "bolbradesco", "BOLETO"},
		{"unknown defaults to pix", "account_money", "account_money", "PIX"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizeMethod(tt.typeID, tt.methodID))
		})
	}
}

func TestMercadoPagoGateway_RequestTimeout(t *testing.T) {
	gateway := newTestGateway("http://unused.example")

	assert.Equal(t, 10*time.Second, gateway.httpClient.Timeout)
}

func TestRegistry(t *testing.T) {
	t.Run("resolves configured gateway", func(t *testing.T) {
		gateway := newTestGateway("http://unused.example")
		registry := NewRegistry(gateway)

		resolved, err := registry.Get(ProviderMercadoPago)

		assert.NoError(t, err)
		assert.Same(t, gateway, resolved)
		assert.Equal(t, []string{ProviderMercadoPago}, registry.Providers())
	})

	t.Run("rejects unknown provider", func(t *testing.T) {
		registry := NewRegistry()

		resolved, err := registry.Get("stripe")

		assert.Error(t, err)
		assert.Nil(t, resolved)
	})
}
