package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	financeapp "github.com/apex/backoffice/internal/application/finance"
	"github.com/apex/backoffice/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// signatureHeader carries the HMAC-SHA256 hex digest of the raw body
// on the generic payments webhook
const signatureHeader = "X-Webhook-Signature"

// WebhookHandler receives inbound payment notifications. Providers
// retry on non-2xx, so processing failures still answer 200; the
// webhook record keeps the failure for replay.
type WebhookHandler struct {
	BaseHandler
	reconciliation *financeapp.ReconciliationService
	webhookCfg     config.WebhookConfig
	logger         *zap.Logger
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(
	reconciliation *financeapp.ReconciliationService,
	webhookCfg config.WebhookConfig,
	logger *zap.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		reconciliation: reconciliation,
		webhookCfg:     webhookCfg,
		logger:         logger,
	}
}

// genericPayload is the body of the generic payments webhook
type genericPayload struct {
	Provider  string `json:"provider"`
	EventID   string `json:"event_id"`
	Topic     string `json:"topic"`
	PaymentID string `json:"payment_id"`
}

// mercadoPagoPayload is the body MercadoPago posts; the interesting
// fields also arrive as query parameters on older notification formats
type mercadoPagoPayload struct {
	ID     int64  `json:"id"`
	Type   string `json:"type"`
	Action string `json:"action"`
	Data   struct {
		ID string `json:"id"`
	} `json:"data"`
}

// Generic godoc
// @ID           paymentsWebhook
// @Summary      Generic payments webhook
// @Description  HMAC-signed notification endpoint for payment providers
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Param        X-Webhook-Signature header string false "HMAC-SHA256 hex digest of the body"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Router       /webhooks/payments [post]
func (h *WebhookHandler) Generic(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.BadRequest(c, "Unable to read request body")
		return
	}

	if !h.verifySignature(body, c.GetHeader(signatureHeader)) {
		h.Unauthorized(c, "Invalid webhook signature")
		return
	}

	var payload genericPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		h.BadRequest(c, "Invalid JSON payload")
		return
	}
	if payload.Provider == "" {
		h.BadRequest(c, "Missing provider")
		return
	}

	h.dispatch(c, financeapp.ProviderNotification{
		Provider:  payload.Provider,
		EventID:   payload.EventID,
		Topic:     payload.Topic,
		PaymentID: payload.PaymentID,
		Payload:   body,
	})
}

// MercadoPago godoc
// @ID           mercadoPagoWebhook
// @Summary      MercadoPago notification endpoint
// @Description  Accepts both the query-parameter and the JSON body notification formats
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Param        topic query string false "Notification topic"
// @Param        id query string false "Payment ID"
// @Success      200 {object} dto.Response
// @Router       /webhooks/mercadopago [post]
func (h *WebhookHandler) MercadoPago(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.BadRequest(c, "Unable to read request body")
		return
	}

	var payload mercadoPagoPayload
	if len(body) > 0 {
		// Tolerate unparseable bodies, the query parameters may still
		// identify the payment.
		_ = json.Unmarshal(body, &payload)
	}

	topic := c.Query("topic")
	if topic == "" {
		topic = c.Query("type")
	}
	if topic == "" {
		topic = payload.Type
	}

	paymentID := c.Query("id")
	if paymentID == "" {
		paymentID = c.Query("data.id")
	}
	if paymentID == "" {
		paymentID = payload.Data.ID
	}

	eventID := c.GetHeader("x-request-id")
	if eventID == "" && payload.ID != 0 {
		eventID = strconv.FormatInt(payload.ID, 10)
	}

	h.dispatch(c, financeapp.ProviderNotification{
		Provider:  "mercadopago",
		EventID:   eventID,
		Topic:     topic,
		PaymentID: paymentID,
		Payload:   body,
	})
}

// dispatch runs reconciliation and always acknowledges. A non-2xx
// would make the provider hammer the endpoint with redeliveries while
// the underlying failure is on our side.
func (h *WebhookHandler) dispatch(c *gin.Context, n financeapp.ProviderNotification) {
	if err := h.reconciliation.HandleNotification(c.Request.Context(), n); err != nil {
		h.logger.Error("webhook processing failed",
			zap.String("provider", n.Provider),
			zap.String("payment_id", n.PaymentID),
			zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"status": "received"})
}

// verifySignature checks the HMAC over the raw body. Verification
// only runs when both the configured secret and the signature header
// are present; either side missing skips the check with a warning.
func (h *WebhookHandler) verifySignature(body []byte, signature string) bool {
	if h.webhookCfg.Secret == "" {
		h.logger.Warn("webhook secret not configured, skipping signature verification")
		return true
	}
	if signature == "" {
		h.logger.Warn("webhook signature header absent, skipping verification")
		return true
	}

	mac := hmac.New(sha256.New, []byte(h.webhookCfg.Secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
