package handler

import (
	financeapp "github.com/apex/backoffice/internal/application/finance"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReceivableHandler handles receivable API endpoints
type ReceivableHandler struct {
	BaseHandler
	receivableService  *financeapp.ReceivableService
	paymentLinkService *financeapp.PaymentLinkService
}

// NewReceivableHandler creates a new ReceivableHandler
func NewReceivableHandler(
	receivableService *financeapp.ReceivableService,
	paymentLinkService *financeapp.PaymentLinkService,
) *ReceivableHandler {
	return &ReceivableHandler{
		receivableService:  receivableService,
		paymentLinkService: paymentLinkService,
	}
}

// CreatePaymentLinkRequest identifies the receivable to generate a checkout link for
type CreatePaymentLinkRequest struct {
	ReceivableID uuid.UUID `json:"receivable_id" binding:"required"`
}

// Create godoc
// @ID           createReceivable
// @Summary      Create a receivable
// @Description  Creates a standalone receivable not tied to a sale
// @Tags         receivables
// @Accept       json
// @Produce      json
// @Param        request body financeapp.CreateReceivableRequest true "Receivable data"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Security     BearerAuth
// @Router       /finance/receivables [post]
func (h *ReceivableHandler) Create(c *gin.Context) {
	var req financeapp.CreateReceivableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	receivable, err := h.receivableService.Create(c.Request.Context(), actorID(c), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, receivable)
}

// GetByID godoc
// @ID           getReceivableById
// @Summary      Get receivable by ID
// @Tags         receivables
// @Produce      json
// @Param        id path string true "Receivable ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /finance/receivables/{id} [get]
func (h *ReceivableHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid receivable ID format")
		return
	}

	receivable, err := h.receivableService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, receivable)
}

// List godoc
// @ID           listReceivables
// @Summary      List receivables
// @Tags         receivables
// @Produce      json
// @Param        status query string false "Filter by status" Enums(OPEN, PAID, OVERDUE, CANCELLED)
// @Param        client_id query string false "Filter by client" format(uuid)
// @Param        overdue query bool false "Only receivables past due"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /finance/receivables [get]
func (h *ReceivableHandler) List(c *gin.Context) {
	var filter financeapp.ReceivableListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	receivables, total, err := h.receivableService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, receivables, total, pageOf(filter.Page), pageSizeOf(filter.PageSize))
}

// ApplyPayment godoc
// @ID           applyReceivablePayment
// @Summary      Register a manual payment
// @Description  Applies a payment to the receivable; overpayment is rejected
// @Tags         receivables
// @Accept       json
// @Produce      json
// @Param        id path string true "Receivable ID" format(uuid)
// @Param        request body financeapp.ApplyPaymentRequest true "Payment data"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /finance/receivables/{id}/payments [post]
func (h *ReceivableHandler) ApplyPayment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid receivable ID format")
		return
	}

	var req financeapp.ApplyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	receivable, err := h.receivableService.ApplyPayment(c.Request.Context(), actorID(c), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, receivable)
}

// Update godoc
// @ID           updateReceivable
// @Summary      Update a receivable's terms
// @Tags         receivables
// @Accept       json
// @Produce      json
// @Param        id path string true "Receivable ID" format(uuid)
// @Param        request body financeapp.UpdateReceivableRequest true "Receivable data"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /finance/receivables/{id} [put]
func (h *ReceivableHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid receivable ID format")
		return
	}

	var req financeapp.UpdateReceivableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	receivable, err := h.receivableService.Update(c.Request.Context(), actorID(c), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, receivable)
}

// Cancel godoc
// @ID           cancelReceivable
// @Summary      Cancel a receivable
// @Description  Rejected once the receivable has payments applied
// @Tags         receivables
// @Produce      json
// @Param        id path string true "Receivable ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /finance/receivables/{id}/cancel [post]
func (h *ReceivableHandler) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid receivable ID format")
		return
	}

	receivable, err := h.receivableService.Cancel(c.Request.Context(), actorID(c), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, receivable)
}

// Delete godoc
// @ID           deleteReceivable
// @Summary      Delete a receivable
// @Tags         receivables
// @Produce      json
// @Param        id path string true "Receivable ID" format(uuid)
// @Success      204 "No Content"
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /finance/receivables/{id} [delete]
func (h *ReceivableHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid receivable ID format")
		return
	}

	if err := h.receivableService.Delete(c.Request.Context(), actorID(c), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// CreatePaymentLink godoc
// @ID           createPaymentLink
// @Summary      Generate a checkout link
// @Description  Creates a provider checkout preference for the receivable's remaining amount
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request body CreatePaymentLinkRequest true "Receivable reference"
// @Success      201 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /payments/mercadopago/preference [post]
func (h *ReceivableHandler) CreatePaymentLink(c *gin.Context) {
	var req CreatePaymentLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	link, err := h.paymentLinkService.CreateLink(c.Request.Context(), actorID(c), req.ReceivableID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, link)
}
