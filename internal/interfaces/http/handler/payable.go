package handler

import (
	financeapp "github.com/apex/backoffice/internal/application/finance"
	"github.com/gin-gonic/gin"
)

// PayableHandler handles payable API endpoints
type PayableHandler struct {
	BaseHandler
	payableService *financeapp.PayableService
}

// NewPayableHandler creates a new PayableHandler
func NewPayableHandler(payableService *financeapp.PayableService) *PayableHandler {
	return &PayableHandler{payableService: payableService}
}

// Create godoc
// @ID           createPayable
// @Summary      Create a payable
// @Description  Creates an expense not tied to a sale; sale-generated payables come from the fan-out
// @Tags         payables
// @Accept       json
// @Produce      json
// @Param        request body financeapp.CreatePayableRequest true "Payable data"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Security     BearerAuth
// @Router       /finance/payables [post]
func (h *PayableHandler) Create(c *gin.Context) {
	var req financeapp.CreatePayableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	payable, err := h.payableService.Create(c.Request.Context(), actorID(c), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, payable)
}

// GetByID godoc
// @ID           getPayableById
// @Summary      Get payable by ID
// @Tags         payables
// @Produce      json
// @Param        id path string true "Payable ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /finance/payables/{id} [get]
func (h *PayableHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid payable ID format")
		return
	}

	payable, err := h.payableService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, payable)
}

// List godoc
// @ID           listPayables
// @Summary      List payables
// @Tags         payables
// @Produce      json
// @Param        status query string false "Filter by status" Enums(OPEN, PAID, OVERDUE, CANCELLED)
// @Param        category_id query string false "Filter by expense category" format(uuid)
// @Param        client_id query string false "Filter by client" format(uuid)
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /finance/payables [get]
func (h *PayableHandler) List(c *gin.Context) {
	var filter financeapp.PayableListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	payables, total, err := h.payableService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, payables, total, pageOf(filter.Page), pageSizeOf(filter.PageSize))
}

// Update godoc
// @ID           updatePayable
// @Summary      Update a payable
// @Tags         payables
// @Accept       json
// @Produce      json
// @Param        id path string true "Payable ID" format(uuid)
// @Param        request body financeapp.UpdatePayableRequest true "Payable data"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /finance/payables/{id} [put]
func (h *PayableHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid payable ID format")
		return
	}

	var req financeapp.UpdatePayableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	payable, err := h.payableService.Update(c.Request.Context(), actorID(c), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, payable)
}

// Pay godoc
// @ID           payPayable
// @Summary      Mark a payable as paid
// @Tags         payables
// @Produce      json
// @Param        id path string true "Payable ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /finance/payables/{id}/pay [post]
func (h *PayableHandler) Pay(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid payable ID format")
		return
	}

	payable, err := h.payableService.Pay(c.Request.Context(), actorID(c), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, payable)
}

// Delete godoc
// @ID           deletePayable
// @Summary      Delete a payable
// @Tags         payables
// @Produce      json
// @Param        id path string true "Payable ID" format(uuid)
// @Success      204 "No Content"
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /finance/payables/{id} [delete]
func (h *PayableHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid payable ID format")
		return
	}

	if err := h.payableService.Delete(c.Request.Context(), actorID(c), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
