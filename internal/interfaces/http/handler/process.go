package handler

import (
	fulfillmentapp "github.com/apex/backoffice/internal/application/fulfillment"
	"github.com/gin-gonic/gin"
)

// ProcessHandler handles licensing process API endpoints
type ProcessHandler struct {
	BaseHandler
	processService *fulfillmentapp.ProcessService
}

// NewProcessHandler creates a new ProcessHandler
func NewProcessHandler(processService *fulfillmentapp.ProcessService) *ProcessHandler {
	return &ProcessHandler{processService: processService}
}

// List godoc
// @ID           listProcesses
// @Summary      List licensing processes
// @Description  Processes are opened by sales; this lists them with status and client filters
// @Tags         processes
// @Produce      json
// @Param        status query string false "Filter by status" Enums(PENDING, IN_PROGRESS, COMPLETED, CANCELLED)
// @Param        client_id query string false "Filter by client" format(uuid)
// @Param        service_id query string false "Filter by service" format(uuid)
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /fulfillment/processes [get]
func (h *ProcessHandler) List(c *gin.Context) {
	var filter fulfillmentapp.ProcessListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	processes, total, err := h.processService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, processes, total, pageOf(filter.Page), pageSizeOf(filter.PageSize))
}

// GetByID godoc
// @ID           getProcessById
// @Summary      Get process by ID
// @Tags         processes
// @Produce      json
// @Param        id path string true "Process ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /fulfillment/processes/{id} [get]
func (h *ProcessHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid process ID format")
		return
	}

	process, err := h.processService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, process)
}

// Update godoc
// @ID           updateProcess
// @Summary      Advance a licensing process
// @Description  Transitions the process status; completed and cancelled processes are terminal
// @Tags         processes
// @Accept       json
// @Produce      json
// @Param        id path string true "Process ID" format(uuid)
// @Param        request body fulfillmentapp.UpdateProcessRequest true "Status and notes"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /fulfillment/processes/{id} [patch]
func (h *ProcessHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid process ID format")
		return
	}

	var req fulfillmentapp.UpdateProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	process, err := h.processService.Update(c.Request.Context(), actorID(c), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, process)
}
