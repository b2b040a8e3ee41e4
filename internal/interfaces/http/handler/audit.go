package handler

import (
	auditapp "github.com/apex/backoffice/internal/application/audit"
	"github.com/gin-gonic/gin"
)

// AuditHandler exposes the audit trail, read only
type AuditHandler struct {
	BaseHandler
	auditService *auditapp.Service
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(auditService *auditapp.Service) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// List godoc
// @ID           listAuditLogs
// @Summary      List audit log entries
// @Tags         audit
// @Produce      json
// @Param        action query string false "Filter by action"
// @Param        resource query string false "Filter by resource type"
// @Param        user_id query string false "Filter by acting user" format(uuid)
// @Param        entity_id query string false "Filter by affected entity"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /audit/logs [get]
func (h *AuditHandler) List(c *gin.Context) {
	var filter auditapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	entries, total, err := h.auditService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, entries, total, pageOf(filter.Page), pageSizeOf(filter.PageSize))
}
