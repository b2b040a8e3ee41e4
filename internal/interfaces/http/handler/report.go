package handler

import (
	"time"

	reportapp "github.com/apex/backoffice/internal/application/report"
	"github.com/gin-gonic/gin"
)

// ReportHandler handles financial report API endpoints
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.Service
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.Service) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// FinancialSummary godoc
// @ID           financialSummary
// @Summary      Financial summary report
// @Description  Totals received, receivable, paid and payable for the period; omit dates for all time
// @Tags         reports
// @Produce      json
// @Param        from query string false "Period start (YYYY-MM-DD)"
// @Param        to query string false "Period end (YYYY-MM-DD)"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Security     BearerAuth
// @Router       /reports/financial [get]
func (h *ReportHandler) FinancialSummary(c *gin.Context) {
	from, ok := parseDateQuery(c, "from")
	if !ok {
		h.BadRequest(c, "Invalid 'from' date, expected YYYY-MM-DD")
		return
	}
	to, ok := parseDateQuery(c, "to")
	if !ok {
		h.BadRequest(c, "Invalid 'to' date, expected YYYY-MM-DD")
		return
	}

	summary, err := h.reportService.FinancialSummary(c.Request.Context(), from, to)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}

// Extract godoc
// @ID           financialExtract
// @Summary      Unified financial extract
// @Description  Receivables and payables merged into one statement ordered by due date; omit dates for all time
// @Tags         reports
// @Produce      json
// @Param        from query string false "Period start (YYYY-MM-DD)"
// @Param        to query string false "Period end (YYYY-MM-DD)"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Security     BearerAuth
// @Router       /reports/extract [get]
func (h *ReportHandler) Extract(c *gin.Context) {
	from, ok := parseDateQuery(c, "from")
	if !ok {
		h.BadRequest(c, "Invalid 'from' date, expected YYYY-MM-DD")
		return
	}
	to, ok := parseDateQuery(c, "to")
	if !ok {
		h.BadRequest(c, "Invalid 'to' date, expected YYYY-MM-DD")
		return
	}

	transactions, err := h.reportService.Extract(c.Request.Context(), from, to)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, transactions)
}

// Dashboard godoc
// @ID           dashboardStats
// @Summary      Dashboard statistics
// @Description  Open receivables, overdue count, month revenue and pending processes
// @Tags         reports
// @Produce      json
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /dashboard/stats [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	stats, err := h.reportService.Dashboard(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, stats)
}

// parseDateQuery reads an optional YYYY-MM-DD query parameter
func parseDateQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, false
	}
	return &t, true
}
