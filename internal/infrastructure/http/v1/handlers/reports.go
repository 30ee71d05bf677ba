package handlers

import (
	"github.com/gin-gonic/gin"

	"storekeeper/internal/domain/reports"
	"storekeeper/internal/infrastructure/http/v1/dto"
)

// ReportsHandler handles HTTP requests for reporting endpoints.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Dashboard handles GET /reports/dashboard
func (h *ReportsHandler) Dashboard(c *gin.Context) {
	report, err := h.service.GetDashboard(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, report)
}

// Inflow handles GET /reports/inflow
func (h *ReportsHandler) Inflow(c *gin.Context) {
	var req dto.InflowReportRequest
	if !h.BindQuery(c, &req) {
		return
	}

	filter, err := req.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	report, err := h.service.GetInflow(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, report)
}

// Outflow handles GET /reports/outflow
func (h *ReportsHandler) Outflow(c *gin.Context) {
	var req dto.OutflowReportRequest
	if !h.BindQuery(c, &req) {
		return
	}

	filter, err := req.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	report, err := h.service.GetOutflow(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, report)
}

// Cost handles GET /reports/cost
func (h *ReportsHandler) Cost(c *gin.Context) {
	var req dto.CostReportRequest
	if !h.BindQuery(c, &req) {
		return
	}

	filter, err := req.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	report, err := h.service.GetCost(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, report)
}

// Departments handles GET /reports/departments
func (h *ReportsHandler) Departments(c *gin.Context) {
	var req dto.ReportRangeRequest
	if !h.BindQuery(c, &req) {
		return
	}

	report, err := h.service.GetDepartments(c.Request.Context(), req.Range())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, report)
}

// Summary handles GET /reports/summary
func (h *ReportsHandler) Summary(c *gin.Context) {
	var req dto.SummaryReportRequest
	if !h.BindQuery(c, &req) {
		return
	}

	filter, err := req.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	report, err := h.service.GetSummary(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, report)
}

// References handles GET /reports/references
func (h *ReportsHandler) References(c *gin.Context) {
	var req dto.ReferenceReportRequest
	if !h.BindQuery(c, &req) {
		return
	}
	if req.Kind == "" {
		req.Kind = reports.ReferenceVoucher
	}

	report, err := h.service.GetReferences(c.Request.Context(), req.Kind, req.Range())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, report)
}

// Remaining handles GET /reports/remaining
func (h *ReportsHandler) Remaining(c *gin.Context) {
	var req dto.ReportRangeRequest
	if !h.BindQuery(c, &req) {
		return
	}

	report, err := h.service.GetRemaining(c.Request.Context(), req.Range())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, report)
}

// Combined handles GET /reports/combined
func (h *ReportsHandler) Combined(c *gin.Context) {
	var req dto.CombinedReportRequest
	if !h.BindQuery(c, &req) {
		return
	}

	report, err := h.service.GetCombined(c.Request.Context(), req.Range(), req.Bucket)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, report)
}
