package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storekeeper/internal/core/apperror"
	"storekeeper/internal/core/id"
	"storekeeper/internal/domain/ledger"
	"storekeeper/internal/infrastructure/http/v1/dto"
)

// IssueHandler handles HTTP requests for stock issuance.
type IssueHandler struct {
	*BaseHandler
	ledger *ledger.Service
}

// NewIssueHandler creates a new issuance handler.
func NewIssueHandler(base *BaseHandler, ledgerSvc *ledger.Service) *IssueHandler {
	return &IssueHandler{
		BaseHandler: base,
		ledger:      ledgerSvc,
	}
}

// Issue handles POST /issues
func (h *IssueHandler) Issue(c *gin.Context) {
	var req dto.IssueStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	svcReq, err := req.ToServiceRequest()
	if err != nil {
		h.Error(c, err)
		return
	}

	entry, err := h.ledger.Issue(c.Request.Context(), svcReq)
	if err != nil {
		h.Error(c, err)
		return
	}

	response := dto.FromIssueEntry(entry)
	h.CompleteIdempotency(c, http.StatusCreated, "application/json", response)
	c.JSON(http.StatusCreated, response)
}

// IssueEngraved handles POST /issues/engraved
func (h *IssueHandler) IssueEngraved(c *gin.Context) {
	var req dto.IssueEngravedStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	svcReq, err := req.ToServiceRequest()
	if err != nil {
		h.Error(c, err)
		return
	}

	entry, err := h.ledger.IssueEngraved(c.Request.Context(), svcReq)
	if err != nil {
		h.Error(c, err)
		return
	}

	response := dto.FromIssueEntry(entry)
	h.CompleteIdempotency(c, http.StatusCreated, "application/json", response)
	c.JSON(http.StatusCreated, response)
}

// List handles GET /issues
func (h *IssueHandler) List(c *gin.Context) {
	filter := ledger.IssueEntryFilter{
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	var err error
	if filter.ItemID, err = parseOptionalIDQuery(c, "itemId"); err != nil {
		h.Error(c, err)
		return
	}
	if filter.DepartmentID, err = parseOptionalIDQuery(c, "departmentId"); err != nil {
		h.Error(c, err)
		return
	}
	if filter.EmployeeID, err = parseOptionalIDQuery(c, "employeeId"); err != nil {
		h.Error(c, err)
		return
	}
	if v := c.Query("voucherNumber"); v != "" {
		filter.VoucherNumber = &v
	}
	if v := c.Query("engravedNumber"); v != "" {
		filter.EngravedNumber = &v
	}
	if filter.FromDate, filter.ToDate, err = parseDateRangeQuery(c); err != nil {
		h.Error(c, err)
		return
	}

	entries, total, err := h.ledger.ListIssueEntries(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{
		Items:      dto.FromIssueEntries(entries),
		TotalCount: total,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
}

// Get handles GET /issues/:id
func (h *IssueHandler) Get(c *gin.Context) {
	entryID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	entry, err := h.ledger.GetIssueEntry(c.Request.Context(), entryID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromIssueEntry(entry))
}
