package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storekeeper/internal/core/apperror"
	"storekeeper/internal/core/id"
	"storekeeper/internal/domain/ledger"
	"storekeeper/internal/domain/registers/balance"
	"storekeeper/internal/infrastructure/http/v1/dto"
)

// StockHandler handles HTTP requests for stock receipts and balances.
type StockHandler struct {
	*BaseHandler
	ledger   *ledger.Service
	balances *balance.Service
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(base *BaseHandler, ledgerSvc *ledger.Service, balanceSvc *balance.Service) *StockHandler {
	return &StockHandler{
		BaseHandler: base,
		ledger:      ledgerSvc,
		balances:    balanceSvc,
	}
}

// Receive handles POST /stock/receive
func (h *StockHandler) Receive(c *gin.Context) {
	var req dto.ReceiveStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	svcReq, err := req.ToServiceRequest()
	if err != nil {
		h.Error(c, err)
		return
	}

	entry, err := h.ledger.Receive(c.Request.Context(), svcReq)
	if err != nil {
		h.Error(c, err)
		return
	}

	response := dto.FromStockEntry(entry)
	h.CompleteIdempotency(c, http.StatusCreated, "application/json", response)
	c.JSON(http.StatusCreated, response)
}

// ReceiveEngraved handles POST /stock/receive-engraved
func (h *StockHandler) ReceiveEngraved(c *gin.Context) {
	var req dto.ReceiveEngravedStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	svcReq, err := req.ToServiceRequest()
	if err != nil {
		h.Error(c, err)
		return
	}

	entries, err := h.ledger.ReceiveEngraved(c.Request.Context(), svcReq)
	if err != nil {
		h.Error(c, err)
		return
	}

	response := dto.ListResponse{
		Items:      dto.FromStockEntries(entries),
		TotalCount: int64(len(entries)),
	}
	h.CompleteIdempotency(c, http.StatusCreated, "application/json", response)
	c.JSON(http.StatusCreated, response)
}

// List handles GET /stock/entries
func (h *StockHandler) List(c *gin.Context) {
	filter := ledger.StockEntryFilter{
		EngravedOnly: c.Query("engravedOnly") == "true",
		Unissued:     c.Query("unissued") == "true",
		Limit:        h.ParseIntQuery(c, "limit", 50),
		Offset:       h.ParseIntQuery(c, "offset", 0),
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
	if filter.SupplierID, err = parseOptionalIDQuery(c, "supplierId"); err != nil {
		h.Error(c, err)
		return
	}
	if v := c.Query("lpoNumber"); v != "" {
		filter.LPONumber = &v
	}
	if v := c.Query("deliveryNumber"); v != "" {
		filter.DeliveryNumber = &v
	}
	if v := c.Query("engravedNumber"); v != "" {
		filter.EngravedNumber = &v
	}
	if filter.FromDate, filter.ToDate, err = parseDateRangeQuery(c); err != nil {
		h.Error(c, err)
		return
	}

	entries, total, err := h.ledger.ListStockEntries(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{
		Items:      dto.FromStockEntries(entries),
		TotalCount: total,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
}

// Get handles GET /stock/entries/:id
func (h *StockHandler) Get(c *gin.Context) {
	entryID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	entry, err := h.ledger.GetStockEntry(c.Request.Context(), entryID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromStockEntry(entry))
}

// Balances handles GET /stock/balances
func (h *StockHandler) Balances(c *gin.Context) {
	deptStr := c.Query("departmentId")
	if deptStr == "" {
		h.Error(c, apperror.NewValidation("departmentId is required"))
		return
	}
	departmentID, err := id.Parse(deptStr)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid departmentId format"))
		return
	}

	filter := balance.Filter{
		ExcludeZero: c.Query("excludeZero") != "false",
	}
	if itemID, err := parseOptionalIDQuery(c, "itemId"); err != nil {
		h.Error(c, err)
		return
	} else if itemID != nil {
		filter.ItemIDs = []id.ID{*itemID}
	}

	balances, err := h.balances.ListByDepartment(c.Request.Context(), departmentID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{
		Items:      dto.FromBalances(balances),
		TotalCount: int64(len(balances)),
	})
}

// Availability handles GET /stock/availability/:itemId
func (h *StockHandler) Availability(c *gin.Context) {
	itemID, err := id.Parse(c.Param("itemId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid itemId format"))
		return
	}

	ctx := c.Request.Context()

	total, err := h.balances.GetItemAvailability(ctx, itemID)
	if err != nil {
		h.Error(c, err)
		return
	}
	perDept, err := h.balances.ListByItem(ctx, itemID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ItemAvailabilityResponse{
		ItemID:   itemID.String(),
		Total:    int64(total),
		Balances: dto.FromBalances(perDept),
	})
}

func parseOptionalIDQuery(c *gin.Context, key string) (*id.ID, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	parsed, err := id.Parse(raw)
	if err != nil {
		return nil, apperror.NewValidation("invalid " + key + " format")
	}
	return &parsed, nil
}

func parseDateRangeQuery(c *gin.Context) (from, to *time.Time, err error) {
	if raw := c.Query("from"); raw != "" {
		parsed, perr := time.Parse("2006-01-02", raw)
		if perr != nil {
			return nil, nil, apperror.NewValidation("invalid from date, expected YYYY-MM-DD")
		}
		from = &parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, perr := time.Parse("2006-01-02", raw)
		if perr != nil {
			return nil, nil, apperror.NewValidation("invalid to date, expected YYYY-MM-DD")
		}
		to = &parsed
	}
	return from, to, nil
}
