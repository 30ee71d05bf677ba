package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"storekeeper/internal/core/types"
	"storekeeper/internal/domain/ledger"
)

// --- Receive ---

// ReceiveStockRequest is the request body for recording a delivery.
type ReceiveStockRequest struct {
	ItemID       string `json:"itemId" binding:"required"`
	DepartmentID string `json:"departmentId" binding:"required"`

	Quantity types.Quantity  `json:"quantity" binding:"required"`
	UnitCost decimal.Decimal `json:"unitCost"`

	SupplierID     *string `json:"supplierId"`
	LPONumber      *string `json:"lpoNumber"`
	DeliveryNumber *string `json:"deliveryNumber"`

	ExpiryDate       *time.Time `json:"expiryDate"`
	DepreciationDate *time.Time `json:"depreciationDate"`

	// DateAdded defaults to today when omitted.
	DateAdded *time.Time `json:"dateAdded"`
}

// ToServiceRequest converts DTO to the domain request.
func (r *ReceiveStockRequest) ToServiceRequest() (ledger.ReceiveRequest, error) {
	var req ledger.ReceiveRequest

	itemID, err := parseRequiredID(r.ItemID, "itemId")
	if err != nil {
		return req, err
	}
	departmentID, err := parseRequiredID(r.DepartmentID, "departmentId")
	if err != nil {
		return req, err
	}
	supplierID, err := parseOptionalID(r.SupplierID, "supplierId")
	if err != nil {
		return req, err
	}

	req = ledger.ReceiveRequest{
		ItemID:           itemID,
		DepartmentID:     departmentID,
		Quantity:         r.Quantity,
		UnitCost:         r.UnitCost,
		SupplierID:       supplierID,
		LPONumber:        r.LPONumber,
		DeliveryNumber:   r.DeliveryNumber,
		ExpiryDate:       r.ExpiryDate,
		DepreciationDate: r.DepreciationDate,
	}
	if r.DateAdded != nil {
		req.DateAdded = *r.DateAdded
	}
	return req, nil
}

// ReceiveEngravedStockRequest is the request body for a serialized delivery.
type ReceiveEngravedStockRequest struct {
	ItemID       string `json:"itemId" binding:"required"`
	DepartmentID string `json:"departmentId" binding:"required"`

	// Quantity must equal the number of engraved numbers.
	Quantity types.Quantity  `json:"quantity" binding:"required"`
	UnitCost decimal.Decimal `json:"unitCost"`

	SupplierID     *string `json:"supplierId"`
	LPONumber      *string `json:"lpoNumber"`
	DeliveryNumber *string `json:"deliveryNumber"`

	EngravedNumbers []string `json:"engravedNumbers" binding:"required"`

	DateAdded *time.Time `json:"dateAdded"`
}

// ToServiceRequest converts DTO to the domain request.
func (r *ReceiveEngravedStockRequest) ToServiceRequest() (ledger.ReceiveEngravedRequest, error) {
	var req ledger.ReceiveEngravedRequest

	itemID, err := parseRequiredID(r.ItemID, "itemId")
	if err != nil {
		return req, err
	}
	departmentID, err := parseRequiredID(r.DepartmentID, "departmentId")
	if err != nil {
		return req, err
	}
	supplierID, err := parseOptionalID(r.SupplierID, "supplierId")
	if err != nil {
		return req, err
	}

	req = ledger.ReceiveEngravedRequest{
		ItemID:           itemID,
		DepartmentID:     departmentID,
		DeclaredQuantity: r.Quantity,
		UnitCost:         r.UnitCost,
		SupplierID:       supplierID,
		LPONumber:        r.LPONumber,
		DeliveryNumber:   r.DeliveryNumber,
		EngravedNumbers:  r.EngravedNumbers,
	}
	if r.DateAdded != nil {
		req.DateAdded = *r.DateAdded
	}
	return req, nil
}

// --- Issue ---

// IssueStockRequest is the request body for issuing stock to an employee.
type IssueStockRequest struct {
	ItemID       string `json:"itemId" binding:"required"`
	DepartmentID string `json:"departmentId" binding:"required"`
	EmployeeID   string `json:"employeeId" binding:"required"`

	Quantity types.Quantity `json:"quantity" binding:"required"`

	// VoucherNumber is generated when omitted.
	VoucherNumber string `json:"voucherNumber"`
}

// ToServiceRequest converts DTO to the domain request.
func (r *IssueStockRequest) ToServiceRequest() (ledger.IssueRequest, error) {
	var req ledger.IssueRequest

	itemID, err := parseRequiredID(r.ItemID, "itemId")
	if err != nil {
		return req, err
	}
	departmentID, err := parseRequiredID(r.DepartmentID, "departmentId")
	if err != nil {
		return req, err
	}
	employeeID, err := parseRequiredID(r.EmployeeID, "employeeId")
	if err != nil {
		return req, err
	}

	return ledger.IssueRequest{
		ItemID:        itemID,
		DepartmentID:  departmentID,
		EmployeeID:    employeeID,
		Quantity:      r.Quantity,
		VoucherNumber: r.VoucherNumber,
	}, nil
}

// IssueEngravedStockRequest is the request body for issuing one serialized unit.
type IssueEngravedStockRequest struct {
	ItemID         string `json:"itemId" binding:"required"`
	DepartmentID   string `json:"departmentId" binding:"required"`
	EmployeeID     string `json:"employeeId" binding:"required"`
	EngravedNumber string `json:"engravedNumber" binding:"required"`

	VoucherNumber string `json:"voucherNumber"`
}

// ToServiceRequest converts DTO to the domain request.
func (r *IssueEngravedStockRequest) ToServiceRequest() (ledger.IssueEngravedRequest, error) {
	var req ledger.IssueEngravedRequest

	itemID, err := parseRequiredID(r.ItemID, "itemId")
	if err != nil {
		return req, err
	}
	departmentID, err := parseRequiredID(r.DepartmentID, "departmentId")
	if err != nil {
		return req, err
	}
	employeeID, err := parseRequiredID(r.EmployeeID, "employeeId")
	if err != nil {
		return req, err
	}

	return ledger.IssueEngravedRequest{
		ItemID:         itemID,
		DepartmentID:   departmentID,
		EmployeeID:     employeeID,
		EngravedNumber: r.EngravedNumber,
		VoucherNumber:  r.VoucherNumber,
	}, nil
}

// --- Responses ---

// StockEntryResponse represents a stock ledger entry in API responses.
type StockEntryResponse struct {
	ID           string `json:"id"`
	ItemID       string `json:"itemId"`
	DepartmentID string `json:"departmentId"`

	Quantity  types.Quantity  `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unitCost"`
	TotalCost decimal.Decimal `json:"totalCost"`

	SupplierID     *string `json:"supplierId,omitempty"`
	LPONumber      *string `json:"lpoNumber,omitempty"`
	DeliveryNumber *string `json:"deliveryNumber,omitempty"`

	EngravedNumber *string `json:"engravedNumber,omitempty"`
	Issued         bool    `json:"issued"`

	ExpiryDate       *time.Time `json:"expiryDate,omitempty"`
	DepreciationDate *time.Time `json:"depreciationDate,omitempty"`

	DateAdded time.Time `json:"dateAdded"`
	Condition string    `json:"condition"`

	CreatedAt time.Time `json:"createdAt"`
	CreatedBy string    `json:"createdBy,omitempty"`
}

// FromStockEntry converts entity to response DTO.
func FromStockEntry(e *ledger.StockEntry) *StockEntryResponse {
	resp := &StockEntryResponse{
		ID:               e.ID.String(),
		ItemID:           e.ItemID.String(),
		DepartmentID:     e.DepartmentID.String(),
		Quantity:         e.Quantity,
		UnitCost:         e.UnitCost,
		TotalCost:        e.TotalCost,
		LPONumber:        e.LPONumber,
		DeliveryNumber:   e.DeliveryNumber,
		EngravedNumber:   e.EngravedNumber,
		Issued:           e.Issued,
		ExpiryDate:       e.ExpiryDate,
		DepreciationDate: e.DepreciationDate,
		DateAdded:        e.DateAdded,
		Condition:        e.Condition(time.Now()),
		CreatedAt:        e.CreatedAt,
		CreatedBy:        e.CreatedBy,
	}
	if e.SupplierID != nil {
		s := e.SupplierID.String()
		resp.SupplierID = &s
	}
	return resp
}

// FromStockEntries converts a slice of entries.
func FromStockEntries(entries []*ledger.StockEntry) []*StockEntryResponse {
	out := make([]*StockEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = FromStockEntry(e)
	}
	return out
}

// IssueEntryResponse represents an issuance ledger entry in API responses.
// Unit cost, purchase date and condition are derived from the latest
// delivery of the same item.
type IssueEntryResponse struct {
	ID            string `json:"id"`
	VoucherNumber string `json:"voucherNumber"`

	ItemID       string  `json:"itemId"`
	DepartmentID string  `json:"departmentId"`
	EmployeeID   string  `json:"employeeId"`
	Office       *string `json:"office,omitempty"`

	Quantity       types.Quantity `json:"quantity"`
	EngravedNumber *string        `json:"engravedNumber,omitempty"`

	UnitCost      decimal.Decimal `json:"unitCost"`
	TotalCost     decimal.Decimal `json:"totalCost"`
	DatePurchased *time.Time      `json:"datePurchased,omitempty"`
	Condition     string          `json:"condition"`

	CreatedAt time.Time `json:"createdAt"`
	CreatedBy string    `json:"createdBy,omitempty"`
}

// FromIssueEntry converts entity to response DTO.
func FromIssueEntry(e *ledger.IssueEntry) *IssueEntryResponse {
	return &IssueEntryResponse{
		ID:             e.ID.String(),
		VoucherNumber:  e.VoucherNumber,
		ItemID:         e.ItemID.String(),
		DepartmentID:   e.DepartmentID.String(),
		EmployeeID:     e.EmployeeID.String(),
		Office:         e.Office,
		Quantity:       e.Quantity,
		EngravedNumber: e.EngravedNumber,
		UnitCost:       e.UnitCost,
		TotalCost:      e.TotalCost(),
		DatePurchased:  e.DatePurchased,
		Condition:      e.Condition(time.Now()),
		CreatedAt:      e.CreatedAt,
		CreatedBy:      e.CreatedBy,
	}
}

// FromIssueEntries converts a slice of entries.
func FromIssueEntries(entries []*ledger.IssueEntry) []*IssueEntryResponse {
	out := make([]*IssueEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = FromIssueEntry(e)
	}
	return out
}
