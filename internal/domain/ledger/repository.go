package ledger

import (
	"context"
	"time"

	"storekeeper/internal/core/id"
)

// StockEntryFilter narrows intake history listings.
type StockEntryFilter struct {
	ItemID       *id.ID
	DepartmentID *id.ID
	SupplierID   *id.ID

	LPONumber      *string
	DeliveryNumber *string
	EngravedNumber *string

	// EngravedOnly restricts to serialized entries; Unissued further
	// restricts to units still on hand.
	EngravedOnly bool
	Unissued     bool

	FromDate *time.Time
	ToDate   *time.Time

	Limit  int
	Offset int
}

// IssueEntryFilter narrows issuance history listings.
type IssueEntryFilter struct {
	ItemID       *id.ID
	DepartmentID *id.ID
	EmployeeID   *id.ID

	VoucherNumber  *string
	EngravedNumber *string

	FromDate *time.Time
	ToDate   *time.Time

	Limit  int
	Offset int
}

// Repository defines data access for the stock ledger.
// Mutating methods must run inside a transaction managed by the
// service.
type Repository interface {
	// CreateStockEntry appends one intake row.
	CreateStockEntry(ctx context.Context, entry *StockEntry) error

	// CreateStockEntries appends a batch of intake rows (used for
	// engraved receipts, one row per serial number).
	CreateStockEntries(ctx context.Context, entries []*StockEntry) error

	// GetStockEntry retrieves one intake row by ID.
	GetStockEntry(ctx context.Context, entryID id.ID) (*StockEntry, error)

	// GetLatestStockEntry returns the most recent intake row for an
	// item, preferring the latest date_added and breaking ties by
	// insertion order. Returns nil when the item has no history.
	GetLatestStockEntry(ctx context.Context, itemID id.ID) (*StockEntry, error)

	// ListStockEntries returns intake history, newest first.
	ListStockEntries(ctx context.Context, filter StockEntryFilter) ([]*StockEntry, int64, error)

	// FindUnissuedEngraved returns the un-issued intake row carrying
	// the engraved number for the item, locked for update. Not-found
	// is reported as an error.
	FindUnissuedEngraved(ctx context.Context, itemID id.ID, engravedNumber string) (*StockEntry, error)

	// MarkIssued flips the issued flag on an engraved intake row.
	MarkIssued(ctx context.Context, entryID id.ID) error

	// CountUnissuedEngraved counts un-issued serialized units for an
	// item.
	CountUnissuedEngraved(ctx context.Context, itemID id.ID) (int64, error)

	// EngravedNumberInStock reports whether an un-issued row with the
	// engraved number already exists for the item.
	EngravedNumberInStock(ctx context.Context, itemID id.ID, engravedNumber string) (bool, error)

	// CreateIssueEntry appends one issuance row.
	CreateIssueEntry(ctx context.Context, entry *IssueEntry) error

	// GetIssueEntry retrieves one issuance row with derived cost
	// fields resolved.
	GetIssueEntry(ctx context.Context, entryID id.ID) (*IssueEntry, error)

	// ListIssueEntries returns issuance history, newest first, with
	// derived cost fields resolved from the latest intake row per
	// item.
	ListIssueEntries(ctx context.Context, filter IssueEntryFilter) ([]*IssueEntry, int64, error)

	// HasStockForDepartment reports whether any ledger rows reference
	// the department.
	HasStockForDepartment(ctx context.Context, departmentID id.ID) (bool, error)
}
