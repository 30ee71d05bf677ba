package balance

import (
	"context"
	"time"

	"storekeeper/internal/core/id"
	"storekeeper/internal/core/types"
)

// Filter narrows balance listings.
type Filter struct {
	ItemIDs     []id.ID
	ExcludeZero bool
	MinQuantity *types.Quantity
	MaxQuantity *types.Quantity
}

// Repository defines operations for the balance register.
//
// Mutating operations must be called inside a transaction; the row lock
// taken by GetForUpdate is what serializes concurrent receipts and
// issues for the same item and department.
type Repository interface {
	// Get returns the balance row, or a zero balance when none exists.
	Get(ctx context.Context, itemID, departmentID id.ID) (Balance, error)

	// GetForUpdate returns the balance with a row lock.
	// A missing row is returned as a zero balance without locking.
	GetForUpdate(ctx context.Context, itemID, departmentID id.ID) (Balance, error)

	// ApplyDelta adjusts the balance by delta, inserting the row on
	// first receipt. Negative results are a programming error and are
	// rejected by a CHECK constraint.
	ApplyDelta(ctx context.Context, itemID, departmentID id.ID, delta types.Quantity) error

	// UpdateDates overwrites the inherited expiry and depreciation
	// dates from the most recent receipt.
	UpdateDates(ctx context.Context, itemID, departmentID id.ID, expiry, depreciation *time.Time) error

	// ListByDepartment returns balances for a department.
	ListByDepartment(ctx context.Context, departmentID id.ID, filter Filter) ([]Balance, error)

	// ListByItem returns balances across departments for an item.
	ListByItem(ctx context.Context, itemID id.ID) ([]Balance, error)

	// TotalByItem returns the summed quantity for an item across all
	// departments.
	TotalByItem(ctx context.Context, itemID id.ID) (types.Quantity, error)
}
