// Package balance provides the stock balance register.
// Balances hold the current on-hand quantity per item and department
// and are maintained together with ledger entries in one transaction.
package balance

import (
	"time"

	"storekeeper/internal/core/id"
	"storekeeper/internal/core/types"
)

// Balance is the current on-hand quantity for an item in a department.
type Balance struct {
	ItemID       id.ID          `db:"item_id" json:"itemId"`
	DepartmentID id.ID          `db:"department_id" json:"departmentId"`
	Quantity     types.Quantity `db:"quantity" json:"quantity"`

	// Dates inherited from the most recent receipt, present only for
	// items that expire or depreciate.
	ExpiryDate       *time.Time `db:"expiry_date" json:"expiryDate,omitempty"`
	DepreciationDate *time.Time `db:"depreciation_date" json:"depreciationDate,omitempty"`

	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// IsZero reports whether the balance holds no stock.
func (b Balance) IsZero() bool {
	return b.Quantity == 0
}
