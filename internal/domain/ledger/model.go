// Package ledger provides the stock ledger: append-only intake and
// issuance histories plus the operations that keep quantity balances
// consistent with them.
package ledger

import (
	"time"

	"storekeeper/internal/core/entity"
	"storekeeper/internal/core/id"
	"storekeeper/internal/core/types"
)

// Condition classifies a stock unit by age since acquisition.
const (
	ConditionNew      = "Newly Purchased"
	ConditionWorking  = "Functional"
	ConditionObsolete = "Obsolete"

	// ConditionUnknown is reported when an item has no intake history
	// to derive an acquisition date from.
	ConditionUnknown = "No Stock History"
)

const (
	conditionNewMaxDays     = 365
	conditionWorkingMaxDays = 1825
)

// ConditionFor returns the age band for a stock unit acquired at the
// given date. A nil date yields ConditionUnknown.
func ConditionFor(dateAdded *time.Time, now time.Time) string {
	if dateAdded == nil {
		return ConditionUnknown
	}

	age := now.Sub(*dateAdded)
	days := int(age.Hours() / 24)

	switch {
	case days < conditionNewMaxDays:
		return ConditionNew
	case days < conditionWorkingMaxDays:
		return ConditionWorking
	default:
		return ConditionObsolete
	}
}

// StockEntry is one intake (delivery) event. Entries are append-only;
// only the Issued flag of an engraved entry ever changes.
type StockEntry struct {
	entity.LedgerEntry

	ItemID       id.ID `db:"item_id" json:"itemId"`
	DepartmentID id.ID `db:"department_id" json:"departmentId"`

	Quantity  types.Quantity `db:"quantity" json:"quantity"`
	UnitCost  types.Money    `db:"unit_cost" json:"unitCost"`
	TotalCost types.Money    `db:"total_cost" json:"totalCost"`

	SupplierID     *id.ID  `db:"supplier_id" json:"supplierId,omitempty"`
	LPONumber      *string `db:"lpo_number" json:"lpoNumber,omitempty"`
	DeliveryNumber *string `db:"delivery_number" json:"deliveryNumber,omitempty"`

	// EngravedNumber is set only for engraved items; such entries
	// always have Quantity 1.
	EngravedNumber *string `db:"engraved_number" json:"engravedNumber,omitempty"`

	// Issued flips to true once the engraved unit is issued out.
	Issued bool `db:"issued" json:"issued"`

	ExpiryDate       *time.Time `db:"expiry_date" json:"expiryDate,omitempty"`
	DepreciationDate *time.Time `db:"depreciation_date" json:"depreciationDate,omitempty"`

	// DateAdded is the business date of the delivery.
	DateAdded time.Time `db:"date_added" json:"dateAdded"`
}

// Condition returns the age band of this entry at the given time.
func (e *StockEntry) Condition(now time.Time) string {
	return ConditionFor(&e.DateAdded, now)
}

// IssueEntry is one issuance event. UnitCost, DatePurchased and the
// condition are not stored: listings resolve them from the most recent
// StockEntry for the same item at query time.
type IssueEntry struct {
	entity.LedgerEntry

	// VoucherNumber identifies the issuance (IVN).
	VoucherNumber string `db:"voucher_number" json:"voucherNumber"`

	ItemID       id.ID `db:"item_id" json:"itemId"`
	DepartmentID id.ID `db:"department_id" json:"departmentId"`
	EmployeeID   id.ID `db:"employee_id" json:"employeeId"`

	// Office is copied from the employee at issuance time.
	Office *string `db:"office" json:"office,omitempty"`

	Quantity types.Quantity `db:"quantity" json:"quantity"`

	EngravedNumber *string `db:"engraved_number" json:"engravedNumber,omitempty"`

	// Derived from the latest StockEntry for the item; zero values and
	// ConditionUnknown when no intake history exists.
	UnitCost      types.Money `db:"unit_cost" json:"unitCost"`
	DatePurchased *time.Time  `db:"date_purchased" json:"datePurchased,omitempty"`
}

// TotalCost is the derived issued-out cost.
func (e *IssueEntry) TotalCost() types.Money {
	return types.MulQuantity(e.UnitCost, e.Quantity)
}

// Condition returns the derived age band at the given time.
func (e *IssueEntry) Condition(now time.Time) string {
	return ConditionFor(e.DatePurchased, now)
}
