// Package reports provides read-only aggregate views over the stock
// ledger. Reports own no state; they reflect committed ledger data at
// query time. Monetary values are converted to float64 at this
// boundary for chart-friendly payloads.
package reports

import (
	"time"

	"storekeeper/internal/core/id"
)

// Bucket granularity for time series.
const (
	BucketDay   = "day"
	BucketMonth = "month"
)

// DateRange bounds a report period. Nil bounds are open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// TimeBucket is one point of a date-bucketed series.
type TimeBucket struct {
	Period   string  `db:"period" json:"period"`
	Quantity int64   `db:"quantity" json:"quantity"`
	Value    float64 `db:"value" json:"value"`
}

// --- Dashboard ---

// Balance rows under this quantity count as low stock on the dashboard.
const LowStockThreshold = 10

// DashboardTotals are the headline counters.
type DashboardTotals struct {
	Items       int64 `db:"items" json:"items"`
	Categories  int64 `db:"categories" json:"categories"`
	Departments int64 `db:"departments" json:"departments"`
	Employees   int64 `db:"employees" json:"employees"`
	Suppliers   int64 `db:"suppliers" json:"suppliers"`

	OnHandQuantity int64   `db:"on_hand_quantity" json:"onHandQuantity"`
	IssuedQuantity int64   `db:"issued_quantity" json:"issuedQuantity"`
	ReceivedValue  float64 `db:"received_value" json:"receivedValue"`
	IssuedValue    float64 `db:"issued_value" json:"issuedValue"`

	LowStockCount     int64 `db:"low_stock_count" json:"lowStockCount"`
	OutOfStockCount   int64 `db:"out_of_stock_count" json:"outOfStockCount"`
	ExpiringSoonCount int64 `db:"expiring_soon_count" json:"expiringSoonCount"`
}

// Movement is one recent ledger event, intake or issuance.
type Movement struct {
	Type           string    `db:"type" json:"type"`
	ItemName       string    `db:"item_name" json:"itemName"`
	DepartmentName string    `db:"department_name" json:"departmentName"`
	Quantity       int64     `db:"quantity" json:"quantity"`
	OccurredAt     time.Time `db:"occurred_at" json:"occurredAt"`
}

// TopItem is one row of the most-issued ranking.
type TopItem struct {
	ItemID   id.ID  `db:"item_id" json:"itemId"`
	ItemName string `db:"item_name" json:"itemName"`
	Quantity int64  `db:"quantity" json:"quantity"`
}

// DashboardReport is the landing page payload.
type DashboardReport struct {
	Totals         DashboardTotals `json:"totals"`
	MonthlyInflow  []TimeBucket    `json:"monthlyInflow"`
	MonthlyOutflow []TimeBucket    `json:"monthlyOutflow"`
	TopIssuedItems []TopItem       `json:"topIssuedItems"`

	// TurnoverRate is issued quantity over on-hand quantity, percent.
	TurnoverRate    float64    `json:"turnoverRate"`
	RecentMovements []Movement `json:"recentMovements"`
}

// --- Inflow ---

// InflowFilter bounds the intake report.
type InflowFilter struct {
	DateRange
	DepartmentID *id.ID
	CategoryID   *id.ID
	SupplierID   *id.ID

	// Bucket selects the series granularity, BucketMonth by default.
	Bucket string
}

// InflowRow aggregates intake per item.
type InflowRow struct {
	ItemID       id.ID  `db:"item_id" json:"itemId"`
	ItemName     string `db:"item_name" json:"itemName"`
	CategoryName string `db:"category_name" json:"categoryName"`

	Quantity  int64   `db:"quantity" json:"quantity"`
	TotalCost float64 `db:"total_cost" json:"totalCost"`

	// Share is this row's percentage of the report's total cost.
	Share float64 `db:"-" json:"share"`
}

// InflowReport summarizes deliveries for a period.
type InflowReport struct {
	Rows   []InflowRow  `json:"rows"`
	Series []TimeBucket `json:"series"`

	TotalQuantity int64   `json:"totalQuantity"`
	TotalCost     float64 `json:"totalCost"`
}

// --- Outflow ---

// OutflowFilter bounds the issuance report.
type OutflowFilter struct {
	DateRange
	DepartmentID *id.ID
	ItemID       *id.ID

	Bucket string
}

// OutflowRow aggregates issuance per department. Values derive unit
// costs from each item's latest intake row.
type OutflowRow struct {
	DepartmentID   id.ID  `db:"department_id" json:"departmentId"`
	DepartmentName string `db:"department_name" json:"departmentName"`

	Quantity   int64   `db:"quantity" json:"quantity"`
	TotalValue float64 `db:"total_value" json:"totalValue"`

	Share float64 `db:"-" json:"share"`
}

// OutflowReport summarizes issuances for a period.
type OutflowReport struct {
	Rows   []OutflowRow `json:"rows"`
	Series []TimeBucket `json:"series"`

	TotalQuantity int64   `json:"totalQuantity"`
	TotalValue    float64 `json:"totalValue"`
}

// --- Cost ---

// CostFilter bounds the cost report.
type CostFilter struct {
	DateRange
	CategoryID *id.ID
}

// CostRow aggregates intake cost per item.
type CostRow struct {
	ItemID       id.ID  `db:"item_id" json:"itemId"`
	ItemName     string `db:"item_name" json:"itemName"`
	CategoryName string `db:"category_name" json:"categoryName"`

	Quantity    int64   `db:"quantity" json:"quantity"`
	AvgUnitCost float64 `db:"avg_unit_cost" json:"avgUnitCost"`
	MaxUnitCost float64 `db:"max_unit_cost" json:"maxUnitCost"`
	TotalCost   float64 `db:"total_cost" json:"totalCost"`

	Share float64 `db:"-" json:"share"`
}

// CostReport summarizes acquisition cost per item.
type CostReport struct {
	Rows      []CostRow `json:"rows"`
	TotalCost float64   `json:"totalCost"`
}

// --- Departments ---

// DepartmentRow aggregates holdings and issuance per department.
type DepartmentRow struct {
	DepartmentID   id.ID  `db:"department_id" json:"departmentId"`
	DepartmentName string `db:"department_name" json:"departmentName"`

	Employees      int64   `db:"employees" json:"employees"`
	DistinctItems  int64   `db:"distinct_items" json:"distinctItems"`
	OnHandQuantity int64   `db:"on_hand_quantity" json:"onHandQuantity"`
	IssuedQuantity int64   `db:"issued_quantity" json:"issuedQuantity"`
	IssuedValue    float64 `db:"issued_value" json:"issuedValue"`

	Share float64 `db:"-" json:"share"`
}

// DepartmentReport breaks ledger state down by department.
type DepartmentReport struct {
	Rows []DepartmentRow `json:"rows"`

	TotalOnHand      int64   `json:"totalOnHand"`
	TotalIssuedValue float64 `json:"totalIssuedValue"`
}

// --- Inventory summary ---

// SummaryFilter bounds the inventory summary.
type SummaryFilter struct {
	DepartmentID *id.ID
	CategoryID   *id.ID
	ExcludeZero  bool

	Limit  int
	Offset int
}

// SummaryRow is the current state of one item in one department.
type SummaryRow struct {
	ItemID         id.ID  `db:"item_id" json:"itemId"`
	ItemName       string `db:"item_name" json:"itemName"`
	CategoryName   string `db:"category_name" json:"categoryName"`
	DepartmentID   id.ID  `db:"department_id" json:"departmentId"`
	DepartmentName string `db:"department_name" json:"departmentName"`

	OnHand         int64      `db:"on_hand" json:"onHand"`
	LatestUnitCost float64    `db:"latest_unit_cost" json:"latestUnitCost"`
	StockValue     float64    `db:"stock_value" json:"stockValue"`
	DatePurchased  *time.Time `db:"date_purchased" json:"datePurchased,omitempty"`

	// Condition is derived from DatePurchased at query time.
	Condition string `db:"-" json:"condition"`
}

// SummaryReport is the paginated inventory summary.
type SummaryReport struct {
	Rows       []SummaryRow `json:"rows"`
	TotalCount int64        `json:"totalCount"`

	TotalQuantity int64   `json:"totalQuantity"`
	TotalValue    float64 `json:"totalValue"`
}

// --- Reference drill-downs ---

// Reference kinds for the drill-down report.
const (
	ReferenceVoucher  = "voucher"
	ReferenceLPO      = "lpo"
	ReferenceDelivery = "delivery"
)

// ReferenceRow aggregates ledger rows sharing one reference number
// (issue voucher, purchase order or delivery note).
type ReferenceRow struct {
	Reference string `db:"reference" json:"reference"`

	Entries    int64      `db:"entries" json:"entries"`
	Items      int64      `db:"items" json:"items"`
	Quantity   int64      `db:"quantity" json:"quantity"`
	TotalValue float64    `db:"total_value" json:"totalValue"`
	FirstDate  *time.Time `db:"first_date" json:"firstDate,omitempty"`
	LastDate   *time.Time `db:"last_date" json:"lastDate,omitempty"`
}

// ReferenceReport lists every reference number of one kind with totals.
// Individual entries are fetched through the ledger listings filtered by
// the reference.
type ReferenceReport struct {
	Kind string         `json:"kind"`
	Rows []ReferenceRow `json:"rows"`

	TotalQuantity int64   `json:"totalQuantity"`
	TotalValue    float64 `json:"totalValue"`
}

// --- Delivered with remaining ---

// RemainingRow pairs one delivery with how much of the item remains on
// hand in the receiving department.
type RemainingRow struct {
	EntryID        id.ID     `db:"entry_id" json:"entryId"`
	ItemID         id.ID     `db:"item_id" json:"itemId"`
	ItemName       string    `db:"item_name" json:"itemName"`
	DepartmentID   id.ID     `db:"department_id" json:"departmentId"`
	DepartmentName string    `db:"department_name" json:"departmentName"`
	DateAdded      time.Time `db:"date_added" json:"dateAdded"`

	Received     int64 `db:"received" json:"received"`
	IssuedToDate int64 `db:"issued_to_date" json:"issuedToDate"`
	Remaining    int64 `db:"remaining" json:"remaining"`
}

// RemainingReport lists deliveries with current remainders.
type RemainingReport struct {
	Rows []RemainingRow `json:"rows"`

	TotalReceived  int64 `json:"totalReceived"`
	TotalRemaining int64 `json:"totalRemaining"`
}

// --- Combined ---

// CombinedBucket pairs inflow and outflow for one period.
type CombinedBucket struct {
	Period string `json:"period"`

	InflowQuantity  int64   `json:"inflowQuantity"`
	InflowValue     float64 `json:"inflowValue"`
	OutflowQuantity int64   `json:"outflowQuantity"`
	OutflowValue    float64 `json:"outflowValue"`

	NetQuantity int64 `json:"netQuantity"`
}

// CombinedReport merges inflow and outflow series over one period.
type CombinedReport struct {
	Buckets []CombinedBucket `json:"buckets"`

	TotalInflowValue  float64 `json:"totalInflowValue"`
	TotalOutflowValue float64 `json:"totalOutflowValue"`
}
