package reports

import (
	"context"
)

// Repository defines report data access. Implementations run read-only
// aggregate queries and never mutate ledger state.
type Repository interface {
	GetDashboardTotals(ctx context.Context) (*DashboardTotals, error)
	GetInflowSeries(ctx context.Context, filter InflowFilter) ([]TimeBucket, error)
	GetOutflowSeries(ctx context.Context, filter OutflowFilter) ([]TimeBucket, error)
	GetTopIssuedItems(ctx context.Context, limit int) ([]TopItem, error)

	GetInflowRows(ctx context.Context, filter InflowFilter) ([]InflowRow, error)
	GetOutflowRows(ctx context.Context, filter OutflowFilter) ([]OutflowRow, error)
	GetCostRows(ctx context.Context, filter CostFilter) ([]CostRow, error)
	GetDepartmentRows(ctx context.Context, filter DateRange) ([]DepartmentRow, error)
	GetSummaryRows(ctx context.Context, filter SummaryFilter) ([]SummaryRow, int64, error)

	GetRecentMovements(ctx context.Context, limit int) ([]Movement, error)
	GetReferenceRows(ctx context.Context, kind string, rng DateRange) ([]ReferenceRow, error)
	GetRemainingRows(ctx context.Context, rng DateRange) ([]RemainingRow, error)
}
