package reports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storekeeper/internal/core/apperror"
	"storekeeper/internal/core/id"
	"storekeeper/internal/domain/ledger"
)

type stubRepo struct {
	totals       DashboardTotals
	inflowRows   []InflowRow
	outflowRows  []OutflowRow
	costRows     []CostRow
	deptRows     []DepartmentRow
	summaryRows  []SummaryRow
	summaryTotal int64
	inflowSeries []TimeBucket
	outflowSer   []TimeBucket
	topItems     []TopItem
	movements    []Movement
	refRows      []ReferenceRow
	remRows      []RemainingRow
}

func (r *stubRepo) GetDashboardTotals(ctx context.Context) (*DashboardTotals, error) {
	t := r.totals
	return &t, nil
}

func (r *stubRepo) GetInflowSeries(ctx context.Context, filter InflowFilter) ([]TimeBucket, error) {
	return r.inflowSeries, nil
}

func (r *stubRepo) GetOutflowSeries(ctx context.Context, filter OutflowFilter) ([]TimeBucket, error) {
	return r.outflowSer, nil
}

func (r *stubRepo) GetTopIssuedItems(ctx context.Context, limit int) ([]TopItem, error) {
	return r.topItems, nil
}

func (r *stubRepo) GetInflowRows(ctx context.Context, filter InflowFilter) ([]InflowRow, error) {
	return r.inflowRows, nil
}

func (r *stubRepo) GetOutflowRows(ctx context.Context, filter OutflowFilter) ([]OutflowRow, error) {
	return r.outflowRows, nil
}

func (r *stubRepo) GetCostRows(ctx context.Context, filter CostFilter) ([]CostRow, error) {
	return r.costRows, nil
}

func (r *stubRepo) GetDepartmentRows(ctx context.Context, filter DateRange) ([]DepartmentRow, error) {
	return r.deptRows, nil
}

func (r *stubRepo) GetSummaryRows(ctx context.Context, filter SummaryFilter) ([]SummaryRow, int64, error) {
	return r.summaryRows, r.summaryTotal, nil
}

func (r *stubRepo) GetRecentMovements(ctx context.Context, limit int) ([]Movement, error) {
	return r.movements, nil
}

func (r *stubRepo) GetReferenceRows(ctx context.Context, kind string, rng DateRange) ([]ReferenceRow, error) {
	return r.refRows, nil
}

func (r *stubRepo) GetRemainingRows(ctx context.Context, rng DateRange) ([]RemainingRow, error) {
	return r.remRows, nil
}

func TestGetInflowShares(t *testing.T) {
	repo := &stubRepo{
		inflowRows: []InflowRow{
			{ItemName: "Paper", Quantity: 10, TotalCost: 750},
			{ItemName: "Toner", Quantity: 2, TotalCost: 250},
		},
	}
	svc := NewService(repo)

	report, err := svc.GetInflow(context.Background(), InflowFilter{})
	require.NoError(t, err)

	assert.Equal(t, int64(12), report.TotalQuantity)
	assert.InDelta(t, 1000.0, report.TotalCost, 1e-9)
	assert.InDelta(t, 75.0, report.Rows[0].Share, 1e-9)
	assert.InDelta(t, 25.0, report.Rows[1].Share, 1e-9)
}

func TestGetInflowEmptyPeriod(t *testing.T) {
	svc := NewService(&stubRepo{})

	report, err := svc.GetInflow(context.Background(), InflowFilter{})
	require.NoError(t, err)

	// No rows means zero totals and no division by zero.
	assert.Zero(t, report.TotalQuantity)
	assert.Zero(t, report.TotalCost)
	assert.Empty(t, report.Rows)
}

func TestGetOutflowZeroValueShares(t *testing.T) {
	repo := &stubRepo{
		outflowRows: []OutflowRow{
			{DepartmentName: "Stores", Quantity: 5, TotalValue: 0},
		},
	}
	svc := NewService(repo)

	report, err := svc.GetOutflow(context.Background(), OutflowFilter{})
	require.NoError(t, err)

	// Items with no intake history carry zero value; shares stay zero
	// rather than dividing by a zero total.
	assert.Equal(t, int64(5), report.TotalQuantity)
	assert.Zero(t, report.TotalValue)
	assert.Zero(t, report.Rows[0].Share)
}

func TestValidateRangeRejectsInvertedBounds(t *testing.T) {
	svc := NewService(&stubRepo{})

	from := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, -1, 0)

	_, err := svc.GetInflow(context.Background(), InflowFilter{DateRange: DateRange{From: &from, To: &to}})
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestGetCostShares(t *testing.T) {
	repo := &stubRepo{
		costRows: []CostRow{
			{ItemName: "Laptop", TotalCost: 9000},
			{ItemName: "Desk", TotalCost: 1000},
		},
	}
	svc := NewService(repo)

	report, err := svc.GetCost(context.Background(), CostFilter{})
	require.NoError(t, err)

	assert.InDelta(t, 10000.0, report.TotalCost, 1e-9)
	assert.InDelta(t, 90.0, report.Rows[0].Share, 1e-9)
	assert.InDelta(t, 10.0, report.Rows[1].Share, 1e-9)
}

func TestGetDepartments(t *testing.T) {
	repo := &stubRepo{
		deptRows: []DepartmentRow{
			{DepartmentName: "ICT", OnHandQuantity: 40, IssuedValue: 600},
			{DepartmentName: "Finance", OnHandQuantity: 10, IssuedValue: 200},
		},
	}
	svc := NewService(repo)

	report, err := svc.GetDepartments(context.Background(), DateRange{})
	require.NoError(t, err)

	assert.Equal(t, int64(50), report.TotalOnHand)
	assert.InDelta(t, 800.0, report.TotalIssuedValue, 1e-9)
	assert.InDelta(t, 75.0, report.Rows[0].Share, 1e-9)
	assert.InDelta(t, 25.0, report.Rows[1].Share, 1e-9)
}

func TestGetSummaryDerivesCondition(t *testing.T) {
	recent := time.Now().AddDate(0, -1, 0)
	aged := time.Now().AddDate(-6, 0, 0)

	repo := &stubRepo{
		summaryRows: []SummaryRow{
			{ItemName: "Paper", OnHand: 20, StockValue: 500, DatePurchased: &recent},
			{ItemName: "Typewriter", OnHand: 1, StockValue: 50, DatePurchased: &aged},
			{ItemName: "Phantom", OnHand: 0, StockValue: 0},
		},
		summaryTotal: 3,
	}
	svc := NewService(repo)

	report, err := svc.GetSummary(context.Background(), SummaryFilter{})
	require.NoError(t, err)

	assert.Equal(t, ledger.ConditionNew, report.Rows[0].Condition)
	assert.Equal(t, ledger.ConditionObsolete, report.Rows[1].Condition)
	assert.Equal(t, ledger.ConditionUnknown, report.Rows[2].Condition)
	assert.Equal(t, int64(21), report.TotalQuantity)
	assert.InDelta(t, 550.0, report.TotalValue, 1e-9)
	assert.Equal(t, int64(3), report.TotalCount)
}

func TestGetCombinedMergesSeries(t *testing.T) {
	repo := &stubRepo{
		inflowSeries: []TimeBucket{
			{Period: "2026-06", Quantity: 10, Value: 100},
			{Period: "2026-07", Quantity: 5, Value: 50},
		},
		outflowSer: []TimeBucket{
			{Period: "2026-07", Quantity: 3, Value: 30},
			{Period: "2026-08", Quantity: 2, Value: 20},
		},
	}
	svc := NewService(repo)

	report, err := svc.GetCombined(context.Background(), DateRange{}, BucketMonth)
	require.NoError(t, err)
	require.Len(t, report.Buckets, 3)

	june := report.Buckets[0]
	assert.Equal(t, "2026-06", june.Period)
	assert.Equal(t, int64(10), june.NetQuantity)

	july := report.Buckets[1]
	assert.Equal(t, "2026-07", july.Period)
	assert.Equal(t, int64(5), july.InflowQuantity)
	assert.Equal(t, int64(3), july.OutflowQuantity)
	assert.Equal(t, int64(2), july.NetQuantity)

	august := report.Buckets[2]
	assert.Equal(t, "2026-08", august.Period)
	assert.Equal(t, int64(-2), august.NetQuantity)

	assert.InDelta(t, 150.0, report.TotalInflowValue, 1e-9)
	assert.InDelta(t, 50.0, report.TotalOutflowValue, 1e-9)
}

func TestGetDashboard(t *testing.T) {
	repo := &stubRepo{
		totals: DashboardTotals{Items: 6, OnHandQuantity: 40, IssuedQuantity: 10},
		topItems: []TopItem{
			{ItemID: id.New(), ItemName: "Paper", Quantity: 30},
		},
		movements: []Movement{
			{Type: "issue", ItemName: "Paper", Quantity: 4},
		},
	}
	svc := NewService(repo)

	report, err := svc.GetDashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(6), report.Totals.Items)
	assert.Equal(t, int64(40), report.Totals.OnHandQuantity)
	assert.InDelta(t, 25.0, report.TurnoverRate, 1e-9)
	require.Len(t, report.TopIssuedItems, 1)
	assert.Equal(t, "Paper", report.TopIssuedItems[0].ItemName)
	require.Len(t, report.RecentMovements, 1)
}

func TestGetDashboardEmptyStock(t *testing.T) {
	svc := NewService(&stubRepo{})

	report, err := svc.GetDashboard(context.Background())
	require.NoError(t, err)

	// Turnover over an empty store is zero, not a division error.
	assert.Zero(t, report.TurnoverRate)
}

func TestGetReferences(t *testing.T) {
	repo := &stubRepo{
		refRows: []ReferenceRow{
			{Reference: "ISS-2026-00001", Entries: 2, Quantity: 5, TotalValue: 120},
			{Reference: "ISS-2026-00002", Entries: 1, Quantity: 1, TotalValue: 30},
		},
	}
	svc := NewService(repo)

	report, err := svc.GetReferences(context.Background(), ReferenceVoucher, DateRange{})
	require.NoError(t, err)

	assert.Equal(t, ReferenceVoucher, report.Kind)
	assert.Equal(t, int64(6), report.TotalQuantity)
	assert.InDelta(t, 150.0, report.TotalValue, 1e-9)
}

func TestGetReferencesRejectsUnknownKind(t *testing.T) {
	svc := NewService(&stubRepo{})

	_, err := svc.GetReferences(context.Background(), "serial", DateRange{})
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestGetRemaining(t *testing.T) {
	repo := &stubRepo{
		remRows: []RemainingRow{
			{ItemName: "Paper", Received: 10, IssuedToDate: 4, Remaining: 6},
			{ItemName: "Toner", Received: 3, IssuedToDate: 3, Remaining: 0},
		},
	}
	svc := NewService(repo)

	report, err := svc.GetRemaining(context.Background(), DateRange{})
	require.NoError(t, err)

	assert.Equal(t, int64(13), report.TotalReceived)
	assert.Equal(t, int64(6), report.TotalRemaining)
}
